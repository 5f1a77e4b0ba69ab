package web

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/podgen/internal/podcast"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

const audioContentType = "audio/mp3"

type page struct {
	Topic    string
	MaxTopic int
	Warning  string
	Error    string
	Result   *resultView
}

type resultView struct {
	Script string
	Name   string
	Size   string
	Words  int
	Cached bool
}

func (s *Server) render(c *gin.Context, status int, p page) {
	p.MaxTopic = podcast.MaxTopicRunes
	c.HTML(status, "index.html", p)
}

func (s *Server) index(c *gin.Context) {
	s.render(c, http.StatusOK, page{})
}

func (s *Server) generate(c *gin.Context) {
	topic := c.PostForm("topic")
	fresh := c.PostForm("regenerate") != ""

	// Blank and oversized topics never reach the orchestrator's remote calls.
	if _, err := podcast.ValidateTopic(topic); err != nil {
		s.render(c, http.StatusBadRequest, page{Topic: topic, Warning: podcast.Message(err)})
		return
	}

	id, o := s.session(c)

	res, err := o.Run(c.Request.Context(), podcast.Request{Topic: topic, Fresh: fresh})
	if err != nil {
		log.Error("Podcast generation failed", "session", id, "stage", podcast.StageOf(err), "error", err)
		s.render(c, http.StatusBadGateway, page{Topic: topic, Error: podcast.Message(err)})
		return
	}

	s.render(c, http.StatusOK, page{
		Topic: res.Topic,
		Result: &resultView{
			Script: res.Script,
			Name:   filepath.Base(res.Artifact.Path),
			Size:   humanize.Bytes(uint64(res.Artifact.Size)), //nolint:gosec
			Words:  res.Words(),
			Cached: res.CacheHit,
		},
	})
}

func (s *Server) audio(c *gin.Context) {
	path, ok := s.episodePath(c)
	if !ok {
		return
	}
	c.Header("Content-Type", audioContentType)
	c.File(path)
}

func (s *Server) download(c *gin.Context) {
	path, ok := s.episodePath(c)
	if !ok {
		return
	}
	c.Header("Content-Type", audioContentType)
	c.FileAttachment(path, filepath.Base(path))
}

// episodePath resolves the :name parameter to a file in the output
// directory. Anything that is not an existing episode file is a 404.
func (s *Server) episodePath(c *gin.Context) (string, bool) {
	name := c.Param("name")
	if !podcast.IsEpisodeFilename(name) || name != filepath.Base(name) {
		c.String(http.StatusNotFound, "not found")
		return "", false
	}

	path := filepath.Join(s.cfg.OutputDir, name)
	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("Could not stat episode", "path", path, "error", err)
		}
		c.String(http.StatusNotFound, "not found")
		return "", false
	}
	return path, true
}

// Package web serves the podcast generator as a browser form.
//
// Every browser gets a session cookie; each session has its own orchestrator
// and therefore its own script cache.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/podgen/internal/podcast"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SessionCookie names the cookie carrying the session ID.
const SessionCookie = "podgen_session"

const shutdownTimeout = 5 * time.Second

// Session limits applied when Config leaves them zero.
const (
	DefaultMaxSessions = 256
	DefaultSessionTTL  = time.Hour
)

//go:embed templates/*.html
var templatesFS embed.FS

// SessionFactory builds the orchestrator for a new session.
type SessionFactory func(id string) *podcast.Orchestrator

// Config holds configuration for the server.
type Config struct {
	Addr string

	// OutputDir is the only directory audio is served from.
	OutputDir string

	NewSession SessionFactory

	// MaxSessions caps live sessions; the least recently used one is
	// dropped to make room. SessionTTL drops sessions idle for longer.
	MaxSessions int
	SessionTTL  time.Duration

	// Debug puts gin in debug mode.
	Debug bool
}

// Server is the web front end.
type Server struct {
	cfg    Config
	router *gin.Engine

	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

type session struct {
	orchestrator *podcast.Orchestrator
	lastUsed     time.Time
}

// New creates a server with all routes registered.
func New(cfg Config) (*Server, error) {
	if cfg.NewSession == nil {
		return nil, errors.New("web: NewSession is required")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	router.Use(gin.Recovery(), requestLogger())
	router.SetHTMLTemplate(tmpl)

	s := &Server{
		cfg:      cfg,
		router:   router,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
	s.RegisterRoutes(router)
	return s, nil
}

// RegisterRoutes adds the server's routes to r.
func (s *Server) RegisterRoutes(r gin.IRouter) {
	r.GET("/", s.index)
	r.POST("/generate", s.generate)
	r.GET("/audio/:name", s.audio)
	r.GET("/download/:name", s.download)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Serving podcast generator", "addr", s.cfg.Addr, "output_dir", s.cfg.OutputDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// session returns the orchestrator for the request's session, creating the
// session and setting the cookie when needed. Only requests that run the
// pipeline call it, so browsing the form never allocates a session.
func (s *Server) session(c *gin.Context) (string, *podcast.Orchestrator) {
	id, err := c.Cookie(SessionCookie)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
	}
	// Refresh the cookie on every use; an expired session comes back under
	// the same ID with an empty cache.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, int(s.cfg.SessionTTL/time.Second), "/", "", false, true)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)

	sess, ok := s.sessions[id]
	if !ok {
		if len(s.sessions) >= s.cfg.MaxSessions {
			s.evictOldestLocked()
		}
		sess = &session{orchestrator: s.cfg.NewSession(id)}
		s.sessions[id] = sess
		log.Debug("New session", "session", id, "sessions", len(s.sessions))
	}
	sess.lastUsed = now
	return id, sess.orchestrator
}

// pruneLocked drops sessions idle for longer than the TTL.
func (s *Server) pruneLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed) > s.cfg.SessionTTL {
			delete(s.sessions, id)
			log.Debug("Session expired", "session", id)
		}
	}
}

func (s *Server) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastUsed.Before(oldest) {
			oldestID, oldest = id, sess.lastUsed
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
		log.Debug("Session evicted", "session", oldestID)
	}
}

// Sessions returns the number of live sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	}
}

// Package speech turns a script into an MP3 file on disk.
//
// Audio is written to a temporary file next to the destination and renamed
// into place only after the engine finished successfully, so a failed run
// never leaves a truncated file under the requested name.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// ErrEmptyScript is returned when there is no text to speak.
	ErrEmptyScript = errors.New("script cannot be empty")

	// ErrEmptyAudio is returned when the engine produced zero bytes.
	ErrEmptyAudio = errors.New("engine produced no audio")

	// ErrNoFilename is returned when the destination path is empty.
	ErrNoFilename = errors.New("output filename cannot be empty")
)

// Engine writes synthesized speech for text to w and reports the byte count.
type Engine interface {
	Write(ctx context.Context, w io.Writer, text string) (int64, error)
}

// Artifact is a finished audio file.
type Artifact struct {
	Path string
	Size int64
}

// Synthesizer renders scripts to files through an Engine.
type Synthesizer struct {
	engine Engine
}

// New creates a Synthesizer.
func New(engine Engine) *Synthesizer {
	return &Synthesizer{engine: engine}
}

// Synthesize writes the audio for script to filename, replacing any file
// already there. On error no file is created or replaced.
func (s *Synthesizer) Synthesize(ctx context.Context, script, filename string) (Artifact, error) {
	if strings.TrimSpace(script) == "" {
		return Artifact{}, ErrEmptyScript
	}
	if filename == "" {
		return Artifact{}, ErrNoFilename
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
		return Artifact{}, fmt.Errorf("unable to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*.part")
	if err != nil {
		return Artifact{}, fmt.Errorf("unable to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	start := time.Now()
	n, err := s.engine.Write(ctx, tmp, script)
	if err != nil {
		return Artifact{}, fmt.Errorf("speech synthesis: %w", err)
	}
	if n == 0 {
		return Artifact{}, ErrEmptyAudio
	}

	if err := tmp.Sync(); err != nil {
		return Artifact{}, fmt.Errorf("unable to flush audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Artifact{}, fmt.Errorf("unable to close audio file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec
		return Artifact{}, fmt.Errorf("unable to set file mode: %w", err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return Artifact{}, fmt.Errorf("unable to move audio into place: %w", err)
	}
	committed = true

	log.Debug("Audio saved", "path", filename, "bytes", n, "elapsed", time.Since(start))
	return Artifact{Path: filename, Size: n}, nil
}

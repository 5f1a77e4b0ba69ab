package speech

import (
	"context"
	"io"
	"sync"
)

// MockEngine is an Engine for tests.
type MockEngine struct {
	// Audio is written for every call. Defaults to a fake MP3 header.
	Audio []byte

	// Err is returned after writing PartialBytes bytes of Audio.
	Err          error
	PartialBytes int

	mu    sync.Mutex
	texts []string
}

// Write implements Engine.
func (m *MockEngine) Write(ctx context.Context, w io.Writer, text string) (int64, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	audio := m.Audio
	if audio == nil {
		audio = []byte("ID3\x04\x00\x00\x00\x00\x00\x00fake-mp3-frames")
	}

	if m.Err != nil {
		n, _ := w.Write(audio[:min(m.PartialBytes, len(audio))])
		return int64(n), m.Err
	}

	n, err := w.Write(audio)
	return int64(n), err
}

// Calls returns how many times Write ran.
func (m *MockEngine) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.texts)
}

// Texts returns the texts Write was called with.
func (m *MockEngine) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

var _ Engine = (*MockEngine)(nil)

package script

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a Generator for tests and dry runs.
type Mock struct {
	// Script is returned for every topic when non-empty. Otherwise a
	// canned script mentioning the topic is produced.
	Script string

	// Err, when set, is returned instead of a script.
	Err error

	mu     sync.Mutex
	calls  int
	topics []string
}

// Generate implements Generator.
func (m *Mock) Generate(ctx context.Context, topic string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.topics = append(m.topics, topic)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.Script != "" {
		return m.Script, nil
	}
	return fmt.Sprintf("Hello and welcome to the show. Today we are talking about %s. "+
		"First, a little background. Second, why it matters. "+
		"That's all for today, thanks for listening!", topic), nil
}

// Calls returns how many times Generate ran.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Topics returns the topics Generate was called with.
func (m *Mock) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.topics...)
}

var _ Generator = (*Mock)(nil)

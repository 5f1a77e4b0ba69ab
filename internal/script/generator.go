package script

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

var (
	// ErrEmptyScript is returned when the service answers with no text.
	ErrEmptyScript = errors.New("model returned an empty script")

	// ErrUnknownProvider is returned by New for unsupported providers.
	ErrUnknownProvider = errors.New("unknown script provider")

	// ErrNoAPIKey is returned by New when the credential is empty.
	ErrNoAPIKey = errors.New("API key is required")
)

// Generator produces a podcast script for a topic.
type Generator interface {
	// Generate returns the model's raw text. It never returns an empty
	// string with a nil error.
	Generate(ctx context.Context, topic string) (string, error)
}

// Config selects and configures a backend.
type Config struct {
	Provider string
	APIKey   string
	Model    string

	// BaseURL overrides the service endpoint. Required for ProviderOpenAI,
	// optional for ProviderGemini (tests point it at a local server).
	BaseURL string

	// HTTPClient is used for every request (optional).
	HTTPClient *http.Client
}

// New builds the Generator for cfg.Provider.
func New(ctx context.Context, cfg Config) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGemini(ctx, GeminiConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			HTTPClient: cfg.HTTPClient,
		})
	case ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			HTTPClient: cfg.HTTPClient,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// checkText enforces the no-empty-success rule shared by every backend.
func checkText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyScript
	}
	return text, nil
}

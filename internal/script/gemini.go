package script

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when GeminiConfig.Model is empty.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig holds configuration for the Gemini backend.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Gemini generates scripts with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator.
func NewGemini(ctx context.Context, config GeminiConfig) (*Gemini, error) {
	if config.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if config.Model == "" {
		config.Model = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: config.HTTPClient,
	}
	if config.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Gemini{client: client, model: config.Model}, nil
}

// Generate implements Generator.
func (g *Gemini) Generate(ctx context.Context, topic string) (string, error) {
	log.Debug("Generating script", "provider", ProviderGemini, "model", g.model, "topic", topic)
	start := time.Now()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(topic)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text, err := checkText(resp.Text())
	if err != nil {
		return "", err
	}

	log.Debug("Script generated", "provider", ProviderGemini, "words", WordCount(text), "elapsed", time.Since(start))
	return text, nil
}

// Model returns the configured model identifier.
func (g *Gemini) Model() string {
	return g.model
}

var _ Generator = (*Gemini)(nil)

package script

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds configuration for an OpenAI-compatible backend.
// Gemini exposes such an endpoint, so the same Google API key works.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// OpenAI generates scripts through a chat completion endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI-compatible generator.
func NewOpenAI(config OpenAIConfig) (*OpenAI, error) {
	if config.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if config.BaseURL == "" {
		return nil, errors.New("base URL is required for the openai provider")
	}
	if config.Model == "" {
		config.Model = DefaultGeminiModel
	}

	cc := openai.DefaultConfig(config.APIKey)
	cc.BaseURL = config.BaseURL
	if config.HTTPClient != nil {
		cc.HTTPClient = config.HTTPClient
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(cc),
		model:  config.Model,
	}, nil
}

// Generate implements Generator.
func (o *OpenAI) Generate(ctx context.Context, topic string) (string, error) {
	log.Debug("Generating script", "provider", ProviderOpenAI, "model", o.model, "topic", topic)
	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: Prompt(topic)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyScript
	}

	text, err := checkText(resp.Choices[0].Message.Content)
	if err != nil {
		return "", err
	}

	log.Debug("Script generated", "provider", ProviderOpenAI, "words", WordCount(text), "elapsed", time.Since(start))
	return text, nil
}

// Model returns the configured model identifier.
func (o *OpenAI) Model() string {
	return o.model
}

var _ Generator = (*OpenAI)(nil)

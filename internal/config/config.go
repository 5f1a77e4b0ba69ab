// Package config loads the podgen credential and settings.
//
// The credential comes from the process environment, optionally seeded from a
// .env file. Everything else comes from viper (YAML file, PODGEN_ env vars and
// command line flags).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Supported script providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Defaults.
const (
	DefaultModel             = "gemini-2.5-flash"
	DefaultOpenAIBaseURL     = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultOutputDir         = "."
	DefaultHTTPTimeout       = 60 * time.Second
	DefaultGTTSTLD           = "com"
	DefaultRequestsPerMinute = 50
	DefaultServeAddr         = "127.0.0.1:8501"
	DefaultCacheEntries      = 64
)

var (
	// ErrMissingCredential is returned when GOOGLE_API_KEY is absent.
	ErrMissingCredential = errors.New("Google API key not found: set GOOGLE_API_KEY in your environment or in a .env file")

	// ErrInvalidSettings wraps every settings validation failure.
	ErrInvalidSettings = errors.New("invalid settings")
)

// Credentials holds the single static secret used for script generation.
type Credentials struct {
	GoogleAPIKey string `env:"GOOGLE_API_KEY"`
}

// LoadCredentials reads the credential from the environment after loading
// the given .env files (".env" when none are given). Missing .env files are
// not an error; variables already present in the environment win.
func LoadCredentials(envFiles ...string) (Credentials, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, fmt.Errorf("unable to load %s: %w", f, err)
		}
	}

	creds, err := env.ParseAs[Credentials]()
	if err != nil {
		return Credentials{}, fmt.Errorf("error parsing environment: %w", err)
	}
	if creds.GoogleAPIKey == "" {
		return Credentials{}, ErrMissingCredential
	}
	return creds, nil
}

// Settings are the non-secret knobs.
type Settings struct {
	Provider string
	Model    string
	BaseURL  string

	OutputDir   string
	HTTPTimeout time.Duration

	GTTSTLD           string
	RequestsPerMinute int

	ServeAddr    string
	CacheEntries int

	Debug bool
}

// SetDefaults registers default values for every settings key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("script.provider", ProviderGemini)
	v.SetDefault("script.model", DefaultModel)
	v.SetDefault("script.base_url", DefaultOpenAIBaseURL)
	v.SetDefault("output.dir", DefaultOutputDir)
	v.SetDefault("http.timeout", DefaultHTTPTimeout)
	v.SetDefault("gtts.tld", DefaultGTTSTLD)
	v.SetDefault("gtts.requests_per_minute", DefaultRequestsPerMinute)
	v.SetDefault("serve.addr", DefaultServeAddr)
	v.SetDefault("cache.max_entries", DefaultCacheEntries)
	v.SetDefault("debug", false)
}

// FromViper builds validated Settings from v.
func FromViper(v *viper.Viper) (Settings, error) {
	s := Settings{
		Provider:          v.GetString("script.provider"),
		Model:             v.GetString("script.model"),
		BaseURL:           v.GetString("script.base_url"),
		OutputDir:         v.GetString("output.dir"),
		HTTPTimeout:       v.GetDuration("http.timeout"),
		GTTSTLD:           v.GetString("gtts.tld"),
		RequestsPerMinute: v.GetInt("gtts.requests_per_minute"),
		ServeAddr:         v.GetString("serve.addr"),
		CacheEntries:      v.GetInt("cache.max_entries"),
		Debug:             v.GetBool("debug"),
	}

	dir, err := homedir.Expand(s.OutputDir)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: output.dir: %w", ErrInvalidSettings, err)
	}
	s.OutputDir = dir

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	switch s.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("%w: script.provider must be %q or %q, got %q", ErrInvalidSettings, ProviderGemini, ProviderOpenAI, s.Provider)
	}
	if s.Model == "" {
		return fmt.Errorf("%w: script.model cannot be empty", ErrInvalidSettings)
	}
	if s.Provider == ProviderOpenAI && s.BaseURL == "" {
		return fmt.Errorf("%w: script.base_url is required for the %s provider", ErrInvalidSettings, ProviderOpenAI)
	}
	if s.OutputDir == "" {
		return fmt.Errorf("%w: output.dir cannot be empty", ErrInvalidSettings)
	}
	if s.HTTPTimeout < 0 {
		return fmt.Errorf("%w: http.timeout cannot be negative, got %s", ErrInvalidSettings, s.HTTPTimeout)
	}
	if s.RequestsPerMinute < 1 || s.RequestsPerMinute > 600 {
		return fmt.Errorf("%w: gtts.requests_per_minute must be between 1 and 600, got %d", ErrInvalidSettings, s.RequestsPerMinute)
	}
	if s.CacheEntries < 1 || s.CacheEntries > 10000 {
		return fmt.Errorf("%w: cache.max_entries must be between 1 and 10000, got %d", ErrInvalidSettings, s.CacheEntries)
	}
	return nil
}

// EnsureOutputDir creates the output directory if needed.
func (s Settings) EnsureOutputDir() error {
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil { //nolint:gosec
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgnsrekt/podgen/internal/config"
	"github.com/dgnsrekt/podgen/internal/podcast"
	"github.com/dgnsrekt/podgen/internal/script"
	"github.com/dgnsrekt/podgen/internal/speech"
	"github.com/spf13/viper"
)

func TestDefaultConfigIsValid(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(defaultConfig)); err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}

	s, err := config.FromViper(v)
	if err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if s.Provider != config.ProviderGemini || s.Model != config.DefaultModel {
		t.Errorf("unexpected script settings: %+v", s)
	}
	if config.DefaultModel != script.DefaultGeminiModel {
		t.Errorf("config default %q differs from the generator default %q", config.DefaultModel, script.DefaultGeminiModel)
	}
	if s.HTTPTimeout != config.DefaultHTTPTimeout {
		t.Errorf("timeout: %s", s.HTTPTimeout)
	}
	if s.ServeAddr != config.DefaultServeAddr || s.CacheEntries != config.DefaultCacheEntries {
		t.Errorf("unexpected serve/cache settings: %+v", s)
	}
}

func TestEnsureConfigFile(t *testing.T) {
	old := configFile
	t.Cleanup(func() { configFile = old })

	configFile = filepath.Join(t.TempDir(), "nested", "podgen.yml")
	if err := ensureConfigFile(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != defaultConfig {
		t.Error("default config not written")
	}

	configFile = filepath.Join(t.TempDir(), "podgen.toml")
	if err := ensureConfigFile(); err == nil {
		t.Error("non-YAML config files should be rejected")
	}
}

func TestPrintResult(t *testing.T) {
	oldWidth := width
	t.Cleanup(func() { width = oldWidth })
	width = 40

	res := podcast.Result{
		Topic:    "coffee",
		Script:   "Hello and welcome to the show. Today we talk about coffee and why it matters so much.",
		Artifact: speech.Artifact{Path: filepath.Join(t.TempDir(), "podcast_episode.mp3"), Size: 2048},
	}

	var buf bytes.Buffer
	if err := printResult(&buf, res); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Generated script", "Podcast saved as", res.Artifact.Path, "2.0 kB", "17 words"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Hello") && len(line) > 40 {
			t.Errorf("script not wrapped: %q", line)
		}
	}
}

func TestLoadPipeline_MissingCredential(t *testing.T) {
	// Set but empty, so a .env file cannot fill it in either.
	t.Setenv("GOOGLE_API_KEY", "")

	oldDry, oldSettings := dryRun, settings
	t.Cleanup(func() { dryRun, settings = oldDry, oldSettings })
	dryRun = false
	settings = config.Settings{OutputDir: filepath.Join(t.TempDir(), "episodes")}

	p, err := loadPipeline(context.Background())
	if !errors.Is(err, config.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if p != nil {
		t.Error("no pipeline may be built without a credential")
	}
	if _, err := os.Stat(settings.OutputDir); !errors.Is(err, os.ErrNotExist) {
		t.Error("nothing should be touched before the credential is checked")
	}
}

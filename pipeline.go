package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/podgen/internal/cache"
	"github.com/dgnsrekt/podgen/internal/config"
	"github.com/dgnsrekt/podgen/internal/gtts"
	"github.com/dgnsrekt/podgen/internal/podcast"
	"github.com/dgnsrekt/podgen/internal/script"
	"github.com/dgnsrekt/podgen/internal/speech"
)

// pipeline holds the stage implementations shared by every session.
type pipeline struct {
	settings    config.Settings
	generator   script.Generator
	synthesizer *speech.Synthesizer
}

// newPipeline builds both stages. The credential must already be loaded;
// nothing here talks to the network.
func newPipeline(ctx context.Context, settings config.Settings, creds config.Credentials) (*pipeline, error) {
	httpClient := &http.Client{Timeout: settings.HTTPTimeout}

	var (
		gen script.Generator
		err error
	)
	if dryRun {
		log.Warn("Dry run: using a canned script instead of the model")
		gen = &script.Mock{}
	} else {
		cfg := script.Config{
			Provider:   settings.Provider,
			APIKey:     creds.GoogleAPIKey,
			Model:      settings.Model,
			HTTPClient: httpClient,
		}
		if settings.Provider == config.ProviderOpenAI {
			cfg.BaseURL = settings.BaseURL
		}
		gen, err = script.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("unable to create script generator: %w", err)
		}
	}

	tts := gtts.New(gtts.Config{
		TLD:               settings.GTTSTLD,
		HTTPClient:        httpClient,
		RequestsPerMinute: settings.RequestsPerMinute,
	})

	log.Debug("Pipeline ready",
		"provider", settings.Provider,
		"model", settings.Model,
		"tts_language", tts.Language(),
		"output_dir", settings.OutputDir,
	)

	return &pipeline{
		settings:    settings,
		generator:   gen,
		synthesizer: speech.New(tts),
	}, nil
}

// session returns an orchestrator with its own script cache.
func (p *pipeline) session(id string) *podcast.Orchestrator {
	return podcast.New(p.generator, p.synthesizer,
		podcast.WithOutputDir(p.settings.OutputDir),
		podcast.WithCache(cache.NewScriptCache(id, p.settings.CacheEntries)),
	)
}

// loadPipeline loads the credential and builds the pipeline. A missing
// credential stops here, before any remote call.
func loadPipeline(ctx context.Context) (*pipeline, error) {
	creds, err := config.LoadCredentials()
	if err != nil && !dryRun {
		return nil, err
	}
	if err := settings.EnsureOutputDir(); err != nil {
		return nil, err
	}
	return newPipeline(ctx, settings, creds)
}

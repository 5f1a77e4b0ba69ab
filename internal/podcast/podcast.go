// Package podcast runs the topic -> script -> audio pipeline.
//
// The two stages run strictly in sequence. A failure in either stage ends
// the run with a *Failure naming the stage; audio synthesis is never
// attempted without a script.
package podcast

import (
	"context"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/podgen/internal/cache"
	"github.com/dgnsrekt/podgen/internal/script"
	"github.com/dgnsrekt/podgen/internal/speech"
)

// MaxTopicRunes bounds topic length.
const MaxTopicRunes = 200

// Synthesizer renders a script to an audio file.
type Synthesizer interface {
	Synthesize(ctx context.Context, script, filename string) (speech.Artifact, error)
}

// Request describes one pipeline run.
type Request struct {
	Topic string

	// Filename overrides the derived name. Relative names are placed in
	// the output directory.
	Filename string

	// Fresh skips the script cache and always calls the model. The new
	// script replaces the cached one.
	Fresh bool
}

// Result is a finished episode.
type Result struct {
	Topic    string
	Script   string
	Artifact speech.Artifact

	CacheHit       bool
	GenerationTime time.Duration
	SynthesisTime  time.Duration
}

// Words returns the script word count.
func (r Result) Words() int {
	return script.WordCount(r.Script)
}

// Orchestrator sequences the stages. One Orchestrator belongs to one
// session; its cache is never shared.
type Orchestrator struct {
	generator   script.Generator
	synthesizer Synthesizer
	cache       *cache.ScriptCache
	outputDir   string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCache enables script memoization by exact topic.
func WithCache(c *cache.ScriptCache) Option {
	return func(o *Orchestrator) { o.cache = c }
}

// WithOutputDir sets where derived and relative filenames are written.
func WithOutputDir(dir string) Option {
	return func(o *Orchestrator) { o.outputDir = dir }
}

// New creates an Orchestrator.
func New(generator script.Generator, synthesizer Synthesizer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		generator:   generator,
		synthesizer: synthesizer,
		outputDir:   ".",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ValidateTopic trims topic and checks it.
func ValidateTopic(topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrEmptyTopic
	}
	if utf8.RuneCountInString(topic) > MaxTopicRunes {
		return "", ErrTopicTooLong
	}
	return topic, nil
}

// Script returns the script for topic, from cache when allowed. It is the
// first half of Run and is exposed for callers that only need text.
func (o *Orchestrator) Script(ctx context.Context, topic string, fresh bool) (text string, cached bool, err error) {
	topic, err = ValidateTopic(topic)
	if err != nil {
		return "", false, err
	}

	if o.cache != nil && !fresh {
		if text, ok := o.cache.Get(topic); ok {
			log.Debug("Script cache hit", "topic", topic)
			return text, true, nil
		}
	}

	text, err = o.generator.Generate(ctx, topic)
	if err == nil && strings.TrimSpace(text) == "" {
		err = script.ErrEmptyScript
	}
	if err != nil {
		return "", false, &Failure{Stage: StageGeneration, Err: err}
	}

	if o.cache != nil {
		o.cache.Put(topic, text)
	}
	return text, false, nil
}

// Run executes the pipeline for req.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Result, error) {
	topic, err := ValidateTopic(req.Topic)
	if err != nil {
		return Result{}, err
	}

	log.Info("Generating podcast script", "topic", topic, "fresh", req.Fresh)
	start := time.Now()
	text, cached, err := o.Script(ctx, topic, req.Fresh)
	if err != nil {
		log.Error("Script generation failed", "topic", topic, "error", err)
		return Result{}, err
	}
	res := Result{
		Topic:          topic,
		Script:         text,
		CacheHit:       cached,
		GenerationTime: time.Since(start),
	}

	start = time.Now()
	art, err := o.Render(ctx, topic, text, req.Filename)
	if err != nil {
		return Result{}, err
	}
	res.Artifact = art
	res.SynthesisTime = time.Since(start)

	log.Info("Podcast ready", "path", art.Path, "bytes", art.Size, "cached_script", cached)
	return res, nil
}

// Render synthesizes text for topic into filename (derived from topic when
// empty). It is the second half of Run; text must come from Script.
func (o *Orchestrator) Render(ctx context.Context, topic, text, filename string) (speech.Artifact, error) {
	if strings.TrimSpace(text) == "" {
		return speech.Artifact{}, &Failure{Stage: StageSynthesis, Err: speech.ErrEmptyScript}
	}

	filename = o.resolve(topic, filename)
	log.Info("Converting script text to speech", "path", filename)

	art, err := o.synthesizer.Synthesize(ctx, text, filename)
	if err != nil {
		log.Error("Audio synthesis failed", "path", filename, "error", err)
		return speech.Artifact{}, &Failure{Stage: StageSynthesis, Err: err}
	}
	return art, nil
}

// OutputDir returns the directory episodes are written to.
func (o *Orchestrator) OutputDir() string {
	return o.outputDir
}

// Cache returns the session cache, or nil.
func (o *Orchestrator) Cache() *cache.ScriptCache {
	return o.cache
}

func (o *Orchestrator) resolve(topic, filename string) string {
	if filename == "" {
		filename = Filename(topic)
	}
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(o.outputDir, filename)
}

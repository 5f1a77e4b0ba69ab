package podcast

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgnsrekt/podgen/internal/cache"
	"github.com/dgnsrekt/podgen/internal/script"
	"github.com/dgnsrekt/podgen/internal/speech"
)

func newTestOrchestrator(t *testing.T, gen *script.Mock, engine *speech.MockEngine, opts ...Option) (*Orchestrator, string) {
	t.Helper()
	dir := t.TempDir()
	opts = append([]Option{WithOutputDir(dir)}, opts...)
	return New(gen, speech.New(engine), opts...), dir
}

func TestRun_Success(t *testing.T) {
	gen := &script.Mock{}
	engine := &speech.MockEngine{}
	o, dir := newTestOrchestrator(t, gen, engine)

	res, err := o.Run(context.Background(), Request{Topic: "  The future of renewable energy  "})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Topic != "The future of renewable energy" {
		t.Errorf("topic not trimmed: %q", res.Topic)
	}
	if res.Script == "" {
		t.Error("script should not be empty")
	}
	wantPath := filepath.Join(dir, "podcast_The_future_of_renewa.mp3")
	if res.Artifact.Path != wantPath {
		t.Errorf("path: got %q, want %q", res.Artifact.Path, wantPath)
	}
	if st, err := os.Stat(wantPath); err != nil || st.Size() == 0 {
		t.Errorf("audio file missing or empty: %v", err)
	}
	if texts := engine.Texts(); len(texts) != 1 || texts[0] != res.Script {
		t.Errorf("synthesizer got %v, want the generated script", texts)
	}
	if res.CacheHit {
		t.Error("first run cannot be a cache hit")
	}
	if res.Words() == 0 {
		t.Error("Words should count the script")
	}
}

func TestRun_EmptyTopicMakesNoCalls(t *testing.T) {
	for _, topic := range []string{"", "   ", "\n\t"} {
		gen := &script.Mock{}
		engine := &speech.MockEngine{}
		o, dir := newTestOrchestrator(t, gen, engine)

		_, err := o.Run(context.Background(), Request{Topic: topic})
		if !errors.Is(err, ErrEmptyTopic) {
			t.Errorf("topic %q: expected ErrEmptyTopic, got %v", topic, err)
		}
		if gen.Calls() != 0 || engine.Calls() != 0 {
			t.Errorf("topic %q: remote calls made (gen=%d, tts=%d)", topic, gen.Calls(), engine.Calls())
		}
		if entries, _ := os.ReadDir(dir); len(entries) != 0 {
			t.Errorf("topic %q: files written", topic)
		}
	}
}

func TestRun_TopicTooLong(t *testing.T) {
	gen := &script.Mock{}
	o, _ := newTestOrchestrator(t, gen, &speech.MockEngine{})

	_, err := o.Run(context.Background(), Request{Topic: strings.Repeat("x", MaxTopicRunes+1)})
	if !errors.Is(err, ErrTopicTooLong) {
		t.Fatalf("expected ErrTopicTooLong, got %v", err)
	}
	if gen.Calls() != 0 {
		t.Error("generator should not be called")
	}
}

func TestRun_GenerationFailureSkipsSynthesis(t *testing.T) {
	transport := errors.New("dial tcp: connection refused")
	gen := &script.Mock{Err: transport}
	engine := &speech.MockEngine{}
	o, dir := newTestOrchestrator(t, gen, engine)

	_, err := o.Run(context.Background(), Request{Topic: "coffee"})
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected GenerationFailure, got %v", err)
	}
	if errors.Is(err, ErrSynthesis) {
		t.Error("generation failure must not match ErrSynthesis")
	}
	if !errors.Is(err, transport) {
		t.Error("failure should wrap the transport error")
	}
	if StageOf(err) != StageGeneration {
		t.Errorf("stage: got %q", StageOf(err))
	}
	if !strings.Contains(err.Error(), "script generation") || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("message should name the stage and cause: %q", err.Error())
	}
	if engine.Calls() != 0 {
		t.Error("synthesizer must never be called after a generation failure")
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Error("no file may be written after a generation failure")
	}
}

type emptyGenerator struct{ calls int }

func (g *emptyGenerator) Generate(context.Context, string) (string, error) {
	g.calls++
	return "  ", nil
}

func TestRun_EmptyScriptIsGenerationFailure(t *testing.T) {
	engine := &speech.MockEngine{}
	o := New(&emptyGenerator{}, speech.New(engine), WithOutputDir(t.TempDir()))

	_, err := o.Run(context.Background(), Request{Topic: "coffee"})
	if !errors.Is(err, ErrGeneration) || !errors.Is(err, script.ErrEmptyScript) {
		t.Fatalf("expected empty-script generation failure, got %v", err)
	}
	if engine.Calls() != 0 {
		t.Error("synthesizer must not be called with an empty script")
	}
}

func TestRun_SynthesisFailure(t *testing.T) {
	gen := &script.Mock{}
	engine := &speech.MockEngine{Err: errors.New("HTTP 429"), PartialBytes: 5}
	o, dir := newTestOrchestrator(t, gen, engine)

	_, err := o.Run(context.Background(), Request{Topic: "coffee"})
	if !errors.Is(err, ErrSynthesis) {
		t.Fatalf("expected SynthesisFailure, got %v", err)
	}
	if StageOf(err) != StageSynthesis {
		t.Errorf("stage: got %q", StageOf(err))
	}
	if !strings.Contains(err.Error(), "audio creation") {
		t.Errorf("message should name the stage: %q", err.Error())
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("partial files left: %d", len(entries))
	}
}

func TestRun_Cache(t *testing.T) {
	gen := &script.Mock{}
	engine := &speech.MockEngine{}
	c := cache.NewScriptCache("test", 8)
	o, _ := newTestOrchestrator(t, gen, engine, WithCache(c))
	ctx := context.Background()

	first, err := o.Run(ctx, Request{Topic: "coffee"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := o.Run(ctx, Request{Topic: "coffee"})
	if err != nil {
		t.Fatal(err)
	}

	if gen.Calls() != 1 {
		t.Errorf("repeated topic should hit cache, generator calls: %d", gen.Calls())
	}
	if !second.CacheHit || first.Script != second.Script {
		t.Error("second run should reuse the cached script")
	}
	if engine.Calls() != 2 {
		t.Errorf("audio is synthesized on every run, got %d", engine.Calls())
	}

	if _, err := o.Run(ctx, Request{Topic: "Coffee"}); err != nil {
		t.Fatal(err)
	}
	if gen.Calls() != 2 {
		t.Error("cache keys are exact; a different case is a new topic")
	}

	fresh, err := o.Run(ctx, Request{Topic: "coffee", Fresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheHit || gen.Calls() != 3 {
		t.Error("Fresh must bypass the cache")
	}
}

func TestRun_FailuresAreNotCached(t *testing.T) {
	gen := &script.Mock{Err: errors.New("quota")}
	c := cache.NewScriptCache("test", 8)
	o, _ := newTestOrchestrator(t, gen, &speech.MockEngine{}, WithCache(c))

	_, _ = o.Run(context.Background(), Request{Topic: "coffee"})
	if c.Len() != 0 {
		t.Error("failed generations must not be cached")
	}

	gen.Err = nil
	res, err := o.Run(context.Background(), Request{Topic: "coffee"})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("unexpected cache hit")
	}
}

func TestRun_Filename(t *testing.T) {
	o, dir := newTestOrchestrator(t, &script.Mock{}, &speech.MockEngine{})
	abs := filepath.Join(t.TempDir(), "abs.mp3")

	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"default derived", "", filepath.Join(dir, "podcast_coffee.mp3")},
		{"relative", DefaultFilename, filepath.Join(dir, DefaultFilename)},
		{"absolute", abs, abs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := o.Run(context.Background(), Request{Topic: "coffee", Filename: tt.filename})
			if err != nil {
				t.Fatal(err)
			}
			if res.Artifact.Path != tt.want {
				t.Errorf("path: got %q, want %q", res.Artifact.Path, tt.want)
			}
		})
	}
}

func TestScript_Only(t *testing.T) {
	gen := &script.Mock{Script: "just text"}
	engine := &speech.MockEngine{}
	o, _ := newTestOrchestrator(t, gen, engine)

	text, cached, err := o.Script(context.Background(), "coffee", false)
	if err != nil || text != "just text" || cached {
		t.Fatalf("Script: %q %v %v", text, cached, err)
	}
	if engine.Calls() != 0 {
		t.Error("Script must not synthesize")
	}
}

func TestRender_RefusesEmptyScript(t *testing.T) {
	engine := &speech.MockEngine{}
	o, _ := newTestOrchestrator(t, &script.Mock{}, engine)

	_, err := o.Render(context.Background(), "coffee", " ", "")
	if !errors.Is(err, ErrSynthesis) || !errors.Is(err, speech.ErrEmptyScript) {
		t.Fatalf("expected synthesis failure for empty script, got %v", err)
	}
	if engine.Calls() != 0 {
		t.Error("engine must not be called with an empty script")
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrEmptyTopic, "Please enter a topic to generate the podcast"},
		{&Failure{Stage: StageGeneration, Err: errors.New("quota")}, "An error occurred during script generation: quota"},
		{errors.New("émigré"), "Émigré"},
		{errors.New("Already"), "Already"},
		{errors.New("1 numeric"), "1 numeric"},
	}
	for _, tt := range tests {
		if got := Message(tt.err); got != tt.want {
			t.Errorf("Message(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

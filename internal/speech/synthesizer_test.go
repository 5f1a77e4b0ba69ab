package speech

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgnsrekt/podgen/internal/gtts"
)

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSynthesize_WritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "podcast_The_future_of_renew.mp3")
	engine := &MockEngine{Audio: []byte("mp3-bytes")}

	art, err := New(engine).Synthesize(context.Background(), "Hello listeners.", path)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if art.Path != path || art.Size != int64(len("mp3-bytes")) {
		t.Errorf("artifact: got %+v", art)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "mp3-bytes" {
		t.Errorf("file content: got %q", data)
	}
	if names := listDir(t, dir); len(names) != 1 {
		t.Errorf("temp files left behind: %v", names)
	}
	if got := engine.Texts(); len(got) != 1 || got[0] != "Hello listeners." {
		t.Errorf("engine texts: %v", got)
	}
}

func TestSynthesize_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mp3")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(&MockEngine{Audio: []byte("new")}).Synthesize(context.Background(), "text", path); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("file not overwritten: %q", data)
	}
}

func TestSynthesize_FailureLeavesNoFile(t *testing.T) {
	tests := []struct {
		name   string
		engine *MockEngine
		want   error
	}{
		{
			name:   "engine error after partial write",
			engine: &MockEngine{Audio: []byte("partial-audio"), Err: errors.New("connection reset"), PartialBytes: 4},
		},
		{
			name:   "engine error before any write",
			engine: &MockEngine{Err: errors.New("dns failure")},
		},
		{
			name:   "zero bytes",
			engine: &MockEngine{Audio: []byte{}},
			want:   ErrEmptyAudio,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "out.mp3")

			_, err := New(tt.engine).Synthesize(context.Background(), "some script", path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if names := listDir(t, dir); len(names) != 0 {
				t.Errorf("files left behind: %v", names)
			}
		})
	}
}

func TestSynthesize_FailureKeepsPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mp3")
	if err := os.WriteFile(path, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := &MockEngine{Audio: []byte("garbage"), Err: errors.New("boom"), PartialBytes: 3}
	if _, err := New(engine).Synthesize(context.Background(), "script", path); err == nil {
		t.Fatal("expected error")
	}

	data, _ := os.ReadFile(path)
	if string(data) != "previous" {
		t.Errorf("previous file was modified: %q", data)
	}
}

func TestSynthesize_InputValidation(t *testing.T) {
	engine := &MockEngine{}
	s := New(engine)

	if _, err := s.Synthesize(context.Background(), "  \n", "out.mp3"); !errors.Is(err, ErrEmptyScript) {
		t.Errorf("expected ErrEmptyScript, got %v", err)
	}
	if _, err := s.Synthesize(context.Background(), "text", ""); !errors.Is(err, ErrNoFilename) {
		t.Errorf("expected ErrNoFilename, got %v", err)
	}
	if engine.Calls() != 0 {
		t.Errorf("engine must not be called on invalid input, got %d calls", engine.Calls())
	}
}

func TestSynthesize_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.mp3")

	if _, err := New(&MockEngine{}).Synthesize(context.Background(), "text", path); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file missing: %v", err)
	}
}

func TestSynthesize_WithGTTSClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("frame;"))
	}))
	defer srv.Close()

	client := gtts.New(gtts.Config{BaseURL: srv.URL, RequestsPerMinute: 600, Burst: 100})
	path := filepath.Join(t.TempDir(), "episode.mp3")

	art, err := New(client).Synthesize(context.Background(), "Intro. Body. Outro.", path)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !bytes.Equal(data, []byte("frame;frame;frame;")) {
		t.Errorf("file content: got %q", data)
	}
	if art.Size != int64(len(data)) {
		t.Errorf("size: got %d, want %d", art.Size, len(data))
	}
}

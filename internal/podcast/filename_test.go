package podcast

import (
	"errors"
	"fmt"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"coffee", "coffee"},
		{"the surprising history of coffee", "the_surprising_histo"},
		{"The future of renewable energy", "The_future_of_renewa"},
		{"AC/DC live", "AC_DC_live"},
		{`C:\temp`, "C:_temp"},
		{"café au lait et croissants", "café_au_lait_et_croi"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"The future of renewable energy",
		"already_sanitized_topic_name",
		"  leading and trailing  ",
		"日本の 歴史 と 文化 について の ポッドキャスト",
		"../../etc/passwd",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("The future of renewable energy"); got != "podcast_The_future_of_renewa.mp3" {
		t.Errorf("Filename: got %q", got)
	}
	if got := Filename("../../etc/passwd"); !IsEpisodeFilename(got) {
		t.Errorf("derived name %q should be a safe episode filename", got)
	}
}

func TestIsEpisodeFilename(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"podcast_coffee.mp3", true},
		{DefaultFilename, true},
		{"podcast_.mp3", false},
		{"coffee.mp3", false},
		{"podcast_coffee.wav", false},
		{"../podcast_coffee.mp3", false},
		{"sub/podcast_coffee.mp3", false},
		{`sub\podcast_coffee.mp3`, false},
	}
	for _, tt := range tests {
		if got := IsEpisodeFilename(tt.name); got != tt.want {
			t.Errorf("IsEpisodeFilename(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFailure(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", &Failure{Stage: StageSynthesis, Err: cause})

	if !errors.Is(err, ErrSynthesis) || errors.Is(err, ErrGeneration) {
		t.Error("stage matching through wrapping failed")
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable")
	}
	if StageOf(err) != StageSynthesis {
		t.Errorf("StageOf: got %q", StageOf(err))
	}
	if StageOf(cause) != "" {
		t.Error("StageOf should be empty for plain errors")
	}
}

package podcast

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyTopic is returned before any remote call when the topic is blank.
	ErrEmptyTopic = errors.New("please enter a topic to generate the podcast")

	// ErrTopicTooLong is returned when the topic exceeds MaxTopicRunes.
	ErrTopicTooLong = fmt.Errorf("topic is longer than %d characters", MaxTopicRunes)

	// ErrGeneration matches every script generation Failure.
	ErrGeneration = errors.New("script generation failed")

	// ErrSynthesis matches every audio synthesis Failure.
	ErrSynthesis = errors.New("audio synthesis failed")
)

// Stage identifies a pipeline stage.
type Stage string

const (
	StageGeneration Stage = "generation"
	StageSynthesis  Stage = "synthesis"
)

// Failure is the terminal error of a pipeline stage. Failures are never
// retried.
type Failure struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	switch f.Stage {
	case StageGeneration:
		return fmt.Sprintf("an error occurred during script generation: %v", f.Err)
	case StageSynthesis:
		return fmt.Sprintf("an error occurred during audio creation: %v", f.Err)
	default:
		return fmt.Sprintf("%s: %v", f.Stage, f.Err)
	}
}

// Unwrap returns the underlying error.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Is makes errors.Is(err, ErrGeneration) and errors.Is(err, ErrSynthesis)
// match on the stage.
func (f *Failure) Is(target error) bool {
	switch target {
	case ErrGeneration:
		return f.Stage == StageGeneration
	case ErrSynthesis:
		return f.Stage == StageSynthesis
	}
	return false
}

// StageOf returns the failed stage of err, or "" when err is not a Failure.
func StageOf(err error) Stage {
	var f *Failure
	if errors.As(err, &f) {
		return f.Stage
	}
	return ""
}

// Message formats err as a sentence for display.
func Message(err error) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}

package audio

import "errors"

// PlayerState represents the current state of the player.
type PlayerState int32

const (
	StateStopped PlayerState = iota
	StatePlaying
	StateClosed
)

func (s PlayerState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	// ErrPlaybackUnavailable is returned by builds without audio output.
	ErrPlaybackUnavailable = errors.New("audio playback not available in this build")

	// ErrPlayerClosed is returned after Close.
	ErrPlayerClosed = errors.New("player is closed")
)

//go:build nocgo
// +build nocgo

package audio

import "sync/atomic"

// Player is a stub for builds without CGO; Play always fails.
type Player struct {
	state atomic.Int32
}

// NewPlayer creates a stub player.
func NewPlayer() *Player {
	return &Player{}
}

// Play returns ErrPlaybackUnavailable.
func (p *Player) Play(string) error {
	if PlayerState(p.state.Load()) == StateClosed {
		return ErrPlayerClosed
	}
	return ErrPlaybackUnavailable
}

// Stop does nothing.
func (p *Player) Stop() error { return nil }

// IsPlaying is always false.
func (p *Player) IsPlaying() bool { return false }

// State returns the player state.
func (p *Player) State() PlayerState {
	return PlayerState(p.state.Load())
}

// Close marks the player closed.
func (p *Player) Close() error {
	p.state.Store(int32(StateClosed))
	return nil
}

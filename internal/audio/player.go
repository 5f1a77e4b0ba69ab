//go:build !nocgo
// +build !nocgo

package audio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/go-mp3"
)

// oto allows a single context per process, created at the sample rate of
// the first file played.
var (
	otoOnce    sync.Once
	otoContext *oto.Context
	otoRate    int
	otoErr     error
)

func sharedContext(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			otoErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-ready
		otoContext = ctx
		otoRate = sampleRate
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if sampleRate != otoRate {
		return nil, fmt.Errorf("sample rate %d Hz differs from the audio device rate %d Hz", sampleRate, otoRate)
	}
	return otoContext, nil
}

// Player plays MP3 files.
type Player struct {
	state atomic.Int32

	mu     sync.Mutex
	player *oto.Player
	data   []byte // keep the encoded file alive while the decoder reads it
}

// NewPlayer creates a player. The audio device is opened on first Play.
func NewPlayer() *Player {
	return &Player{}
}

// Play stops any current playback and starts playing the file at path.
func (p *Player) Play(path string) error {
	if PlayerState(p.state.Load()) == StateClosed {
		return ErrPlayerClosed
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read audio: %w", err)
	}
	if len(data) == 0 {
		return errors.New("audio file is empty")
	}

	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("unable to decode mp3: %w", err)
	}

	ctx, err := sharedContext(d.SampleRate())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.data = data
	p.player = ctx.NewPlayer(d)
	p.player.Play()
	p.state.Store(int32(StatePlaying))

	log.Debug("Playing audio", "path", path, "sample_rate", d.SampleRate())
	return nil
}

// Stop halts playback.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	return nil
}

// IsPlaying reports whether audio is still being played.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player == nil {
		return false
	}
	if !p.player.IsPlaying() {
		p.stopLocked()
		return false
	}
	return true
}

// State returns the player state.
func (p *Player) State() PlayerState {
	return PlayerState(p.state.Load())
}

// Close stops playback. The player cannot be reused.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.state.Store(int32(StateClosed))
	return nil
}

func (p *Player) stopLocked() {
	if p.player != nil {
		p.player.Pause()
		_ = p.player.Close()
		p.player = nil
	}
	p.data = nil
	if PlayerState(p.state.Load()) != StateClosed {
		p.state.Store(int32(StateStopped))
	}
}

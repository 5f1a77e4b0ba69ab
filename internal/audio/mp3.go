package audio

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// bytesPerFrame is what go-mp3 decodes to: 16-bit stereo.
const bytesPerFrame = 4

// Info describes an MP3 file.
type Info struct {
	SampleRate int
	Duration   time.Duration
}

// Probe decodes the MP3 at path far enough to report its length.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("unable to open audio: %w", err)
	}
	defer f.Close() //nolint:errcheck

	return probe(f)
}

func probe(r io.Reader) (Info, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return Info{}, fmt.Errorf("unable to decode mp3: %w", err)
	}

	info := Info{SampleRate: d.SampleRate()}
	if n := d.Length(); n > 0 && info.SampleRate > 0 {
		frames := n / bytesPerFrame
		info.Duration = time.Duration(frames) * time.Second / time.Duration(info.SampleRate)
	}
	return info, nil
}

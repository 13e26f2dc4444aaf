// Package audio plays short one-shot sound cues through the system speaker.
package audio

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// speakerLatency is the length of the speaker's internal buffer.
const speakerLatency = time.Second / 10

var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

// Cue is a decoded sound that can be played any number of times.
type Cue interface {
	// Play starts a new playback of the cue. Overlapping playbacks are mixed.
	Play()

	// Duration returns the length of the cue.
	//
	// Returns:
	//   - time.Duration: playback length
	Duration() time.Duration
}

type bufferedCue struct {
	buffer *beep.Buffer
	rate   beep.SampleRate
}

var _ Cue = &bufferedCue{}

// NewWavCue decodes a WAV file into memory and prepares the speaker for playback.
// The speaker is initialised once per process at the sample rate of the first cue;
// later cues with a different rate are resampled on playback.
//
// Parameters:
//   - path: the WAV file to load
//
// Returns:
//   - Cue: the loaded cue
//   - error: error if the file cannot be read or decoded, or the speaker cannot start
func NewWavCue(path string) (Cue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cue %s: %w", path, err)
	}
	defer f.Close()

	buffer, err := DecodeWav(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cue %s: %w", path, err)
	}

	speakerOnce.Do(func() {
		speakerRate = buffer.Format().SampleRate
		speakerErr = speaker.Init(speakerRate, speakerRate.N(speakerLatency))
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("failed to initialise speaker: %w", speakerErr)
	}

	return &bufferedCue{buffer: buffer, rate: speakerRate}, nil
}

// LoadCue loads a WAV cue, logging and falling back to a silent cue when the file is
// missing or unplayable.
//
// Parameters:
//   - path: the WAV file to load, empty for a silent cue
//
// Returns:
//   - Cue: the loaded cue or a silent one
func LoadCue(path string) Cue {
	if path == "" {
		return NopCue{}
	}
	cue, err := NewWavCue(path)
	if err != nil {
		log.Printf("audio: %v; cue disabled", err)
		return NopCue{}
	}
	return cue
}

// DecodeWav reads an entire WAV stream into a replayable buffer.
//
// Parameters:
//   - r: the WAV stream
//
// Returns:
//   - *beep.Buffer: the decoded samples
//   - error: error if the stream is not valid WAV
func DecodeWav(r io.Reader) (*beep.Buffer, error) {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, err
	}
	return buffer, nil
}

func (c *bufferedCue) Play() {
	var s beep.Streamer = c.buffer.Streamer(0, c.buffer.Len())
	if src := c.buffer.Format().SampleRate; src != c.rate {
		s = beep.Resample(4, src, c.rate, s)
	}
	speaker.Play(s)
}

func (c *bufferedCue) Duration() time.Duration {
	return c.buffer.Format().SampleRate.D(c.buffer.Len())
}

// NopCue is a silent Cue.
type NopCue struct{}

func (NopCue) Play() {}

func (NopCue) Duration() time.Duration { return 0 }

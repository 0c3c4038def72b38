package audiofile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotWAV            = errors.New("audiofile: not a WAV file")
	ErrNotAIFF           = errors.New("audiofile: not an AIFF file")
	ErrUnsupportedFormat = errors.New("audiofile: unsupported format")
	ErrEmptyClip         = errors.New("audiofile: clip has no channels")
)

// Clip is decoded audio, one slice per channel, normalized to [-1, 1].
type Clip struct {
	SampleRate int
	Channels   [][]float64
}

// NewClip returns a silent clip.
func NewClip(sampleRate, channels, frames int) Clip {
	c := Clip{SampleRate: sampleRate, Channels: make([][]float64, channels)}
	for ch := range c.Channels {
		c.Channels[ch] = make([]float64, frames)
	}
	return c
}

// Frames returns the length of the shortest channel.
func (c Clip) Frames() int {
	if len(c.Channels) == 0 {
		return 0
	}
	n := len(c.Channels[0])
	for _, ch := range c.Channels[1:] {
		if len(ch) < n {
			n = len(ch)
		}
	}
	return n
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(c.Frames()) / float64(c.SampleRate)
}

// ReadFile decodes the file at path, choosing the decoder by extension.
func ReadFile(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, err
	}
	defer f.Close()

	var clip Clip
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		clip, err = ReadWAV(f)
	case ".aif", ".aiff":
		clip, err = ReadAIFF(f)
	case ".mp3":
		clip, err = ReadMP3(f)
	case ".ogg", ".oga":
		clip, err = ReadVorbis(f)
	default:
		return Clip{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Clip{}, fmt.Errorf("%s: %w", path, err)
	}
	return clip, nil
}

// WriteFile writes clip to path as 16-bit PCM WAV.
func WriteFile(path string, clip Clip) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, clip); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// deinterleave splits interleaved samples into channels, dividing by scale.
func deinterleave(data []int, channels int, scale float64) [][]float64 {
	frames := len(data) / channels
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := range out {
			out[ch][i] = float64(data[i*channels+ch]) / scale
		}
	}
	return out
}

// fullScale is the magnitude that maps to 1.0 for a PCM bit depth.
func fullScale(bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return 128
	case 24:
		return 8388608
	case 32:
		return 2147483648
	default:
		return 32768
	}
}

package audiofile

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const outputBitDepth = 16

// ReadWAV decodes a PCM WAV stream.
func ReadWAV(r io.ReadSeeker) (Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Clip{}, ErrNotWAV
	}
	if err := dec.FwdToPCM(); err != nil {
		return Clip{}, fmt.Errorf("seek to PCM data: %w", err)
	}

	format := dec.Format()
	bitDepth := int(dec.SampleBitDepth())
	if bitDepth == 0 || format == nil || format.NumChannels <= 0 {
		return Clip{}, fmt.Errorf("%w: missing format chunk", ErrNotWAV)
	}

	bytesPerSample := (bitDepth-1)/8 + 1
	samples := int(dec.PCMLen()) / bytesPerSample
	buf := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, samples),
		SourceBitDepth: bitDepth,
	}
	n, err := dec.PCMBuffer(buf)
	if err != nil {
		return Clip{}, fmt.Errorf("decode PCM: %w", err)
	}

	return Clip{
		SampleRate: format.SampleRate,
		Channels:   deinterleave(buf.Data[:n], format.NumChannels, fullScale(bitDepth)),
	}, nil
}

// WriteWAV encodes clip as 16-bit PCM. Samples outside [-1, 1] are clipped.
func WriteWAV(w io.WriteSeeker, clip Clip) error {
	channels := len(clip.Channels)
	if channels == 0 {
		return ErrEmptyClip
	}
	frames := clip.Frames()

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  clip.SampleRate,
		},
		Data:           make([]int, frames*channels),
		SourceBitDepth: outputBitDepth,
	}
	for i := 0; i < frames; i++ {
		for ch, samples := range clip.Channels {
			buf.Data[i*channels+ch] = toPCM16(samples[i])
		}
	}

	enc := wav.NewEncoder(w, clip.SampleRate, outputBitDepth, channels, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode PCM: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish WAV: %w", err)
	}
	return nil
}

func toPCM16(x float64) int {
	if math.IsNaN(x) {
		return 0
	}
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return int(math.Round(x * 32767))
}

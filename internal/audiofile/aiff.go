package audiofile

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

const aiffChunkFrames = 4096

// ReadAIFF decodes a PCM AIFF stream.
func ReadAIFF(r io.ReadSeeker) (Clip, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return Clip{}, ErrNotAIFF
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return Clip{}, fmt.Errorf("%w: missing COMM chunk", ErrNotAIFF)
	}
	bitDepth := int(dec.BitDepth)
	channels := format.NumChannels

	buf := &audio.IntBuffer{
		Format: format,
		Data:   make([]int, aiffChunkFrames*channels),
	}
	var data []int
	for {
		n, err := dec.PCMBuffer(buf)
		data = append(data, buf.Data[:n]...)
		if err != nil && err != io.EOF {
			return Clip{}, fmt.Errorf("decode PCM: %w", err)
		}
		if n == 0 || err == io.EOF {
			break
		}
	}

	return Clip{
		SampleRate: format.SampleRate,
		Channels:   deinterleave(data, channels, fullScale(bitDepth)),
	}, nil
}

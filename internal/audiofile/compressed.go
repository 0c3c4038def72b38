package audiofile

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// mp3Channels is fixed: go-mp3 always decodes to interleaved stereo.
const mp3Channels = 2

// ReadMP3 decodes an MP3 stream to a stereo clip.
func ReadMP3(r io.Reader) (Clip, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return Clip{}, fmt.Errorf("mp3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return Clip{}, fmt.Errorf("mp3: %w", err)
	}

	samples := len(raw) / 2
	data := make([]int, samples)
	for i := range data {
		data[i] = int(int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8))
	}

	return Clip{
		SampleRate: dec.SampleRate(),
		Channels:   deinterleave(data, mp3Channels, fullScale(16)),
	}, nil
}

// ReadVorbis decodes an Ogg Vorbis stream.
func ReadVorbis(r io.Reader) (Clip, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return Clip{}, fmt.Errorf("vorbis: %w", err)
	}

	channels := dec.Channels()
	if channels <= 0 {
		return Clip{}, fmt.Errorf("%w: vorbis stream without channels", ErrUnsupportedFormat)
	}

	out := make([][]float64, channels)
	buf := make([]float32, 4096*channels)
	for {
		n, err := dec.Read(buf)
		n -= n % channels
		for i := 0; i < n; i += channels {
			for ch := range out {
				out[ch] = append(out[ch], float64(buf[i+ch]))
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Clip{}, fmt.Errorf("vorbis: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return Clip{SampleRate: dec.SampleRate(), Channels: out}, nil
}

package testutil

// Processor is anything that renders a device callback.
type Processor interface {
	Process(in, out [][]float64)
}

// NewBlock allocates a zeroed non-interleaved block.
func NewBlock(channels, frames int) [][]float64 {
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}
	return out
}

// Multi returns signal duplicated onto channels channels.
func Multi(signal []float64, channels int) [][]float64 {
	out := NewBlock(channels, len(signal))
	for ch := range out {
		copy(out[ch], signal)
	}
	return out
}

// Drive feeds input to p in blocks of blockSize frames and returns the
// concatenated output with outChannels channels. before, if non-nil, runs
// ahead of each callback with the block index and its first frame, which
// is where tests issue control commands.
func Drive(p Processor, input [][]float64, outChannels, blockSize int, before func(block, frame int)) [][]float64 {
	frames := 0
	if len(input) > 0 {
		frames = len(input[0])
	}
	out := NewBlock(outChannels, frames)
	in := make([][]float64, len(input))
	dst := make([][]float64, outChannels)

	for block, start := 0, 0; start < frames; block, start = block+1, start+blockSize {
		end := start + blockSize
		if end > frames {
			end = frames
		}
		if before != nil {
			before(block, start)
		}
		for ch := range in {
			in[ch] = input[ch][start:end]
		}
		for ch := range dst {
			dst[ch] = out[ch][start:end]
		}
		p.Process(in, dst)
	}
	return out
}

package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// EnsureChannels returns a channel set with the requested channel count where
// every channel has length n. Existing channel storage is reused when large enough.
func EnsureChannels(blocks [][]float64, channels, n int) [][]float64 {
	if channels <= 0 {
		return blocks[:0]
	}
	if cap(blocks) >= channels {
		blocks = blocks[:channels]
	} else {
		grown := make([][]float64, channels)
		copy(grown, blocks)
		blocks = grown
	}
	for ch := range blocks {
		blocks[ch] = EnsureLen(blocks[ch], n)
	}
	return blocks
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// ZeroChannels zeroes every channel in blocks.
func ZeroChannels(blocks [][]float64) {
	for _, ch := range blocks {
		Zero(ch)
	}
}

// Frames returns the frame count shared by all channels in blocks: the
// shortest channel length, or 0 when blocks is empty.
func Frames(blocks [][]float64) int {
	if len(blocks) == 0 {
		return 0
	}
	n := len(blocks[0])
	for _, ch := range blocks[1:] {
		if len(ch) < n {
			n = len(ch)
		}
	}
	return n
}

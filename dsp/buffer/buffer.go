package buffer

import (
	"errors"
	"fmt"
)

// ErrCapacityLimit is returned by Grow when the requested size exceeds the
// caller's limit.
var ErrCapacityLimit = errors.New("buffer: capacity limit exceeded")

// Buffer is a multi-channel sample store with contiguous storage per channel.
//
// Capacity is the allocated number of samples per channel; Len is the logical
// number of valid samples and never exceeds Capacity. Growth preserves every
// written sample and zero-fills the new region.
type Buffer struct {
	data   [][]float64
	length int
}

// New returns a zero-filled Buffer with the given geometry and length 0.
func New(channels, capacity int) *Buffer {
	b := &Buffer{}
	b.EnsureCapacity(channels, capacity)
	return b
}

// Channels returns the number of channels.
func (b *Buffer) Channels() int {
	return len(b.data)
}

// Cap returns the allocated capacity in samples per channel.
func (b *Buffer) Cap() int {
	if len(b.data) == 0 {
		return 0
	}
	return len(b.data[0])
}

// Len returns the number of valid samples per channel.
func (b *Buffer) Len() int {
	return b.length
}

// SetLen sets the valid length, clamped to [0, Cap()].
func (b *Buffer) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	if c := b.Cap(); n > c {
		n = c
	}
	b.length = n
}

// Reset marks the buffer empty. Storage is kept.
func (b *Buffer) Reset() {
	b.length = 0
}

// EnsureCapacity guarantees at least channels channels of at least minSamples
// samples each. Existing samples are preserved and new storage is zero. The
// buffer never shrinks. It reports whether any storage was reallocated.
func (b *Buffer) EnsureCapacity(channels, minSamples int) bool {
	if channels < 0 {
		channels = 0
	}
	if minSamples < 0 {
		minSamples = 0
	}

	capacity := b.Cap()
	if minSamples < capacity {
		minSamples = capacity
	}

	grown := false
	if channels > len(b.data) {
		data := make([][]float64, channels)
		copy(data, b.data)
		for ch := len(b.data); ch < channels; ch++ {
			data[ch] = make([]float64, minSamples)
		}
		b.data = data
		grown = true
	}

	if minSamples > capacity {
		for ch, samples := range b.data {
			if len(samples) >= minSamples {
				continue
			}
			s := make([]float64, minSamples)
			copy(s, samples)
			b.data[ch] = s
		}
		grown = true
	}

	return grown
}

// Grow doubles capacity until it covers minSamples, clamped to limit. It is
// the amortized O(1) growth used for append-only writes. A limit <= 0 means
// unlimited. Grow returns ErrCapacityLimit without touching the buffer when
// minSamples exceeds limit.
func (b *Buffer) Grow(minSamples, limit int) (bool, error) {
	capacity := b.Cap()
	if minSamples <= capacity {
		return false, nil
	}
	if limit > 0 && minSamples > limit {
		return false, fmt.Errorf("%w: need %d samples, limit %d", ErrCapacityLimit, minSamples, limit)
	}

	next := capacity
	if next < 1 {
		next = 1
	}
	for next < minSamples {
		next *= 2
	}
	if limit > 0 && next > limit {
		next = limit
	}

	return b.EnsureCapacity(len(b.data), next), nil
}

// WriteFrom copies count samples of every destination channel from src,
// starting at srcOffset in src and dstOffset in b. Destination channel ch is
// fed by source channel ch % len(src), so a mono source fills every channel
// of a stereo buffer. The valid length is extended to cover the write.
//
// Writing past Cap() panics like an out-of-range slice access; callers size
// the buffer first with EnsureCapacity or Grow.
func (b *Buffer) WriteFrom(src [][]float64, srcOffset, dstOffset, count int) {
	if count <= 0 || len(src) == 0 {
		return
	}
	for ch, dst := range b.data {
		copy(dst[dstOffset:dstOffset+count], src[ch%len(src)][srcOffset:srcOffset+count])
	}
	if end := dstOffset + count; end > b.length {
		b.length = end
	}
}

// CopyFrom is WriteFrom with the valid region of another Buffer as source.
func (b *Buffer) CopyFrom(other *Buffer, srcOffset, dstOffset, count int) {
	if other == nil {
		return
	}
	if srcOffset+count > other.length {
		count = other.length - srcOffset
	}
	b.WriteFrom(other.data, srcOffset, dstOffset, count)
}

// Read returns one sample, or 0 when channel or offset is outside the valid region.
func (b *Buffer) Read(channel, offset int) float64 {
	if channel < 0 || channel >= len(b.data) || offset < 0 || offset >= b.length {
		return 0
	}
	return b.data[channel][offset]
}

// Channel returns the valid prefix of one channel. The slice aliases the buffer.
func (b *Buffer) Channel(ch int) []float64 {
	if ch < 0 || ch >= len(b.data) {
		return nil
	}
	return b.data[ch][:b.length]
}

// Zero clears all storage and resets the valid length.
func (b *Buffer) Zero() {
	for _, samples := range b.data {
		for i := range samples {
			samples[i] = 0
		}
	}
	b.length = 0
}

// Swap exchanges storage and valid length with other in O(1).
func (b *Buffer) Swap(other *Buffer) {
	b.data, other.data = other.data, b.data
	b.length, other.length = other.length, b.length
}

// Copy returns a deep copy of the valid region.
func (b *Buffer) Copy() *Buffer {
	c := New(len(b.data), b.length)
	c.CopyFrom(b, 0, 0, b.length)
	return c
}

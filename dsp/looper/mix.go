package looper

import (
	"github.com/cwbudde/algo-vecmath"
)

// passthrough writes in*gain to out for frames [offset, offset+n).
func (e *Engine) passthrough(in, out [][]float64, offset, n int, gain float64) {
	for ch, dst := range out {
		src := in[ch%len(in)]
		vecmath.ScaleBlock(dst[offset:offset+n], src[offset:offset+n], gain)
	}
}

// mixLoop mixes the loop into n output frames, splitting the block into
// segments that end exactly at the loop boundary so a wrap never falls
// inside a segment.
func (e *Engine) mixLoop(in, out [][]float64, n, loopLen int, inputGain, loopGain float64) {
	fade := effectiveCrossfade(e.crossfade, loopLen)

	pos := e.readPos
	if pos < 0 || pos >= loopLen {
		pos = 0
	}

	for offset := 0; offset < n; {
		remaining := loopLen - pos
		seg := n - offset
		if seg > remaining {
			seg = remaining
		}

		e.mixSegment(in, out, offset, seg, pos, remaining, fade, inputGain, loopGain)
		offset += seg

		if seg == remaining {
			// The head [0, fade) was already played inside the tail blend.
			pos = fade
			e.stats.wraps.Add(1)
		} else {
			pos += seg
		}
	}

	e.readPos = pos
	e.readPosPub.Store(int64(pos))
}

// mixSegment renders seg frames starting at output frame offset and loop
// position pos, with remaining loop samples left before the wrap. Frames
// more than fade samples before the wrap get a plain mix; the rest blend
// the loop tail with the loop head.
func (e *Engine) mixSegment(in, out [][]float64, offset, seg, pos, remaining, fade int, inputGain, loopGain float64) {
	plain := remaining - fade
	if plain > seg {
		plain = seg
	}
	if plain < 0 {
		plain = 0
	}

	loopChannels := e.loop.Channels()
	for ch, dst := range out {
		dst = dst[offset : offset+seg]
		src := in[ch%len(in)][offset : offset+seg]
		loop := e.loop.Channel(ch % loopChannels)

		if plain > 0 {
			vecmath.ScaleBlock(dst[:plain], src[:plain], inputGain)
			e.addScaled(dst[:plain], loop[pos:pos+plain], loopGain)
		}

		for i := plain; i < seg; i++ {
			left := remaining - i
			k := fade - left
			fadeOut, fadeIn := CrossfadeGains(left, fade)
			dst[i] = src[i]*inputGain + (fadeOut*loop[pos+i]+fadeIn*loop[k])*loopGain
		}
	}
}

// addScaled accumulates src*gain into dst through the pre-allocated scratch.
func (e *Engine) addScaled(dst, src []float64, gain float64) {
	step := len(e.scratch)
	for start := 0; start < len(dst); start += step {
		end := start + step
		if end > len(dst) {
			end = len(dst)
		}
		tmp := e.scratch[:end-start]
		vecmath.ScaleBlock(tmp, src[start:end], gain)
		vecmath.AddBlockInPlace(dst[start:end], tmp)
	}
}

// CrossfadeGains returns the linear fade-out and fade-in gains for a sample
// that lies left samples before the loop wrap inside a crossfade of length
// fade (1 <= left <= fade). The gains always sum to 1.
func CrossfadeGains(left, fade int) (fadeOut, fadeIn float64) {
	if fade <= 0 {
		return 1, 0
	}
	fadeOut = float64(left) / float64(fade)
	return fadeOut, 1 - fadeOut
}

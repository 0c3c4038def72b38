package looper

import (
	"testing"

	"github.com/cwbudde/algo-looper/internal/testutil"
)

const (
	testRate = 1000.0
	testFade = 10 // 10 ms at 1 kHz
)

func newTestEngine(t *testing.T, block, inCh, outCh int, opts ...Option) *Engine {
	t.Helper()
	e := New(opts...)
	if err := e.Initialize(testRate, block, inCh, outCh); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return e
}

// commitLoop records a mono signal and runs the one extra callback that
// commits it.
func commitLoop(t *testing.T, e *Engine, signal []float64, block int) {
	t.Helper()
	e.SetRecording(true)
	testutil.Drive(e, [][]float64{signal}, 1, block, nil)
	e.SetRecording(false)
	e.Process([][]float64{make([]float64, block)}, testutil.NewBlock(1, block))
	if got := e.LoopLength(); got != len(signal) {
		t.Fatalf("LoopLength: got %d want %d", got, len(signal))
	}
}

// referenceLoop is a per-sample model of loop playback from a fresh commit
// with input gain 0 and loop gain 1.
func referenceLoop(loop []float64, fade, n int) []float64 {
	fade = effectiveCrossfade(fade, len(loop))
	out := make([]float64, n)
	p := 0
	for i := range out {
		left := len(loop) - p
		if left > fade {
			out[i] = loop[p]
		} else {
			k := fade - left
			out[i] = float64(left)/float64(fade)*loop[p] + float64(k)/float64(fade)*loop[k]
		}
		p = advance(p, len(loop), fade)
	}
	return out
}

func advance(p, loopLen, fade int) int {
	p++
	if p == loopLen {
		return fade
	}
	return p
}

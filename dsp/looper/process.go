package looper

import "github.com/cwbudde/algo-looper/dsp/core"

// Process renders one device callback. in holds the input block and out the
// output block, both non-interleaved with one slice per channel. The frame
// count is the shorter of the two blocks; any output beyond it is zeroed.
// Output channel ch reads input channel ch % len(in). in and out must not
// share memory.
//
// Process never blocks and does not allocate, except when a recording
// outgrows the capture buffer and its capacity doubles.
func (e *Engine) Process(in, out [][]float64) {
	if !e.ready.Load() {
		core.ZeroChannels(out)
		return
	}

	rec := e.beginCallback()

	n := core.Frames(out)
	if len(in) == 0 || n == 0 {
		core.ZeroChannels(out)
		return
	}
	if m := core.Frames(in); m < n {
		n = m
	}
	for _, ch := range out {
		core.Zero(ch[n:])
	}

	e.stats.callbacks.Add(1)

	pw := e.play.Load()
	playing := pw&playBit != 0
	if epoch := pw >> playEpochShift; epoch != e.playEpoch {
		e.playEpoch = epoch
		e.readPos = 0
	}

	inputGain := e.InputGain()
	loopLen := e.loop.Len()
	if playing && loopLen > 0 {
		e.mixLoop(in, out, n, loopLen, inputGain, e.LoopGain())
	} else {
		e.passthrough(in, out, 0, n, inputGain)
	}

	if rec&recordBit != 0 {
		e.recordBlock(in, n, rec)
	}
}

// beginCallback applies record commands at the callback boundary: it
// commits a finished capture and starts a fresh one for a new session. It
// returns the record word the rest of the callback acts on.
func (e *Engine) beginCallback() uint64 {
	w := e.record.Load()
	for w&pendingBit != 0 {
		if e.record.CompareAndSwap(w, w&^pendingBit) {
			e.commit()
			w &^= pendingBit
			break
		}
		w = e.record.Load()
	}

	if epoch := w >> recordEpochShift; epoch != e.recordEpoch {
		e.recordEpoch = epoch
		e.resetCapture()
	}
	return w
}

// commit replaces the loop with the finished capture. The capture's storage
// becomes the loop and the old loop's storage is reused for the next capture.
func (e *Engine) commit() {
	captured := e.writePos
	if captured == 0 {
		e.stats.discardedCommits.Add(1)
		return
	}

	e.loop.Swap(e.capture)
	e.loop.SetLen(captured)
	e.resetCapture()
	e.readPos = 0

	e.loopLen.Store(int64(captured))
	e.readPosPub.Store(0)
	e.stats.commits.Add(1)
}

func (e *Engine) resetCapture() {
	e.capture.Reset()
	e.writePos = 0
	e.capturedPub.Store(0)
}

// recordBlock appends the raw input block to the capture. Gain is not
// applied so the loop gain stays adjustable after commit.
func (e *Engine) recordBlock(in [][]float64, n int, word uint64) {
	grown, err := e.capture.Grow(e.writePos+n, e.maxCapture)
	if err != nil {
		e.abortCapture(word)
		return
	}
	if grown {
		e.stats.growths.Add(1)
	}

	e.capture.WriteFrom(in, 0, e.writePos, n)
	e.writePos += n
	e.capturedPub.Store(int64(e.writePos))
}

// abortCapture drops the current capture and turns recording off, unless
// the control goroutine already issued a newer record command.
func (e *Engine) abortCapture(word uint64) {
	e.resetCapture()
	e.stats.abortedCaptures.Add(1)
	e.record.CompareAndSwap(word, word&^recordBit)
}

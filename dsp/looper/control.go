package looper

import (
	"math"

	"github.com/cwbudde/algo-looper/dsp/core"
)

// Layout of the play and record command words. Each word is replaced
// atomically, so the audio goroutine always sees a flag together with the
// epoch of the enable that set it.
const (
	playBit        = 1
	playEpochShift = 1

	recordBit        = 1
	pendingBit       = 2
	recordEpochShift = 2
)

// State returns the mode requested by the last commands.
func (e *Engine) State() State {
	return stateOf(e.play.Load()&playBit != 0, e.record.Load()&recordBit != 0)
}

// TogglePlay flips playback and returns the resulting state. Enabling
// restarts the loop from its first sample.
func (e *Engine) TogglePlay() State {
	for {
		w := e.play.Load()
		next := w ^ playBit
		if w&playBit == 0 {
			next += 1 << playEpochShift
		}
		if e.play.CompareAndSwap(w, next) {
			return e.State()
		}
	}
}

// SetPlaying enables or disables playback. Enabling while already playing
// is a no-op and does not restart the loop.
func (e *Engine) SetPlaying(on bool) State {
	for {
		w := e.play.Load()
		if (w&playBit != 0) == on {
			return e.State()
		}
		if e.play.CompareAndSwap(w, (w^playBit)+boolEpoch(on, playEpochShift)) {
			return e.State()
		}
	}
}

// ToggleRecord flips recording and returns the resulting state. Enabling
// starts a fresh capture; disabling schedules the capture for commit at the
// start of the next callback.
func (e *Engine) ToggleRecord() State {
	for {
		w := e.record.Load()
		if e.record.CompareAndSwap(w, toggleRecordWord(w)) {
			return e.State()
		}
	}
}

// SetRecording starts or stops recording. It is a no-op when the engine is
// already in the requested mode.
func (e *Engine) SetRecording(on bool) State {
	for {
		w := e.record.Load()
		if (w&recordBit != 0) == on {
			return e.State()
		}
		if e.record.CompareAndSwap(w, toggleRecordWord(w)) {
			return e.State()
		}
	}
}

func toggleRecordWord(w uint64) uint64 {
	if w&recordBit != 0 {
		return (w &^ recordBit) | pendingBit
	}
	return (w | recordBit) + 1<<recordEpochShift
}

func boolEpoch(on bool, shift uint) uint64 {
	if on {
		return 1 << shift
	}
	return 0
}

// SetInputGain sets the live input gain, clamped to [0, 1].
func (e *Engine) SetInputGain(gain float64) {
	e.inputGain.Store(math.Float64bits(core.ClampUnit(gain)))
}

// SetLoopGain sets the loop playback gain, clamped to [0, 1].
func (e *Engine) SetLoopGain(gain float64) {
	e.loopGain.Store(math.Float64bits(core.ClampUnit(gain)))
}

// InputGain returns the current input gain.
func (e *Engine) InputGain() float64 {
	return math.Float64frombits(e.inputGain.Load())
}

// LoopGain returns the current loop gain.
func (e *Engine) LoopGain() float64 {
	return math.Float64frombits(e.loopGain.Load())
}

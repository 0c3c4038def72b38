package main

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-looper/dsp/looper"
	"github.com/cwbudde/algo-looper/stats/level"
)

const gainStep = 0.05

// controls is the slice of *looper.Engine the keyboard drives.
type controls interface {
	TogglePlay() looper.State
	ToggleRecord() looper.State
	InputGain() float64
	SetInputGain(float64)
	LoopGain() float64
	SetLoopGain(float64)
}

type keyAction int

const (
	keyNone keyAction = iota
	keyHandled
	keyStats
	keyQuit
)

// handleKey applies the command bound to b.
func handleKey(c controls, b byte) keyAction {
	switch b {
	case 'p', 'P':
		c.TogglePlay()
	case 'r', 'R':
		c.ToggleRecord()
	case 'i':
		c.SetInputGain(c.InputGain() - gainStep)
	case 'I':
		c.SetInputGain(c.InputGain() + gainStep)
	case 'l':
		c.SetLoopGain(c.LoopGain() - gainStep)
	case 'L':
		c.SetLoopGain(c.LoopGain() + gainStep)
	case 's', 'S':
		return keyStats
	case 'q', 'Q', 3, 27: // Ctrl-C, Esc
		return keyQuit
	default:
		return keyNone
	}
	return keyHandled
}

// statusLine renders the one-line live display.
func statusLine(e *looper.Engine, in, out *level.Meter) string {
	loopSeconds := 0.0
	if rate := e.SampleRate(); rate > 0 {
		loopSeconds = float64(e.LoopLength()) / rate
	}
	rec := ""
	if e.State().IsRecording() && e.SampleRate() > 0 {
		rec = fmt.Sprintf(" rec=%5.2fs", float64(e.CapturedLength())/e.SampleRate())
	}
	return fmt.Sprintf("%-17s loop=%6.2fs%s in=%s out=%s gain in/loop=%.2f/%.2f",
		e.State(), loopSeconds, rec, formatDB(in.PeakDB()), formatDB(out.PeakDB()),
		e.InputGain(), e.LoopGain())
}

func formatDB(db float64) string {
	if math.IsInf(db, -1) || db < -99 {
		return "  -inf"
	}
	return fmt.Sprintf("%6.1f", db)
}

package level

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"
	"github.com/meko-christian/algo-approx"
)

// ln10 is the natural logarithm of 10.
const ln10 = 2.302585092994045684017991454684

// Reading is one block's level.
//
//nolint:revive
type Reading struct {
	Peak    float64 // max |x| over all channels
	RMS     float64 // over all channels and frames
	Peak_dB float64
	RMS_dB  float64
	Frames  int
}

// Meter holds the level of the most recent block.
type Meter struct {
	peak       atomic.Uint64 // math.Float64bits
	meanSquare atomic.Uint64
	frames     atomic.Int64
	maxPeak    atomic.Uint64
}

// Update measures block, one slice per channel, and publishes the result.
// Channels shorter than the first are measured over their own length.
func (m *Meter) Update(block [][]float64) {
	var (
		peak    float64
		sumSq   float64
		samples int
	)
	for _, ch := range block {
		if len(ch) == 0 {
			continue
		}
		if p := vecmath.MaxAbs(ch); p > peak {
			peak = p
		}
		sumSq += vecmath.DotProduct(ch, ch)
		samples += len(ch)
	}

	ms := 0.0
	if samples > 0 {
		ms = sumSq / float64(samples)
	}
	frames := 0
	if len(block) > 0 {
		frames = len(block[0])
	}

	m.peak.Store(math.Float64bits(peak))
	m.meanSquare.Store(math.Float64bits(ms))
	m.frames.Store(int64(frames))

	for {
		old := m.maxPeak.Load()
		if peak <= math.Float64frombits(old) {
			break
		}
		if m.maxPeak.CompareAndSwap(old, math.Float64bits(peak)) {
			break
		}
	}
}

// Peak returns the absolute peak of the last block.
func (m *Meter) Peak() float64 {
	return math.Float64frombits(m.peak.Load())
}

// RMS returns the RMS level of the last block.
func (m *Meter) RMS() float64 {
	ms := math.Float64frombits(m.meanSquare.Load())
	if ms <= 0 {
		return 0
	}
	return approx.FastSqrt(ms)
}

// PeakDB returns Peak in dBFS, -Inf for silence.
func (m *Meter) PeakDB() float64 {
	return ampTodB(m.Peak())
}

// RMSDB returns RMS in dBFS, -Inf for silence.
func (m *Meter) RMSDB() float64 {
	ms := math.Float64frombits(m.meanSquare.Load())
	if ms <= 0 {
		return math.Inf(-1)
	}
	// 20*log10(sqrt(ms)) = 10*log10(ms)
	return 10 * approx.FastLog(ms) / ln10
}

// MaxPeak returns the highest block peak seen since the last Reset.
func (m *Meter) MaxPeak() float64 {
	return math.Float64frombits(m.maxPeak.Load())
}

// Reading returns the last block's level in one value.
func (m *Meter) Reading() Reading {
	return Reading{
		Peak:    m.Peak(),
		RMS:     m.RMS(),
		Peak_dB: m.PeakDB(),
		RMS_dB:  m.RMSDB(),
		Frames:  int(m.frames.Load()),
	}
}

// Reset clears the meter, including the held maximum.
func (m *Meter) Reset() {
	m.peak.Store(0)
	m.meanSquare.Store(0)
	m.frames.Store(0)
	m.maxPeak.Store(0)
}

// ampTodB converts an amplitude to decibels. Returns -Inf for zero.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * approx.FastLog(a) / ln10
}

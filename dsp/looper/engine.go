package looper

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-looper/dsp/buffer"
	"github.com/cwbudde/algo-looper/dsp/core"
)

// Engine is a single-layer looper bound to one device session.
type Engine struct {
	cfg config

	// Published by the control goroutine.
	play      atomic.Uint64 // playBit | epoch<<1
	record    atomic.Uint64 // recordBit | pendingBit | epoch<<2
	inputGain atomic.Uint64 // math.Float64bits
	loopGain  atomic.Uint64

	// Published by the audio goroutine for observers.
	ready       atomic.Bool
	loopLen     atomic.Int64
	readPosPub  atomic.Int64
	capturedPub atomic.Int64
	stats       counters

	// Owned by the audio goroutine (and by Initialize/Shutdown while the
	// device is stopped).
	sampleRate  float64
	blockSize   int
	crossfade   int
	maxCapture  int
	loop        *buffer.Buffer
	capture     *buffer.Buffer
	scratch     []float64
	readPos     int
	writePos    int
	playEpoch   uint64
	recordEpoch uint64
}

// New returns an Engine that emits silence until Initialize is called.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	e := &Engine{cfg: cfg}
	e.SetInputGain(cfg.inputGain)
	e.SetLoopGain(cfg.loopGain)
	return e
}

// Initialize prepares the engine for a device session with the negotiated
// sample rate, expected block size and channel counts. It sizes the
// crossfade window and pre-allocates the capture and loop buffers. Any
// previously committed loop is discarded; play and record flags are kept.
//
// Zero channels are accepted: the engine then produces silence, since the
// device may legitimately report no input (for example when microphone
// permission is denied).
func (e *Engine) Initialize(sampleRate float64, blockSize, inputChannels, outputChannels int) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}
	if blockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}
	if inputChannels < 0 || outputChannels < 0 {
		return fmt.Errorf("%w: in=%d out=%d", ErrInvalidChannels, inputChannels, outputChannels)
	}

	e.ready.Store(false)

	channels := inputChannels
	if channels < 1 {
		channels = 1
	}
	capacity := core.SamplesForDuration(sampleRate, e.cfg.initialCapacitySeconds)
	if capacity < blockSize {
		capacity = blockSize
	}
	maxCapture := core.SamplesForDuration(sampleRate, e.cfg.maxCaptureSeconds)
	if maxCapture < capacity {
		maxCapture = capacity
	}

	e.sampleRate = sampleRate
	e.blockSize = blockSize
	e.crossfade = core.SamplesForDuration(sampleRate, e.cfg.crossfadeSeconds)
	e.maxCapture = maxCapture
	e.capture = buffer.New(channels, capacity)
	e.loop = buffer.New(channels, capacity)
	e.scratch = make([]float64, blockSize)
	e.readPos = 0
	e.writePos = 0
	e.playEpoch = e.play.Load() >> playEpochShift
	e.recordEpoch = e.record.Load() >> recordEpochShift

	e.loopLen.Store(0)
	e.readPosPub.Store(0)
	e.capturedPub.Store(0)
	e.ready.Store(true)
	return nil
}

// Shutdown releases the buffers. Process emits silence until the next Initialize.
func (e *Engine) Shutdown() {
	e.ready.Store(false)
	e.loop = nil
	e.capture = nil
	e.scratch = nil
	e.readPos = 0
	e.writePos = 0
	e.loopLen.Store(0)
	e.readPosPub.Store(0)
	e.capturedPub.Store(0)
}

// Ready reports whether the engine is initialized.
func (e *Engine) Ready() bool {
	return e.ready.Load()
}

// SampleRate returns the sample rate passed to Initialize.
func (e *Engine) SampleRate() float64 {
	return e.sampleRate
}

// CrossfadeSamples returns the configured crossfade window C in samples.
func (e *Engine) CrossfadeSamples() int {
	return e.crossfade
}

// EffectiveCrossfade returns the crossfade actually applied to the current
// loop: C, clamped to half the loop length.
func (e *Engine) EffectiveCrossfade() int {
	return effectiveCrossfade(e.crossfade, int(e.loopLen.Load()))
}

// LoopLength returns the committed loop length in samples (0 when empty).
func (e *Engine) LoopLength() int {
	return int(e.loopLen.Load())
}

// ReadPosition returns the loop read cursor as of the last callback.
func (e *Engine) ReadPosition() int {
	return int(e.readPosPub.Load())
}

// CapturedLength returns the samples captured so far in the current recording.
func (e *Engine) CapturedLength() int {
	return int(e.capturedPub.Load())
}

// Stats returns a snapshot of the audio-side counters.
func (e *Engine) Stats() Stats {
	return e.stats.snapshot()
}

// LoopSnapshot returns a deep copy of the committed loop. It reads buffers
// owned by the audio goroutine and must only be called while the device is
// stopped or from the audio goroutine itself.
func (e *Engine) LoopSnapshot() *buffer.Buffer {
	if e.loop == nil {
		return buffer.New(0, 0)
	}
	return e.loop.Copy()
}

// effectiveCrossfade clamps the crossfade to half the loop so the blended
// tail never overlaps the blended head.
func effectiveCrossfade(crossfade, loopLen int) int {
	if half := loopLen / 2; crossfade > half {
		return half
	}
	return crossfade
}

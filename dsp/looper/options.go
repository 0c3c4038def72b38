package looper

import "math"

const (
	defaultCrossfadeSeconds       = 0.010
	defaultInitialCapacitySeconds = 1.0
	defaultMaxCaptureSeconds      = 300.0
	defaultGain                   = 0.5
)

type config struct {
	crossfadeSeconds       float64
	initialCapacitySeconds float64
	maxCaptureSeconds      float64
	inputGain              float64
	loopGain               float64
}

func defaultConfig() config {
	return config{
		crossfadeSeconds:       defaultCrossfadeSeconds,
		initialCapacitySeconds: defaultInitialCapacitySeconds,
		maxCaptureSeconds:      defaultMaxCaptureSeconds,
		inputGain:              defaultGain,
		loopGain:               defaultGain,
	}
}

// Option configures an Engine.
type Option func(*config)

// WithCrossfade sets the loop seam crossfade duration in seconds. Zero
// disables the crossfade; negative or non-finite values are ignored.
func WithCrossfade(seconds float64) Option {
	return func(c *config) {
		if seconds >= 0 && !math.IsInf(seconds, 0) {
			c.crossfadeSeconds = seconds
		}
	}
}

// WithInitialCapacity sets how many seconds of audio the capture and loop
// buffers hold before the first growth.
func WithInitialCapacity(seconds float64) Option {
	return func(c *config) {
		if seconds > 0 && !math.IsInf(seconds, 0) {
			c.initialCapacitySeconds = seconds
		}
	}
}

// WithMaxCapture bounds the length of a single recording. A capture that
// would grow past the bound is aborted and discarded.
func WithMaxCapture(seconds float64) Option {
	return func(c *config) {
		if seconds > 0 && !math.IsInf(seconds, 0) {
			c.maxCaptureSeconds = seconds
		}
	}
}

// WithGains sets the initial input and loop gains. Values are clamped to [0, 1].
func WithGains(input, loop float64) Option {
	return func(c *config) {
		c.inputGain = input
		c.loopGain = loop
	}
}

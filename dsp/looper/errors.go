package looper

import "errors"

// Errors returned by Initialize.
var (
	ErrInvalidSampleRate = errors.New("looper: sample rate must be > 0")
	ErrInvalidBlockSize  = errors.New("looper: block size must be > 0")
	ErrInvalidChannels   = errors.New("looper: channel count must be >= 0")
)

// Package level provides a lock-free peak and RMS meter.
//
// A Meter is written by the audio goroutine once per block and read by any
// number of observers. Update never blocks or allocates; readers always see
// the values of one complete block.
package level

// Package device connects a block processor to a full-duplex audio device
// through miniaudio (github.com/gen2brain/malgo).
//
// The device callback delivers interleaved float32 frames. The bridge
// deinterleaves them into pre-allocated float64 blocks, runs the processor
// and interleaves the result back, without allocating on the audio thread.
package device

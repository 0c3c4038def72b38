// Package looper implements a single-layer real-time audio looper engine.
//
// An Engine forwards live input to the output at an adjustable input gain,
// optionally captures the input into a growable capture buffer, and
// optionally mixes the last committed loop back into the output. The seam at
// the end of the loop is hidden with a linear crossfade that blends the last
// C samples of the loop with its first C samples; after the first pass the
// read cursor cycles through [C, L), so the blended head is never replayed.
//
// # Threads
//
// Two goroutines touch an Engine. The control goroutine calls the command
// methods (TogglePlay, ToggleRecord, SetInputGain, SetLoopGain and their
// variants) and the observers (State, LoopLength, Stats, ...). Those only
// perform atomic loads and stores, so they never block the audio goroutine.
// The audio goroutine calls Process once per device callback. It owns both
// sample buffers and all cursors; buffer geometry changes (capture growth and
// the commit of a finished capture) happen only inside Process, and a commit
// happens only at the start of a callback before the loop is read.
//
// Initialize and Shutdown are bound to device start and stop and must not run
// concurrently with Process.
//
// # Commands
//
// Every command takes effect at the start of the next callback. Stopping a
// recording marks the capture as pending; the next callback swaps it in as
// the loop (an O(1) storage swap, no copy), resets the read cursor to 0 and
// starts a fresh capture. While recording and playing at the same time the
// old loop keeps playing untouched until that commit.
package looper

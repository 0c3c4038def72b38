package looper

import "sync/atomic"

// Stats is a snapshot of the audio-side event counters.
type Stats struct {
	Callbacks        uint64 // Process invocations that produced a mix
	Commits          uint64 // captures that became the loop
	DiscardedCommits uint64 // record sessions that ended with nothing captured
	AbortedCaptures  uint64 // captures dropped at the capacity bound
	Growths          uint64 // capture buffer reallocations
	Wraps            uint64 // read cursor wraparounds
}

type counters struct {
	callbacks        atomic.Uint64
	commits          atomic.Uint64
	discardedCommits atomic.Uint64
	abortedCaptures  atomic.Uint64
	growths          atomic.Uint64
	wraps            atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Callbacks:        c.callbacks.Load(),
		Commits:          c.commits.Load(),
		DiscardedCommits: c.discardedCommits.Load(),
		AbortedCaptures:  c.abortedCaptures.Load(),
		Growths:          c.growths.Load(),
		Wraps:            c.wraps.Load(),
	}
}

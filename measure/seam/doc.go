// Package seam measures how audible a loop seam is.
//
// Analyze compares the high-frequency energy of a Hann-windowed frame
// centered on the seam with a reference frame taken from the same signal
// away from the seam. A hard cut between unrelated samples spreads energy
// across the whole spectrum and scores high; a well crossfaded seam scores
// close to 0 dB.
//
//	res, err := seam.Analyze(rendered, loopLen, seam.Config{SampleRate: 48000})
//	if err != nil { ... }
//	fmt.Printf("click %.1f dB, max step %.3f\n", res.ClickScoreDB, res.MaxStep)
package seam

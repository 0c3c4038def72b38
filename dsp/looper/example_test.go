package looper_test

import (
	"fmt"

	"github.com/cwbudde/algo-looper/dsp/looper"
)

func ExampleEngine() {
	e := looper.New(looper.WithGains(1, 1))
	if err := e.Initialize(1000, 4, 1, 1); err != nil {
		panic(err)
	}

	in := [][]float64{{0.1, 0.2, 0.3, 0.4}}
	out := [][]float64{make([]float64, 4)}

	fmt.Println(e.ToggleRecord())
	e.Process(in, out)
	e.Process(in, out)
	fmt.Println(e.ToggleRecord())
	fmt.Println(e.TogglePlay())

	silence := [][]float64{make([]float64, 4)}
	e.Process(silence, out)
	fmt.Println(e.LoopLength(), e.EffectiveCrossfade(), out[0])
	// Output:
	// recording
	// idle
	// playing
	// 8 4 [0.1 0.2 0.3 0.4]
}

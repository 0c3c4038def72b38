package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-looper/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)
	fmt.Println(core.SamplesForDuration(cfg.SampleRate, 0.010))

	// Output:
	// sampleRate=44100 blockSize=256
	// 441
}

func ExampleEnsureChannels() {
	blocks := core.EnsureChannels(nil, 2, 3)
	blocks[1][2] = 1

	fmt.Println(core.Frames(blocks), blocks)

	core.ZeroChannels(blocks)
	fmt.Println(blocks)

	// Output:
	// 3 [[0 0 0] [0 0 1]]
	// [[0 0 0] [0 0 0]]
}

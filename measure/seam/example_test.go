package seam_test

import (
	"fmt"

	"github.com/cwbudde/algo-looper/measure/seam"
)

func ExampleAnalyze() {
	signal := make([]float64, 4096)
	for i := 2048; i < len(signal); i++ {
		signal[i] = 0.5
	}

	res, err := seam.Analyze(signal, 2048, seam.Config{SampleRate: 48000})
	if err != nil {
		panic(err)
	}
	fmt.Printf("step=%.1f at %d, click=%t\n", res.MaxStep, res.MaxStepIndex, res.ClickScoreDB > 40)

	// Output:
	// step=0.5 at 2048, click=true
}

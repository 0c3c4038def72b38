package looper

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/algo-looper/internal/testutil"
)

func TestInitializeValidation(t *testing.T) {
	tests := []struct {
		name    string
		rate    float64
		block   int
		in, out int
		wantErr error
	}{
		{name: "zero rate", rate: 0, block: 64, in: 1, out: 1, wantErr: ErrInvalidSampleRate},
		{name: "nan rate", rate: math.NaN(), block: 64, in: 1, out: 1, wantErr: ErrInvalidSampleRate},
		{name: "zero block", rate: 48000, block: 0, in: 1, out: 1, wantErr: ErrInvalidBlockSize},
		{name: "negative channels", rate: 48000, block: 64, in: -1, out: 2, wantErr: ErrInvalidChannels},
		{name: "no input channels", rate: 48000, block: 64, in: 0, out: 2},
		{name: "stereo", rate: 48000, block: 64, in: 2, out: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Initialize(tt.rate, tt.block, tt.in, tt.out)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Initialize: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Initialize error: got %v want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInitializeSizesCrossfade(t *testing.T) {
	e := New()
	if err := e.Initialize(48000, 512, 2, 2); err != nil {
		t.Fatal(err)
	}
	if got := e.CrossfadeSamples(); got != 480 {
		t.Fatalf("CrossfadeSamples: got %d want 480", got)
	}
	if got := e.capture.Cap(); got != 48000 {
		t.Fatalf("initial capture capacity: got %d want 48000", got)
	}

	e = New(WithCrossfade(0.005))
	if err := e.Initialize(44100, 256, 1, 2); err != nil {
		t.Fatal(err)
	}
	if got := e.CrossfadeSamples(); got != 220 {
		t.Fatalf("CrossfadeSamples: got %d want 220", got)
	}
}

func TestUninitializedEmitsSilence(t *testing.T) {
	e := New()
	out := testutil.Multi(testutil.DC(1, 8), 2)

	e.Process([][]float64{testutil.DC(1, 8)}, out)

	for ch := range out {
		testutil.RequireSliceNearlyEqual(t, out[ch], make([]float64, 8), 0)
	}
}

func TestZeroInputChannelsEmitSilence(t *testing.T) {
	e := newTestEngine(t, 8, 0, 2)
	e.SetPlaying(true)
	out := testutil.Multi(testutil.DC(1, 8), 2)

	e.Process(nil, out)

	for ch := range out {
		testutil.RequireSliceNearlyEqual(t, out[ch], make([]float64, 8), 0)
	}
}

func TestShutdownThenReinitialize(t *testing.T) {
	e := newTestEngine(t, 10, 1, 1)
	commitLoop(t, e, testutil.Ramp(0.1, 0.01, 50), 10)

	e.Shutdown()
	if e.Ready() {
		t.Fatal("Ready after Shutdown")
	}
	out := testutil.Multi(testutil.DC(1, 10), 1)
	e.Process([][]float64{testutil.DC(1, 10)}, out)
	testutil.RequireSliceNearlyEqual(t, out[0], make([]float64, 10), 0)

	if err := e.Initialize(testRate, 10, 1, 1); err != nil {
		t.Fatal(err)
	}
	if e.LoopLength() != 0 {
		t.Fatalf("LoopLength after re-Initialize: got %d want 0", e.LoopLength())
	}
}

func TestPassthroughScalesInput(t *testing.T) {
	for _, block := range []int{1, 7, 64, 1000} {
		e := newTestEngine(t, 64, 1, 2, WithGains(0.25, 1))
		input := testutil.DeterministicNoise(3, 1, 1000)

		out := testutil.Drive(e, [][]float64{input}, 2, block, nil)

		want := make([]float64, len(input))
		for i, v := range input {
			want[i] = v * 0.25
		}
		for ch := range out {
			testutil.RequireSliceNearlyEqual(t, out[ch], want, 1e-15)
		}
	}
}

func TestPassthroughWithEmptyLoopWhilePlaying(t *testing.T) {
	e := newTestEngine(t, 16, 2, 2, WithGains(1, 1))
	e.SetPlaying(true)
	left := testutil.Ramp(0, 0.01, 32)
	right := testutil.Ramp(0, -0.01, 32)

	out := testutil.Drive(e, [][]float64{left, right}, 2, 16, nil)

	testutil.RequireSliceNearlyEqual(t, out[0], left, 0)
	testutil.RequireSliceNearlyEqual(t, out[1], right, 0)
}

func TestOutputBeyondInputIsZeroed(t *testing.T) {
	e := newTestEngine(t, 8, 1, 1, WithGains(1, 1))
	out := [][]float64{testutil.DC(9, 8)}

	e.Process([][]float64{testutil.DC(0.5, 5)}, out)

	testutil.RequireSliceNearlyEqual(t, out[0], []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0, 0, 0}, 0)
}

func TestGainsClamped(t *testing.T) {
	e := New()
	if e.InputGain() != 0.5 || e.LoopGain() != 0.5 {
		t.Fatalf("default gains: got %v/%v want 0.5/0.5", e.InputGain(), e.LoopGain())
	}

	tests := []struct {
		in, want float64
	}{
		{0.7, 0.7},
		{2, 1},
		{-1, 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		e.SetInputGain(tt.in)
		e.SetLoopGain(tt.in)
		if e.InputGain() != tt.want || e.LoopGain() != tt.want {
			t.Fatalf("gain(%v): got %v/%v want %v", tt.in, e.InputGain(), e.LoopGain(), tt.want)
		}
	}
}

func TestConcurrentControlAndAudio(t *testing.T) {
	e := newTestEngine(t, 32, 1, 2)
	in := [][]float64{testutil.DeterministicNoise(1, 0.5, 32)}
	out := testutil.NewBlock(2, 32)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			switch i % 4 {
			case 0:
				e.TogglePlay()
			case 1:
				e.ToggleRecord()
			case 2:
				e.SetInputGain(float64(i%10) / 10)
			case 3:
				e.SetLoopGain(float64(i%7) / 7)
			}
			_ = e.State()
			_ = e.Stats()
			_ = e.ReadPosition()
		}
	}()

	for i := 0; i < 2000; i++ {
		e.Process(in, out)
		testutil.RequireFinite(t, out[0])
		testutil.RequireWithin(t, out[1], -1, 1, 1e-12)
	}
	close(stop)
	wg.Wait()

	if got := e.Stats().Callbacks; got != 2000 {
		t.Fatalf("Callbacks: got %d want 2000", got)
	}
}

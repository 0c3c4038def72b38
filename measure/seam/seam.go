package seam

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultSampleRate = 48000.0
	defaultFrameSize  = 512
	defaultCutoffHz   = 4000.0

	// energyFloor keeps the score finite for digitally silent frames.
	energyFloor = 1e-20
)

var (
	ErrFrameSize      = errors.New("seam: frame size must be a power of two >= 16")
	ErrSeamRange      = errors.New("seam: seam position out of range")
	ErrSignalTooShort = errors.New("seam: signal too short for analysis frames")
)

// Config holds seam analysis parameters. Zero fields take defaults.
type Config struct {
	SampleRate float64
	FrameSize  int     // FFT size, power of two
	CutoffHz   float64 // energy above this frequency counts as click energy
	// ReferenceOffset is the distance from the seam to the center of the
	// reference frame. Defaults to 2*FrameSize. The reference is taken
	// before the seam when it fits, otherwise after it.
	ReferenceOffset int
}

// Result holds seam analysis results.
//
//nolint:revive
type Result struct {
	ClickScoreDB float64 // 10*log10(SeamHF / ReferenceHF)
	SeamHF       float64 // windowed energy above the cutoff around the seam
	ReferenceHF  float64
	MaxStep      float64 // largest |x[i]-x[i-1]| inside the seam frame
	MaxStepIndex int     // absolute index i of MaxStep
	Reference    int     // center of the reference frame
}

func normalizeConfig(cfg Config) (Config, error) {
	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		cfg.SampleRate = defaultSampleRate
	}
	if cfg.FrameSize == 0 {
		cfg.FrameSize = defaultFrameSize
	}
	if cfg.FrameSize < 16 || cfg.FrameSize&(cfg.FrameSize-1) != 0 {
		return cfg, fmt.Errorf("%w: %d", ErrFrameSize, cfg.FrameSize)
	}
	if cfg.CutoffHz <= 0 || cfg.CutoffHz >= cfg.SampleRate/2 {
		cfg.CutoffHz = math.Min(defaultCutoffHz, cfg.SampleRate/4)
	}
	if cfg.ReferenceOffset <= 0 {
		cfg.ReferenceOffset = 2 * cfg.FrameSize
	}
	return cfg, nil
}

// Analyze scores the seam at index seam of signal, the first sample after
// the wrap.
func Analyze(signal []float64, seam int, cfg Config) (Result, error) {
	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return Result{}, err
	}
	if seam <= 0 || seam >= len(signal) {
		return Result{}, fmt.Errorf("%w: %d not in (0, %d)", ErrSeamRange, seam, len(signal))
	}

	half := cfg.FrameSize / 2
	if seam-half < 0 || seam+half > len(signal) {
		return Result{}, fmt.Errorf("%w: seam frame [%d, %d) of %d", ErrSignalTooShort, seam-half, seam+half, len(signal))
	}

	ref := seam - cfg.ReferenceOffset
	if ref-half < 0 {
		ref = seam + cfg.ReferenceOffset
	}
	if ref-half < 0 || ref+half > len(signal) {
		return Result{}, fmt.Errorf("%w: no room for reference frame at offset %d", ErrSignalTooShort, cfg.ReferenceOffset)
	}

	a, err := newAnalyzer(cfg)
	if err != nil {
		return Result{}, err
	}

	seamHF, err := a.highBandEnergy(signal[seam-half : seam+half])
	if err != nil {
		return Result{}, err
	}
	refHF, err := a.highBandEnergy(signal[ref-half : ref+half])
	if err != nil {
		return Result{}, err
	}

	step, at := maxStep(signal[seam-half : seam+half])

	return Result{
		ClickScoreDB: 10 * math.Log10((seamHF+energyFloor)/(refHF+energyFloor)),
		SeamHF:       seamHF,
		ReferenceHF:  refHF,
		MaxStep:      step,
		MaxStepIndex: seam - half + at,
		Reference:    ref,
	}, nil
}

// forwardPlan is the part of an algo-fft plan the analyzer uses.
type forwardPlan interface {
	Forward(dst, src []complex128) error
}

type analyzer struct {
	plan      forwardPlan
	window    []float64
	frame     []float64
	in, out   []complex128
	cutoffBin int
}

func newAnalyzer(cfg Config) (*analyzer, error) {
	n := cfg.FrameSize
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("seam: fft plan: %w", err)
	}

	cutoff := int(math.Ceil(cfg.CutoffHz * float64(n) / cfg.SampleRate))
	if cutoff < 1 {
		cutoff = 1
	}
	return &analyzer{
		plan:      plan,
		window:    hann(n),
		frame:     make([]float64, n),
		in:        make([]complex128, n),
		out:       make([]complex128, n),
		cutoffBin: cutoff,
	}, nil
}

// highBandEnergy returns the energy of bins [cutoffBin, n/2] of the
// windowed frame, normalized by the frame size.
func (a *analyzer) highBandEnergy(samples []float64) (float64, error) {
	vecmath.MulBlock(a.frame, samples, a.window)
	for i, x := range a.frame {
		a.in[i] = complex(x, 0)
	}
	if err := a.plan.Forward(a.out, a.in); err != nil {
		return 0, fmt.Errorf("seam: fft: %w", err)
	}

	n := len(a.out)
	sum := 0.0
	for k := a.cutoffBin; k <= n/2; k++ {
		x := a.out[k]
		sum += real(x)*real(x) + imag(x)*imag(x)
	}
	return sum / float64(n), nil
}

// hann returns a periodic Hann window of length n.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

func maxStep(x []float64) (float64, int) {
	best, at := 0.0, 0
	for i := 1; i < len(x); i++ {
		if d := math.Abs(x[i] - x[i-1]); d > best {
			best, at = d, i
		}
	}
	return best, at
}

package render

import (
	"fmt"

	"github.com/cwbudde/algo-looper/dsp/core"
	"github.com/cwbudde/algo-looper/dsp/looper"
	"github.com/cwbudde/algo-looper/internal/audiofile"
	"github.com/cwbudde/algo-looper/stats/level"
)

// Config controls an offline render.
type Config struct {
	BlockSize      int     // frames per callback, default 512
	TailSeconds    float64 // silence rendered after the input ends
	OutputChannels int     // default: input channel count
	Options        []looper.Option
}

// Result is the rendered audio plus what the engine did.
type Result struct {
	Output     audiofile.Clip
	Stats      looper.Stats
	LoopLength int
	// Seams are output frames that start a new pass over the loop: the
	// first sample after each wrap.
	Seams      []int
	OutputPeak float64
}

// Render runs clip through a fresh engine, applying events at the start of
// the callback that contains their timestamp.
func Render(clip audiofile.Clip, events []Event, cfg Config) (Result, error) {
	if clip.SampleRate <= 0 {
		return Result{}, fmt.Errorf("render sample rate must be > 0: %d", clip.SampleRate)
	}
	if len(clip.Channels) == 0 {
		return Result{}, audiofile.ErrEmptyClip
	}
	pc := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(clip.SampleRate)),
		core.WithBlockSize(cfg.BlockSize),
	)
	if err := pc.Validate(); err != nil {
		return Result{}, err
	}
	block := pc.BlockSize
	outCh := cfg.OutputChannels
	if outCh <= 0 {
		outCh = len(clip.Channels)
	}
	inCh := len(clip.Channels)

	e := looper.New(cfg.Options...)
	if err := e.Initialize(pc.SampleRate, block, inCh, outCh); err != nil {
		return Result{}, fmt.Errorf("initialize engine: %w", err)
	}
	defer e.Shutdown()

	inFrames := clip.Frames()
	total := inFrames
	if cfg.TailSeconds > 0 {
		total += int(cfg.TailSeconds * float64(clip.SampleRate))
	}

	out := audiofile.NewClip(clip.SampleRate, outCh, total)
	in := make([][]float64, inCh)
	padded := core.EnsureChannels(nil, inCh, block)
	dst := make([][]float64, outCh)

	var (
		meter level.Meter
		seams []int
		next  int
	)
	for start := 0; start < total; start += block {
		end := min(start+block, total)
		n := end - start

		for next < len(events) && events[next].At < end {
			apply(e, events[next])
			next++
		}

		for ch := range in {
			switch {
			case end <= inFrames:
				in[ch] = clip.Channels[ch][start:end]
			default:
				buf := padded[ch][:n]
				clear(buf)
				if start < inFrames {
					copy(buf, clip.Channels[ch][start:inFrames])
				}
				in[ch] = buf
			}
		}
		for ch := range dst {
			dst[ch] = out.Channels[ch][start:end]
		}

		wraps := e.Stats().Wraps
		e.Process(in, dst)
		meter.Update(dst)

		if e.Stats().Wraps == wraps+1 {
			// The cursor restarted at the crossfade length after the wrap and
			// has since advanced to its current position.
			seams = append(seams, end-(e.ReadPosition()-e.EffectiveCrossfade()))
		}
	}

	return Result{
		Output:     out,
		Stats:      e.Stats(),
		LoopLength: e.LoopLength(),
		Seams:      seams,
		OutputPeak: meter.MaxPeak(),
	}, nil
}

func apply(e *looper.Engine, ev Event) {
	switch ev.Command {
	case TogglePlay:
		e.TogglePlay()
	case ToggleRecord:
		e.ToggleRecord()
	case SetInputGain:
		e.SetInputGain(ev.Value)
	case SetLoopGain:
		e.SetLoopGain(ev.Value)
	}
}

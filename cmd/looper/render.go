package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cwbudde/algo-looper/dsp/core"
	"github.com/cwbudde/algo-looper/dsp/looper"
	"github.com/cwbudde/algo-looper/internal/audiofile"
	"github.com/cwbudde/algo-looper/internal/render"
	"github.com/cwbudde/algo-looper/measure/seam"
)

// maxAnalyzedSeams bounds the per-seam report.
const maxAnalyzedSeams = 4

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	in := fs.String("in", "", "input audio file (wav, aiff, mp3, ogg)")
	out := fs.String("out", "", "output WAV file")
	events := fs.String("events", "", `control timeline, e.g. "record@0s,record@2s,play@2s,loop=0.8@4s"`)
	block := fs.Int("block", 256, "frames per callback")
	tail := fs.Duration("tail", 0, "silence rendered after the input ends")
	outChannels := fs.Int("channels", 0, "output channels (0: same as input)")
	xfade := fs.Duration("xfade", 10*time.Millisecond, "loop seam crossfade")
	inGain := fs.Float64("input-gain", 0.5, "initial input gain [0, 1]")
	loopGain := fs.Float64("loop-gain", 0.5, "initial loop gain [0, 1]")
	analyze := fs.Bool("analyze", false, "report click scores for the loop seams")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: looper render -in FILE -out FILE -events EVENTS [flags]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	initLogger(os.Stderr, *verbose)

	if *in == "" || *out == "" {
		fs.Usage()
		return errors.New("render needs -in and -out")
	}

	clip, err := audiofile.ReadFile(*in)
	if err != nil {
		return err
	}
	logger.Debug("decoded input",
		"path", *in,
		"sampleRate", clip.SampleRate,
		"channels", len(clip.Channels),
		"frames", clip.Frames(),
	)

	timeline, err := render.ParseEvents(*events, clip.SampleRate)
	if err != nil {
		return err
	}
	for _, ev := range timeline {
		logger.Debug("event", "at", ev.At, "command", ev.Command, "value", ev.Value)
	}

	start := time.Now()
	res, err := render.Render(clip, timeline, render.Config{
		BlockSize:      *block,
		TailSeconds:    tail.Seconds(),
		OutputChannels: *outChannels,
		Options: []looper.Option{
			looper.WithCrossfade(xfade.Seconds()),
			looper.WithGains(*inGain, *loopGain),
		},
	})
	if err != nil {
		return err
	}

	if err := audiofile.WriteFile(*out, res.Output); err != nil {
		return err
	}

	logger.Info("rendered",
		"path", *out,
		"seconds", res.Output.Duration(),
		"elapsed", time.Since(start),
		"loopFrames", res.LoopLength,
		"commits", res.Stats.Commits,
		"discarded", res.Stats.DiscardedCommits,
		"aborted", res.Stats.AbortedCaptures,
		"wraps", res.Stats.Wraps,
		"peakDB", fmt.Sprintf("%.1f", core.LinearToDB(res.OutputPeak)),
	)
	if res.OutputPeak > 1 {
		logger.Warn("output clipped in WAV", "peak", res.OutputPeak)
	}

	if *analyze {
		analyzeSeams(res)
	}
	return nil
}

func analyzeSeams(res render.Result) {
	if len(res.Seams) == 0 {
		logger.Info("no loop seams to analyze")
		return
	}

	signal := res.Output.Channels[0]
	cfg := seam.Config{SampleRate: float64(res.Output.SampleRate)}
	for i, at := range res.Seams {
		if i == maxAnalyzedSeams {
			break
		}
		r, err := seam.Analyze(signal, at, cfg)
		if err != nil {
			logger.Warn("seam analysis skipped", "seam", at, "err", err)
			continue
		}
		logger.Info("seam",
			"frame", at,
			"clickDB", fmt.Sprintf("%.1f", r.ClickScoreDB),
			"maxStep", fmt.Sprintf("%.4f", r.MaxStep),
			"maxStepFrame", r.MaxStepIndex,
		)
	}
}

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwbudde/algo-looper/dsp/looper"
	"github.com/cwbudde/algo-looper/internal/device"
	"github.com/cwbudde/algo-looper/stats/level"
	"golang.org/x/term"
)

const statusInterval = 100 * time.Millisecond

func runLive(args []string) error {
	cfg := device.DefaultConfig()

	fs := flag.NewFlagSet("live", flag.ExitOnError)
	rate := fs.Uint("rate", uint(cfg.SampleRate), "requested sample rate in Hz")
	period := fs.Uint("period", uint(cfg.PeriodFrames), "frames per device callback")
	inCh := fs.Uint("in", uint(cfg.InputChannels), "input channels")
	outCh := fs.Uint("out", uint(cfg.OutputChannels), "output channels")
	xfade := fs.Duration("xfade", 10*time.Millisecond, "loop seam crossfade")
	maxCapture := fs.Duration("max-capture", 5*time.Minute, "longest recording before it is discarded")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: looper live [flags]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.SampleRate = uint32(*rate)
	cfg.PeriodFrames = uint32(*period)
	cfg.InputChannels = uint32(*inCh)
	cfg.OutputChannels = uint32(*outCh)

	fd := int(os.Stdin.Fd())
	raw := term.IsTerminal(fd)
	var stderr io.Writer = os.Stderr
	if raw {
		stderr = crlfWriter{os.Stderr}
	}
	initLogger(stderr, *verbose)

	engine := looper.New(
		looper.WithCrossfade(xfade.Seconds()),
		looper.WithMaxCapture(maxCapture.Seconds()),
	)
	var inMeter, outMeter level.Meter
	dev := device.New(cfg, engine, device.WithMeters(&inMeter, &outMeter))

	if err := dev.Init(); err != nil {
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Warn("close device", "err", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := dev.Start(ctx); err != nil {
		return err
	}
	logger.Info("device started",
		"sampleRate", dev.SampleRate(),
		"period", cfg.PeriodFrames,
		"in", cfg.InputChannels,
		"out", cfg.OutputChannels,
		"crossfadeSamples", engine.CrossfadeSamples(),
	)
	if dev.SampleRate() != cfg.SampleRate {
		logger.Warn("sample rate negotiated", "requested", cfg.SampleRate, "actual", dev.SampleRate())
	}

	if raw {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("set raw mode: %w", err)
		}
		defer func() { _ = term.Restore(fd, oldState) }()
	}
	fmt.Fprint(stderr, "keys: p play, r record, i/I input gain, l/L loop gain, s stats, q quit\n")

	keys := make(chan byte)
	go readKeys(os.Stdin, keys)

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprint(stderr, "\n")
			return nil
		case b, ok := <-keys:
			if !ok {
				return nil
			}
			before := engine.State()
			switch handleKey(engine, b) {
			case keyQuit:
				fmt.Fprint(stderr, "\n")
				return nil
			case keyStats:
				logStats(engine)
			case keyHandled:
				if after := engine.State(); after != before {
					logger.Debug("state", "from", before, "to", after)
				}
			}
		case <-ticker.C:
			fmt.Fprintf(os.Stdout, "\r%s\x1b[K", statusLine(engine, &inMeter, &outMeter))
		}
	}
}

func logStats(e *looper.Engine) {
	s := e.Stats()
	fmt.Fprint(os.Stdout, "\r\x1b[K")
	logger.Info("engine",
		"state", e.State(),
		"loopFrames", e.LoopLength(),
		"crossfade", e.EffectiveCrossfade(),
		"callbacks", s.Callbacks,
		"commits", s.Commits,
		"discarded", s.DiscardedCommits,
		"aborted", s.AbortedCaptures,
		"growths", s.Growths,
		"wraps", s.Wraps,
	)
}

// readKeys forwards single bytes from r until it fails.
func readKeys(r io.Reader, keys chan<- byte) {
	defer close(keys)
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			keys <- buf[0]
		}
		if err != nil {
			return
		}
	}
}

// crlfWriter restores carriage returns that raw terminal mode drops.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Command looper is a single-layer live audio looper.
//
// Usage:
//
//	looper live [flags]
//	looper render -in in.wav -out out.wav -events EVENTS [flags]
//
// live opens the default duplex audio device and reads single-key commands
// from the terminal:
//
//	p      toggle playback
//	r      toggle recording
//	i / I  input gain down / up
//	l / L  loop gain down / up
//	s      print engine counters
//	q      quit
//
// render runs an audio file through the engine offline with a scripted
// event timeline.
//
// Examples:
//
//	looper live -rate 44100 -period 128
//	looper render -in guitar.wav -out loop.wav -events "record@0s,record@2s,play@2s" -tail 6s -analyze
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// logger is replaced by initLogger once flags are parsed.
var logger = slog.Default()

func initLogger(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: looper <command> [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  live     run the looper on the default audio device\n")
	fmt.Fprintf(os.Stderr, "  render   render an audio file offline with scripted events\n\n")
	fmt.Fprintf(os.Stderr, "Run 'looper <command> -h' for command flags.\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "live":
		err = runLive(args)
	case "render":
		err = runRender(args)
	case "help", "-h", "-help", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("looper failed", "err", err)
		os.Exit(1)
	}
}

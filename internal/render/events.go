package render

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/algo-looper/dsp/core"
)

// Command is a control action on the engine.
type Command int

const (
	TogglePlay Command = iota
	ToggleRecord
	SetInputGain
	SetLoopGain
)

func (c Command) String() string {
	switch c {
	case TogglePlay:
		return "play"
	case ToggleRecord:
		return "record"
	case SetInputGain:
		return "input"
	case SetLoopGain:
		return "loop"
	default:
		return "unknown"
	}
}

// Event is a command issued at sample At.
type Event struct {
	At      int
	Command Command
	Value   float64 // gain for SetInputGain and SetLoopGain
}

var ErrBadEvent = errors.New("render: bad event")

// ParseEvents parses an event list. The result is sorted by time; events
// at the same time keep their written order.
func ParseEvents(s string, sampleRate int) ([]Event, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("render sample rate must be > 0: %d", sampleRate)
	}

	var events []Event
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		ev, err := parseEvent(item, sampleRate)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })
	return events, nil
}

func parseEvent(item string, sampleRate int) (Event, error) {
	cmd, at, ok := strings.Cut(item, "@")
	if !ok {
		return Event{}, fmt.Errorf("%w: %q has no @time", ErrBadEvent, item)
	}

	seconds, err := parseTime(strings.TrimSpace(at))
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q: %v", ErrBadEvent, item, err)
	}
	ev := Event{At: int(math.Round(seconds * float64(sampleRate)))}

	name, value, hasValue := strings.Cut(strings.TrimSpace(cmd), "=")
	switch strings.ToLower(name) {
	case "play":
		ev.Command = TogglePlay
	case "record", "rec":
		ev.Command = ToggleRecord
	case "input", "in":
		ev.Command = SetInputGain
	case "loop":
		ev.Command = SetLoopGain
	default:
		return Event{}, fmt.Errorf("%w: unknown command %q", ErrBadEvent, name)
	}

	isGain := ev.Command == SetInputGain || ev.Command == SetLoopGain
	switch {
	case isGain && !hasValue:
		return Event{}, fmt.Errorf("%w: %q needs =<gain>", ErrBadEvent, item)
	case !isGain && hasValue:
		return Event{}, fmt.Errorf("%w: %q takes no value", ErrBadEvent, item)
	case isGain:
		g, err := parseGain(strings.TrimSpace(value))
		if err != nil {
			return Event{}, fmt.Errorf("%w: bad gain in %q", ErrBadEvent, item)
		}
		ev.Value = g
	}
	return ev, nil
}

// parseGain accepts a linear gain ("0.5") or decibels ("-6dB").
func parseGain(s string) (float64, error) {
	isDB := false
	if n := len(s); n > 2 && strings.EqualFold(s[n-2:], "db") {
		s, isDB = s[:n-2], true
	}
	g, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(g) {
		return 0, errors.New("gain is NaN")
	}
	if isDB {
		return core.DBToLinear(g), nil
	}
	return g, nil
}

func parseTime(s string) (float64, error) {
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return 0, errors.New("negative time")
		}
		return d.Seconds(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad time %q", s)
	}
	if v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("bad time %q", s)
	}
	return v, nil
}

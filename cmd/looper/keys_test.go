package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/algo-looper/dsp/looper"
	"github.com/cwbudde/algo-looper/stats/level"
)

func TestHandleKey(t *testing.T) {
	e := looper.New(looper.WithGains(0.5, 0.5))

	steps := []struct {
		key       byte
		want      keyAction
		wantState looper.State
		wantIn    float64
		wantLoop  float64
	}{
		{'p', keyHandled, looper.Playing, 0.5, 0.5},
		{'r', keyHandled, looper.PlayingAndRecording, 0.5, 0.5},
		{'I', keyHandled, looper.PlayingAndRecording, 0.55, 0.5},
		{'l', keyHandled, looper.PlayingAndRecording, 0.55, 0.45},
		{'R', keyHandled, looper.Playing, 0.55, 0.45},
		{'x', keyNone, looper.Playing, 0.55, 0.45},
		{'s', keyStats, looper.Playing, 0.55, 0.45},
		{'q', keyQuit, looper.Playing, 0.55, 0.45},
		{3, keyQuit, looper.Playing, 0.55, 0.45},
	}

	for _, st := range steps {
		if got := handleKey(e, st.key); got != st.want {
			t.Fatalf("key %q: got action %v want %v", st.key, got, st.want)
		}
		if got := e.State(); got != st.wantState {
			t.Fatalf("key %q: state %v want %v", st.key, got, st.wantState)
		}
		if got := e.InputGain(); !near(got, st.wantIn) {
			t.Fatalf("key %q: input gain %v want %v", st.key, got, st.wantIn)
		}
		if got := e.LoopGain(); !near(got, st.wantLoop) {
			t.Fatalf("key %q: loop gain %v want %v", st.key, got, st.wantLoop)
		}
	}
}

func TestGainKeysClamp(t *testing.T) {
	e := looper.New(looper.WithGains(1, 0))
	handleKey(e, 'I')
	handleKey(e, 'l')
	if e.InputGain() != 1 || e.LoopGain() != 0 {
		t.Fatalf("gains: got %v/%v want 1/0", e.InputGain(), e.LoopGain())
	}
}

func TestStatusLine(t *testing.T) {
	e := looper.New()
	if err := e.Initialize(1000, 10, 1, 1); err != nil {
		t.Fatal(err)
	}
	var in, out level.Meter
	in.Update([][]float64{{0.5}})

	line := statusLine(e, &in, &out)
	for _, want := range []string{"idle", "loop=  0.00s", "in=  -6.0", "out=  -inf", "0.50/0.50"} {
		if !strings.Contains(line, want) {
			t.Fatalf("status %q missing %q", line, want)
		}
	}

	e.ToggleRecord()
	if line := statusLine(e, &in, &out); !strings.Contains(line, "rec=") {
		t.Fatalf("status %q missing capture length", line)
	}
}

func TestReadKeys(t *testing.T) {
	keys := make(chan byte)
	go readKeys(strings.NewReader("pr"), keys)

	var got []byte
	for b := range keys {
		got = append(got, b)
	}
	if string(got) != "pr" {
		t.Fatalf("keys: got %q want %q", got, "pr")
	}
}

func TestCRLFWriter(t *testing.T) {
	var buf bytes.Buffer
	n, err := crlfWriter{&buf}.Write([]byte("a\nb\n"))
	if err != nil || n != 4 {
		t.Fatalf("Write: got %d, %v", n, err)
	}
	if got := buf.String(); got != "a\r\nb\r\n" {
		t.Fatalf("output: got %q", got)
	}
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-12 && d > -1e-12
}

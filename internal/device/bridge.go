package device

import (
	"github.com/cwbudde/algo-looper/dsp/core"
	"github.com/cwbudde/algo-looper/stats/level"
)

// Processor renders audio blocks for a device session. *looper.Engine
// satisfies it.
type Processor interface {
	Initialize(sampleRate float64, blockSize, inputChannels, outputChannels int) error
	Process(in, out [][]float64)
	Shutdown()
}

// bridge converts between interleaved float32 device buffers and the
// processor's non-interleaved float64 blocks. Callbacks larger than the
// period are rendered in period-sized chunks.
type bridge struct {
	proc     Processor
	period   int
	in, out  [][]float64 // period-sized storage
	inView   [][]float64 // per-chunk slices of in
	outView  [][]float64 // per-chunk slices of out
	inMeter  *level.Meter
	outMeter *level.Meter
}

func newBridge(proc Processor, period, inChannels, outChannels int) *bridge {
	return &bridge{
		proc:    proc,
		period:  period,
		in:      core.EnsureChannels(nil, inChannels, period),
		out:     core.EnsureChannels(nil, outChannels, period),
		inView:  make([][]float64, inChannels),
		outView: make([][]float64, outChannels),
	}
}

// render processes frames interleaved frames. input may be empty when the
// device delivers no capture data; the processor then sees zero input
// channels for the callback.
func (b *bridge) render(output, input []float32, frames int) {
	inCh, outCh := len(b.in), len(b.out)
	if outCh == 0 {
		return
	}
	if frames*outCh > len(output) {
		frames = len(output) / outCh
	}
	hasInput := inCh > 0 && len(input) >= frames*inCh

	for start := 0; start < frames; start += b.period {
		n := frames - start
		if n > b.period {
			n = b.period
		}

		in := b.inView[:0]
		if hasInput {
			in = b.inView
			for ch := range b.in {
				dst := b.in[ch][:n]
				for i := range dst {
					dst[i] = float64(input[(start+i)*inCh+ch])
				}
				in[ch] = dst
			}
		}
		for ch := range b.out {
			b.outView[ch] = b.out[ch][:n]
		}

		b.proc.Process(in, b.outView)

		if b.inMeter != nil && hasInput {
			b.inMeter.Update(in)
		}
		if b.outMeter != nil {
			b.outMeter.Update(b.outView)
		}

		for ch, src := range b.outView {
			for i, x := range src {
				output[(start+i)*outCh+ch] = float32(x)
			}
		}
	}
}

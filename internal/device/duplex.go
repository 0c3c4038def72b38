package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/cwbudde/algo-looper/stats/level"
	"github.com/gen2brain/malgo"
)

const bytesPerFloat32 = 4

var (
	ErrNotInitialized = errors.New("device: not initialized")
	ErrAlreadyRunning = errors.New("device: already running")
	ErrNotRunning     = errors.New("device: not running")
	ErrInvalidConfig  = errors.New("device: invalid config")
)

// Config holds the requested device parameters. The backend may negotiate
// a different sample rate; SampleRate reports the one in effect.
type Config struct {
	SampleRate     uint32
	PeriodFrames   uint32 // frames per callback
	InputChannels  uint32
	OutputChannels uint32
}

// DefaultConfig returns a stereo 48 kHz configuration with a 256 frame period.
func DefaultConfig() Config {
	return Config{
		SampleRate:     48000,
		PeriodFrames:   256,
		InputChannels:  2,
		OutputChannels: 2,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.SampleRate == 0 {
		return fmt.Errorf("%w: sample rate must be > 0", ErrInvalidConfig)
	}
	if c.PeriodFrames == 0 {
		return fmt.Errorf("%w: period must be > 0", ErrInvalidConfig)
	}
	if c.OutputChannels == 0 {
		return fmt.Errorf("%w: need at least one output channel", ErrInvalidConfig)
	}
	return nil
}

// Option configures a Duplex.
type Option func(*Duplex)

// WithMeters attaches level meters updated from the audio thread. Either
// may be nil.
func WithMeters(input, output *level.Meter) Option {
	return func(d *Duplex) {
		d.inMeter = input
		d.outMeter = output
	}
}

// Duplex runs a Processor on the default capture and playback devices.
type Duplex struct {
	cfg  Config
	proc Processor

	inMeter  *level.Meter
	outMeter *level.Meter

	mu         sync.Mutex // protects ctx, device and sampleRate
	ctx        *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate uint32

	running atomic.Bool
}

// New returns a Duplex for proc. Call Init before Start.
func New(cfg Config, proc Processor, opts ...Option) *Duplex {
	d := &Duplex{cfg: cfg, proc: proc}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Init initializes the audio backend.
func (d *Duplex) Init() error {
	if err := d.cfg.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx != nil {
		return errors.New("device: already initialized")
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}
	d.ctx = ctx
	return nil
}

// Start opens the duplex device, initializes the processor with the
// negotiated sample rate and starts streaming. The device stops when ctx
// is cancelled.
func (d *Duplex) Start(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx == nil {
		d.running.Store(false)
		return ErrNotInitialized
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Duplex)
	deviceConfig.SampleRate = d.cfg.SampleRate
	deviceConfig.PeriodSizeInFrames = d.cfg.PeriodFrames
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = d.cfg.InputChannels
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = d.cfg.OutputChannels

	period := int(d.cfg.PeriodFrames)
	b := newBridge(d.proc, period, int(d.cfg.InputChannels), int(d.cfg.OutputChannels))
	b.inMeter = d.inMeter
	b.outMeter = d.outMeter

	callbacks := malgo.DeviceCallbacks{
		Data: func(output, input []byte, frames uint32) {
			b.render(bytesAsFloat32(output), bytesAsFloat32(input), int(frames))
		},
	}

	device, err := malgo.InitDevice(d.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		d.running.Store(false)
		return fmt.Errorf("init device: %w", err)
	}

	rate := device.SampleRate()
	if rate == 0 {
		rate = d.cfg.SampleRate
	}
	if err := d.proc.Initialize(float64(rate), period, int(d.cfg.InputChannels), int(d.cfg.OutputChannels)); err != nil {
		device.Uninit()
		d.running.Store(false)
		return fmt.Errorf("initialize processor: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		d.proc.Shutdown()
		d.running.Store(false)
		return fmt.Errorf("start device: %w", err)
	}
	d.device = device
	d.sampleRate = rate

	go func() {
		<-ctx.Done()
		_ = d.Stop()
	}()

	return nil
}

// Stop stops streaming and shuts the processor down.
func (d *Duplex) Stop() error {
	if !d.running.CompareAndSwap(true, false) {
		return ErrNotRunning
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if d.device != nil {
		if stopErr := d.device.Stop(); stopErr != nil {
			err = fmt.Errorf("stop device: %w", stopErr)
		}
		d.device.Uninit()
		d.device = nil
	}
	d.proc.Shutdown()
	return err
}

// Close stops the device if needed and releases the backend.
func (d *Duplex) Close() error {
	if err := d.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx != nil {
		if err := d.ctx.Uninit(); err != nil {
			return fmt.Errorf("uninit context: %w", err)
		}
		d.ctx.Free()
		d.ctx = nil
	}
	return nil
}

// Running reports whether the device is streaming.
func (d *Duplex) Running() bool {
	return d.running.Load()
}

// SampleRate returns the negotiated sample rate of the running device, or
// 0 when stopped.
func (d *Duplex) SampleRate() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.device == nil {
		return 0
	}
	return d.sampleRate
}

// bytesAsFloat32 reinterprets a device buffer as float32 samples without
// copying. The result aliases data.
func bytesAsFloat32(data []byte) []float32 {
	if len(data) < bytesPerFloat32 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), len(data)/bytesPerFloat32)
}

// SPDX-License-Identifier: MIT
package capture

import (
	"fmt"
	"runtime"

	"github.com/gordonklaus/portaudio"
)

const int32Scale = 1.0 / 2147483648.0

// UseDefaultDevice selects the system default input device.
const UseDefaultDevice = -1

// Initialize sets up the PortAudio subsystem. Must be called before
// any capture and paired with a Terminate call.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	return nil
}

// Terminate shuts down the PortAudio subsystem.
func Terminate() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

// PortAudioSource captures mono audio from one input device. Samples
// arrive as int32 on the stream callback thread and are normalized to
// float64 in [-1, 1) before delivery.
type PortAudioSource struct {
	device    *portaudio.DeviceInfo
	stream    *portaudio.Stream
	rate      int
	frames    int
	channels  int
	lowLat    bool
	monoInput []float64 // preallocated, reused by every callback
	sink      func([]float64)
}

var _ Source = (*PortAudioSource)(nil)

// NewPortAudioSource prepares a source on the given device at the
// given rate and callback size. Pass UseDefaultDevice for the system
// default input. Initialize must have been called.
func NewPortAudioSource(deviceID, rate, framesPerBuffer int, lowLatency bool) (*PortAudioSource, error) {
	device, err := inputDevice(deviceID)
	if err != nil {
		return nil, err
	}
	if framesPerBuffer < 1 {
		return nil, fmt.Errorf("frames per buffer must be positive, got %d", framesPerBuffer)
	}
	return &PortAudioSource{
		device:    device,
		rate:      rate,
		frames:    framesPerBuffer,
		channels:  1,
		lowLat:    lowLatency,
		monoInput: make([]float64, framesPerBuffer),
	}, nil
}

func (p *PortAudioSource) SampleRate() int { return p.rate }

// DeviceName returns the name of the selected input device.
func (p *PortAudioSource) DeviceName() string { return p.device.Name }

func (p *PortAudioSource) Start(sink func([]float64)) error {
	if p.stream != nil {
		return fmt.Errorf("capture already started on %s", p.device.Name)
	}

	latency := p.device.DefaultHighInputLatency
	if p.lowLat {
		latency = p.device.DefaultLowInputLatency
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: p.channels,
			Device:   p.device,
			Latency:  latency,
		},
		FramesPerBuffer: p.frames,
		SampleRate:      float64(p.rate),
	}

	p.sink = sink
	stream, err := portaudio.OpenStream(params, p.processInput)
	if err != nil {
		return fmt.Errorf("%w: open stream: %v", ErrCaptureUnavailable, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("%w: start stream: %v", ErrCaptureUnavailable, err)
	}
	p.stream = stream
	return nil
}

func (p *PortAudioSource) Stop() error {
	if p.stream == nil {
		return nil
	}
	if err := p.stream.Stop(); err != nil {
		return err
	}
	if err := p.stream.Close(); err != nil {
		return err
	}
	p.stream = nil
	p.sink = nil
	return nil
}

// processInput runs on the PortAudio callback thread. It only copies
// and scales into the preallocated buffer, then hands off to the sink.
func (p *PortAudioSource) processInput(in []int32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	n := len(in)
	if n > len(p.monoInput) {
		n = len(p.monoInput)
	}
	for i := 0; i < n; i++ {
		p.monoInput[i] = float64(in[i]) * int32Scale
	}
	if p.sink != nil {
		p.sink(p.monoInput[:n])
	}
}

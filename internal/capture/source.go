// SPDX-License-Identifier: MIT
package capture

import "errors"

// ErrCaptureUnavailable is returned when no audio input can be opened,
// either because the audio subsystem failed to initialize or no input
// device exists.
var ErrCaptureUnavailable = errors.New("audio capture unavailable")

// Source produces mono float64 samples in [-1, 1] and pushes them to a
// sink as they arrive. Implementations deliver samples from their own
// goroutine or callback thread; the sink must be cheap and non-blocking.
type Source interface {
	// Start begins delivery into sink. Calling Start on a running
	// source is an error.
	Start(sink func([]float64)) error
	// Stop halts delivery. Stop on a stopped source is a no-op.
	Stop() error
	// SampleRate returns the source's sample rate in Hz.
	SampleRate() int
}

// StaticSource replays a fixed sample slice on demand. It never pushes
// on its own; tests drive it by calling Push. Implements Source.
type StaticSource struct {
	rate    int
	sink    func([]float64)
	started bool
}

var _ Source = (*StaticSource)(nil)

// NewStaticSource returns a manually driven source at the given rate.
func NewStaticSource(rate int) *StaticSource {
	return &StaticSource{rate: rate}
}

func (s *StaticSource) Start(sink func([]float64)) error {
	if s.started {
		return errors.New("static source already started")
	}
	s.sink = sink
	s.started = true
	return nil
}

func (s *StaticSource) Stop() error {
	s.started = false
	s.sink = nil
	return nil
}

func (s *StaticSource) SampleRate() int { return s.rate }

// Push delivers samples to the sink, if started.
func (s *StaticSource) Push(samples []float64) {
	if s.started && s.sink != nil {
		s.sink(samples)
	}
}

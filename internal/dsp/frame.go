// SPDX-License-Identifier: MIT
package dsp

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is wrapped by all window/hop validation
// failures. Match with errors.Is.
var ErrInvalidConfiguration = errors.New("invalid analysis configuration")

// WindowConfig holds the framing parameters shared by all short-time
// techniques.
type WindowConfig struct {
	Window WindowFunc
	Length int // frame length in samples
	Hop    int // samples between consecutive frame starts
}

// Validate checks the framing invariants: Length >= 2, Hop >= 1 and
// Hop <= Length (a hop larger than the window would skip samples).
func (c WindowConfig) Validate() error {
	if c.Length < 2 {
		return fmt.Errorf("%w: window length must be >= 2, got %d", ErrInvalidConfiguration, c.Length)
	}
	if c.Hop <= 0 {
		return fmt.Errorf("%w: hop size must be positive, got %d", ErrInvalidConfiguration, c.Hop)
	}
	if c.Hop > c.Length {
		return fmt.Errorf("%w: hop size %d exceeds window length %d", ErrInvalidConfiguration, c.Hop, c.Length)
	}
	return nil
}

// FrameSource splits a sample slice into overlapping frames. Frame i
// starts at offset i*Hop; the final partial frame is zero-padded so a
// signal shorter than one window still yields exactly one frame and no
// trailing samples are ever dropped.
//
// The source never copies or mutates the underlying samples; frames are
// materialized on demand into caller-provided buffers.
type FrameSource struct {
	samples []float64
	rate    int
	cfg     WindowConfig
	coeffs  []float64
}

// NewFrameSource validates cfg and builds a frame source over samples.
func NewFrameSource(samples []float64, sampleRate int, cfg WindowConfig) (*FrameSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfiguration, sampleRate)
	}

	return &FrameSource{
		samples: samples,
		rate:    sampleRate,
		cfg:     cfg,
		coeffs:  cfg.Window.Coefficients(cfg.Length),
	}, nil
}

// Config returns the framing configuration.
func (fs *FrameSource) Config() WindowConfig {
	return fs.cfg
}

// NumFrames returns the number of frames the source will produce.
// Empty input yields zero frames. Frames advance by Hop until the last
// frame's zero-padded window reaches the end of the signal, so every
// sample falls inside at least one frame and none is dropped.
func (fs *FrameSource) NumFrames() int {
	n := len(fs.samples)
	if n == 0 {
		return 0
	}
	if n <= fs.cfg.Length {
		return 1
	}
	frames := (n-fs.cfg.Length)/fs.cfg.Hop + 1
	if (n-fs.cfg.Length)%fs.cfg.Hop != 0 {
		frames++ // trailing partial frame, zero-padded
	}
	return frames
}

// Start returns the sample offset of frame i.
func (fs *FrameSource) Start(i int) int {
	return i * fs.cfg.Hop
}

// Time returns the center time of frame i in seconds. Short-time results
// are stamped with frame centers, matching how spectrogram rows are
// conventionally positioned.
func (fs *FrameSource) Time(i int) float64 {
	return (float64(fs.Start(i)) + float64(fs.cfg.Length)/2) / float64(fs.rate)
}

// Raw copies frame i into dst without windowing, zero-padding past the
// end of the signal. len(dst) must be cfg.Length. Time-domain techniques
// (short-time energy, pitch) analyze raw frames.
func (fs *FrameSource) Raw(i int, dst []float64) {
	start := fs.Start(i)
	n := copy(dst, fs.samples[min(start, len(fs.samples)):])
	for j := n; j < len(dst); j++ {
		dst[j] = 0
	}
}

// Windowed copies frame i into dst and applies the configured window
// function, ready for the spectral transform.
func (fs *FrameSource) Windowed(i int, dst []float64) {
	fs.Raw(i, dst)
	for j := range dst {
		dst[j] *= fs.coeffs[j]
	}
}

// WindowSum returns the sum of the window coefficients, the
// normalization constant used to calibrate spectral magnitudes.
func (fs *FrameSource) WindowSum() float64 {
	sum := 0.0
	for _, c := range fs.coeffs {
		sum += c
	}
	return sum
}

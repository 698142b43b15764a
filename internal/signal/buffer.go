// SPDX-License-Identifier: MIT
/*
Package signal owns sampled signals. A Buffer is immutable after
creation: producers (file import, live capture snapshots, filters) build
one, every analysis technique only reads it. Buffers are shared by
reference between sessions; the longest-lived session keeps the samples
alive.
*/
package signal

import (
	"fmt"
	"time"
)

// Buffer is an immutable mono signal: samples, sample rate and a
// human-readable label for window titles and navigation.
type Buffer struct {
	samples []float64
	rate    int
	label   string
}

// New creates a Buffer from the given samples. The slice is copied so
// later writes by the caller cannot reach analysis results. Amplitudes
// are taken as-is; the engine never normalizes. A zero-length sample
// slice is valid and yields degenerate (empty) analysis results.
func New(samples []float64, sampleRate int, label string) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	owned := make([]float64, len(samples))
	copy(owned, samples)

	return &Buffer{
		samples: owned,
		rate:    sampleRate,
		label:   label,
	}, nil
}

// Samples returns the sample data. Callers must treat the slice as
// read-only; it is shared between all sessions referencing this buffer.
func (b *Buffer) Samples() []float64 {
	return b.samples
}

// Len returns the number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Rate returns the sample rate in Hz.
func (b *Buffer) Rate() int {
	return b.rate
}

// Label returns the buffer's display label.
func (b *Buffer) Label() string {
	return b.label
}

// Duration returns the signal length as wall time.
func (b *Buffer) Duration() time.Duration {
	if b.rate == 0 {
		return 0
	}
	seconds := float64(len(b.samples)) / float64(b.rate)
	return time.Duration(seconds * float64(time.Second))
}

// Slice returns a new Buffer holding samples [from, to). Bounds are
// clamped to the signal; an inverted range yields an empty buffer.
// Used for region-restricted Fourier analysis.
func (b *Buffer) Slice(from, to int, label string) *Buffer {
	if from < 0 {
		from = 0
	}
	if to > len(b.samples) {
		to = len(b.samples)
	}
	if from >= to {
		return &Buffer{rate: b.rate, label: label}
	}

	owned := make([]float64, to-from)
	copy(owned, b.samples[from:to])
	return &Buffer{samples: owned, rate: b.rate, label: label}
}

// SPDX-License-Identifier: MIT
package dsp

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"

	"sigviz/pkg/bitint"
)

// ErrNumericInstability is returned when a frame contains non-finite
// samples. The affected frame is skipped; prior results stay valid.
var ErrNumericInstability = errors.New("non-finite sample in analysis frame")

// Spectrum is the one-sided frequency-domain view of a frame: nfft/2+1
// bins, bin k at frequency k*rate/nfft. Magnitudes are calibrated so a
// unit-amplitude pure tone peaks at ~1.0 regardless of window choice.
type Spectrum struct {
	Freqs      []float64 `json:"freqs"`
	Magnitudes []float64 `json:"magnitudes"`
	Phases     []float64 `json:"phases"`
}

// Bins returns the number of frequency bins.
func (s Spectrum) Bins() int {
	return len(s.Magnitudes)
}

// Peak returns the frequency and magnitude of the strongest bin.
// An empty spectrum reports (0, 0).
func (s Spectrum) Peak() (freq, magnitude float64) {
	peak := -1
	for i, m := range s.Magnitudes {
		if peak < 0 || m > magnitude {
			peak = i
			magnitude = m
		}
	}
	if peak < 0 {
		return 0, 0
	}
	return s.Freqs[peak], s.Magnitudes[peak]
}

// Clone returns a deep copy, used when publishing a workspace-backed
// spectrum across a goroutine boundary.
func (s Spectrum) Clone() Spectrum {
	out := Spectrum{
		Freqs:      make([]float64, len(s.Freqs)),
		Magnitudes: make([]float64, len(s.Magnitudes)),
		Phases:     make([]float64, len(s.Phases)),
	}
	copy(out.Freqs, s.Freqs)
	copy(out.Magnitudes, s.Magnitudes)
	copy(out.Phases, s.Phases)
	return out
}

// Transform converts windowed frames into Spectra. It pre-allocates its
// FFT workspace once and reuses it for every frame, so a single
// Transform serves a whole STFT pass without garbage. Safe for
// concurrent use; the workspace is guarded by a mutex.
type Transform struct {
	frameLen  int
	nfft      int
	rate      float64
	windowSum float64

	mu     sync.Mutex
	fft    *fourier.FFT
	input  []float64
	coeffs []complex128
}

// NewTransform builds a Transform for frames produced under cfg. The
// FFT size is cfg.Length rounded up to the next power of two.
func NewTransform(cfg WindowConfig, sampleRate int) (*Transform, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfiguration, sampleRate)
	}

	nfft := bitint.NextPowerOfTwo(cfg.Length)

	windowSum := 0.0
	for _, c := range cfg.Window.Coefficients(cfg.Length) {
		windowSum += c
	}

	return &Transform{
		frameLen:  cfg.Length,
		nfft:      nfft,
		rate:      float64(sampleRate),
		windowSum: windowSum,
		fft:       fourier.NewFFT(nfft),
		input:     make([]float64, nfft),
		coeffs:    make([]complex128, nfft/2+1),
	}, nil
}

// NFFT returns the transform size actually used (>= the frame length).
func (t *Transform) NFFT() int {
	return t.nfft
}

// BinWidth returns the frequency resolution in Hz per bin.
func (t *Transform) BinWidth() float64 {
	return t.rate / float64(t.nfft)
}

// Spectrum computes the one-sided spectrum of a windowed frame. The
// frame is zero-padded to the FFT size. Deterministic: the same frame
// always yields the same spectrum bit-for-bit.
//
// Magnitude calibration: interior bins are scaled by 2/sum(window),
// DC and Nyquist by 1/sum(window), so the reported magnitude of a pure
// tone equals its time-domain amplitude independent of window shape.
func (t *Transform) Spectrum(frame []float64) (Spectrum, error) {
	if len(frame) > t.nfft {
		return Spectrum{}, fmt.Errorf("%w: frame length %d exceeds FFT size %d", ErrInvalidConfiguration, len(frame), t.nfft)
	}
	for _, v := range frame {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Spectrum{}, ErrNumericInstability
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	n := copy(t.input, frame)
	for i := n; i < t.nfft; i++ {
		t.input[i] = 0
	}

	t.fft.Coefficients(t.coeffs, t.input)

	bins := len(t.coeffs)
	out := Spectrum{
		Freqs:      make([]float64, bins),
		Magnitudes: make([]float64, bins),
		Phases:     make([]float64, bins),
	}

	binWidth := t.rate / float64(t.nfft)
	for k, c := range t.coeffs {
		scale := 2.0 / t.windowSum
		if k == 0 || k == bins-1 {
			scale = 1.0 / t.windowSum // DC and Nyquist are not doubled
		}
		out.Freqs[k] = float64(k) * binWidth
		out.Magnitudes[k] = cmplx.Abs(c) * scale
		out.Phases[k] = cmplx.Phase(c)
	}

	return out, nil
}

// ComputeSpectrum is the whole-signal convenience path: a rectangular
// full-length transform of samples, used by the Fourier technique and
// for filter responses. Empty input yields an empty spectrum.
func ComputeSpectrum(samples []float64, sampleRate int) (Spectrum, error) {
	if len(samples) == 0 {
		return Spectrum{}, nil
	}

	cfg := WindowConfig{Window: Rectangular, Length: len(samples), Hop: len(samples)}
	t, err := NewTransform(cfg, sampleRate)
	if err != nil {
		return Spectrum{}, err
	}
	return t.Spectrum(samples)
}

// leakageFloor separates signal content from spectral leakage when a
// frequency mask is applied. Rejected bins whose magnitude stays below
// this fraction of the spectral peak hold only the skirt of a tone
// elsewhere in the spectrum, and zeroing them would smear ringing
// across the whole output. A full-length rectangular transform keeps
// leakage skirts a few bins past a tone under 1e-3 of its peak, well
// inside this floor.
const leakageFloor = 1e-2

// ApplyFrequencyMask filters samples in the frequency domain: forward
// transform, zero every bin whose center frequency the keep predicate
// rejects, inverse transform. The output always has the same length as
// the input. A predicate that keeps every bin returns the input within
// floating-point round-off, and a mask that rejects only leakage (no
// rejected bin above leakageFloor of the spectral peak) is an identity:
// the input comes back exactly rather than with the leakage tail
// carved out.
func ApplyFrequencyMask(samples []float64, sampleRate int, keep func(hz float64) bool) ([]float64, error) {
	if len(samples) == 0 {
		return []float64{}, nil
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfiguration, sampleRate)
	}
	for _, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNumericInstability
		}
	}

	nfft := bitint.NextPowerOfTwo(len(samples))
	fft := fourier.NewFFT(nfft)

	padded := make([]float64, nfft)
	copy(padded, samples)

	coeffs := fft.Coefficients(nil, padded)
	binWidth := float64(sampleRate) / float64(nfft)

	peak := 0.0
	for _, c := range coeffs {
		if m := cmplx.Abs(c); m > peak {
			peak = m
		}
	}

	rejectedPeak := 0.0
	for k := range coeffs {
		if !keep(float64(k) * binWidth) {
			if m := cmplx.Abs(coeffs[k]); m > rejectedPeak {
				rejectedPeak = m
			}
			coeffs[k] = 0
		}
	}

	// Nothing but leakage in the rejected band: the signal's content
	// lies entirely inside the passband, so the filter is an identity.
	if rejectedPeak <= leakageFloor*peak {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out, nil
	}

	// fourier's Sequence is the unnormalized inverse; divide by nfft.
	restored := fft.Sequence(nil, coeffs)
	out := make([]float64, len(samples))
	scale := 1.0 / float64(nfft)
	for i := range out {
		out[i] = restored[i] * scale
	}

	return out, nil
}

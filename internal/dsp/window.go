// SPDX-License-Identifier: MIT
/*
Package dsp implements the framing and spectral-transform layer: it
splits signals into overlapping windowed frames and converts frames into
one-sided magnitude/phase spectra.

Two policies are fixed here and relied on by every analysis technique:

  - A trailing partial frame is zero-padded, never dropped, so each
    sample of the input contributes to exactly the frames its offset
    falls into and total-energy accounting stays consistent.
  - Frame lengths that are not a power of two are zero-padded up to the
    next power of two before the FFT. This shifts the bin resolution
    from rate/length to rate/nfft; bin frequencies always report the
    actual transform size.
*/
package dsp

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/dsp/window"
)

// WindowFunc selects the tapering function applied to a frame before
// the spectral transform.
type WindowFunc int

const (
	Rectangular WindowFunc = iota
	Hann
	Hamming
	Blackman
)

// String returns the lower-case name of the window function.
func (w WindowFunc) String() string {
	switch w {
	case Rectangular:
		return "rectangular"
	case Hann:
		return "hann"
	case Hamming:
		return "hamming"
	case Blackman:
		return "blackman"
	default:
		return "unknown"
	}
}

// ParseWindowFunc converts a string name (case-insensitive) to a
// WindowFunc. Returns Hann and an error if the name is unknown.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(name) {
	case "rectangular", "rect", "none":
		return Rectangular, nil
	case "hann", "hanning":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "blackman":
		return Blackman, nil
	default:
		return Hann, fmt.Errorf("unknown window function name: '%s'", name)
	}
}

// Coefficients returns freshly allocated window coefficients of the
// given length.
func (w WindowFunc) Coefficients(length int) []float64 {
	coeffs := make([]float64, length)
	// gonum's window functions multiply in place, so seed with ones.
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	switch w {
	case Rectangular:
		// All ones.
	case Hann:
		window.Hann(coeffs)
	case Hamming:
		window.Hamming(coeffs)
	case Blackman:
		window.Blackman(coeffs)
	default:
		window.Hann(coeffs)
	}
	return coeffs
}

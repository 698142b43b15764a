// SPDX-License-Identifier: MIT
/*
Package analysis maps signals to the nine analysis representations of
the visualizer: waveform, Fourier transform, STFT, spectrogram,
short-time energy, pitch tracking, spectral centroid, filtering and the
real-time tuner view.

Every technique is a pure function from (signal, window configuration,
parameters) to a Result; switching techniques never mutates the signal.
The set is closed and enumerable, so results are a tagged variant
selected by Kind rather than an interface hierarchy.
*/
package analysis

import (
	"fmt"
	"strings"

	"sigviz/internal/dsp"
	"sigviz/internal/signal"
)

// Kind identifies one of the nine analysis techniques.
type Kind int

const (
	Waveform Kind = iota
	FourierTransform
	STFT
	Spectrogram
	ShortTimeEnergy
	Pitch
	SpectralCentroid
	Filter
	Tuner
)

// TechniqueInfo describes one catalog entry for the presentation layer.
type TechniqueInfo struct {
	Kind  Kind   `json:"-"`
	ID    string `json:"id"`
	Label string `json:"label"`
}

var catalog = []TechniqueInfo{
	{Waveform, "waveform", "Waveform"},
	{FourierTransform, "fourier", "Fourier Transform"},
	{STFT, "stft", "Short-Time Fourier Transform"},
	{Spectrogram, "spectrogram", "Spectrogram"},
	{ShortTimeEnergy, "energy", "Short-Time Energy"},
	{Pitch, "pitch", "Pitch Tracking"},
	{SpectralCentroid, "centroid", "Spectral Centroid"},
	{Filter, "filter", "Filtering"},
	{Tuner, "tuner", "Real-Time Tuner"},
}

// Catalog returns the ordered list of the nine techniques with their
// stable identifiers and human labels.
func Catalog() []TechniqueInfo {
	out := make([]TechniqueInfo, len(catalog))
	copy(out, catalog)
	return out
}

// String returns the technique's stable identifier.
func (k Kind) String() string {
	for _, info := range catalog {
		if info.Kind == k {
			return info.ID
		}
	}
	return "unknown"
}

// Label returns the technique's human-readable name.
func (k Kind) Label() string {
	for _, info := range catalog {
		if info.Kind == k {
			return info.Label
		}
	}
	return "Unknown"
}

// ParseKind converts a technique identifier (case-insensitive) to a
// Kind.
func ParseKind(id string) (Kind, error) {
	needle := strings.ToLower(id)
	for _, info := range catalog {
		if info.ID == needle {
			return info.Kind, nil
		}
	}
	return Waveform, fmt.Errorf("unknown analysis technique: '%s'", id)
}

// Result is the technique-tagged variant returned by Compute. Exactly
// the payload matching Kind is non-nil.
type Result struct {
	Kind Kind `json:"kind"`

	Waveform    *WaveformData    `json:"waveform,omitempty"`
	Spectrum    *SpectrumData    `json:"spectrum,omitempty"`
	STFT        *STFTData        `json:"stft,omitempty"`
	Spectrogram *SpectrogramData `json:"spectrogram,omitempty"`
	Energy      *EnergyData      `json:"energy,omitempty"`
	Pitch       *PitchData       `json:"pitch,omitempty"`
	Centroid    *CentroidData    `json:"centroid,omitempty"`
	Filter      *FilterData      `json:"filter,omitempty"`
	Tuner       *TunerData       `json:"tuner,omitempty"`
}

// WaveformData is amplitude against time, the raw samples unwindowed.
type WaveformData struct {
	Times      []float64 `json:"times"`
	Amplitudes []float64 `json:"amplitudes"`
}

// SpectrumData is a single whole-signal (or region) spectrum.
type SpectrumData struct {
	Spectrum dsp.Spectrum `json:"spectrum"`
	// Region bounds in seconds; both zero means the whole signal.
	RegionStart float64 `json:"region_start"`
	RegionEnd   float64 `json:"region_end"`
}

// STFTData is the frame-by-frame spectrum sequence. Times hold frame
// centers in seconds.
type STFTData struct {
	Times   []float64      `json:"times"`
	Spectra []dsp.Spectrum `json:"spectra"`
}

// SpectrogramData is the STFT rendered as a time-frequency-magnitude
// surface with magnitudes on a floored dB scale.
type SpectrogramData struct {
	Times        []float64   `json:"times"`
	Freqs        []float64   `json:"freqs"`
	MagnitudesDB [][]float64 `json:"magnitudes_db"` // [frame][bin]
}

// EnergyData is the per-frame sum of squared samples, timestamped.
type EnergyData struct {
	Times    []float64 `json:"times"`
	Energies []float64 `json:"energies"`
}

// PitchData is the per-frame fundamental estimate. Frames below the
// silence threshold (or without a credible period) have Voiced false
// and frequency 0 rather than a spurious value.
type PitchData struct {
	Times       []float64 `json:"times"`
	Frequencies []float64 `json:"frequencies"`
	Voiced      []bool    `json:"voiced"`
}

// CentroidData is the per-frame magnitude-weighted mean frequency.
type CentroidData struct {
	Times     []float64 `json:"times"`
	Centroids []float64 `json:"centroids"`
}

// FilterData carries the filtered signal as a new buffer plus its
// spectrum. The filtered signal always has the input's length.
type FilterData struct {
	Filtered *signal.Buffer `json:"-"`
	Response dsp.Spectrum   `json:"response"`
}

// TunerData is the batch rendition of the live tuner view: the
// whole-signal spectrum plus a single pitch estimate and note label.
type TunerData struct {
	Spectrum dsp.Spectrum `json:"spectrum"`
	Freq     float64      `json:"freq"`
	Voiced   bool         `json:"voiced"`
	Note     string       `json:"note"`
	Cents    float64      `json:"cents"`
}

// SPDX-License-Identifier: MIT
package analysis

import (
	"errors"
	"math"

	"sigviz/internal/dsp"
	"sigviz/internal/log"
	"sigviz/internal/signal"
)

// dbFloorOffset keeps the log conversion finite on silent bins: the
// same 1e-8 additive floor the live tuner display uses (-160 dB).
const dbFloorOffset = 1e-8

// computeFourier transforms the whole signal (or the configured region)
// in one full-length FFT, no framing.
func computeFourier(buf *signal.Buffer, params Params) (*Result, error) {
	start := params.floatParam(FourierTransform, "region_start_sec")
	end := params.floatParam(FourierTransform, "region_end_sec")

	region := buf
	if start > 0 || end > 0 {
		from := int(start * float64(buf.Rate()))
		to := int(end * float64(buf.Rate()))
		if end <= 0 {
			to = buf.Len()
		}
		region = buf.Slice(from, to, buf.Label())
	}

	spec, err := dsp.ComputeSpectrum(region.Samples(), region.Rate())
	if err != nil {
		return nil, err
	}

	return &Result{
		Kind: FourierTransform,
		Spectrum: &SpectrumData{
			Spectrum:    spec,
			RegionStart: start,
			RegionEnd:   end,
		},
	}, nil
}

// stftFrames runs the shared framed-transform pass: windowed frame in,
// timestamped spectrum out. Frames with non-finite samples are skipped
// and logged; all other frames are unaffected.
func stftFrames(buf *signal.Buffer, cfg dsp.WindowConfig) ([]float64, []dsp.Spectrum, error) {
	fs, err := dsp.NewFrameSource(buf.Samples(), buf.Rate(), cfg)
	if err != nil {
		return nil, nil, err
	}
	transform, err := dsp.NewTransform(cfg, buf.Rate())
	if err != nil {
		return nil, nil, err
	}

	n := fs.NumFrames()
	times := make([]float64, 0, n)
	spectra := make([]dsp.Spectrum, 0, n)

	frame := make([]float64, cfg.Length)
	for i := 0; i < n; i++ {
		fs.Windowed(i, frame)
		spec, err := transform.Spectrum(frame)
		if err != nil {
			if errors.Is(err, dsp.ErrNumericInstability) {
				log.Warnf("analysis: skipping frame %d at %.3fs: %v", i, fs.Time(i), err)
				continue
			}
			return nil, nil, err
		}
		times = append(times, fs.Time(i))
		spectra = append(spectra, spec)
	}

	return times, spectra, nil
}

// computeSTFT is the frame sequence of spectra with timestamps.
func computeSTFT(buf *signal.Buffer, cfg dsp.WindowConfig) (*Result, error) {
	times, spectra, err := stftFrames(buf, cfg)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind: STFT,
		STFT: &STFTData{Times: times, Spectra: spectra},
	}, nil
}

// computeSpectrogram renders the STFT as a dB-scaled magnitude surface.
func computeSpectrogram(buf *signal.Buffer, cfg dsp.WindowConfig, params Params) (*Result, error) {
	floorDB := params.floatParam(Spectrogram, "floor_db")

	times, spectra, err := stftFrames(buf, cfg)
	if err != nil {
		return nil, err
	}

	data := &SpectrogramData{
		Times:        times,
		MagnitudesDB: make([][]float64, len(spectra)),
	}
	if len(spectra) > 0 {
		data.Freqs = spectra[0].Freqs
	} else {
		data.Freqs = []float64{}
	}

	for i, spec := range spectra {
		row := make([]float64, len(spec.Magnitudes))
		for k, m := range spec.Magnitudes {
			db := 20 * math.Log10(m+dbFloorOffset)
			if db < floorDB {
				db = floorDB
			}
			row[k] = db
		}
		data.MagnitudesDB[i] = row
	}

	return &Result{Kind: Spectrogram, Spectrogram: data}, nil
}

// computeCentroid is the per-frame magnitude-weighted mean frequency.
// A frame with all-zero magnitudes yields centroid 0, never a division
// error.
func computeCentroid(buf *signal.Buffer, cfg dsp.WindowConfig) (*Result, error) {
	times, spectra, err := stftFrames(buf, cfg)
	if err != nil {
		return nil, err
	}

	data := &CentroidData{
		Times:     times,
		Centroids: make([]float64, len(spectra)),
	}
	for i, spec := range spectra {
		data.Centroids[i] = Centroid(spec)
	}

	return &Result{Kind: SpectralCentroid, Centroid: data}, nil
}

// Centroid returns the magnitude-weighted mean frequency of a spectrum,
// 0 when the spectrum carries no energy.
func Centroid(spec dsp.Spectrum) float64 {
	weighted := 0.0
	total := 0.0
	for k, m := range spec.Magnitudes {
		weighted += spec.Freqs[k] * m
		total += m
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

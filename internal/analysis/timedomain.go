// SPDX-License-Identifier: MIT
package analysis

import (
	"sigviz/internal/dsp"
	"sigviz/internal/signal"
)

// computeWaveform maps raw samples to amplitude against time. No
// windowing is applied.
func computeWaveform(buf *signal.Buffer) (*Result, error) {
	samples := buf.Samples()
	rate := float64(buf.Rate())

	data := &WaveformData{
		Times:      make([]float64, len(samples)),
		Amplitudes: make([]float64, len(samples)),
	}
	for i, v := range samples {
		data.Times[i] = float64(i) / rate
		data.Amplitudes[i] = v
	}

	return &Result{Kind: Waveform, Waveform: data}, nil
}

// computeEnergy is the per-frame sum of squared samples. It works on
// raw time-domain frames; no transform and no window taper, so the
// energy of a frame reflects the samples as captured. The zero-padded
// trailing frame contributes only its real samples.
func computeEnergy(buf *signal.Buffer, cfg dsp.WindowConfig) (*Result, error) {
	fs, err := dsp.NewFrameSource(buf.Samples(), buf.Rate(), cfg)
	if err != nil {
		return nil, err
	}

	n := fs.NumFrames()
	data := &EnergyData{
		Times:    make([]float64, n),
		Energies: make([]float64, n),
	}

	frame := make([]float64, cfg.Length)
	for i := 0; i < n; i++ {
		fs.Raw(i, frame)
		sum := 0.0
		for _, v := range frame {
			sum += v * v
		}
		data.Times[i] = fs.Time(i)
		data.Energies[i] = sum
	}

	return &Result{Kind: ShortTimeEnergy, Energy: data}, nil
}

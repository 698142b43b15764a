// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"

	"sigviz/internal/dsp"
	"sigviz/internal/signal"
)

// Compute runs one technique over a signal and returns its tagged
// result. Pure: the buffer is never mutated, and identical inputs yield
// identical results. Empty or all-silent signals produce well-defined
// degenerate results rather than numeric errors.
func Compute(kind Kind, buf *signal.Buffer, cfg dsp.WindowConfig, params Params) (*Result, error) {
	if buf == nil {
		return nil, ErrEmptySignal
	}
	if params == nil {
		params = DefaultParams(kind)
	}

	switch kind {
	case Waveform:
		return computeWaveform(buf)
	case FourierTransform:
		return computeFourier(buf, params)
	case STFT:
		return computeSTFT(buf, cfg)
	case Spectrogram:
		return computeSpectrogram(buf, cfg, params)
	case ShortTimeEnergy:
		return computeEnergy(buf, cfg)
	case Pitch:
		return computePitch(buf, cfg, params)
	case SpectralCentroid:
		return computeCentroid(buf, cfg)
	case Filter:
		return computeFilter(buf, params)
	case Tuner:
		return computeTunerSnapshot(buf, params)
	default:
		return nil, fmt.Errorf("unknown analysis technique: %d", kind)
	}
}

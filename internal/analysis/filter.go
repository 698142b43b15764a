// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"

	"sigviz/internal/dsp"
	"sigviz/internal/signal"
)

// computeFilter applies a frequency-domain filter: transform, zero the
// rejected bins, inverse-transform. The result carries the filtered
// signal as a new buffer of the input's exact length plus its spectrum.
// A low-pass whose cutoff sits at or above Nyquist is a numeric
// pass-through.
func computeFilter(buf *signal.Buffer, params Params) (*Result, error) {
	filterType := params.stringParam(Filter, "filter_type")
	cutoff := params.floatParam(Filter, "cutoff_hz")
	highCutoff := params.floatParam(Filter, "high_cutoff_hz")

	var keep func(hz float64) bool
	var label string
	switch filterType {
	case "lowpass":
		keep = func(hz float64) bool { return hz <= cutoff }
		label = fmt.Sprintf("%s (lowpass %.0f Hz)", buf.Label(), cutoff)
	case "highpass":
		keep = func(hz float64) bool { return hz >= cutoff }
		label = fmt.Sprintf("%s (highpass %.0f Hz)", buf.Label(), cutoff)
	case "bandpass":
		if highCutoff < cutoff {
			return nil, fmt.Errorf("%w: option 'high_cutoff_hz' %v below 'cutoff_hz' %v",
				ErrInvalidParameter, highCutoff, cutoff)
		}
		keep = func(hz float64) bool { return hz >= cutoff && hz <= highCutoff }
		label = fmt.Sprintf("%s (bandpass %.0f-%.0f Hz)", buf.Label(), cutoff, highCutoff)
	default:
		return nil, fmt.Errorf("%w: option 'filter_type' value '%s'", ErrInvalidParameter, filterType)
	}

	filtered, err := dsp.ApplyFrequencyMask(buf.Samples(), buf.Rate(), keep)
	if err != nil {
		return nil, err
	}

	out, err := signal.New(filtered, buf.Rate(), label)
	if err != nil {
		return nil, err
	}

	response, err := dsp.ComputeSpectrum(out.Samples(), out.Rate())
	if err != nil {
		return nil, err
	}

	return &Result{
		Kind:   Filter,
		Filter: &FilterData{Filtered: out, Response: response},
	}, nil
}

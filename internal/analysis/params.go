// SPDX-License-Identifier: MIT
package analysis

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced at the session boundary. Configuration errors
// (window/hop) live in the dsp package; capture errors in capture.
var (
	// ErrInvalidParameter marks an unrecognized technique option or a
	// value outside its valid range.
	ErrInvalidParameter = errors.New("invalid technique parameter")

	// ErrEmptySignal marks a zero-length buffer supplied where a
	// non-degenerate result is required. Techniques prefer degenerate
	// results; this only surfaces where no safe default exists.
	ErrEmptySignal = errors.New("empty signal")
)

// ParamType distinguishes numeric options from enumerated ones.
type ParamType int

const (
	ParamFloat ParamType = iota
	ParamEnum
)

// ParamSpec describes one technique option: its name, type and valid
// range, exposed to the presentation layer for building controls.
type ParamSpec struct {
	Name    string    `json:"name"`
	Type    ParamType `json:"type"`
	Min     float64   `json:"min,omitempty"` // ParamFloat bounds, inclusive
	Max     float64   `json:"max,omitempty"`
	Options []string  `json:"options,omitempty"` // ParamEnum values
	Default any       `json:"default"`           // float64 or string
}

// Params maps option names to values (float64 for numeric options,
// string for enumerated ones).
type Params map[string]any

// Upper cutoff bound tracks the highest supported capture rate
// (192 kHz) at Nyquist.
const maxCutoffHz = 96000

var paramSpecs = map[Kind][]ParamSpec{
	Waveform:        {},
	STFT:            {},
	ShortTimeEnergy: {},
	SpectralCentroid: {},
	FourierTransform: {
		{Name: "region_start_sec", Type: ParamFloat, Min: 0, Max: 86400, Default: 0.0},
		{Name: "region_end_sec", Type: ParamFloat, Min: 0, Max: 86400, Default: 0.0},
	},
	Spectrogram: {
		{Name: "floor_db", Type: ParamFloat, Min: -200, Max: -40, Default: -160.0},
	},
	Pitch: {
		{Name: "min_hz", Type: ParamFloat, Min: 20, Max: 2000, Default: 50.0},
		{Name: "max_hz", Type: ParamFloat, Min: 100, Max: 5000, Default: 1000.0},
		{Name: "silence_threshold", Type: ParamFloat, Min: 0, Max: 1, Default: 0.001},
	},
	Filter: {
		{Name: "filter_type", Type: ParamEnum, Options: []string{"lowpass", "highpass", "bandpass"}, Default: "lowpass"},
		{Name: "cutoff_hz", Type: ParamFloat, Min: 1, Max: maxCutoffHz, Default: 1000.0},
		{Name: "high_cutoff_hz", Type: ParamFloat, Min: 1, Max: maxCutoffHz, Default: 4000.0},
	},
	Tuner: {
		{Name: "min_hz", Type: ParamFloat, Min: 20, Max: 2000, Default: 50.0},
		{Name: "max_hz", Type: ParamFloat, Min: 100, Max: 5000, Default: 1000.0},
		{Name: "silence_threshold", Type: ParamFloat, Min: 0, Max: 1, Default: 0.001},
		{Name: "reference_a4", Type: ParamFloat, Min: 400, Max: 480, Default: 440.0},
	},
}

// ParamSpecs returns the option descriptors recognized by a technique.
// Techniques without options return an empty (non-nil) slice.
func ParamSpecs(kind Kind) []ParamSpec {
	specs, ok := paramSpecs[kind]
	if !ok {
		return []ParamSpec{}
	}
	out := make([]ParamSpec, len(specs))
	copy(out, specs)
	return out
}

// DefaultParams returns a fresh parameter map seeded with each option's
// default value.
func DefaultParams(kind Kind) Params {
	params := Params{}
	for _, spec := range paramSpecs[kind] {
		params[spec.Name] = spec.Default
	}
	return params
}

// ValidateParam checks that name is a recognized option of the
// technique and the value is inside its valid range. Returns an error
// wrapping ErrInvalidParameter otherwise.
func ValidateParam(kind Kind, name string, value any) error {
	for _, spec := range paramSpecs[kind] {
		if spec.Name != name {
			continue
		}
		switch spec.Type {
		case ParamFloat:
			v, ok := toFloat(value)
			if !ok {
				return fmt.Errorf("%w: option '%s' expects a number, got %T", ErrInvalidParameter, name, value)
			}
			if v < spec.Min || v > spec.Max {
				return fmt.Errorf("%w: option '%s' value %v outside [%v, %v]", ErrInvalidParameter, name, v, spec.Min, spec.Max)
			}
			return nil
		case ParamEnum:
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("%w: option '%s' expects a string, got %T", ErrInvalidParameter, name, value)
			}
			for _, opt := range spec.Options {
				if opt == s {
					return nil
				}
			}
			return fmt.Errorf("%w: option '%s' value '%s' not one of %v", ErrInvalidParameter, name, s, spec.Options)
		}
	}
	return fmt.Errorf("%w: technique '%s' has no option '%s'", ErrInvalidParameter, kind, name)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// floatParam reads a numeric option, falling back to the technique's
// default when the map has no entry.
func (p Params) floatParam(kind Kind, name string) float64 {
	if v, ok := p[name]; ok {
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	for _, spec := range paramSpecs[kind] {
		if spec.Name == name {
			if f, ok := toFloat(spec.Default); ok {
				return f
			}
		}
	}
	return 0
}

// stringParam reads an enumerated option with default fallback.
func (p Params) stringParam(kind Kind, name string) string {
	if v, ok := p[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	for _, spec := range paramSpecs[kind] {
		if spec.Name == name {
			if s, ok := spec.Default.(string); ok {
				return s
			}
		}
	}
	return ""
}

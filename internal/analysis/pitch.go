// SPDX-License-Identifier: MIT
package analysis

import (
	"math"

	"sigviz/internal/dsp"
	"sigviz/internal/signal"
)

// minPeriodicity is the normalized autocorrelation a candidate period
// must reach before a frame counts as voiced. Below it the frame is
// noise-like and the detector reports no pitch.
const minPeriodicity = 0.3

// subharmonicTolerance decides when a shorter candidate period counts
// as equivalent to the globally best one. Multiples of the true period
// all correlate near 1.0; the fundamental is the shortest of them.
const subharmonicTolerance = 0.95

// PitchDetector estimates the fundamental frequency of a time-domain
// frame by autocorrelation with parabolic peak interpolation. The
// interpolation recovers sub-sample period resolution, which keeps a
// 440 Hz tone within a couple of Hz even at short window lengths.
//
// Frames whose RMS falls below SilenceRMS are reported unvoiced instead
// of producing a spurious estimate.
type PitchDetector struct {
	MinHz      float64
	MaxHz      float64
	SilenceRMS float64
}

// DefaultPitchDetector mirrors the pitch technique's default options.
func DefaultPitchDetector() PitchDetector {
	return PitchDetector{MinHz: 50, MaxHz: 1000, SilenceRMS: 0.001}
}

// Detect returns the estimated fundamental in Hz and whether the frame
// is voiced. Unvoiced frames (silence, noise, or a search range the
// window cannot hold) return (0, false).
func (d PitchDetector) Detect(frame []float64, sampleRate float64) (float64, bool) {
	n := len(frame)
	if n == 0 || sampleRate <= 0 || d.MinHz <= 0 || d.MaxHz <= d.MinHz {
		return 0, false
	}

	power := 0.0
	for _, v := range frame {
		power += v * v
	}
	rms := math.Sqrt(power / float64(n))
	if rms < d.SilenceRMS {
		return 0, false
	}

	minLag := int(sampleRate / d.MaxHz)
	maxLag := int(math.Ceil(sampleRate / d.MinHz))
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= n {
		maxLag = n - 1
	}
	if minLag >= maxLag {
		return 0, false
	}

	// De-biased normalized autocorrelation over the candidate lags.
	// Dividing by the overlap length removes the linear taper that
	// would otherwise pull the peak toward shorter lags.
	meanPower := power / float64(n)
	bestCorr := 0.0
	corrs := make([]float64, maxLag+2)
	for lag := minLag; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i < n-lag; i++ {
			sum += frame[i] * frame[i+lag]
		}
		corr := (sum / float64(n-lag)) / meanPower
		corrs[lag] = corr
		if corr > bestCorr {
			bestCorr = corr
		}
	}

	if bestCorr < minPeriodicity {
		return 0, false
	}

	// Every integer multiple of the true period correlates almost as
	// well as the period itself, so the global maximum can land on a
	// subharmonic (an octave or more below the fundamental). Take the
	// first lag within tolerance of the best and climb to its local
	// peak; that is the fundamental period.
	best := minLag
	for lag := minLag; lag <= maxLag; lag++ {
		if corrs[lag] >= subharmonicTolerance*bestCorr {
			best = lag
			break
		}
	}
	for best < maxLag && corrs[best+1] > corrs[best] {
		best++
	}

	// Parabolic interpolation around the winning lag for sub-sample
	// period resolution.
	period := float64(best)
	if best > minLag && best < maxLag {
		left := corrs[best-1]
		mid := corrs[best]
		right := corrs[best+1]
		denom := left - 2*mid + right
		if denom != 0 {
			shift := 0.5 * (left - right) / denom
			if shift > -1 && shift < 1 {
				period += shift
			}
		}
	}

	return sampleRate / period, true
}

// computePitch runs the detector over every raw frame.
func computePitch(buf *signal.Buffer, cfg dsp.WindowConfig, params Params) (*Result, error) {
	detector := PitchDetector{
		MinHz:      params.floatParam(Pitch, "min_hz"),
		MaxHz:      params.floatParam(Pitch, "max_hz"),
		SilenceRMS: params.floatParam(Pitch, "silence_threshold"),
	}

	fs, err := dsp.NewFrameSource(buf.Samples(), buf.Rate(), cfg)
	if err != nil {
		return nil, err
	}

	n := fs.NumFrames()
	data := &PitchData{
		Times:       make([]float64, n),
		Frequencies: make([]float64, n),
		Voiced:      make([]bool, n),
	}

	frame := make([]float64, cfg.Length)
	for i := 0; i < n; i++ {
		fs.Raw(i, frame)
		freq, voiced := detector.Detect(frame, float64(buf.Rate()))
		data.Times[i] = fs.Time(i)
		data.Frequencies[i] = freq
		data.Voiced[i] = voiced
	}

	return &Result{Kind: Pitch, Pitch: data}, nil
}

// computeTunerSnapshot is the batch rendition of the live tuner: one
// whole-signal spectrum plus a single pitch estimate with its nearest
// note label. The live pipeline produces the same shape on a cadence.
func computeTunerSnapshot(buf *signal.Buffer, params Params) (*Result, error) {
	spec, err := dsp.ComputeSpectrum(buf.Samples(), buf.Rate())
	if err != nil {
		return nil, err
	}

	detector := PitchDetector{
		MinHz:      params.floatParam(Tuner, "min_hz"),
		MaxHz:      params.floatParam(Tuner, "max_hz"),
		SilenceRMS: params.floatParam(Tuner, "silence_threshold"),
	}
	refA4 := params.floatParam(Tuner, "reference_a4")

	data := &TunerData{Spectrum: spec}
	if freq, voiced := detector.Detect(buf.Samples(), float64(buf.Rate())); voiced {
		note, cents := NoteForFrequency(freq, refA4)
		data.Freq = freq
		data.Voiced = true
		data.Note = note
		data.Cents = cents
	}

	return &Result{Kind: Tuner, Tuner: data}, nil
}

// SPDX-License-Identifier: MIT
package tuner

import (
	"sync"

	"sigviz/internal/capture"
	"sigviz/internal/dsp"
)

// Reading is one tuner observation: the pipeline's raw update enriched
// with the nearest string of the selected instrument, when one is set.
type Reading struct {
	capture.Update
	Instrument  string  `json:"instrument,omitempty"`
	String      string  `json:"string,omitempty"`
	StringFreq  float64 `json:"string_freq,omitempty"`
	StringCents float64 `json:"string_cents,omitempty"`
}

// Tuner wraps a capture pipeline with instrument awareness. It sits
// between the pipeline and the outbound transport: every update is
// annotated with the nearest target string and forwarded, and the
// latest reading stays available for polling. Safe for concurrent use.
type Tuner struct {
	pipeline *capture.Pipeline

	mu         sync.Mutex
	instrument *Instrument
	latest     *Reading
	forward    capture.Publisher
}

var _ capture.Publisher = (*Tuner)(nil)

// New builds a tuner over src with the given framing. Annotated
// readings are forwarded to forward, which may be nil for poll-only
// use. Extra pipeline options (gate threshold, detector bounds,
// reference pitch) pass through unchanged.
func New(src capture.Source, cfg dsp.WindowConfig, forward capture.Publisher, opts ...capture.Option) (*Tuner, error) {
	t := &Tuner{forward: forward}

	opts = append(opts, capture.WithPublisher(t))
	pipeline, err := capture.NewPipeline(src, cfg, opts...)
	if err != nil {
		return nil, err
	}
	t.pipeline = pipeline
	return t, nil
}

// SetInstrument selects the tuning table used to annotate readings, by
// name. An empty name clears the selection.
func (t *Tuner) SetInstrument(name string) error {
	if name == "" {
		t.mu.Lock()
		t.instrument = nil
		t.mu.Unlock()
		return nil
	}

	inst, err := LookupInstrument(name)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.instrument = &inst
	t.mu.Unlock()
	return nil
}

// Tap registers an extra raw-sample sink on the underlying pipeline,
// for recording. Must be called before Start.
func (t *Tuner) Tap(fn func([]float64)) { t.pipeline.Tap(fn) }

// Start begins live capture and annotation. Idempotent.
func (t *Tuner) Start() error { return t.pipeline.Start() }

// Stop halts capture. Idempotent.
func (t *Tuner) Stop() error { return t.pipeline.Stop() }

// LatestSpectrum exposes the pipeline's most recent spectrum.
func (t *Tuner) LatestSpectrum() (dsp.Spectrum, bool) { return t.pipeline.LatestSpectrum() }

// LatestPitchEstimate exposes the pipeline's most recent voiced pitch
// and note label.
func (t *Tuner) LatestPitchEstimate() (float64, string, bool) {
	return t.pipeline.LatestPitchEstimate()
}

// Latest returns the most recent reading, or nil before the first one.
func (t *Tuner) Latest() *Reading {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest
}

// Send receives pipeline updates, annotates them, and forwards the
// result. Called by the pipeline on its tick cadence.
func (t *Tuner) Send(v any) error {
	update, ok := v.(*capture.Update)
	if !ok {
		return nil
	}

	reading := &Reading{Update: *update}

	t.mu.Lock()
	if t.instrument != nil {
		reading.Instrument = t.instrument.Name
		if update.Voiced {
			s, cents := t.instrument.NearestString(update.Pitch)
			reading.String = s.Label
			reading.StringFreq = s.Freq
			reading.StringCents = cents
		}
	}
	t.latest = reading
	forward := t.forward
	t.mu.Unlock()

	if forward != nil {
		return forward.Send(reading)
	}
	return nil
}

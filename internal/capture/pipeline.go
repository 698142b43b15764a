// SPDX-License-Identifier: MIT
package capture

import (
	"fmt"
	"math"
	"sync"
	"time"

	"sigviz/internal/analysis"
	"sigviz/internal/dsp"
	"sigviz/internal/log"
)

// Publisher receives each pipeline update. Implementations must not
// block; slow consumers should drop.
type Publisher interface {
	Send(v any) error
}

// Update is one analysis snapshot produced on the pipeline cadence.
type Update struct {
	Time     time.Time    `json:"time"`
	Spectrum dsp.Spectrum `json:"spectrum"`
	Pitch    float64      `json:"pitch"`
	Voiced   bool         `json:"voiced"`
	Note     string       `json:"note"`
	Cents    float64      `json:"cents"`
}

// Pipeline pulls samples from a Source into a ring and runs spectral
// and pitch analysis over the most recent window once per hop
// interval. When the source outpaces the cadence only the newest
// window is analyzed; when it stalls the previous update is re-emitted
// so consumers always see a fresh heartbeat.
//
// Start and Stop are idempotent. Safe for concurrent use.
type Pipeline struct {
	src       Source
	ring      *RingBuffer
	transform *dsp.Transform
	detector  analysis.PitchDetector
	cfg       dsp.WindowConfig
	refA4     float64
	publisher Publisher

	// gateThreshold mutes analysis for windows whose peak amplitude
	// stays below it. Zero disables the gate.
	gateThreshold float64

	mu        sync.Mutex
	running   bool
	done      chan struct{}
	wg        sync.WaitGroup
	taps      []func([]float64)
	window    []float64
	windowed  []float64
	coeffs    []float64
	lastTotal uint64
	last      *Update
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPublisher broadcasts every update through p.
func WithPublisher(p Publisher) Option {
	return func(pl *Pipeline) { pl.publisher = p }
}

// WithDetector overrides the default pitch detector.
func WithDetector(d analysis.PitchDetector) Option {
	return func(pl *Pipeline) { pl.detector = d }
}

// WithReferenceA4 sets the tuning reference in Hz (default 440).
func WithReferenceA4(hz float64) Option {
	return func(pl *Pipeline) { pl.refA4 = hz }
}

// WithGateThreshold skips analysis for windows whose peak amplitude
// stays below threshold, re-emitting the previous update instead.
func WithGateThreshold(threshold float64) Option {
	return func(pl *Pipeline) { pl.gateThreshold = threshold }
}

// NewPipeline builds a pipeline over src with the given framing. The
// ring holds four windows, enough to ride out scheduling jitter
// without unbounded growth.
func NewPipeline(src Source, cfg dsp.WindowConfig, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	transform, err := dsp.NewTransform(cfg, src.SampleRate())
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		src:       src,
		ring:      NewRingBuffer(4 * cfg.Length),
		transform: transform,
		detector:  analysis.DefaultPitchDetector(),
		cfg:       cfg,
		refA4:     440,
		window:    make([]float64, cfg.Length),
		windowed:  make([]float64, cfg.Length),
		coeffs:    cfg.Window.Coefficients(cfg.Length),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Tap registers an extra sink invoked with every raw sample push, on
// the source's delivery thread. Used for recording. Must be called
// before Start.
func (p *Pipeline) Tap(fn func([]float64)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.taps = append(p.taps, fn)
}

// Interval returns the analysis cadence, one hop of audio.
func (p *Pipeline) Interval() time.Duration {
	return time.Duration(float64(p.cfg.Hop) / float64(p.src.SampleRate()) * float64(time.Second))
}

// Start opens the source and begins ticking. Starting a running
// pipeline is a no-op.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}

	if err := p.src.Start(p.push); err != nil {
		return fmt.Errorf("start capture source: %w", err)
	}

	p.done = make(chan struct{})
	p.running = true
	p.wg.Add(1)
	go p.run(p.done)

	log.Infof("capture pipeline started (window %d, hop %d, %d Hz)",
		p.cfg.Length, p.cfg.Hop, p.src.SampleRate())
	return nil
}

// Stop halts the tick loop, closes the source, and discards buffered
// samples. Observed within one tick interval. Stopping a stopped
// pipeline is a no-op.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()
	err := p.src.Stop()
	p.ring.Reset()

	p.mu.Lock()
	p.lastTotal = 0
	p.mu.Unlock()

	log.Infof("capture pipeline stopped")
	return err
}

// Latest returns the most recent update, or nil before the first tick.
func (p *Pipeline) Latest() *Update {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// LatestSpectrum returns the most recent spectrum and whether one
// exists yet.
func (p *Pipeline) LatestSpectrum() (dsp.Spectrum, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return dsp.Spectrum{}, false
	}
	return p.last.Spectrum, true
}

// LatestPitchEstimate returns the most recent voiced pitch with its
// nearest note label. The boolean is false before the first voiced
// update.
func (p *Pipeline) LatestPitchEstimate() (hz float64, note string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil || !p.last.Voiced {
		return 0, "", false
	}
	return p.last.Pitch, p.last.Note, true
}

func (p *Pipeline) push(samples []float64) {
	p.ring.Write(samples)
	for _, tap := range p.taps {
		tap(samples)
	}
}

func (p *Pipeline) run(done chan struct{}) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

// tick runs one analysis pass over the newest window. Split out so
// tests can drive the cadence directly.
func (p *Pipeline) tick() {
	p.mu.Lock()
	total := p.ring.Total()
	if total == p.lastTotal {
		// Underrun: no new audio since the last pass. Re-emit the
		// previous update as a heartbeat.
		last := p.last
		p.mu.Unlock()
		p.emit(last)
		return
	}
	p.lastTotal = total

	// Overrun collapses here too: however many samples arrived, only
	// the most recent window is read.
	p.ring.ReadLatest(p.window)

	if p.gateThreshold > 0 && peak(p.window) < p.gateThreshold {
		last := p.last
		p.mu.Unlock()
		p.emit(last)
		return
	}

	for i, v := range p.window {
		p.windowed[i] = v * p.coeffs[i]
	}
	spec, err := p.transform.Spectrum(p.windowed)
	if err != nil {
		p.mu.Unlock()
		log.Warnf("capture tick: %v", err)
		return
	}

	update := &Update{Time: time.Now(), Spectrum: spec}
	if freq, voiced := p.detector.Detect(p.window, float64(p.src.SampleRate())); voiced {
		update.Pitch = freq
		update.Voiced = true
		update.Note, update.Cents = analysis.NoteForFrequency(freq, p.refA4)
	}
	p.last = update
	p.mu.Unlock()

	p.emit(update)
}

func (p *Pipeline) emit(u *Update) {
	if u == nil || p.publisher == nil {
		return
	}
	if err := p.publisher.Send(u); err != nil {
		log.Warnf("publish update: %v", err)
	}
}

func peak(samples []float64) float64 {
	max := 0.0
	for _, v := range samples {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	return max
}

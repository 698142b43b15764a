// SPDX-License-Identifier: MIT

// Package session binds a signal to one analysis technique and caches
// the computed result. A session recomputes lazily: mutating its
// signal, technique, window, or parameters marks the cache stale, and
// the next Result call pays for the recompute. The registry tracks
// open sessions and fans computation out across them.
package session

import (
	"errors"
	"fmt"
	"sync"

	"sigviz/internal/analysis"
	"sigviz/internal/dsp"
	"sigviz/internal/signal"
)

// ErrNoSignal is returned by Result when no signal is bound yet.
var ErrNoSignal = errors.New("session has no signal bound")

// State reports whether a session's cached result reflects its current
// configuration.
type State int

const (
	// Stale means configuration changed since the last compute (or
	// nothing was computed yet) and Result will recompute.
	Stale State = iota
	// Computed means the cached result is current.
	Computed
)

func (s State) String() string {
	if s == Computed {
		return "computed"
	}
	return "stale"
}

// Session pairs a signal buffer with a technique and its options.
// Safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id     string
	buf    *signal.Buffer
	kind   analysis.Kind
	cfg    dsp.WindowConfig
	params analysis.Params

	state  State
	cached *analysis.Result
}

// New creates a session for the given technique with default options
// and a default Hann analysis window. The signal is bound separately.
func New(id string, kind analysis.Kind) *Session {
	return &Session{
		id:     id,
		kind:   kind,
		cfg:    dsp.WindowConfig{Window: dsp.Hann, Length: 2048, Hop: 512},
		params: analysis.DefaultParams(kind),
		state:  Stale,
	}
}

// ID returns the registry-assigned identifier.
func (s *Session) ID() string { return s.id }

// Technique returns the session's current analysis technique.
func (s *Session) Technique() analysis.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind
}

// State reports whether the cached result is current.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Signal returns the bound buffer, or nil before BindSignal.
func (s *Session) Signal() *signal.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf
}

// WindowConfig returns the session's framing configuration.
func (s *Session) WindowConfig() dsp.WindowConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// BindSignal attaches a signal buffer and invalidates the cache.
func (s *Session) BindSignal(buf *signal.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = buf
	s.invalidate()
}

// SetTechnique switches the analysis technique. Parameters reset to the
// new technique's defaults and the cache is invalidated. A no-op when
// the technique is unchanged.
func (s *Session) SetTechnique(kind analysis.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == s.kind {
		return
	}
	s.kind = kind
	s.params = analysis.DefaultParams(kind)
	s.invalidate()
}

// SetWindowConfig replaces the framing configuration after validating
// it, invalidating the cache.
func (s *Session) SetWindowConfig(cfg dsp.WindowConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.invalidate()
	return nil
}

// SetParameter validates and stores one technique option. A rejected
// value leaves both the stored parameters and the cached result
// untouched.
func (s *Session) SetParameter(name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := analysis.ValidateParam(s.kind, name, value); err != nil {
		return err
	}
	s.params[name] = value
	s.invalidate()
	return nil
}

// Parameter returns the current value of one option, falling back to
// the technique default when unset.
func (s *Session) Parameter(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.params[name]
	return v, ok
}

// AvailableParameters lists the option specs for the session's current
// technique.
func (s *Session) AvailableParameters() []analysis.ParamSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return analysis.ParamSpecs(s.kind)
}

// Result returns the analysis result, recomputing only when the cache
// is stale. A failed recompute leaves the session stale and returns the
// error; the previous cached value is discarded because it no longer
// matches the configuration that produced the failure.
func (s *Session) Result() (*analysis.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Computed {
		return s.cached, nil
	}
	if s.buf == nil {
		return nil, ErrNoSignal
	}

	result, err := analysis.Compute(s.kind, s.buf, s.cfg, s.params)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", s.id, err)
	}

	s.cached = result
	s.state = Computed
	return result, nil
}

// invalidate must be called with s.mu held.
func (s *Session) invalidate() {
	s.state = Stale
	s.cached = nil
}

// SPDX-License-Identifier: MIT
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"sigviz/internal/analysis"
	"sigviz/internal/log"
)

// ErrSessionNotFound is returned for lookups of closed or unknown ids.
var ErrSessionNotFound = errors.New("session not found")

// Registry owns the set of open sessions. Sessions keep their opening
// order, so enumeration is stable for UIs and CLI listings. Safe for
// concurrent use.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	order    []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Open creates a session for the given technique, assigns it a unique
// id, and registers it.
func (r *Registry) Open(kind analysis.Kind) *Session {
	s := New(uuid.NewString(), kind)

	r.mu.Lock()
	r.sessions[s.id] = s
	r.order = append(r.order, s.id)
	r.mu.Unlock()

	log.Debugf("session %s opened (%s)", s.id, kind)
	return s
}

// Get returns the open session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close removes a session from the registry. Closing an unknown id
// returns ErrSessionNotFound; other open sessions are unaffected.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	log.Debugf("session %s closed", id)
	return nil
}

// Sessions returns the open sessions in opening order.
func (r *Registry) Sessions() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sessions[id])
	}
	return out
}

// Len reports the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// ComputeAll recomputes every stale session concurrently and returns
// the errors keyed by session id. Sessions that were already computed
// are skipped. An empty map means every session is current.
func (r *Registry) ComputeAll() map[string]error {
	sessions := r.Sessions()

	var wg sync.WaitGroup
	var mu sync.Mutex
	failures := make(map[string]error)

	for _, s := range sessions {
		if s.State() == Computed {
			continue
		}
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			if _, err := s.Result(); err != nil {
				mu.Lock()
				failures[s.ID()] = err
				mu.Unlock()
			}
		}(s)
	}
	wg.Wait()

	return failures
}

package lifecycle

import (
	"sync"

	"wagateway/internal/domain/session"
)

// Registry is the Session Registry (C5): the sole owner and mutator of
// SessionState, mirroring the teacher's Manager.clientsMutex pattern
// (internal/infra/whats/manager.go) generalized from map[SessionID]Client to
// map[InstanceID]*SessionState.
type Registry struct {
	mu     sync.RWMutex
	states map[InstanceID]*SessionState
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		states: make(map[InstanceID]*SessionState),
	}
}

// GetOrCreate returns the existing SessionState for id, or creates and
// stores a fresh INITIALIZING one if none exists.
func (r *Registry) GetOrCreate(id InstanceID) *SessionState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.states[id]; ok {
		return st
	}
	st := newSessionState(id)
	r.states[id] = st
	return st
}

// Get returns the SessionState for id, or ErrNotFound.
func (r *Registry) Get(id InstanceID) (*SessionState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.states[id]
	if !ok {
		return nil, ErrNotFound
	}
	return st, nil
}

// Delete removes the SessionState for id, if any. Used on explicit deletion
// and by the reconnector during teardown (the controller re-creates it on
// the next start()).
func (r *Registry) Delete(id InstanceID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, id)
}

// Enumerate returns a snapshot of every live SessionState, safe for a caller
// to range over without holding the registry lock.
func (r *Registry) Enumerate() []SessionState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SessionState, 0, len(r.states))
	for _, st := range r.states {
		out = append(out, st.snapshot())
	}
	return out
}

// CountByStatus tallies live instances per status, for /api/health.
func (r *Registry) CountByStatus() map[session.Status]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[session.Status]int)
	for _, st := range r.states {
		st.mu.Lock()
		counts[st.Status]++
		st.mu.Unlock()
	}
	return counts
}

// Filter returns snapshots of every SessionState matching predicate.
func (r *Registry) Filter(predicate func(SessionState) bool) []SessionState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []SessionState
	for _, st := range r.states {
		snap := st.snapshot()
		if predicate(snap) {
			out = append(out, snap)
		}
	}
	return out
}

// Snapshot returns a copy of the full registry contents for the health
// endpoint (spec §4.1).
func (r *Registry) Snapshot() []SessionState {
	return r.Enumerate()
}

// Len reports how many instances currently have a SessionState.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}

package platform

import (
	"sync"
	"time"
)

// Registry is the in-memory table of registered platforms and their
// active/inactive state. Safe for concurrent use; register and toggle may
// race with reads during an in-flight sync.
type Registry struct {
	mu     sync.RWMutex
	states map[Code]*State
}

// NewRegistry creates an empty platform registry
func NewRegistry() *Registry {
	return &Registry{
		states: make(map[Code]*State),
	}
}

// Register inserts or overwrites the state for a platform. The active flag
// starts from the config's Enabled value and lastSync is reset.
func (r *Registry) Register(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[config.Name] = &State{
		Config:   config,
		IsActive: config.Enabled,
	}
	return nil
}

// Toggle flips the active flag. Unregistered names are a no-op and return
// false; the bool reports whether the platform existed.
func (r *Registry) Toggle(name Code, active bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[name]
	if !ok {
		return false
	}
	state.IsActive = active
	return true
}

// IsActive reports whether the platform is registered and active. A missing
// platform returns false, never an error.
func (r *Registry) IsActive(name Code) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.states[name]
	return ok && state.IsActive
}

// Get returns a snapshot of the platform's state
func (r *Registry) Get(name Code) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.states[name]
	if !ok {
		return State{}, false
	}
	return *state, true
}

// List returns a snapshot of every registered platform's state
func (r *Registry) List() map[Code]State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[Code]State, len(r.states))
	for code, state := range r.states {
		out[code] = *state
	}
	return out
}

// Codes returns the registered platform codes
func (r *Registry) Codes() []Code {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]Code, 0, len(r.states))
	for code := range r.states {
		codes = append(codes, code)
	}
	return codes
}

// MarkSynced records the time of a successful menu sync
func (r *Registry) MarkSynced(name Code, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state, ok := r.states[name]; ok {
		state.LastSync = &at
	}
}

// RecordHealth stores the most recent health probe result
func (r *Registry) RecordHealth(name Code, status HealthStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state, ok := r.states[name]; ok {
		state.LastHealth = &status
	}
}

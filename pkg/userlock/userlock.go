package userlock

import (
	"sync"
)

// Registry hands out one mutex per user so mutating operations for the same
// userId serialize while different users never block each other. Locks are
// created on first use and kept for the registry's lifetime; the per-user
// footprint is a single mutex.
type Registry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRegistry creates an empty lock registry
func NewRegistry() *Registry {
	return &Registry{locks: make(map[string]*sync.Mutex)}
}

func (r *Registry) lockFor(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	return l
}

// Acquire takes the user's write lock and returns the release function.
// Callers must release on every path, success or failure.
func (r *Registry) Acquire(userID string) func() {
	l := r.lockFor(userID)
	l.Lock()
	return l.Unlock
}

package forum

import (
	"context"
	"sync"
)

// requestTracker gives each key last-issued-wins semantics. Starting a
// request cancels the one it supersedes, and only the latest request may
// commit its result.
type requestTracker struct {
	mu      sync.Mutex
	seq     map[string]uint64
	cancels map[string]context.CancelFunc
}

func newRequestTracker() *requestTracker {
	return &requestTracker{
		seq:     make(map[string]uint64),
		cancels: make(map[string]context.CancelFunc),
	}
}

// begin registers a new request for key. The returned release must be
// called when the request finishes.
func (r *requestTracker) begin(parent context.Context, key string) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancel(parent)

	r.mu.Lock()
	if prev, ok := r.cancels[key]; ok {
		prev()
	}
	r.seq[key]++
	token := r.seq[key]
	r.cancels[key] = cancel
	r.mu.Unlock()

	release := func() {
		r.mu.Lock()
		if r.seq[key] == token {
			delete(r.cancels, key)
		}
		r.mu.Unlock()
		cancel()
	}
	return ctx, token, release
}

// commit runs apply only if token is still the latest request for key
func (r *requestTracker) commit(key string, token uint64, apply func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seq[key] != token {
		return false
	}
	apply()
	return true
}

// current reports whether token is still the latest request for key
func (r *requestTracker) current(key string, token uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq[key] == token
}

// cancel aborts the in-flight request for key and invalidates its token
func (r *requestTracker) cancel(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.cancels[key]; ok {
		c()
		delete(r.cancels, key)
	}
	r.seq[key]++
}

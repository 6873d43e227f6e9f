package cart

import (
	"sync"
	"time"
)

// Registry owns one Cart per session id. Carts idle for longer than the TTL are
// dropped lazily when the registry is accessed.
type Registry struct {
	mu      sync.Mutex
	carts   map[string]*Cart
	idleTTL time.Duration
	now     func() time.Time
	opts    []Option
}

// NewRegistry builds a registry. A non-positive idleTTL disables eviction. opts are
// applied to every cart created by the registry.
func NewRegistry(idleTTL time.Duration, opts ...Option) *Registry {
	return &Registry{
		carts:   map[string]*Cart{},
		idleTTL: idleTTL,
		now:     time.Now,
		opts:    opts,
	}
}

// GetOrCreate returns the cart of the session, creating an empty one when absent.
func (r *Registry) GetOrCreate(sessionID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked()

	if c, ok := r.carts[sessionID]; ok {
		return c
	}
	opts := append([]Option{WithClock(r.now)}, r.opts...)
	c := New(opts...)
	r.carts[sessionID] = c
	return c
}

// Get returns the cart of the session without creating one.
func (r *Registry) Get(sessionID string) (*Cart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked()

	c, ok := r.carts[sessionID]
	return c, ok
}

// Discard forgets the session cart.
func (r *Registry) Discard(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
}

// Len returns the number of live carts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked()
	return len(r.carts)
}

func (r *Registry) evictLocked() {
	if r.idleTTL <= 0 {
		return
	}
	now := r.now()
	for id, c := range r.carts {
		if c.idleSince(now) > r.idleTTL {
			delete(r.carts, id)
		}
	}
}

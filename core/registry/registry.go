// Package registry maps dispatch keys to handlers.
// A registry is constructed explicitly and populated by setup code; there is
// no package-level instance.
package registry

import (
	"sort"
	"sync"

	"github.com/artpar/handlerkit/core/handler"
)

// Registry manages registered handlers and their keys.
type Registry struct {
	mu sync.RWMutex

	// handlers by key; several keys may share one handler
	handlers map[string]handler.Handler
}

// New creates a new registry.
func New() *Registry {
	return &Registry{
		handlers: make(map[string]handler.Handler),
	}
}

// Register stores h under every key and returns h unchanged, so the caller
// keeps a working handle to the original handler.
// A key that is already present is overwritten. An empty key list registers nothing.
func (r *Registry) Register(keys []string, h handler.Handler) handler.Handler {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		r.handlers[k] = h
	}
	return h
}

// Lookup returns the handler registered under key.
func (r *Registry) Lookup(key string) (handler.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[key]
	return h, ok
}

// Keys returns all registered keys.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}

	// Sort for consistent ordering
	sort.Strings(keys)

	return keys
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

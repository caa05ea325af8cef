// Package memory provides in-memory adapter implementations.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/artpar/handlerkit/ports"
)

// Reporter records every reported line in order.
type Reporter struct {
	mu    sync.RWMutex
	lines []string
}

// NewReporter creates an empty recording reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Report records msg.
func (r *Reporter) Report(ctx context.Context, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, msg)
}

// Lines returns a copy of the recorded lines.
func (r *Reporter) Lines() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Count returns how many recorded lines have the given prefix.
func (r *Reporter) Count(prefix string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, l := range r.lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

// Reset clears all recorded lines.
func (r *Reporter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
}

// Ensure interface compliance.
var _ ports.Reporter = (*Reporter)(nil)

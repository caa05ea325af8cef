// Package idgen provides request id generators.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/artpar/handlerkit/ports"
	"github.com/google/uuid"
)

// UUID generates random v4 UUIDs, optionally prefixed (e.g. "req_").
type UUID struct {
	Prefix string
}

// New generates a new id.
func (g UUID) New() string {
	return g.Prefix + uuid.NewString()
}

// Sequential generates predictable ids ("req_1", "req_2", ...) for tests and demos.
type Sequential struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequential creates a sequential id generator.
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// New generates the next id.
func (s *Sequential) New() string {
	return s.prefix + strconv.FormatUint(s.counter.Add(1), 10)
}

// Ensure interface compliance.
var (
	_ ports.IDGenerator = UUID{}
	_ ports.IDGenerator = (*Sequential)(nil)
)

// Package clock provides Clock implementations.
package clock

import (
	"sync"
	"time"

	"github.com/artpar/handlerkit/ports"
)

// Real returns the actual current time.
type Real struct{}

// Now returns the current time.
func (Real) Now() time.Time {
	return time.Now()
}

// Stepping is a controllable clock for testing elapsed-time measurements.
// Every call to Now returns the current time and then moves it forward by step.
type Stepping struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// NewStepping creates a clock starting at start that advances by step per reading.
// A zero step gives a frozen clock.
func NewStepping(start time.Time, step time.Duration) *Stepping {
	return &Stepping{current: start, step: step}
}

// Now returns the current fake time and advances it.
func (s *Stepping) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.current
	s.current = s.current.Add(s.step)
	return now
}

// Ensure interface compliance.
var (
	_ ports.Clock = Real{}
	_ ports.Clock = (*Stepping)(nil)
)

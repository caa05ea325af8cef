// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Reporter receives human-readable status lines (access log, not-found
// notices, denials, timing reports). One call is one line.
type Reporter interface {
	Report(ctx context.Context, msg string)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(ctx context.Context, msg string)

// Report calls f(ctx, msg).
func (f ReporterFunc) Report(ctx context.Context, msg string) {
	f(ctx, msg)
}

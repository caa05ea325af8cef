package catalog

import (
	"context"

	"github.com/artpar/handlerkit/core/mark"
	"github.com/artpar/handlerkit/ports"
)

// MarkedFunc is the signature of the marking example functions.
type MarkedFunc func(ctx context.Context, rep ports.Reporter)

// Marked1 is marked by MarkExamples.
func Marked1(ctx context.Context, rep ports.Reporter) {
	rep.Report(ctx, "Marked 1")
}

// Marked2 is marked by MarkExamples.
func Marked2(ctx context.Context, rep ports.Reporter) {
	rep.Report(ctx, "Marked 2")
}

// NotMarked is deliberately left out of the marked set.
func NotMarked(ctx context.Context, rep ports.Reporter) {
	rep.Report(ctx, "Not Marked")
}

// MarkExamples marks Marked1 and Marked2, in that order.
func MarkExamples(m *mark.Marker[MarkedFunc]) {
	m.Mark(Marked1)
	m.Mark(Marked2)
}

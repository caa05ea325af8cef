package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/artpar/handlerkit/adapters/metrics"
	"github.com/artpar/handlerkit/core/handler"
	"github.com/artpar/handlerkit/domain/access"
	"github.com/artpar/handlerkit/domain/request"
	"github.com/artpar/handlerkit/ports"
	"github.com/rs/zerolog"
)

const (
	missingGroupMessage = "No defined group"
	forbiddenFormat     = "Group %s cant access this path"
)

// Guard builds access-control middleware.
type Guard struct {
	reporter ports.Reporter
	logger   zerolog.Logger
	metrics  *metrics.Collector

	// Live policy used by Restrict; swapped on config reload
	policy atomic.Pointer[access.Policy]
}

// NewGuard creates a guard whose live policy is initially p.
func NewGuard(p access.Policy, reporter ports.Reporter, logger zerolog.Logger, m *metrics.Collector) *Guard {
	g := &Guard{
		reporter: reporter,
		logger:   logger.With().Str("service", "guard").Logger(),
		metrics:  m,
	}
	g.SetPolicy(p)
	return g
}

// SetPolicy replaces the live policy.
func (g *Guard) SetPolicy(p access.Policy) {
	g.policy.Store(&p)
	g.logger.Debug().Strs("groups", p.Groups()).Msg("access policy updated")
}

// Policy returns the live policy.
func (g *Guard) Policy() access.Policy {
	return *g.policy.Load()
}

// RestrictedTo returns middleware that only lets the given groups through.
func (g *Guard) RestrictedTo(groups ...string) handler.Middleware {
	p := access.NewPolicy(groups...)
	return g.restrict(func() access.Policy { return p })
}

// Restrict returns middleware that checks the live policy on every call.
func (g *Guard) Restrict() handler.Middleware {
	return g.restrict(g.Policy)
}

func (g *Guard) restrict(policy func() access.Policy) handler.Middleware {
	return func(next handler.Handler) handler.Handler {
		return func(ctx context.Context, req request.Request) error {
			d := policy().Decide(req)
			g.count(d.Outcome)

			if d.Allowed() {
				// The full request is forwarded, group included
				return next(ctx, req)
			}

			if d.Outcome == access.OutcomeMissingGroup {
				g.reporter.Report(ctx, missingGroupMessage)
				return nil
			}
			g.reporter.Report(ctx, fmt.Sprintf(forbiddenFormat, d.Group))
			g.logger.Debug().Str("path", req.Path).Str("group", d.Group).Msg("access denied")
			return nil
		}
	}
}

func (g *Guard) count(outcome access.Outcome) {
	if g.metrics == nil {
		return
	}
	g.metrics.GuardDecisions.WithLabelValues(string(outcome)).Inc()
}

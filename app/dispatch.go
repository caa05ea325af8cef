// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"fmt"

	"github.com/artpar/handlerkit/adapters/metrics"
	"github.com/artpar/handlerkit/core/registry"
	"github.com/artpar/handlerkit/domain/request"
	"github.com/artpar/handlerkit/ports"
	"github.com/rs/zerolog"
)

// Report lines emitted by the dispatcher.
const (
	receivingFormat = "Receiving Request on path: %s"
	notFoundMessage = "404 page not Found"
)

// Dispatcher resolves a key against a registry and invokes the handler.
type Dispatcher struct {
	registry *registry.Registry
	reporter ports.Reporter
	ids      ports.IDGenerator
	logger   zerolog.Logger
	metrics  *metrics.Collector
}

// DispatcherConfig contains optional collaborators for Dispatcher.
type DispatcherConfig struct {
	IDs     ports.IDGenerator  // Assigns request ids; nil leaves ids empty
	Metrics *metrics.Collector // nil disables metrics
}

// NewDispatcher creates a dispatcher over reg.
func NewDispatcher(
	reg *registry.Registry,
	reporter ports.Reporter,
	logger zerolog.Logger,
	cfg DispatcherConfig,
) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		reporter: reporter,
		ids:      cfg.IDs,
		logger:   logger.With().Str("service", "dispatch").Logger(),
		metrics:  cfg.Metrics,
	}
}

// Registry returns the registry the dispatcher resolves against.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

// Execute dispatches req to the handler registered under key.
//
// An unknown key is reported as "404 page not Found" and yields
// StatusNotFound with a nil error; no handler runs. Otherwise the handler's
// error is returned as is, and panics are not recovered.
func (d *Dispatcher) Execute(ctx context.Context, key string, req request.Request) (request.Status, error) {
	d.reporter.Report(ctx, fmt.Sprintf(receivingFormat, key))

	h, ok := d.registry.Lookup(key)
	if !ok {
		d.reporter.Report(ctx, notFoundMessage)
		d.logger.Debug().Str("path", key).Msg("no handler registered")
		d.count(metrics.UnmatchedPath, "not_found")
		return request.StatusNotFound, nil
	}

	req = req.WithPath(key)
	if req.ID == "" && d.ids != nil {
		req = req.WithID(d.ids.New())
	}

	d.logger.Debug().
		Str("path", key).
		Str("request_id", req.ID).
		Int("args", len(req.Args)).
		Int("named", len(req.Named)).
		Msg("dispatching request")

	// Invoked outside the registry lock
	err := h(ctx, req)
	if err != nil {
		d.count(key, "error")
		return request.StatusOK, err
	}

	d.count(key, "ok")
	return request.StatusOK, nil
}

func (d *Dispatcher) count(label, outcome string) {
	if d.metrics == nil {
		return
	}
	d.metrics.DispatchTotal.WithLabelValues(metrics.NormalizePath(label), outcome).Inc()
}

package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/artpar/handlerkit/adapters/metrics"
	"github.com/artpar/handlerkit/core/handler"
	"github.com/artpar/handlerkit/domain/request"
	"github.com/artpar/handlerkit/ports"
	"github.com/rs/zerolog"
)

const timingFormat = "Function %s executed in %s ms"

// Timer measures and reports how long wrapped functions take.
type Timer struct {
	clock    ports.Clock
	reporter ports.Reporter
	logger   zerolog.Logger
	metrics  *metrics.Collector
}

// NewTimer creates a timer reading time from clock.
func NewTimer(clock ports.Clock, reporter ports.Reporter, logger zerolog.Logger, m *metrics.Collector) *Timer {
	return &Timer{
		clock:    clock,
		reporter: reporter,
		logger:   logger.With().Str("service", "timing").Logger(),
		metrics:  m,
	}
}

// Time runs fn and reports its elapsed time under name. fn's result is
// returned unchanged. When fn fails or panics nothing is reported.
func Time[T any](ctx context.Context, t *Timer, name string, fn func() (T, error)) (T, error) {
	begin := t.clock.Now()
	ret, err := fn()
	if err != nil {
		return ret, err
	}

	t.observe(ctx, name, t.clock.Now().Sub(begin))
	return ret, nil
}

// Timed returns middleware that times the wrapped handler under name.
func (t *Timer) Timed(name string) handler.Middleware {
	return func(next handler.Handler) handler.Handler {
		return func(ctx context.Context, req request.Request) error {
			_, err := Time(ctx, t, name, func() (struct{}, error) {
				return struct{}{}, next(ctx, req)
			})
			return err
		}
	}
}

func (t *Timer) observe(ctx context.Context, name string, elapsed time.Duration) {
	t.reporter.Report(ctx, fmt.Sprintf(timingFormat, name, FormatMillis(elapsed)))

	t.logger.Debug().Str("name", name).Dur("elapsed", elapsed).Msg("timed call finished")

	if t.metrics != nil {
		t.metrics.HandlerDuration.WithLabelValues(metrics.NormalizePath(name)).Observe(elapsed.Seconds())
	}
}

// FormatMillis renders d in milliseconds with microsecond precision.
func FormatMillis(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 3, 64)
}

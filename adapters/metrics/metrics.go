// Package metrics provides Prometheus metrics collection for handlerkit.
package metrics

import (
	"strings"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for handlerkit.
type Collector struct {
	// Dispatch metrics
	DispatchTotal *prometheus.CounterVec

	// Wrapper metrics
	HandlerDuration *prometheus.HistogramVec
	GuardDecisions  *prometheus.CounterVec

	// Marking
	MarkedFunctions prometheus.Gauge

	// HTTP adapter
	HTTPRequestDuration *prometheus.HistogramVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	return build(promauto.With(reg))
}

func build(factory promauto.Factory) *Collector {
	return &Collector{
		DispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "handlerkit",
				Name:      "dispatch_total",
				Help:      "Total number of dispatched requests by outcome",
			},
			[]string{"path", "outcome"},
		),
		HandlerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "handlerkit",
				Name:      "handler_duration_seconds",
				Help:      "Duration of timed handlers that returned normally",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"name"},
		),
		GuardDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "handlerkit",
				Name:      "guard_decisions_total",
				Help:      "Access guard decisions by outcome",
			},
			[]string{"outcome"},
		),
		MarkedFunctions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "handlerkit",
				Name:      "marked_functions",
				Help:      "Number of marks recorded",
			},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "handlerkit",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP adapter request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "status"},
		),
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "handlerkit",
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "handlerkit",
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
	}
}

// UnmatchedPath is the path label recorded for keys with no handler.
const UnmatchedPath = "unmatched"

const maxLabelLen = 50

// NormalizePath turns an arbitrary key into a valid label value. Invalid
// UTF-8 is replaced and long keys are cut on a rune boundary.
func NormalizePath(path string) string {
	path = strings.ToValidUTF8(path, "\uFFFD")
	if len(path) <= maxLabelLen {
		return path
	}
	cut := maxLabelLen
	for cut > 0 && !utf8.RuneStart(path[cut]) {
		cut--
	}
	return path[:cut] + "..."
}

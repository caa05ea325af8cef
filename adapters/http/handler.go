// Package http exposes the dispatcher as an in-process http.Handler.
package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/artpar/handlerkit/adapters/metrics"
	"github.com/artpar/handlerkit/app"
	"github.com/artpar/handlerkit/domain/request"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// ArgParam is the query parameter carrying positional arguments, in order.
const ArgParam = "arg"

// Handler dispatches every incoming request path through a Dispatcher.
type Handler struct {
	dispatcher *app.Dispatcher
	logger     zerolog.Logger
}

// NewHandler creates a handler over d.
func NewHandler(d *app.Dispatcher, logger zerolog.Logger) *Handler {
	return &Handler{
		dispatcher: d,
		logger:     logger.With().Str("component", "http").Logger(),
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := RequestFromURL(r.URL)
	if id := middleware.GetReqID(ctx); id != "" {
		req = req.WithID(id)
	}

	status, err := h.dispatcher.Execute(ctx, r.URL.Path, req)
	switch {
	case !status.Found():
		writeText(w, http.StatusNotFound, "404 page not Found")
	case err != nil:
		h.logger.Error().
			Err(err).
			Str("path", r.URL.Path).
			Str("request_id", req.ID).
			Msg("handler failed")
		writeText(w, http.StatusInternalServerError, "internal error")
	default:
		writeText(w, http.StatusOK, "ok")
	}
}

// RequestFromURL builds a dispatch request from u's query string.
// Every "arg" value becomes a positional argument; other keys become named
// arguments holding their first value.
func RequestFromURL(u *url.URL) request.Request {
	q := u.Query()
	req := request.New(q[ArgParam]...)
	for name, values := range q {
		if name == ArgParam || len(values) == 0 {
			continue
		}
		req = req.WithNamed(name, values[0])
	}
	return req
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body + "\n"))
}

// RouterConfig contains optional router configuration.
type RouterConfig struct {
	Metrics        *metrics.Collector // nil disables request metrics
	MetricsHandler http.Handler       // Served at /metrics; defaults to promhttp when Metrics is set
}

// NewRouter creates a router that sends every path to the dispatcher.
func NewRouter(d *app.Dispatcher, logger zerolog.Logger, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(NewLoggingMiddleware(logger))
	r.Use(middleware.Recoverer)

	if cfg.Metrics != nil {
		r.Use(NewMetricsMiddleware(cfg.Metrics))
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	} else if cfg.Metrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Dispatch keys are exact paths, so everything else goes to the registry
	r.Handle("/*", NewHandler(d, logger))

	return r
}

// NewMetricsMiddleware creates middleware that records request metrics.
func NewMetricsMiddleware(m *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			m.HTTPRequestDuration.
				WithLabelValues(r.Method, statusLabel(ww.Status())).
				Observe(time.Since(start).Seconds())
		})
	}
}

// statusLabel returns a string label for the status code.
func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "other"
	}
}

// NewLoggingMiddleware creates a new logging middleware.
func NewLoggingMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if strings.HasPrefix(r.URL.Path, "/metrics") {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}

// Package bootstrap wires all components together.
// This is the composition root of the application.
package bootstrap

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/artpar/handlerkit/adapters/clock"
	"github.com/artpar/handlerkit/adapters/console"
	apihttp "github.com/artpar/handlerkit/adapters/http"
	"github.com/artpar/handlerkit/adapters/idgen"
	"github.com/artpar/handlerkit/adapters/metrics"
	"github.com/artpar/handlerkit/app"
	"github.com/artpar/handlerkit/catalog"
	"github.com/artpar/handlerkit/config"
	"github.com/artpar/handlerkit/core/handler"
	"github.com/artpar/handlerkit/core/mark"
	"github.com/artpar/handlerkit/core/registry"
	"github.com/artpar/handlerkit/domain/access"
	"github.com/artpar/handlerkit/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// App is the main application container.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Config // Configuration the app was built from
	Reporter   ports.Reporter
	Registry   *registry.Registry
	Dispatcher *app.Dispatcher
	Guard      *app.Guard
	Timer      *app.Timer
	Catalog    *catalog.Catalog
	Marks      *mark.Marker[catalog.MarkedFunc]
	Metrics    *metrics.Collector // nil when metrics are disabled
	Router     http.Handler
}

// Options overrides the default collaborators. The zero value is valid.
type Options struct {
	Out        io.Writer             // Report output; os.Stdout when nil
	LogOut     io.Writer             // Log output; os.Stderr when nil
	Reporter   ports.Reporter        // Replaces the console reporter on Out
	Clock      ports.Clock           // clock.Real when nil
	IDs        ports.IDGenerator     // Prefixed UUIDs when nil
	Registerer prometheus.Registerer // A fresh registry per App when nil
}

// New creates a fully wired application from cfg.
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	logOut := opts.LogOut
	if logOut == nil {
		logOut = os.Stderr
	}
	logger := setupLogger(cfg.Logging, logOut)

	reporter := opts.Reporter
	if reporter == nil {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		reporter = console.New(out, logger)
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	ids := opts.IDs
	if ids == nil {
		ids = idgen.UUID{Prefix: "req_"}
	}

	a := &App{
		Logger:   logger,
		Config:   cfg,
		Reporter: reporter,
		Registry: registry.New(),
		Catalog:  catalog.New(reporter, cfg.Timing.CountTo),
		Marks:    &mark.Marker[catalog.MarkedFunc]{},
	}

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		reg := opts.Registerer
		if reg == nil {
			reg = prometheus.NewRegistry()
		}
		a.Metrics = metrics.NewWithRegistry(reg)
		if g, ok := reg.(prometheus.Gatherer); ok {
			metricsHandler = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
		}
	}

	a.Guard = app.NewGuard(access.NewPolicy(cfg.Access.AllowedGroups...), reporter, logger, a.Metrics)
	a.Timer = app.NewTimer(clk, reporter, logger, a.Metrics)
	a.Dispatcher = app.NewDispatcher(a.Registry, reporter, logger, app.DispatcherConfig{
		IDs:     ids,
		Metrics: a.Metrics,
	})

	if err := a.RegisterRoutes(cfg.Routes); err != nil {
		return nil, err
	}

	catalog.MarkExamples(a.Marks)
	if a.Metrics != nil {
		a.Metrics.MarkedFunctions.Set(float64(a.Marks.Len()))
	}

	a.Router = apihttp.NewRouter(a.Dispatcher, logger, apihttp.RouterConfig{
		Metrics:        a.Metrics,
		MetricsHandler: metricsHandler,
	})

	logger.Info().
		Int("routes", a.Registry.Len()).
		Strs("allowed_groups", cfg.Access.AllowedGroups).
		Bool("metrics", a.Metrics != nil).
		Msg("handlerkit initialized")

	return a, nil
}

// RegisterRoutes registers a catalog handler for every route, wrapped with
// the route's middleware. The access check runs before timing starts.
func (a *App) RegisterRoutes(routes []config.RouteConfig) error {
	for i, rc := range routes {
		h, ok := a.Catalog.Lookup(rc.Handler)
		if !ok {
			return fmt.Errorf("routes[%d]: unknown handler %q (available: %v)", i, rc.Handler, a.Catalog.Names())
		}

		var mws []handler.Middleware
		if rc.Restricted {
			if len(rc.Groups) > 0 {
				mws = append(mws, a.Guard.RestrictedTo(rc.Groups...))
			} else {
				mws = append(mws, a.Guard.Restrict())
			}
		}
		if rc.Timed && a.Config.Timing.Enabled {
			mws = append(mws, a.Timer.Timed(rc.Handler))
		}

		a.Registry.Register(rc.Paths, handler.Chain(h, mws...))

		a.Logger.Debug().
			Strs("paths", rc.Paths).
			Str("handler", rc.Handler).
			Bool("restricted", rc.Restricted).
			Bool("timed", rc.Timed).
			Msg("route registered")
	}
	return nil
}

// ApplyConfig applies the reloadable fields of cfg to the running app.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Guard.SetPolicy(access.NewPolicy(cfg.Access.AllowedGroups...))

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if a.Metrics != nil {
		a.Metrics.ConfigReloads.Inc()
	}
}

// Watch subscribes the app to configuration reloads from h.
func (a *App) Watch(h *config.Holder) {
	h.OnChange(a.ApplyConfig)
	h.OnError(func(err error) {
		if a.Metrics != nil {
			a.Metrics.ConfigReloadErrors.Inc()
		}
	})
}

func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(out).With().Timestamp().Logger()
}

package config

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Holder provides thread-safe access to configuration with hot reload support.
type Holder struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	onChange []func(*Config)
	onError  []func(error)
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewHolder creates a new config holder and loads the initial configuration.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	return &Holder{
		config: cfg,
		path:   absPath,
		logger: logger.With().Str("component", "config").Logger(),
		stopCh: make(chan struct{}),
	}, nil
}

// Get returns the current configuration (thread-safe).
func (h *Holder) Get() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config
}

// Path returns the absolute path of the watched file.
func (h *Holder) Path() string {
	return h.path
}

// Reload reloads the configuration from disk.
// Returns error if loading fails (keeps old config).
func (h *Holder) Reload() error {
	h.logger.Info().Str("path", h.path).Msg("reloading configuration")

	newCfg, err := Load(h.path)
	if err != nil {
		h.logger.Error().Err(err).Msg("config reload failed, keeping old config")
		h.mu.RLock()
		listeners := slices.Clone(h.onError)
		h.mu.RUnlock()
		for _, fn := range listeners {
			fn(err)
		}
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	oldCfg := h.config
	h.config = newCfg
	listeners := slices.Clone(h.onChange)
	h.mu.Unlock()

	h.logChanges(oldCfg, newCfg)

	for _, fn := range listeners {
		fn(newCfg)
	}

	h.logger.Info().Msg("configuration reloaded successfully")
	return nil
}

// OnChange registers a callback to be called when config changes.
func (h *Holder) OnChange(fn func(*Config)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// OnError registers a callback to be called when a reload fails.
func (h *Holder) OnError(fn func(error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onError = append(h.onError, fn)
}

// WatchFile starts watching the config file for changes.
// Changes trigger automatic reload.
func (h *Holder) WatchFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	// Watch the directory (more reliable for editors that do atomic saves)
	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go h.watchLoop()

	h.logger.Info().Str("path", h.path).Msg("watching config file for changes")
	return nil
}

// WatchSignals starts listening for SIGHUP to trigger reload.
func (h *Holder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading config")
				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("SIGHUP reload failed")
				}
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()

	h.logger.Debug().Msg("listening for SIGHUP to reload config")
}

// Stop stops watching for file changes and signals. Safe to call twice.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}

func (h *Holder) watchLoop() {
	filename := filepath.Base(h.path)

	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			// Only react to our config file
			if filepath.Base(event.Name) != filename {
				continue
			}

			// React to write or create (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("config file changed")

				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("file watch reload failed")
				}
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}

func (h *Holder) logChanges(old, new *Config) {
	for _, c := range Diff(old, new) {
		if c.Reloadable {
			h.logger.Info().Str("field", c.Field).Str("old", c.Old).Str("new", c.New).Msg("config field changed")
			continue
		}
		h.logger.Warn().Str("field", c.Field).Str("old", c.Old).Str("new", c.New).Msg("config field changed; restart required to apply")
	}
}

// Change is one field that differs between two loaded configs.
type Change struct {
	Field      string
	Old        string
	New        string
	Reloadable bool
}

type trackedField struct {
	name       string
	reloadable bool
	value      func(*Config) string
}

// Registered routes are never removed, so the route table is fixed at startup.
var trackedFields = []trackedField{
	{"access.allowed_groups", true, func(c *Config) string { return strings.Join(c.Access.AllowedGroups, ",") }},
	{"logging.level", true, func(c *Config) string { return c.Logging.Level }},
	{"logging.format", false, func(c *Config) string { return c.Logging.Format }},
	{"metrics.enabled", false, func(c *Config) string { return strconv.FormatBool(c.Metrics.Enabled) }},
	{"timing.enabled", false, func(c *Config) string { return strconv.FormatBool(c.Timing.Enabled) }},
	{"timing.count_to", false, func(c *Config) string { return strconv.Itoa(c.Timing.CountTo) }},
	{"routes", false, func(c *Config) string { return routeTable(c.Routes) }},
}

// Diff lists the tracked fields whose values differ between old and new.
func Diff(old, new *Config) []Change {
	var changes []Change
	for _, f := range trackedFields {
		o, n := f.value(old), f.value(new)
		if o != n {
			changes = append(changes, Change{Field: f.name, Old: o, New: n, Reloadable: f.reloadable})
		}
	}
	return changes
}

// routeTable renders routes as "handler=path,path" entries with flags.
func routeTable(routes []RouteConfig) string {
	parts := make([]string, 0, len(routes))
	for _, r := range routes {
		entry := r.Handler + "=" + strings.Join(r.Paths, ",")
		if r.Restricted {
			entry += " restricted(" + strings.Join(r.Groups, ",") + ")"
		}
		if r.Timed {
			entry += " timed"
		}
		parts = append(parts, entry)
	}
	return strings.Join(parts, "; ")
}

// ReloadableFields returns which fields can be changed without restart.
func ReloadableFields() []string {
	return fieldNames(true)
}

// NonReloadableFields returns which fields require a restart.
func NonReloadableFields() []string {
	return fieldNames(false)
}

func fieldNames(reloadable bool) []string {
	var names []string
	for _, f := range trackedFields {
		if f.reloadable == reloadable {
			names = append(names, f.name)
		}
	}
	return names
}

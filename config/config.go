// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file-based configuration.
const (
	EnvLogLevel       = "HANDLERKIT_LOG_LEVEL"
	EnvLogFormat      = "HANDLERKIT_LOG_FORMAT"
	EnvMetricsEnabled = "HANDLERKIT_METRICS_ENABLED"
	EnvTimingEnabled  = "HANDLERKIT_TIMING_ENABLED"
	EnvAllowedGroups  = "HANDLERKIT_ALLOWED_GROUPS"
	EnvCountTo        = "HANDLERKIT_COUNT_TO"
)

// Config is the root configuration structure.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Access  AccessConfig  `yaml:"access"`
	Timing  TimingConfig  `yaml:"timing"`
	Routes  []RouteConfig `yaml:"routes"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// AccessConfig configures the live access policy used by restricted routes
// that do not name their own groups.
type AccessConfig struct {
	AllowedGroups []string `yaml:"allowed_groups"`
}

// TimingConfig configures the timing wrapper.
type TimingConfig struct {
	Enabled bool `yaml:"enabled"`
	CountTo int  `yaml:"count_to"` // numbers printed by the count handler
}

// RouteConfig registers one catalog handler under one or more paths.
type RouteConfig struct {
	Paths      []string `yaml:"paths" json:"paths"`
	Handler    string   `yaml:"handler" json:"handler"`
	Restricted bool     `yaml:"restricted" json:"restricted"`
	Groups     []string `yaml:"groups,omitempty" json:"groups,omitempty"` // fixed allow-set; empty uses access.allowed_groups
	Timed      bool     `yaml:"timed" json:"timed"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Timing:  TimingConfig{Enabled: true},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return finish(cfg)
}

// LoadFromEnv creates configuration from defaults and environment variables.
func LoadFromEnv() (*Config, error) {
	return finish(Default())
}

// LoadWithFallback loads the file when it exists and falls back to
// environment-only configuration otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// LoadDotEnv loads KEY=value pairs from the given files (".env" when none)
// into the process environment. Missing files are ignored; existing
// variables are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func finish(cfg *Config) (*Config, error) {
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies HANDLERKIT_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvMetricsEnabled); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv(EnvTimingEnabled); v != "" {
		cfg.Timing.Enabled = parseBool(v)
	}
	if v, ok := os.LookupEnv(EnvAllowedGroups); ok {
		cfg.Access.AllowedGroups = splitList(v)
	}
	if v := os.Getenv(EnvCountTo); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", EnvCountTo, v)
		}
		cfg.Timing.CountTo = n
	}
	return nil
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	// nil means "not configured"; an explicit empty list denies every group
	if cfg.Access.AllowedGroups == nil {
		cfg.Access.AllowedGroups = []string{"Admin"}
	}

	if cfg.Timing.CountTo == 0 {
		cfg.Timing.CountTo = 1000
	}

	if len(cfg.Routes) == 0 {
		cfg.Routes = DefaultRoutes()
	}
}

// DefaultRoutes returns the route table used when none is configured.
func DefaultRoutes() []RouteConfig {
	return []RouteConfig{
		{Paths: []string{"/"}, Handler: "root"},
		{Paths: []string{"/user", "/usr"}, Handler: "user"},
		{Paths: []string{"/admin"}, Handler: "group_user", Restricted: true},
		{Paths: []string{"/count"}, Handler: "count", Timed: true},
	}
}

func validate(cfg *Config) error {
	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level %q is not a valid level", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if cfg.Timing.CountTo < 0 {
		return fmt.Errorf("timing.count_to must not be negative")
	}

	for i, r := range cfg.Routes {
		if r.Handler == "" {
			return fmt.Errorf("routes[%d].handler is required", i)
		}
		if len(r.Paths) == 0 {
			return fmt.Errorf("routes[%d].paths must list at least one path", i)
		}
		for j, p := range r.Paths {
			if p == "" {
				return fmt.Errorf("routes[%d].paths[%d] is empty", i, j)
			}
		}
		if len(r.Groups) > 0 && !r.Restricted {
			return fmt.Errorf("routes[%d].groups requires restricted: true", i)
		}
	}

	return nil
}

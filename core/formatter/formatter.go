// Package formatter renders lists of records as table, json or yaml output.
package formatter

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Formatter converts records to a specific output format.
type Formatter interface {
	// Name returns the formatter name (e.g., "table", "json", "yaml").
	Name() string

	// FormatList formats a list of records of the given kind.
	FormatList(w io.Writer, kind string, records []map[string]any, opts FormatOptions) error

	// FormatError formats an error.
	FormatError(w io.Writer, err error) error
}

// FormatOptions configures formatting behavior.
type FormatOptions struct {
	// Columns specifies which fields to include, in order (nil = all, sorted).
	Columns []string

	// NoHeader disables header row for tabular formats.
	NoHeader bool

	// Compact minimizes whitespace (json only).
	Compact bool

	// MaxWidth truncates long table values (0 = no limit).
	MaxWidth int
}

// Registry manages registered formatters.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
	defaultFmt string
}

// NewRegistry creates an empty formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
		defaultFmt: "table",
	}
}

// Standard returns a registry holding the table, json and yaml formatters.
func Standard() *Registry {
	r := NewRegistry()
	r.Register(NewTableFormatter())
	r.Register(NewJSONFormatter())
	r.Register(NewYAMLFormatter())
	return r
}

// Register adds a formatter to the registry.
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[f.Name()]; exists {
		return fmt.Errorf("formatter %q already registered", f.Name())
	}

	r.formatters[f.Name()] = f
	return nil
}

// Get returns a formatter by name. An empty name selects the default.
func (r *Registry) Get(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaultFmt
	}
	f, ok := r.formatters[name]
	return f, ok
}

// List returns all registered formatter names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveColumns returns the requested columns, or every key of the records sorted.
func resolveColumns(records []map[string]any, requested []string) []string {
	if len(requested) > 0 {
		return requested
	}

	seen := map[string]bool{}
	var columns []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

// filterRecords keeps only the given columns when any are requested.
func filterRecords(records []map[string]any, columns []string) []map[string]any {
	if len(columns) == 0 {
		return records
	}

	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		filtered := make(map[string]any, len(columns))
		for _, col := range columns {
			if v, ok := rec[col]; ok {
				filtered[col] = v
			}
		}
		out = append(out, filtered)
	}
	return out
}

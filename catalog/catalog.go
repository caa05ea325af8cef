// Package catalog holds the example handlers that routes refer to by name.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/artpar/handlerkit/core/handler"
	"github.com/artpar/handlerkit/domain/access"
	"github.com/artpar/handlerkit/domain/request"
	"github.com/artpar/handlerkit/ports"
)

// Handler names usable in route configuration.
const (
	NameRoot      = "root"
	NameUser      = "user"
	NameGroupUser = "group_user"
	NameCount     = "count"
)

// DefaultCountTo is how many numbers Count prints when not told otherwise.
const DefaultCountTo = 1000

// ErrMissingArgument is returned when a handler is called without an argument it needs.
var ErrMissingArgument = errors.New("missing argument")

// Catalog provides the example handlers.
type Catalog struct {
	reporter ports.Reporter
	countTo  int
}

// New creates a catalog writing its output to reporter.
// countTo <= 0 selects DefaultCountTo.
func New(reporter ports.Reporter, countTo int) *Catalog {
	if countTo <= 0 {
		countTo = DefaultCountTo
	}
	return &Catalog{reporter: reporter, countTo: countTo}
}

// Root handles the root path.
func (c *Catalog) Root(ctx context.Context, req request.Request) error {
	c.reporter.Report(ctx, "Accessing root of Example")
	return nil
}

// User prints the username given as first positional or "username" named argument.
func (c *Catalog) User(ctx context.Context, req request.Request) error {
	username, ok := req.Arg(0)
	if !ok {
		username, ok = req.Lookup("username")
	}
	if !ok {
		return fmt.Errorf("%w: username", ErrMissingArgument)
	}

	c.reporter.Report(ctx, "Accessing user of Example")
	c.reporter.Report(ctx, "Username: "+username)
	return nil
}

// GroupUser prints the caller's group. It is meant to sit behind an access guard.
func (c *Catalog) GroupUser(ctx context.Context, req request.Request) error {
	group, ok := access.GroupOf(req)
	if !ok {
		return fmt.Errorf("%w: group", ErrMissingArgument)
	}

	c.reporter.Report(ctx, "Accessing user of Example")
	c.reporter.Report(ctx, "Group: "+group)
	return nil
}

// Count prints the numbers 0..n-1. n comes from the "n" named argument or
// the catalog default.
func (c *Catalog) Count(ctx context.Context, req request.Request) error {
	n := c.countTo
	if v, ok := req.Lookup("n"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid n %q: must be a non-negative integer", v)
		}
		n = parsed
	}

	for i := 0; i < n; i++ {
		c.reporter.Report(ctx, strconv.Itoa(i))
	}
	return nil
}

// Handlers returns all named handlers.
func (c *Catalog) Handlers() map[string]handler.Handler {
	return map[string]handler.Handler{
		NameRoot:      c.Root,
		NameUser:      c.User,
		NameGroupUser: c.GroupUser,
		NameCount:     c.Count,
	}
}

// Lookup returns the handler with the given name.
func (c *Catalog) Lookup(name string) (handler.Handler, bool) {
	h, ok := c.Handlers()[name]
	return h, ok
}

// Names returns the handler names sorted alphabetically.
func (c *Catalog) Names() []string {
	names := make([]string, 0, 4)
	for name := range c.Handlers() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

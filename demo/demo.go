// Package demo runs the walkthrough scenarios behind the route, security,
// mark and timing commands. Each scenario builds its own registry.
package demo

import (
	"context"
	"fmt"

	"github.com/artpar/handlerkit/app"
	"github.com/artpar/handlerkit/catalog"
	"github.com/artpar/handlerkit/core/handler"
	"github.com/artpar/handlerkit/core/mark"
	"github.com/artpar/handlerkit/core/registry"
	"github.com/artpar/handlerkit/domain/access"
	"github.com/artpar/handlerkit/domain/request"
	"github.com/artpar/handlerkit/ports"
	"github.com/rs/zerolog"
)

// Call is one dispatch performed by a scenario.
type Call struct {
	Path string
	Req  request.Request
}

// RouteCalls is the request sequence of the route scenario.
func RouteCalls() []Call {
	return []Call{
		{"/", request.New()},
		{"/user", request.New("Manager")},
		{"/usr", request.New("Admin")},
		{"/notexisting", request.New()},
	}
}

// SecurityCalls is the request sequence of the security scenario.
func SecurityCalls() []Call {
	return []Call{
		{"/", request.New()},
		{"/user", request.New("Manager")},
		{"/usr", request.New("Admin")},
		{"/user", request.New().WithNamed("group", "Manager")},
		{"/usr", request.New().WithNamed("group", "Admin")},
		{"/notexisting", request.New()},
	}
}

// Route registers the root and user handlers and replays RouteCalls.
func Route(ctx context.Context, rep ports.Reporter, logger zerolog.Logger) error {
	cat := catalog.New(rep, 0)

	reg := registry.New()
	reg.Register([]string{"/"}, cat.Root)
	reg.Register([]string{"/user", "/usr"}, cat.User)

	return replay(ctx, app.NewDispatcher(reg, rep, logger, app.DispatcherConfig{}), RouteCalls())
}

// Security is Route with the user paths restricted to the Admin group.
func Security(ctx context.Context, rep ports.Reporter, logger zerolog.Logger) error {
	cat := catalog.New(rep, 0)
	guard := app.NewGuard(access.NewPolicy("Admin"), rep, logger, nil)

	reg := registry.New()
	reg.Register([]string{"/"}, cat.Root)
	reg.Register([]string{"/user", "/usr"}, handler.Chain(cat.GroupUser, guard.RestrictedTo("Admin")))

	return replay(ctx, app.NewDispatcher(reg, rep, logger, app.DispatcherConfig{}), SecurityCalls())
}

// Mark prints the names of the marked functions, then calls every example
// function directly. Marking leaves the functions unchanged.
func Mark(ctx context.Context, rep ports.Reporter) {
	var m mark.Marker[catalog.MarkedFunc]
	catalog.MarkExamples(&m)

	for _, name := range m.Names() {
		rep.Report(ctx, name)
	}

	catalog.Marked1(ctx, rep)
	catalog.Marked2(ctx, rep)
	catalog.NotMarked(ctx, rep)
}

// Timing runs the timed counter up to n and then prints the wrapped
// function's name.
func Timing(ctx context.Context, rep ports.Reporter, logger zerolog.Logger, clock ports.Clock, n int) error {
	cat := catalog.New(rep, n)
	timer := app.NewTimer(clock, rep, logger, nil)

	count := handler.Chain(cat.Count, timer.Timed(catalog.NameCount))
	if err := count(ctx, request.New()); err != nil {
		return err
	}

	rep.Report(ctx, catalog.NameCount)
	return nil
}

func replay(ctx context.Context, d *app.Dispatcher, calls []Call) error {
	for _, c := range calls {
		if _, err := d.Execute(ctx, c.Path, c.Req); err != nil {
			return fmt.Errorf("execute %s: %w", c.Path, err)
		}
	}
	return nil
}

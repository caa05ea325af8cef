package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/artpar/handlerkit/adapters/memory"
	"github.com/artpar/handlerkit/adapters/metrics"
	"github.com/artpar/handlerkit/app"
	"github.com/artpar/handlerkit/domain/access"
	"github.com/artpar/handlerkit/domain/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func newTestGuard(groups ...string) (*app.Guard, *memory.Reporter, *metrics.Collector) {
	rep := memory.NewReporter()
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	return app.NewGuard(access.NewPolicy(groups...), rep, zerolog.Nop(), m), rep, m
}

func TestGuard_RestrictedTo(t *testing.T) {
	tests := []struct {
		name       string
		req        request.Request
		wantCalled bool
		wantReport string
	}{
		{
			name:       "named allowed group",
			req:        request.New().WithNamed("group", "Admin"),
			wantCalled: true,
		},
		{
			name:       "positional allowed group",
			req:        request.New("Admin"),
			wantCalled: true,
		},
		{
			name:       "named forbidden group",
			req:        request.New().WithNamed("group", "Manager"),
			wantReport: "Group Manager cant access this path",
		},
		{
			name:       "positional forbidden group",
			req:        request.New("Manager"),
			wantReport: "Group Manager cant access this path",
		},
		{
			name:       "no group",
			req:        request.New(),
			wantReport: "No defined group",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, rep, _ := newTestGuard()
			h := &recordingHandler{}
			wrapped := g.RestrictedTo("Admin")(h.Handle)

			if err := wrapped(context.Background(), tt.req); err != nil {
				t.Fatalf("wrapped() error = %v", err)
			}

			if called := len(h.calls) == 1; called != tt.wantCalled {
				t.Errorf("called = %v, want %v", called, tt.wantCalled)
			}

			lines := rep.Lines()
			if tt.wantReport == "" {
				if len(lines) != 0 {
					t.Errorf("unexpected reports: %v", lines)
				}
				return
			}
			if len(lines) != 1 || lines[0] != tt.wantReport {
				t.Errorf("reports = %v, want [%s]", lines, tt.wantReport)
			}
		})
	}
}

func TestGuard_ForwardsFullRequest(t *testing.T) {
	g, _, _ := newTestGuard()
	h := &recordingHandler{}
	wrapped := g.RestrictedTo("Admin")(h.Handle)

	positional := request.New("Admin", "extra")
	named := request.New().WithNamed("group", "Admin")

	wrapped(context.Background(), positional)
	wrapped(context.Background(), named)

	if len(h.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(h.calls))
	}
	if len(h.calls[0].Args) != 2 || h.calls[0].Args[1] != "extra" {
		t.Errorf("positional args not forwarded unchanged: %v", h.calls[0].Args)
	}
	if v, _ := h.calls[1].Lookup("group"); v != "Admin" {
		t.Errorf("named group not forwarded: %v", h.calls[1].Named)
	}
}

func TestGuard_PropagatesHandlerError(t *testing.T) {
	g, _, _ := newTestGuard()
	wantErr := errors.New("handler failed")
	h := &recordingHandler{err: wantErr}

	err := g.RestrictedTo("Admin")(h.Handle)(context.Background(), request.New("Admin"))
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestGuard_Restrict_UsesLivePolicy(t *testing.T) {
	g, _, _ := newTestGuard("Admin")
	h := &recordingHandler{}
	wrapped := g.Restrict()(h.Handle)

	wrapped(context.Background(), request.New("Manager"))
	if len(h.calls) != 0 {
		t.Fatal("Manager should be denied by the initial policy")
	}

	g.SetPolicy(access.NewPolicy("Admin", "Manager"))

	wrapped(context.Background(), request.New("Manager"))
	if len(h.calls) != 1 {
		t.Error("Manager should be allowed after policy update")
	}
}

func TestGuard_Metrics(t *testing.T) {
	g, _, m := newTestGuard()
	h := &recordingHandler{}
	wrapped := g.RestrictedTo("Admin")(h.Handle)

	wrapped(context.Background(), request.New("Admin"))
	wrapped(context.Background(), request.New("Manager"))
	wrapped(context.Background(), request.New())

	for _, outcome := range []access.Outcome{access.OutcomeAllowed, access.OutcomeDenied, access.OutcomeMissingGroup} {
		if v := testutil.ToFloat64(m.GuardDecisions.WithLabelValues(string(outcome))); v != 1 {
			t.Errorf("guard_decisions_total{%s} = %v, want 1", outcome, v)
		}
	}
}

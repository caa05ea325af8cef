package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/artpar/handlerkit/adapters/clock"
	"github.com/artpar/handlerkit/adapters/memory"
	"github.com/artpar/handlerkit/adapters/metrics"
	"github.com/artpar/handlerkit/app"
	"github.com/artpar/handlerkit/domain/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func newTestTimer(step time.Duration) (*app.Timer, *memory.Reporter, *metrics.Collector) {
	rep := memory.NewReporter()
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	c := clock.NewStepping(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step)
	return app.NewTimer(c, rep, zerolog.Nop(), m), rep, m
}

func TestTime_ReturnsValueUnchanged(t *testing.T) {
	timer, rep, _ := newTestTimer(5 * time.Millisecond)

	type result struct {
		Total int
		Items []string
	}
	want := result{Total: 3, Items: []string{"a", "b", "c"}}

	got, err := app.Time(context.Background(), timer, "collect", func() (result, error) {
		return want, nil
	})
	if err != nil {
		t.Fatalf("Time() error = %v", err)
	}
	if got.Total != want.Total || len(got.Items) != 3 || got.Items[2] != "c" {
		t.Errorf("Time() = %+v, want %+v", got, want)
	}

	lines := rep.Lines()
	if len(lines) != 1 || lines[0] != "Function collect executed in 5.000 ms" {
		t.Errorf("reports = %v", lines)
	}
}

func TestTime_ErrorSkipsReport(t *testing.T) {
	timer, rep, m := newTestTimer(time.Millisecond)
	wantErr := errors.New("boom")

	_, err := app.Time(context.Background(), timer, "failing", func() (int, error) {
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if len(rep.Lines()) != 0 {
		t.Errorf("no report expected on error, got %v", rep.Lines())
	}
	if n := testutil.CollectAndCount(m.HandlerDuration); n != 0 {
		t.Errorf("histogram series = %d, want 0", n)
	}
}

func TestTime_PanicSkipsReport(t *testing.T) {
	timer, rep, _ := newTestTimer(time.Millisecond)

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("recover() = %v, want boom", r)
			}
		}()
		app.Time(context.Background(), timer, "panicking", func() (int, error) {
			panic("boom")
		})
	}()

	if len(rep.Lines()) != 0 {
		t.Errorf("no report expected on panic, got %v", rep.Lines())
	}
}

func TestTimer_Timed(t *testing.T) {
	timer, rep, m := newTestTimer(2 * time.Millisecond)
	h := &recordingHandler{}

	wrapped := timer.Timed("count")(h.Handle)
	if err := wrapped(context.Background(), request.New("x")); err != nil {
		t.Fatalf("wrapped() error = %v", err)
	}

	if len(h.calls) != 1 {
		t.Errorf("calls = %d, want 1", len(h.calls))
	}
	if lines := rep.Lines(); len(lines) != 1 || lines[0] != "Function count executed in 2.000 ms" {
		t.Errorf("reports = %v", lines)
	}
	if n := testutil.CollectAndCount(m.HandlerDuration); n != 1 {
		t.Errorf("histogram series = %d, want 1", n)
	}
}

func TestTimer_Timed_ErrorPropagates(t *testing.T) {
	timer, rep, _ := newTestTimer(time.Millisecond)
	wantErr := errors.New("nope")
	h := &recordingHandler{err: wantErr}

	err := timer.Timed("count")(h.Handle)(context.Background(), request.New())
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if len(rep.Lines()) != 0 {
		t.Errorf("no report expected, got %v", rep.Lines())
	}
}

func TestFormatMillis(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0.000"},
		{1500 * time.Microsecond, "1.500"},
		{2 * time.Second, "2000.000"},
	}
	for _, tt := range tests {
		if got := app.FormatMillis(tt.in); got != tt.want {
			t.Errorf("FormatMillis(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

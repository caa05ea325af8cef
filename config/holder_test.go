package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/artpar/handlerkit/config"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func validConfig() string {
	return `
access:
  allowed_groups: [Admin]
`
}

func TestHolder_Get(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	got := h.Get()
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.Access.AllowedGroups[0] != "Admin" {
		t.Errorf("AllowedGroups = %v, want [Admin]", got.Access.AllowedGroups)
	}
	if !filepath.IsAbs(h.Path()) {
		t.Errorf("Path() = %s, want absolute", h.Path())
	}
}

func TestNewHolder_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: loud\n")

	if _, err := config.NewHolder(path, zerolog.Nop()); err == nil {
		t.Error("NewHolder should fail on invalid config")
	}
}

func TestHolder_Reload(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	if err := os.WriteFile(path, []byte("access:\n  allowed_groups: [Admin, Manager]\n"), 0644); err != nil {
		t.Fatalf("write new config: %v", err)
	}

	if err := h.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}

	if got := h.Get().Access.AllowedGroups; len(got) != 2 || got[1] != "Manager" {
		t.Errorf("reloaded AllowedGroups = %v, want [Admin Manager]", got)
	}
}

func TestHolder_Reload_KeepsOldOnError(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var reloadErr error
	h.OnError(func(err error) { reloadErr = err })

	if err := os.WriteFile(path, []byte("routes: ["), 0644); err != nil {
		t.Fatalf("write broken config: %v", err)
	}

	if err := h.Reload(); err == nil {
		t.Fatal("Reload should fail on broken config")
	}
	if reloadErr == nil {
		t.Error("OnError callback not called")
	}
	if got := h.Get().Access.AllowedGroups; len(got) != 1 || got[0] != "Admin" {
		t.Errorf("AllowedGroups = %v, old config should be kept", got)
	}
}

func TestHolder_OnChange(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var got *config.Config
	h.OnChange(func(c *config.Config) { got = c })

	if err := h.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}
	if got == nil {
		t.Fatal("OnChange callback not called")
	}
	if got != h.Get() {
		t.Error("callback should receive the new config")
	}
}

func TestHolder_WatchFile(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	var mu sync.Mutex
	var groups []string
	h.OnChange(func(c *config.Config) {
		mu.Lock()
		groups = c.Access.AllowedGroups
		mu.Unlock()
	})

	if err := h.WatchFile(); err != nil {
		t.Fatalf("WatchFile error: %v", err)
	}

	if err := os.WriteFile(path, []byte("access:\n  allowed_groups: [Ops]\n"), 0644); err != nil {
		t.Fatalf("write new config: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		done := len(groups) == 1 && groups[0] == "Ops"
		mu.Unlock()
		if done {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("file change was not picked up by the watcher")
}

func TestHolder_StopTwice(t *testing.T) {
	path := writeConfig(t, validConfig())

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}

	h.Stop()
	h.Stop()
}

func TestReloadableFields(t *testing.T) {
	if diff := cmp.Diff([]string{"access.allowed_groups", "logging.level"}, config.ReloadableFields()); diff != "" {
		t.Errorf("ReloadableFields mismatch (-want +got):\n%s", diff)
	}
	for _, f := range config.NonReloadableFields() {
		if slices.Contains(config.ReloadableFields(), f) {
			t.Errorf("%s is listed as both reloadable and not", f)
		}
	}
}

func TestDiff(t *testing.T) {
	old := config.Default()
	old.Routes = config.DefaultRoutes()

	next := config.Default()
	next.Access.AllowedGroups = []string{"Admin", "Manager"}
	next.Timing.CountTo = 5
	next.Routes = append(config.DefaultRoutes(), config.RouteConfig{Paths: []string{"/ops"}, Handler: "root"})

	var got []string
	for _, c := range config.Diff(old, next) {
		got = append(got, c.Field+"="+strconv.FormatBool(c.Reloadable))
	}
	want := []string{"access.allowed_groups=true", "timing.count_to=false", "routes=false"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}

	if changes := config.Diff(old, old); len(changes) != 0 {
		t.Errorf("Diff(same) = %v, want none", changes)
	}
}

func TestHolder_ReloadLogsChanges(t *testing.T) {
	path := writeConfig(t, validConfig())
	var logs bytes.Buffer

	h, err := config.NewHolder(path, zerolog.New(&logs))
	if err != nil {
		t.Fatalf("NewHolder error: %v", err)
	}
	defer h.Stop()

	if err := os.WriteFile(path, []byte("access:\n  allowed_groups: [Ops]\ntiming:\n  count_to: 9\n"), 0644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := h.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}

	out := logs.String()
	if !strings.Contains(out, `"field":"access.allowed_groups","old":"Admin","new":"Ops"`) {
		t.Errorf("missing allowed groups change:\n%s", out)
	}
	if !strings.Contains(out, `"field":"timing.count_to"`) || !strings.Contains(out, "restart required") {
		t.Errorf("missing count_to restart warning:\n%s", out)
	}
}

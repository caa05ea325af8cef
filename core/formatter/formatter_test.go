package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func createTestRecords() []map[string]any {
	return []map[string]any{
		{"paths": []string{"/user", "/usr"}, "handler": "user", "restricted": false},
		{"paths": []string{"/admin"}, "handler": "group_user", "restricted": true},
	}
}

// ===========================================
// Registry Tests
// ===========================================

func TestStandard(t *testing.T) {
	r := Standard()

	if got := strings.Join(r.List(), ","); got != "json,table,yaml" {
		t.Errorf("List() = %s, want json,table,yaml", got)
	}

	f, ok := r.Get("")
	if !ok || f.Name() != "table" {
		t.Errorf("Get(\"\") should return the table formatter")
	}
	if _, ok := r.Get("csv"); ok {
		t.Error("Get(csv) should fail")
	}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(NewJSONFormatter()); err != nil {
		t.Fatalf("first Register error: %v", err)
	}
	if err := r.Register(NewJSONFormatter()); err == nil {
		t.Error("duplicate Register should fail")
	}
}

// ===========================================
// Table Tests
// ===========================================

func TestTableFormatter_FormatList(t *testing.T) {
	var buf bytes.Buffer
	opts := FormatOptions{Columns: []string{"paths", "handler", "restricted"}}

	if err := NewTableFormatter().FormatList(&buf, "routes", createTestRecords(), opts); err != nil {
		t.Fatalf("FormatList error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), buf.String())
	}
	if strings.Join(strings.Fields(lines[0]), " ") != "PATHS HANDLER RESTRICTED" {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Join(strings.Fields(lines[1]), " ") != "/user,/usr user no" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if strings.Join(strings.Fields(lines[2]), " ") != "/admin group_user yes" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestTableFormatter_FormatList_Empty(t *testing.T) {
	var buf bytes.Buffer

	if err := NewTableFormatter().FormatList(&buf, "routes", nil, FormatOptions{}); err != nil {
		t.Fatalf("FormatList error: %v", err)
	}
	if buf.String() != "No routes found.\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestTableFormatter_NoHeaderSortedColumns(t *testing.T) {
	var buf bytes.Buffer
	records := []map[string]any{{"b": 2, "a": "x"}}

	if err := NewTableFormatter().FormatList(&buf, "rows", records, FormatOptions{NoHeader: true}); err != nil {
		t.Fatalf("FormatList error: %v", err)
	}
	if got := strings.Join(strings.Fields(buf.String()), " "); got != "x 2" {
		t.Errorf("output = %q, want columns a then b", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		val      any
		maxWidth int
		want     string
	}{
		{nil, 0, "-"},
		{"text", 0, "text"},
		{true, 0, "yes"},
		{false, 0, "no"},
		{[]string{}, 0, "-"},
		{[]string{"a", "b"}, 0, "a,b"},
		{7, 0, "7"},
		{map[string]int{"k": 1}, 0, `{"k":1}`},
		{"abcdefghij", 6, "abc..."},
	}

	for _, tt := range tests {
		if got := formatValue(tt.val, tt.maxWidth); got != tt.want {
			t.Errorf("formatValue(%v, %d) = %q, want %q", tt.val, tt.maxWidth, got, tt.want)
		}
	}
}

func TestTableFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	NewTableFormatter().FormatError(&buf, errors.New("boom"))

	if buf.String() != "Error: boom\n" {
		t.Errorf("output = %q", buf.String())
	}
}

// ===========================================
// JSON / YAML Tests
// ===========================================

func TestJSONFormatter_FormatList(t *testing.T) {
	var buf bytes.Buffer
	opts := FormatOptions{Columns: []string{"handler"}, Compact: true}

	if err := NewJSONFormatter().FormatList(&buf, "routes", createTestRecords(), opts); err != nil {
		t.Fatalf("FormatList error: %v", err)
	}

	var out struct {
		Kind  string           `json:"kind"`
		Count int              `json:"count"`
		Data  []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Kind != "routes" || out.Count != 2 {
		t.Errorf("kind/count = %s/%d", out.Kind, out.Count)
	}
	if len(out.Data[0]) != 1 || out.Data[0]["handler"] != "user" {
		t.Errorf("data[0] = %v, want only handler", out.Data[0])
	}
}

func TestYAMLFormatter_FormatList(t *testing.T) {
	var buf bytes.Buffer

	if err := NewYAMLFormatter().FormatList(&buf, "routes", createTestRecords(), FormatOptions{}); err != nil {
		t.Fatalf("FormatList error: %v", err)
	}

	var out map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if out["kind"] != "routes" || out["count"] != 2 {
		t.Errorf("output = %v", out)
	}
}

func TestFormatError_Structured(t *testing.T) {
	var j, y bytes.Buffer
	NewJSONFormatter().FormatError(&j, errors.New("boom"))
	NewYAMLFormatter().FormatError(&y, errors.New("boom"))

	if !strings.Contains(j.String(), `"error": "boom"`) {
		t.Errorf("json = %q", j.String())
	}
	if strings.TrimSpace(y.String()) != "error: boom" {
		t.Errorf("yaml = %q", y.String())
	}
}

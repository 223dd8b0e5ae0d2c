package manifest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/indaco/plugrel/internal/core"
	"github.com/tidwall/gjson"
)

const sample = `{
  "name": "My plugin market",
  "version": "1.0.0",
  "lastUpdated": "2024-01-01",
  "plugins": [
    {"id": "old", "version": "0.1", "fileName": "old-0.1.zip"}
  ],
  "homepage": "https://example.com"
}`

func TestStore_Load(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile(DefaultPath, []byte(sample))

	m, err := NewStore(fs).Load(context.Background(), DefaultPath)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	v, err := m.Version()
	if err != nil || v != "1.0.0" {
		t.Errorf("Version() = %q, %v; want 1.0.0", v, err)
	}
	if got := m.LastUpdated(); got != "2024-01-01" {
		t.Errorf("LastUpdated() = %q", got)
	}
	if got := len(m.Plugins()); got != 1 {
		t.Errorf("Plugins() len = %d, want 1", got)
	}
}

func TestStore_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		readErr error
		check   func(t *testing.T, err error)
	}{
		{
			name: "missing file",
			check: func(t *testing.T, err error) {
				var nf *NotFoundError
				if !errors.As(err, &nf) {
					t.Errorf("error = %v, want *NotFoundError", err)
				}
				if !strings.Contains(nf.Suggestion(), "version") {
					t.Errorf("Suggestion() should mention the version field, got %q", nf.Suggestion())
				}
			},
		},
		{
			name:    "invalid json",
			content: ptr(`{"version": `),
			check:   wantParseError,
		},
		{
			name:    "array document",
			content: ptr(`[]`),
			check:   wantParseError,
		},
		{
			name:    "read error",
			readErr: errors.New("i/o error"),
			check: func(t *testing.T, err error) {
				var nf *NotFoundError
				if err == nil || errors.As(err, &nf) {
					t.Errorf("error = %v, want a plain read error", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := core.NewMockFileSystem()
			if tt.content != nil {
				fs.SetFile(DefaultPath, []byte(*tt.content))
			}
			fs.ReadErr = tt.readErr

			_, err := NewStore(fs).Load(context.Background(), DefaultPath)
			tt.check(t, err)
		})
	}
}

func TestManifest_Version_Missing(t *testing.T) {
	for _, doc := range []string{`{}`, `{"version": ""}`, `{"version": 1}`, `{"version": null}`} {
		m, err := New("m.json", []byte(doc))
		if err != nil {
			t.Fatalf("New(%s) unexpected error: %v", doc, err)
		}
		if _, err := m.Version(); !errors.Is(err, ErrMissingVersion) {
			t.Errorf("Version() on %s error = %v, want ErrMissingVersion", doc, err)
		}
	}
}

func TestManifest_Update(t *testing.T) {
	m, err := New("m.json", []byte(sample))
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	if err := m.SetVersion("1.0.2"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetLastUpdated(time.Date(2026, 10, 17, 23, 30, 0, 0, time.FixedZone("X", -3*3600))); err != nil {
		t.Fatal(err)
	}
	entries := [][]byte{
		[]byte(`{"id":"a","version":"1.0","fileName":"a-1.0.zip"}`),
		[]byte(`{"id":"b","version":"2.0","fileName":"b-2.0.zip"}`),
	}
	if err := m.SetPlugins(entries); err != nil {
		t.Fatal(err)
	}

	out := m.Bytes()
	if !gjson.ValidBytes(out) {
		t.Fatalf("Bytes() is not valid JSON:\n%s", out)
	}
	if !strings.HasSuffix(string(out), "\n") {
		t.Error("Bytes() should end with a newline")
	}
	if !strings.Contains(string(out), "\n  \"version\": \"1.0.2\"") {
		t.Errorf("Bytes() should be indented with two spaces:\n%s", out)
	}

	doc := gjson.ParseBytes(out)
	if got := doc.Get("version").String(); got != "1.0.2" {
		t.Errorf("version = %q", got)
	}
	// 23:30 at UTC-3 is the next day in UTC.
	if got := doc.Get("lastUpdated").String(); got != "2026-10-18" {
		t.Errorf("lastUpdated = %q, want 2026-10-18", got)
	}
	var ids []string
	for _, p := range doc.Get("plugins").Array() {
		ids = append(ids, p.Get("id").String())
	}
	if diff := cmp.Diff([]string{"a", "b"}, ids); diff != "" {
		t.Errorf("plugins mismatch (-want +got):\n%s", diff)
	}

	// Unrelated fields survive, in their original order.
	var keys []string
	doc.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	if diff := cmp.Diff([]string{"name", "version", "lastUpdated", "plugins", "homepage"}, keys); diff != "" {
		t.Errorf("top-level keys mismatch (-want +got):\n%s", diff)
	}
}

func TestManifest_SetPlugins_EmptyAndMissingFields(t *testing.T) {
	m, err := New("m.json", []byte(`{"version":"3.0.0"}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetPlugins(nil); err != nil {
		t.Fatalf("SetPlugins(nil) unexpected error: %v", err)
	}
	if err := m.SetLastUpdated(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}

	doc := gjson.ParseBytes(m.Bytes())
	if !doc.Get("plugins").IsArray() || len(doc.Get("plugins").Array()) != 0 {
		t.Errorf("plugins = %s, want []", doc.Get("plugins").Raw)
	}
	if got := doc.Get("lastUpdated").String(); got != "2025-01-02" {
		t.Errorf("lastUpdated = %q", got)
	}
}

func TestManifest_SetPlugins_InvalidEntry(t *testing.T) {
	m, err := New("m.json", []byte(`{"version":"1"}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetPlugins([][]byte{[]byte(`{"id":`)}); err == nil {
		t.Error("SetPlugins() expected error for invalid entry JSON")
	}
}

func TestManifest_PluginsEqual(t *testing.T) {
	m, err := New("m.json", []byte(`{"version":"1","plugins":[{"id":"a","version":"1.0","fileName":"a-1.0.zip"},{"id":"b","version":"1"}]}`))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		entries []string
		want    bool
	}{
		{
			name:    "same content different key order and spacing",
			entries: []string{`{ "fileName": "a-1.0.zip", "version": "1.0", "id": "a" }`, `{"version":"1","id":"b"}`},
			want:    true,
		},
		{
			name:    "entry order differs",
			entries: []string{`{"id":"b","version":"1"}`, `{"id":"a","version":"1.0","fileName":"a-1.0.zip"}`},
			want:    false,
		},
		{
			name:    "version bumped",
			entries: []string{`{"id":"a","version":"1.1","fileName":"a-1.1.zip"}`, `{"id":"b","version":"1"}`},
			want:    false,
		},
		{
			name:    "plugin removed",
			entries: []string{`{"id":"a","version":"1.0","fileName":"a-1.0.zip"}`},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := make([][]byte, len(tt.entries))
			for i, e := range tt.entries {
				entries[i] = []byte(e)
			}
			got, err := m.PluginsEqual(entries)
			if err != nil {
				t.Fatalf("PluginsEqual() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("PluginsEqual() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStore_Save(t *testing.T) {
	fs := core.NewMockFileSystem()
	store := NewStore(fs)

	m, err := New(DefaultPath, []byte(`{"version":"1.0.0","plugins":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(context.Background(), m); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	data, ok := fs.GetFile(DefaultPath)
	if !ok {
		t.Fatal("Save() did not write the manifest")
	}
	if gjson.GetBytes(data, "version").String() != "1.0.0" {
		t.Errorf("saved manifest = %s", data)
	}

	fs.WriteErr = errors.New("read-only filesystem")
	if err := store.Save(context.Background(), m); err == nil {
		t.Error("Save() expected error when the write fails")
	}
}

func wantParseError(t *testing.T, err error) {
	t.Helper()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Errorf("error = %v, want *ParseError", err)
	}
}

func ptr(s string) *string { return &s }

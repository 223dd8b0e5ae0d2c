// Package manifest reads and updates the release manifest: the JSON document
// listing the release version, the last update date and every published plugin.
//
// Updates are applied in place with sjson so unrelated top-level fields keep
// their values and order.
package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/indaco/plugrel/internal/core"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// DefaultPath is the manifest location relative to the repository root.
const DefaultPath = "releases/plugins.json"

// Top-level manifest fields.
const (
	FieldVersion     = "version"
	FieldLastUpdated = "lastUpdated"
	FieldPlugins     = "plugins"
)

// DateLayout is the format of the lastUpdated field.
const DateLayout = "2006-01-02"

// prettyOptions mirror a two-space indented document with every array
// element on its own line.
var prettyOptions = &pretty.Options{
	Width:    1,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// Manifest is an in-memory release manifest.
type Manifest struct {
	// Path is where the manifest was loaded from and will be saved to.
	Path string

	data []byte
}

// New wraps raw manifest JSON. It fails with *ParseError if data is not a JSON object.
func New(path string, data []byte) (*Manifest, error) {
	data = bytes.TrimSpace(data)
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: path, Err: errors.New("invalid JSON")}
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, &ParseError{Path: path, Err: errors.New("top-level value is not an object")}
	}
	return &Manifest{Path: path, data: slices.Clone(data)}, nil
}

// Version returns the release version. It fails with ErrMissingVersion when the
// field is absent, empty or not a string.
func (m *Manifest) Version() (string, error) {
	v := gjson.GetBytes(m.data, FieldVersion)
	if v.Type != gjson.String || v.Str == "" {
		return "", ErrMissingVersion
	}
	return v.Str, nil
}

// LastUpdated returns the lastUpdated field, or "" if absent.
func (m *Manifest) LastUpdated() string {
	return gjson.GetBytes(m.data, FieldLastUpdated).String()
}

// Plugins returns the raw JSON of every entry in the plugins array.
func (m *Manifest) Plugins() [][]byte {
	res := gjson.GetBytes(m.data, FieldPlugins)
	if !res.IsArray() {
		return nil
	}
	items := res.Array()
	out := make([][]byte, len(items))
	for i, item := range items {
		out[i] = []byte(item.Raw)
	}
	return out
}

// SetVersion sets the release version.
func (m *Manifest) SetVersion(version string) error {
	return m.set(FieldVersion, version)
}

// SetLastUpdated sets lastUpdated to the UTC date of t.
func (m *Manifest) SetLastUpdated(t time.Time) error {
	return m.set(FieldLastUpdated, t.UTC().Format(DateLayout))
}

// SetPlugins replaces the plugins array with entries, in order.
// Previous contents are discarded, not merged.
func (m *Manifest) SetPlugins(entries [][]byte) error {
	raw := []byte("[" + string(bytes.Join(entries, []byte(","))) + "]")
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("failed to set %s in %s: entries are not valid JSON", FieldPlugins, m.Path)
	}
	updated, err := sjson.SetRawBytes(m.data, FieldPlugins, raw)
	if err != nil {
		return fmt.Errorf("failed to set %s in %s: %w", FieldPlugins, m.Path, err)
	}
	m.data = updated
	return nil
}

func (m *Manifest) set(field, value string) error {
	updated, err := sjson.SetBytes(m.data, field, value)
	if err != nil {
		return fmt.Errorf("failed to set %s in %s: %w", field, m.Path, err)
	}
	m.data = updated
	return nil
}

// Bytes returns the manifest as two-space indented JSON with a trailing newline.
func (m *Manifest) Bytes() []byte {
	out := pretty.PrettyOptions(m.data, prettyOptions)
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out
}

// Fingerprint hashes a list of plugin entries by structure: key order and
// whitespace do not matter, entry order does.
func Fingerprint(entries [][]byte) (uint64, error) {
	values := make([]any, len(entries))
	for i, e := range entries {
		if err := json.Unmarshal(e, &values[i]); err != nil {
			return 0, fmt.Errorf("invalid plugin entry %d: %w", i, err)
		}
	}
	return hashstructure.Hash(values, hashstructure.FormatV2, nil)
}

// PluginsEqual reports whether the manifest plugins match entries structurally.
func (m *Manifest) PluginsEqual(entries [][]byte) (bool, error) {
	current, err := Fingerprint(m.Plugins())
	if err != nil {
		return false, err
	}
	scanned, err := Fingerprint(entries)
	if err != nil {
		return false, err
	}
	return current == scanned, nil
}

// Store loads and saves manifests.
type Store struct {
	fs core.FileSystem
}

// NewStore creates a Store on fs.
func NewStore(fs core.FileSystem) *Store {
	return &Store{fs: fs}
}

// Load reads the manifest at path. A missing file yields *NotFoundError.
func (s *Store) Load(ctx context.Context, path string) (*Manifest, error) {
	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}
	return New(path, data)
}

// Save writes m back to m.Path.
func (s *Store) Save(ctx context.Context, m *Manifest) error {
	if err := s.fs.WriteFile(ctx, m.Path, m.Bytes(), core.PermPublicRead); err != nil {
		return fmt.Errorf("failed to write manifest %q: %w", m.Path, err)
	}
	return nil
}

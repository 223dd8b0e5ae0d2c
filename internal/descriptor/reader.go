package descriptor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
	"github.com/indaco/plugrel/internal/core"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Descriptor is a parsed plugin descriptor. Whatever the source format, the
// content is held as a JSON object so that it can be embedded in the manifest.
type Descriptor struct {
	// Path is the descriptor file that was read.
	Path string

	// Format is the format the file was parsed as.
	Format Format

	// ID and Version are the required fields.
	ID      string
	Version string

	raw []byte
}

// JSON returns a copy of the descriptor content as a JSON object.
func (d *Descriptor) JSON() []byte {
	return slices.Clone(d.raw)
}

// FileName returns the release archive name for this plugin.
func (d *Descriptor) FileName() string {
	return FileName(d.ID, d.Version)
}

// Entry builds the manifest entry for this descriptor: every field is kept
// except downloadUrl and the extra strip paths (gjson/sjson path syntax), and
// fileName is set. For JSON descriptors the original field order is kept;
// a new fileName field is appended at the end.
func (d *Descriptor) Entry(strip ...string) ([]byte, error) {
	out := d.JSON()

	paths := append([]string{FieldDownloadURL}, strip...)
	for _, p := range paths {
		if p == "" {
			continue
		}
		// A nested object may still repeat a key; delete until none is left.
		for gjson.GetBytes(out, p).Exists() {
			var err error
			out, err = sjson.DeleteBytes(out, p)
			if err != nil {
				return nil, fmt.Errorf("failed to strip %q from %s: %w", p, d.Path, err)
			}
		}
	}

	out, err := sjson.SetBytes(out, FieldFileName, d.FileName())
	if err != nil {
		return nil, fmt.Errorf("failed to set %s on %s: %w", FieldFileName, d.Path, err)
	}
	return out, nil
}

// Reader reads plugin descriptors.
type Reader struct {
	fs core.FileSystem
}

// NewReader creates a new Reader with the given filesystem.
func NewReader(fs core.FileSystem) *Reader {
	return &Reader{fs: fs}
}

// Read loads and validates the descriptor at path.
//
// Returns *NotFoundError, *ParseError or *ValidationError for the per-plugin
// failures a scan reports and moves past.
func (r *Reader) Read(ctx context.Context, path string) (*Descriptor, error) {
	if path == "" {
		return nil, fmt.Errorf("descriptor path is required")
	}

	data, err := r.fs.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read descriptor %q: %w", path, err)
	}

	format := FormatForFile(path)

	var raw []byte
	switch format {
	case FormatYAML:
		raw, err = readYAML(data)
	case FormatTOML:
		raw, err = readTOML(data)
	default:
		raw, err = readJSON(data)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}

	id, version, missing := requiredFields(raw)
	if len(missing) > 0 {
		return nil, &ValidationError{Path: path, MissingFields: missing}
	}

	return &Descriptor{
		Path:    path,
		Format:  format,
		ID:      id,
		Version: version,
		raw:     raw,
	}, nil
}

func readJSON(data []byte) ([]byte, error) {
	data = bytes.TrimSpace(data)
	if !utf8.Valid(data) {
		return nil, errors.New("invalid UTF-8")
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, errors.New("top-level value is not an object")
	}
	return collapseDuplicateKeys(data), nil
}

// collapseDuplicateKeys rewrites a JSON object whose top level repeats a key.
// Each key keeps the position of its first occurrence and the value of its
// last one. Objects without repeated keys are returned unchanged.
func collapseDuplicateKeys(data []byte) []byte {
	type member struct {
		key   string
		value string
	}
	var members []member
	index := make(map[string]int)
	dup := false

	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if i, ok := index[name]; ok {
			members[i].value = value.Raw
			dup = true
			return true
		}
		index[name] = len(members)
		members = append(members, member{key: key.Raw, value: value.Raw})
		return true
	})
	if !dup {
		return data
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(m.key)
		buf.WriteByte(':')
		buf.WriteString(m.value)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

func readYAML(data []byte) ([]byte, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []byte("{}"), nil
	}
	var obj map[string]any
	if err := yaml.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return marshalObject(obj)
}

func readTOML(data []byte) ([]byte, error) {
	var obj map[string]any
	if err := toml.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return marshalObject(obj)
}

func marshalObject(obj map[string]any) ([]byte, error) {
	if obj == nil {
		return []byte("{}"), nil
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("cannot convert to JSON: %w", err)
	}
	return out, nil
}

// requiredFields extracts id and version. Both must be non-empty strings.
func requiredFields(raw []byte) (id, version string, missing []string) {
	idRes := gjson.GetBytes(raw, FieldID)
	if idRes.Type == gjson.String && idRes.Str != "" {
		id = idRes.Str
	} else {
		missing = append(missing, FieldID)
	}

	verRes := gjson.GetBytes(raw, FieldVersion)
	if verRes.Type == gjson.String && verRes.Str != "" {
		version = verRes.Str
	} else {
		missing = append(missing, FieldVersion)
	}

	return id, version, missing
}

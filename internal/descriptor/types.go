package descriptor

import (
	"path/filepath"
	"strings"
)

// Format represents the supported descriptor file formats.
type Format string

const (
	// FormatJSON is for config.json style descriptors.
	FormatJSON Format = "json"

	// FormatYAML is for config.yaml / config.yml descriptors.
	FormatYAML Format = "yaml"

	// FormatTOML is for config.toml descriptors.
	FormatTOML Format = "toml"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// FormatForFile picks the format from the descriptor file extension.
// Unknown extensions are read as JSON.
func FormatForFile(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Field names with special meaning in a descriptor.
const (
	FieldID          = "id"
	FieldVersion     = "version"
	FieldDownloadURL = "downloadUrl"
	FieldFileName    = "fileName"
)

// DefaultName is the descriptor file looked up in each plugin directory.
const DefaultName = "config.json"

// FileName returns the release archive name for a plugin: "{id}-{version}.zip".
func FileName(id, version string) string {
	return id + "-" + version + ".zip"
}

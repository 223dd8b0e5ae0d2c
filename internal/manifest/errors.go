package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingVersion is returned when the manifest has no usable version field.
var ErrMissingVersion = errors.New("'version' field not found in manifest")

// NotFoundError indicates that the manifest file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find manifest %s", e.Path)
}

// Suggestion returns a minimal manifest to start from.
func (e *NotFoundError) Suggestion() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Release manifest not found at: %s\n\n", e.Path)
	sb.WriteString("Create it with at least a version field:\n\n")
	sb.WriteString("  {\n")
	sb.WriteString("    \"version\": \"1.0.0\",\n")
	sb.WriteString("    \"lastUpdated\": \"\",\n")
	sb.WriteString("    \"plugins\": []\n")
	sb.WriteString("  }\n\n")
	sb.WriteString("or point plugrel at the right file with --manifest.\n")

	return sb.String()
}

// ParseError indicates a manifest that is not a JSON object.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse manifest at %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Err
}

package descriptor

import (
	"fmt"
	"strings"
)

// NotFoundError indicates a plugin directory without a descriptor file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("descriptor not found: %s", e.Path)
}

// ParseError indicates a descriptor that is not a valid document of its format,
// or whose top level is not an object.
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s descriptor at %s: %v", e.Format.String(), e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError indicates that required fields are missing or empty.
type ValidationError struct {
	Path          string
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid descriptor at %s: missing required fields: %s",
		e.Path, strings.Join(e.MissingFields, ", "))
}

// Suggestion returns guidance on fixing validation errors
func (e *ValidationError) Suggestion() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Descriptor validation failed: %s\n\n", e.Path)
	sb.WriteString("Missing required fields:\n")
	for _, field := range e.MissingFields {
		fmt.Fprintf(&sb, "  - %s\n", field)
	}
	sb.WriteString("\nEvery plugin descriptor must include:\n")
	sb.WriteString("  - id: Unique plugin identifier (string)\n")
	sb.WriteString("  - version: Plugin version, e.g. \"1.0.0\" (string)\n")

	return sb.String()
}

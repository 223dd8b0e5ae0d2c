package config

import (
	"fmt"
	"strings"

	"github.com/indaco/plugrel/internal/tui"
)

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid configuration: " + e.Problems[0]
	}
	return "invalid configuration:\n  - " + strings.Join(e.Problems, "\n  - ")
}

// Suggestion returns a hint for fixing the configuration.
func (e *ValidationError) Suggestion() string {
	return fmt.Sprintf("Check %s and the PLUGREL_* environment variables", FileName)
}

// Validate checks the configuration for values plugrel cannot work with.
func (c *Config) Validate() error {
	var problems []string
	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			problems = append(problems, name+" must not be empty")
		}
	}

	require("manifest", c.Manifest)
	require("plugins-dir", c.PluginsDir)
	require("descriptor", c.Descriptor)
	require("remote", c.Remote)
	require("default-branch", c.DefaultBranch)

	if c.TagExists != TagExistsFail && c.TagExists != TagExistsSkip {
		problems = append(problems, fmt.Sprintf("tag-exists must be %q or %q, got %q", TagExistsFail, TagExistsSkip, c.TagExists))
	}
	if c.MaxIncrements <= 0 {
		problems = append(problems, fmt.Sprintf("max-increments must be positive, got %d", c.MaxIncrements))
	}
	if strings.ContainsAny(c.TagPrefix, " \t\n~^:?*[\\") {
		problems = append(problems, fmt.Sprintf("tag-prefix %q contains characters not allowed in git tags", c.TagPrefix))
	}
	if c.Theme != "" && !tui.IsValidTheme(c.Theme) {
		problems = append(problems, fmt.Sprintf("unknown theme %q (valid: %s)", c.Theme, strings.Join(tui.ValidThemes, ", ")))
	}
	for _, f := range c.StripFields {
		if strings.TrimSpace(f) == "" {
			problems = append(problems, "strip-fields must not contain empty entries")
			break
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

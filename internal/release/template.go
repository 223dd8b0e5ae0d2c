package release

import (
	"strings"
	"time"

	"github.com/indaco/plugrel/internal/manifest"
)

// Target identifies the release being cut.
type Target struct {
	Version string
	Tag     string
	Date    time.Time
}

// Prefix returns the tag prefix of t.
func (t Target) Prefix() string {
	return strings.TrimSuffix(t.Tag, t.Version)
}

// Expand replaces {tag}, {version}, {prefix} and {date} in tmpl.
func (t Target) Expand(tmpl string) string {
	return strings.NewReplacer(
		"{tag}", t.Tag,
		"{version}", t.Version,
		"{prefix}", t.Prefix(),
		"{date}", t.Date.UTC().Format(manifest.DateLayout),
	).Replace(tmpl)
}

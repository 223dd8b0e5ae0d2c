// Package resolver picks the release version whose tag does not collide with
// an existing git tag.
package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/indaco/plugrel/internal/semver"
)

const (
	// DefaultPrefix is prepended to a version to form its tag name.
	DefaultPrefix = "v"

	// DefaultMaxIncrements caps the number of increments Resolve performs.
	DefaultMaxIncrements = 1000
)

// ErrIncrementLimit is returned when no free tag is found within the cap.
var ErrIncrementLimit = errors.New("increment limit reached")

// TagSet is a set of existing tag names.
type TagSet map[string]struct{}

// NewTagSet builds a TagSet from raw tag names. Names are trimmed and blank
// lines are ignored, so the output of `git tag` can be passed in as is.
func NewTagSet(tags []string) TagSet {
	set := make(TagSet, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

// Contains reports whether tag is in the set.
func (s TagSet) Contains(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Options control Resolve.
type Options struct {
	// Prefix is the tag prefix. Empty means DefaultPrefix.
	Prefix string

	// MaxIncrements caps the increment loop. Zero or negative means DefaultMaxIncrements.
	MaxIncrements int
}

func (o Options) prefix() string {
	if o.Prefix == "" {
		return DefaultPrefix
	}
	return o.Prefix
}

func (o Options) maxIncrements() int {
	if o.MaxIncrements <= 0 {
		return DefaultMaxIncrements
	}
	return o.MaxIncrements
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	// Start is the version Resolve was asked about.
	Start string

	// Version is the resolved version; its tag is free.
	Version string

	// Tag is Prefix + Version.
	Tag string

	// Updated is true when at least one increment was applied.
	Updated bool

	// Collisions lists the tags that were found taken, in the order tried.
	Collisions []string
}

// TagName forms the tag for version.
func TagName(prefix, version string) string {
	return prefix + version
}

// Resolve returns the first version reachable from start by zero or more
// applications of semver.Increment whose tag is not in existing.
//
// start is returned verbatim when its tag is free, even if it is not purely
// numeric. Non-numeric components only fail once an increment is needed.
func Resolve(start string, existing TagSet, opts Options) (Resolution, error) {
	if strings.TrimSpace(start) == "" {
		return Resolution{}, semver.ErrEmptyVersion
	}

	prefix := opts.prefix()
	res := Resolution{
		Start:   start,
		Version: start,
		Tag:     TagName(prefix, start),
	}

	limit := opts.maxIncrements()
	for existing.Contains(res.Tag) {
		if len(res.Collisions) >= limit {
			return Resolution{}, fmt.Errorf("%w: no free tag within %d increments of %s", ErrIncrementLimit, limit, TagName(prefix, start))
		}
		res.Collisions = append(res.Collisions, res.Tag)

		next, err := semver.Increment(res.Version)
		if err != nil {
			return Resolution{}, fmt.Errorf("tag %s already exists and version %q cannot be incremented: %w", res.Tag, res.Version, err)
		}
		res.Version = next
		res.Tag = TagName(prefix, next)
		res.Updated = true
	}

	return res, nil
}

// Package semver models release versions as dotted runs of non-negative
// integers ("5", "2.0", "1.2.3", "1.2.3.4") and implements the increment rule
// used when a release tag is already taken.
package semver

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxVersionLength bounds the input accepted by Parse.
const maxVersionLength = 128

// minStructuredParts is the number of components below which Increment
// appends a new component instead of bumping the last one.
const minStructuredParts = 3

var (
	// ErrEmptyVersion is returned for an empty or blank version string.
	ErrEmptyVersion = errors.New("empty version")

	// ErrInvalidComponent is returned when a dot-separated component is not a
	// non-negative decimal integer.
	ErrInvalidComponent = errors.New("invalid version component")

	// ErrOverflow is returned when incrementing would overflow the last component.
	ErrOverflow = errors.New("version component overflow")
)

// Version is a parsed dotted numeric version.
type Version struct {
	Parts []int
}

// Parse splits s on "." and parses every component as a decimal integer.
//
// Parse is strict: "1.2.x", "1..2", "1.2.3-rc.1" and " 1.2" are all rejected
// with ErrInvalidComponent (wrapped).
func Parse(s string) (Version, error) {
	if strings.TrimSpace(s) == "" {
		return Version{}, ErrEmptyVersion
	}
	if len(s) > maxVersionLength {
		return Version{}, fmt.Errorf("%w: version string exceeds maximum length of %d", ErrInvalidComponent, maxVersionLength)
	}

	raw := strings.Split(s, ".")
	parts := make([]int, len(raw))
	for i, p := range raw {
		if p == "" || !isAllDigits(p) {
			return Version{}, fmt.Errorf("%w: %q in %q", ErrInvalidComponent, p, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q in %q: %s", ErrInvalidComponent, p, s, err.Error())
		}
		parts[i] = n
	}
	return Version{Parts: parts}, nil
}

// String joins the components with dots. Leading zeros are not preserved.
func (v Version) String() string {
	var sb strings.Builder
	sb.Grow(len(v.Parts) * 3)
	for i, p := range v.Parts {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(p))
	}
	return sb.String()
}

// Increment applies the release increment rule to s:
//
//   - fewer than three components: ".1" is appended ("2.0" -> "2.0.1", "5" -> "5.1")
//   - otherwise the last component is incremented ("1.2.3" -> "1.2.4")
//
// Every component must be numeric; anything else fails with ErrInvalidComponent
// rather than producing an unusable version.
func Increment(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", err
	}

	if len(v.Parts) < minStructuredParts {
		// Appending keeps the caller's spelling of the existing components.
		return s + ".1", nil
	}

	last := len(v.Parts) - 1
	if v.Parts[last] == math.MaxInt {
		return "", fmt.Errorf("%w: cannot increment %q", ErrOverflow, s)
	}
	v.Parts[last]++
	return v.String(), nil
}

// isAllDigits returns true if s consists entirely of ASCII digits.
func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

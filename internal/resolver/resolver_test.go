package resolver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/indaco/plugrel/internal/semver"
	"pgregory.net/rapid"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		tags    []string
		opts    Options
		want    Resolution
		wantErr error
	}{
		{
			name:  "collision increments patch twice",
			start: "1.0.0",
			tags:  []string{"v1.0.0", "v1.0.1"},
			want: Resolution{
				Start:      "1.0.0",
				Version:    "1.0.2",
				Tag:        "v1.0.2",
				Updated:    true,
				Collisions: []string{"v1.0.0", "v1.0.1"},
			},
		},
		{
			name:  "no tags keeps version",
			start: "2.3.0",
			tags:  nil,
			want:  Resolution{Start: "2.3.0", Version: "2.3.0", Tag: "v2.3.0"},
		},
		{
			name:  "two part version appends component",
			start: "2.0",
			tags:  []string{"v2.0"},
			want: Resolution{
				Start:      "2.0",
				Version:    "2.0.1",
				Tag:        "v2.0.1",
				Updated:    true,
				Collisions: []string{"v2.0"},
			},
		},
		{
			name:  "single part version",
			start: "5",
			tags:  []string{"v5", "v5.1"},
			want: Resolution{
				Start:      "5",
				Version:    "5.1.1",
				Tag:        "v5.1.1",
				Updated:    true,
				Collisions: []string{"v5", "v5.1"},
			},
		},
		{
			name:  "custom prefix",
			start: "1.0.0",
			tags:  []string{"v1.0.0", "release-1.0.0"},
			opts:  Options{Prefix: "release-"},
			want: Resolution{
				Start:      "1.0.0",
				Version:    "1.0.1",
				Tag:        "release-1.0.1",
				Updated:    true,
				Collisions: []string{"release-1.0.0"},
			},
		},
		{
			name:  "non-numeric version without collision is kept",
			start: "1.0.0-beta",
			tags:  []string{"v0.9.0"},
			want:  Resolution{Start: "1.0.0-beta", Version: "1.0.0-beta", Tag: "v1.0.0-beta"},
		},
		{
			name:    "non-numeric version with collision fails fast",
			start:   "1.0.x",
			tags:    []string{"v1.0.x"},
			wantErr: semver.ErrInvalidComponent,
		},
		{
			name:    "empty version",
			start:   "",
			wantErr: semver.ErrEmptyVersion,
		},
		{
			name:    "increment cap",
			start:   "1.0.0",
			tags:    []string{"v1.0.0", "v1.0.1", "v1.0.2"},
			opts:    Options{MaxIncrements: 2},
			wantErr: ErrIncrementLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.start, NewTagSet(tt.tags), tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewTagSet_TrimsGitOutput(t *testing.T) {
	set := NewTagSet([]string{"v1.0.0", "  v1.0.1\r", "", "   "})
	if len(set) != 2 {
		t.Fatalf("NewTagSet() size = %d, want 2", len(set))
	}
	for _, tag := range []string{"v1.0.0", "v1.0.1"} {
		if !set.Contains(tag) {
			t.Errorf("NewTagSet() missing %q", tag)
		}
	}
}

// The resolved tag is never an existing tag, and the resolved version is
// reachable from the start by repeated increments.
func TestResolve_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		parts := rapid.SliceOfN(rapid.IntRange(0, 50), 1, 4).Draw(t, "parts")
		start := semver.Version{Parts: parts}.String()

		// Build a chain of taken tags along the increment path, plus noise.
		taken := rapid.IntRange(0, 20).Draw(t, "taken")
		var tags []string
		v := start
		for range taken {
			tags = append(tags, TagName(DefaultPrefix, v))
			next, err := semver.Increment(v)
			if err != nil {
				t.Fatalf("Increment(%q): %v", v, err)
			}
			v = next
		}
		noise := rapid.SliceOf(rapid.StringMatching(`v[0-9]{1,2}(\.[0-9]{1,2}){0,3}`)).Draw(t, "noise")
		tags = append(tags, noise...)
		existing := NewTagSet(tags)

		res, err := Resolve(start, existing, Options{})
		if err != nil {
			t.Fatalf("Resolve(%q) unexpected error: %v", start, err)
		}
		if existing.Contains(res.Tag) {
			t.Fatalf("Resolve(%q) returned taken tag %s", start, res.Tag)
		}
		if res.Tag != TagName(DefaultPrefix, res.Version) {
			t.Fatalf("tag %s does not match version %s", res.Tag, res.Version)
		}
		if res.Updated != (len(res.Collisions) > 0) {
			t.Fatalf("Updated = %v with %d collisions", res.Updated, len(res.Collisions))
		}

		reached := start
		for range res.Collisions {
			next, err := semver.Increment(reached)
			if err != nil {
				t.Fatalf("Increment(%q): %v", reached, err)
			}
			reached = next
		}
		if reached != res.Version {
			t.Fatalf("%s is not reachable from %s in %d increments (got %s)", res.Version, start, len(res.Collisions), reached)
		}
	})
}

func ExampleResolve() {
	res, _ := Resolve("1.0.0", NewTagSet([]string{"v1.0.0", "v1.0.1"}), Options{})
	fmt.Println(res.Tag, res.Updated)
	// Output: v1.0.2 true
}

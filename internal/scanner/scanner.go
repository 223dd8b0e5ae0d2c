// Package scanner walks a plugins directory and turns every valid plugin
// descriptor into a release manifest entry.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/indaco/plugrel/internal/core"
	"github.com/indaco/plugrel/internal/descriptor"
)

// hiddenPrefix marks directory names the scanner ignores.
const hiddenPrefix = "."

// Entry is one plugin accepted into the manifest.
type Entry struct {
	// Dir is the plugin directory name (not the full path).
	Dir string

	ID       string
	Version  string
	FileName string

	// JSON is the manifest entry: the descriptor without downloadUrl, plus fileName.
	JSON []byte
}

// Skip records a plugin directory left out of the manifest.
type Skip struct {
	Dir    string
	Reason error
}

// Result is the outcome of a scan.
type Result struct {
	Entries []Entry
	Skipped []Skip
}

// EntriesJSON returns the manifest entries in scan order.
func (r *Result) EntriesJSON() [][]byte {
	out := make([][]byte, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.JSON
	}
	return out
}

// DuplicateIDs returns the plugin ids that appear in more than one directory,
// in order of first duplicate occurrence.
func (r *Result) DuplicateIDs() []string {
	seen := make(map[string]int, len(r.Entries))
	var dups []string
	for _, e := range r.Entries {
		seen[e.ID]++
		if seen[e.ID] == 2 {
			dups = append(dups, e.ID)
		}
	}
	return dups
}

// Options configure a Scanner.
type Options struct {
	// DescriptorName is the descriptor file looked up in each plugin directory.
	// Empty means descriptor.DefaultName.
	DescriptorName string

	// StripFields are extra descriptor paths removed from every entry.
	StripFields []string

	// StrictVersions skips plugins whose version is not a valid semantic version.
	StrictVersions bool
}

// InvalidVersionError is the skip reason for a descriptor rejected in strict mode.
type InvalidVersionError struct {
	Path    string
	Version string
	Err     error
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid plugin version %q in %s: %v", e.Version, e.Path, e.Err)
}

func (e *InvalidVersionError) Unwrap() error {
	return e.Err
}

// Scanner builds manifest entries from a plugins directory.
type Scanner struct {
	fs     core.FileSystem
	reader *descriptor.Reader
	opts   Options
}

// New creates a Scanner.
func New(fs core.FileSystem, opts Options) *Scanner {
	if opts.DescriptorName == "" {
		opts.DescriptorName = descriptor.DefaultName
	}
	return &Scanner{
		fs:     fs,
		reader: descriptor.NewReader(fs),
		opts:   opts,
	}
}

// Scan enumerates the immediate subdirectories of dir.
//
// Hidden directories and plain files are ignored without a record. A missing
// dir yields an empty result. Each remaining directory produces either an
// Entry or a Skip; per-plugin problems never abort the scan.
func (s *Scanner) Scan(ctx context.Context, dir string) (*Result, error) {
	result := &Result{
		Entries: make([]Entry, 0),
		Skipped: make([]Skip, 0),
	}

	items, err := s.fs.ReadDir(ctx, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to read plugins directory %q: %w", dir, err)
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := item.Name()
		if strings.HasPrefix(name, hiddenPrefix) {
			continue
		}

		pluginPath := filepath.Join(dir, name)
		// Stat follows symlinks, so a linked plugin directory is scanned too.
		info, err := s.fs.Stat(ctx, pluginPath)
		if err != nil || !info.IsDir() {
			continue
		}

		entry, err := s.scanPlugin(ctx, pluginPath, name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			result.Skipped = append(result.Skipped, Skip{Dir: name, Reason: err})
			continue
		}
		result.Entries = append(result.Entries, *entry)
	}

	return result, nil
}

func (s *Scanner) scanPlugin(ctx context.Context, pluginPath, name string) (*Entry, error) {
	d, err := s.reader.Read(ctx, filepath.Join(pluginPath, s.opts.DescriptorName))
	if err != nil {
		return nil, err
	}

	if s.opts.StrictVersions {
		if _, err := semver.StrictNewVersion(d.Version); err != nil {
			return nil, &InvalidVersionError{Path: d.Path, Version: d.Version, Err: err}
		}
	}

	data, err := d.Entry(s.opts.StripFields...)
	if err != nil {
		return nil, err
	}

	return &Entry{
		Dir:      name,
		ID:       d.ID,
		Version:  d.Version,
		FileName: d.FileName(),
		JSON:     data,
	}, nil
}

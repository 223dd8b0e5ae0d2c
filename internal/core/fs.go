// Package core holds the small interfaces shared across plugrel packages:
// filesystem access and the git operations the release flow depends on.
package core

import (
	"context"
	"os"
)

// File permission constants used when plugrel creates files.
const (
	// PermOwnerRW is read/write for the owner only.
	PermOwnerRW os.FileMode = 0o600

	// PermPublicRead is owner read/write, world readable. Used for files that are
	// committed to the repository, such as the release manifest.
	PermPublicRead os.FileMode = 0o644
)

// FileSystem abstracts the filesystem operations plugrel performs.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error
	ReadDir(ctx context.Context, path string) ([]os.DirEntry, error)
	Stat(ctx context.Context, path string) (os.FileInfo, error)
}

// OSFileSystem implements FileSystem on top of the os package.
type OSFileSystem struct{}

// NewOSFileSystem returns a FileSystem backed by the real filesystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

var _ FileSystem = (*OSFileSystem)(nil)

func (OSFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (OSFileSystem) WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

func (OSFileSystem) ReadDir(ctx context.Context, path string) ([]os.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadDir(path)
}

func (OSFileSystem) Stat(ctx context.Context, path string) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Stat(path)
}

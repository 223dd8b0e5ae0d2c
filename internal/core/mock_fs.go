package core

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockFileSystem is an in-memory FileSystem for tests.
// Directories are implied by the files stored under them and can also be
// declared explicitly with MkdirAll.
type MockFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	// ReadErr, WriteErr and ReadDirErr, when set, are returned by the
	// corresponding operation instead of touching the in-memory tree.
	ReadErr    error
	WriteErr   error
	ReadDirErr error
}

// NewMockFileSystem returns an empty MockFileSystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

var _ FileSystem = (*MockFileSystem)(nil)

// SetFile stores data at name, creating implied parent directories.
func (m *MockFileSystem) SetFile(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = clean(name)
	m.files[name] = append([]byte(nil), data...)
	m.addParents(name)
}

// GetFile returns the stored content of name.
func (m *MockFileSystem) GetFile(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[clean(name)]
	return data, ok
}

// MkdirAll declares an (empty) directory.
func (m *MockFileSystem) MkdirAll(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = clean(name)
	m.dirs[name] = true
	m.addParents(name)
}

func (m *MockFileSystem) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *MockFileSystem) WriteFile(ctx context.Context, name string, data []byte, _ os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.SetFile(name, data)
	return nil
}

func (m *MockFileSystem) ReadDir(ctx context.Context, name string) ([]os.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ReadDirErr != nil {
		return nil, m.ReadDirErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	dir := clean(name)
	if !m.dirs[dir] {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	seen := make(map[string]bool)
	var entries []os.DirEntry
	add := func(child string, isDir bool) {
		if seen[child] {
			return
		}
		seen[child] = true
		entries = append(entries, mockDirEntry{info: mockFileInfo{name: child, dir: isDir}})
	}
	for p := range m.dirs {
		if child, ok := directChild(dir, p); ok {
			add(child, true)
		}
	}
	for p := range m.files {
		if child, ok := directChild(dir, p); ok {
			add(child, false)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *MockFileSystem) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p := clean(name)
	if m.dirs[p] {
		return mockFileInfo{name: path.Base(p), dir: true}, nil
	}
	if data, ok := m.files[p]; ok {
		return mockFileInfo{name: path.Base(p), size: int64(len(data))}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (m *MockFileSystem) addParents(name string) {
	for dir := path.Dir(name); ; dir = path.Dir(dir) {
		m.dirs[dir] = true
		if dir == "." || dir == "/" {
			return
		}
	}
}

func clean(name string) string {
	return path.Clean(filepath.ToSlash(name))
}

// directChild reports whether p is an immediate child of dir and returns its name.
func directChild(dir, p string) (string, bool) {
	if p == dir {
		return "", false
	}
	prefix := dir + "/"
	if dir == "." {
		prefix = ""
	}
	if dir == "/" {
		prefix = "/"
	}
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(p, prefix)
	if rest == "" || strings.Contains(rest, "/") || rest == "." {
		return "", false
	}
	return rest, true
}

type mockFileInfo struct {
	name string
	size int64
	dir  bool
}

func (i mockFileInfo) Name() string { return i.name }
func (i mockFileInfo) Size() int64  { return i.size }
func (i mockFileInfo) Mode() os.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
func (i mockFileInfo) ModTime() time.Time { return time.Time{} }
func (i mockFileInfo) IsDir() bool        { return i.dir }
func (i mockFileInfo) Sys() any           { return nil }

type mockDirEntry struct {
	info mockFileInfo
}

func (e mockDirEntry) Name() string               { return e.info.name }
func (e mockDirEntry) IsDir() bool                { return e.info.dir }
func (e mockDirEntry) Type() os.FileMode          { return e.info.Mode().Type() }
func (e mockDirEntry) Info() (os.FileInfo, error) { return e.info, nil }

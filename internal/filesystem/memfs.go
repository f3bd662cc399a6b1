package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemFileSystem is an in-memory FileSystem for tests. Paths are stored as
// given; directories are implicit (a directory exists when any file lives
// under it or it was created via MkdirAll).
type MemFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
}

// NewMemFileSystem creates an empty in-memory filesystem.
func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// Exists implements FileSystem.
func (m *MemFileSystem) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; ok {
		return true
	}
	if m.dirs[path] {
		return true
	}
	prefix := strings.TrimSuffix(path, "/") + "/"
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// ReadFile implements FileSystem.
func (m *MemFileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// WriteFile implements FileSystem.
func (m *MemFileSystem) WriteFile(path string, data []byte, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.files[path] = stored
	return nil
}

// MkdirAll implements FileSystem.
func (m *MemFileSystem) MkdirAll(path string, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[strings.TrimSuffix(path, "/")] = true
	return nil
}

// Copy implements FileSystem.
func (m *MemFileSystem) Copy(src, dst string) error {
	data, err := m.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	return m.WriteFile(dst, data, 0o644)
}

// ReadDir implements FileSystem.
func (m *MemFileSystem) ReadDir(path string) ([]os.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := strings.TrimSuffix(path, "/") + "/"
	seen := make(map[string]bool)
	var entries []os.DirEntry
	for p := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		name := rest
		isDir := false
		if idx := strings.Index(rest, "/"); idx != -1 {
			name = rest[:idx]
			isDir = true
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		entries = append(entries, memDirEntry{name: name, dir: isDir})
	}
	if len(entries) == 0 && !m.dirs[strings.TrimSuffix(path, "/")] {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Seed writes a file, creating implicit parents. Test convenience.
func (m *MemFileSystem) Seed(path, content string) {
	_ = m.WriteFile(filepath.Clean(path), []byte(content), 0o644)
}

// memDirEntry is the os.DirEntry implementation for MemFileSystem.
type memDirEntry struct {
	name string
	dir  bool
}

func (e memDirEntry) Name() string      { return e.name }
func (e memDirEntry) IsDir() bool       { return e.dir }
func (e memDirEntry) Type() fs.FileMode { return 0 }
func (e memDirEntry) Info() (fs.FileInfo, error) {
	return memFileInfo{name: e.name, dir: e.dir}, nil
}

// memFileInfo backs memDirEntry.Info.
type memFileInfo struct {
	name string
	dir  bool
}

func (i memFileInfo) Name() string       { return i.name }
func (i memFileInfo) Size() int64        { return 0 }
func (i memFileInfo) Mode() fs.FileMode  { return 0 }
func (i memFileInfo) ModTime() time.Time { return time.Time{} }
func (i memFileInfo) IsDir() bool        { return i.dir }
func (i memFileInfo) Sys() any           { return nil }

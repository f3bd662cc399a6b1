// Package filesystem provides the filesystem abstraction used by validators,
// tool logic, and tests.
//
// The default implementation delegates directly to the os package; its value
// is purely the seam it provides, letting tests swap in the in-memory
// implementation from memfs.go.
package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileSystem abstracts the filesystem operations tools need.
type FileSystem interface {
	// Exists reports whether path exists.
	Exists(path string) bool

	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to path, creating it if necessary.
	WriteFile(path string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string, perm os.FileMode) error

	// Copy copies the regular file at src to dst.
	Copy(src, dst string) error

	// ReadDir lists the entries of the directory at path.
	ReadDir(path string) ([]os.DirEntry, error)
}

// OSFileSystem delegates every operation to the real filesystem.
type OSFileSystem struct{}

// NewOSFileSystem creates the production filesystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Exists implements FileSystem.
func (*OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile implements FileSystem.
func (*OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile implements FileSystem.
func (*OSFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// MkdirAll implements FileSystem.
func (*OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Copy implements FileSystem.
func (*OSFileSystem) Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

// ReadDir implements FileSystem.
func (*OSFileSystem) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

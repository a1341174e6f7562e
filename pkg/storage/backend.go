package storage

import (
	"context"
	"io"
	"io/fs"
	"time"
)

// FileInfo represents metadata about a directory entry
type FileInfo struct {
	// Path is the full path of the entry
	Path string
	// Name is the last path element
	Name    string
	Size    int64
	ModTime time.Time
	Mode    fs.FileMode
	IsDir   bool
	// IsSymlink is set when the entry itself is a symbolic link; the other
	// fields then describe the link target when it could be resolved
	IsSymlink bool
}

// Regular reports whether the entry should be treated as a file.
// Symlinked directories are neither files nor descendable directories.
func (fi FileInfo) Regular() bool {
	return !fi.IsDir
}

// DirFunc is called once per directory visited by Walk, with the files
// directly inside it. A non-nil listErr means dir could not be listed;
// returning nil from fn skips it and continues the walk.
type DirFunc func(dir string, files []FileInfo, listErr error) error

// Backend defines the read-only storage operations needed to compare trees
type Backend interface {
	// ReadDir lists one directory level, sorted by name
	ReadDir(ctx context.Context, dir string) ([]FileInfo, error)

	// Walk visits root and every real subdirectory below it, top-down,
	// in name order. Symlinked directories are not descended.
	Walk(ctx context.Context, root string, fn DirFunc) error

	// Open opens a file for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat returns metadata for path, following symbolic links
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// SameDir reports whether a and b name the same physical directory
	SameDir(ctx context.Context, a, b string) (bool, error)

	// Close releases any resources held by the backend
	Close() error
}

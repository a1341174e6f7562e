package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/amano41/dircmp/pkg/models"
	"github.com/spf13/afero"
)

// Local is a filesystem-backed storage backend
type Local struct {
	fs afero.Fs
}

// NewLocal creates a backend over the operating system filesystem
func NewLocal() *Local {
	return NewLocalFs(afero.NewOsFs())
}

// NewLocalFs creates a backend over an arbitrary afero filesystem
func NewLocalFs(fsys afero.Fs) *Local {
	return &Local{fs: fsys}
}

// Fs exposes the underlying filesystem
func (l *Local) Fs() afero.Fs {
	return l.fs
}

// ReadDir lists one directory level, sorted by name
func (l *Local) ReadDir(ctx context.Context, dir string) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, classify("read directory", dir, err)
	}

	entries := make([]FileInfo, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, l.entry(dir, info))
	}
	return entries, nil
}

// entry converts a listing result, resolving symbolic links
func (l *Local) entry(dir string, info os.FileInfo) FileInfo {
	path := filepath.Join(dir, info.Name())
	fi := toFileInfo(path, info)

	if info.Mode()&fs.ModeSymlink == 0 {
		return fi
	}

	fi.IsSymlink = true
	target, err := l.fs.Stat(path)
	if err != nil {
		// dangling: keep it as a file so that opening it reports the failure
		return fi
	}
	resolved := toFileInfo(path, target)
	resolved.IsSymlink = true
	return resolved
}

// Walk visits root and its real subdirectories top-down in name order
func (l *Local) Walk(ctx context.Context, root string, fn DirFunc) error {
	entries, err := l.ReadDir(ctx, root)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fn(root, nil, err)
	}

	var files []FileInfo
	var subdirs []string
	for _, e := range entries {
		switch {
		case !e.IsDir:
			files = append(files, e)
		case !e.IsSymlink:
			subdirs = append(subdirs, e.Path)
		}
	}

	if err := fn(root, files, nil); err != nil {
		return err
	}

	for _, sub := range subdirs {
		if err := l.Walk(ctx, sub, fn); err != nil {
			return err
		}
	}
	return nil
}

// Open opens a file for reading
func (l *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := l.fs.Open(path)
	if err != nil {
		return nil, classify("open", path, err)
	}
	return file, nil
}

// Stat returns file metadata, following symbolic links
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := l.fs.Stat(path)
	if err != nil {
		return nil, classify("stat", path, err)
	}

	fi := toFileInfo(path, info)
	return &fi, nil
}

// SameDir reports whether a and b name the same physical directory.
// Filesystems without device/inode identity fall back to comparing
// cleaned absolute paths.
func (l *Local) SameDir(ctx context.Context, a, b string) (bool, error) {
	ai, err := l.fs.Stat(a)
	if err != nil {
		return false, classify("stat", a, err)
	}
	bi, err := l.fs.Stat(b)
	if err != nil {
		return false, classify("stat", b, err)
	}
	if os.SameFile(ai, bi) {
		return true, nil
	}

	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	return absA == absB, nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

// RequireDir fails with models.ErrNotADirectory unless path is an existing directory
func RequireDir(ctx context.Context, b Backend, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := b.Stat(ctx, path)
	if err != nil {
		return models.NotADirectory(path, err)
	}
	if !info.IsDir {
		return models.NotADirectory(path, nil)
	}
	return nil
}

func toFileInfo(path string, info os.FileInfo) FileInfo {
	return FileInfo{
		Path:    path,
		Name:    filepath.Base(path),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Mode:    info.Mode(),
		IsDir:   info.IsDir(),
	}
}

// classify maps a filesystem error onto the error taxonomy
func classify(op, path string, err error) error {
	kind := models.ErrUnreadable
	if errors.Is(err, fs.ErrNotExist) {
		kind = models.ErrTraversalRace
	}
	return &models.PathError{Op: op, Path: path, Kind: kind, Err: err}
}

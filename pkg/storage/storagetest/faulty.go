// Package storagetest provides filesystem fixtures for comparison tests.
package storagetest

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
)

// FaultyFs injects open and read failures into an afero filesystem
type FaultyFs struct {
	afero.Fs

	mu      sync.Mutex
	openErr map[string]error
	readErr map[string]error
}

// NewFaultyFs wraps base
func NewFaultyFs(base afero.Fs) *FaultyFs {
	return &FaultyFs{
		Fs:      base,
		openErr: make(map[string]error),
		readErr: make(map[string]error),
	}
}

// FailOpen makes every Open of path fail with err. On a directory this
// makes listing it fail too.
func (f *FaultyFs) FailOpen(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openErr[filepath.Clean(path)] = err
}

// FailRead lets Open of path succeed but makes every Read fail with err
func (f *FaultyFs) FailRead(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErr[filepath.Clean(path)] = err
}

// Open implements afero.Fs
func (f *FaultyFs) Open(name string) (afero.File, error) {
	f.mu.Lock()
	openErr := f.openErr[filepath.Clean(name)]
	readErr := f.readErr[filepath.Clean(name)]
	f.mu.Unlock()

	if openErr != nil {
		return nil, openErr
	}
	file, err := f.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	if readErr != nil {
		return &faultyFile{File: file, err: readErr}, nil
	}
	return file, nil
}

type faultyFile struct {
	afero.File
	err error
}

func (f *faultyFile) Read(p []byte) (int, error) {
	return 0, f.err
}

// WriteFiles creates each file (path relative to root) with its content,
// creating parent directories as needed
func WriteFiles(t testing.TB, fsys afero.Fs, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create parent dir: %v", err)
		}
		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

// Mkdir creates directories (relative to root)
func Mkdir(t testing.TB, fsys afero.Fs, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := fsys.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
	}
}

// SetModTime sets the modification time of a file relative to root
func SetModTime(t testing.TB, fsys afero.Fs, root, rel string, mtime time.Time) {
	t.Helper()
	if err := fsys.Chtimes(filepath.Join(root, rel), mtime, mtime); err != nil {
		t.Fatalf("failed to set mod time: %v", err)
	}
}

package fingerprint

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/amano41/dircmp/pkg/filter"
	"github.com/amano41/dircmp/pkg/logging"
	"github.com/amano41/dircmp/pkg/models"
	"github.com/amano41/dircmp/pkg/storage"
)

// UnreadablePolicy decides what an unreadable file does to a build
type UnreadablePolicy string

const (
	// SkipUnreadable records the file in Table.Skipped and keeps going
	SkipUnreadable UnreadablePolicy = "skip"
	// StrictUnreadable aborts the build; no partial table is returned
	StrictUnreadable UnreadablePolicy = "strict"
)

// BuilderConfig holds fingerprint table build settings
type BuilderConfig struct {
	Algorithm    Algorithm
	BufferSize   int
	Workers      int
	OnUnreadable UnreadablePolicy
	Exclude      *filter.Matcher
}

// Builder walks a tree and groups its files by content fingerprint
type Builder struct {
	backend    storage.Backend
	config     BuilderConfig
	logger     logging.Logger
	bufferPool *sync.Pool
	progress   func(done, total int)
}

// NewBuilder creates a builder; zero config values get defaults
func NewBuilder(backend storage.Backend, config BuilderConfig, logger logging.Logger) *Builder {
	if config.Algorithm.New == nil {
		config.Algorithm, _ = Lookup(DefaultAlgorithm)
	}
	if config.BufferSize < 4096 {
		config.BufferSize = 4096
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.OnUnreadable == "" {
		config.OnUnreadable = SkipUnreadable
	}

	bufferSize := config.BufferSize
	return &Builder{
		backend: backend,
		config:  config,
		logger:  logging.OrNull(logger),
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetProgressCallback sets a callback invoked after each file is hashed.
// It may be called from several goroutines.
func (b *Builder) SetProgressCallback(callback func(done, total int)) {
	b.progress = callback
}

// Build fingerprints every file under root.
//
// A root that is not a directory fails with models.ErrNotADirectory before
// anything is read. Under StrictUnreadable the first unreadable file or
// directory fails the build with models.ErrUnreadable.
func (b *Builder) Build(ctx context.Context, root string) (*Table, error) {
	if err := storage.RequireDir(ctx, b.backend, root); err != nil {
		return nil, err
	}

	table := NewTable(root)
	paths, err := b.collect(ctx, root, table)
	if err != nil {
		return nil, err
	}

	b.logger.Debug(ctx, "hashing files", logging.Fields{
		"root":      root,
		"files":     len(paths),
		"algorithm": b.config.Algorithm.Name,
		"workers":   b.config.Workers,
	})

	digests, errs := b.hashAll(ctx, paths)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if b.config.OnUnreadable == StrictUnreadable {
		if err := firstFailure(errs); err != nil {
			return nil, err
		}
	}

	for i, path := range paths {
		if errs[i] != nil {
			b.skip(ctx, table, path, errs[i])
			continue
		}
		table.Add(digests[i], path)
	}

	return table, nil
}

// collect lists files in traversal order, applying exclusions
func (b *Builder) collect(ctx context.Context, root string, table *Table) ([]string, error) {
	var (
		paths  []string
		pruned []string
	)

	err := b.backend.Walk(ctx, root, func(dir string, files []storage.FileInfo, listErr error) error {
		for _, p := range pruned {
			if strings.HasPrefix(dir, p+string(filepath.Separator)) {
				return nil
			}
		}
		if dir != root && !b.config.Exclude.Empty() {
			if rel, err := filepath.Rel(root, dir); err == nil && b.config.Exclude.Excluded(rel, true) {
				pruned = append(pruned, dir)
				return nil
			}
		}

		if listErr != nil {
			if b.config.OnUnreadable == StrictUnreadable {
				return unreadable("read directory", dir, listErr)
			}
			b.skip(ctx, table, dir, listErr)
			return nil
		}

		for _, f := range files {
			if !b.config.Exclude.Empty() {
				if rel, err := filepath.Rel(root, f.Path); err == nil && b.config.Exclude.Excluded(rel, false) {
					continue
				}
			}
			paths = append(paths, f.Path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// hashAll hashes paths on a bounded pool. Results are indexed like paths so
// that assembly order does not depend on scheduling. Under StrictUnreadable a
// failure stops later files without cancelling earlier ones.
func (b *Builder) hashAll(ctx context.Context, paths []string) ([]Fingerprint, []error) {
	digests := make([]Fingerprint, len(paths))
	errs := make([]error, len(paths))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		done      int
		failed    = -1
		semaphore = make(chan struct{}, b.config.Workers)
	)

	stopped := func(i int) bool {
		mu.Lock()
		defer mu.Unlock()
		return failed >= 0 && failed < i
	}

	for i, path := range paths {
		if stopped(i) {
			break
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return digests, errs
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if stopped(i) {
				return
			}
			digests[i], errs[i] = b.hashFile(ctx, path)

			mu.Lock()
			if errs[i] != nil && b.config.OnUnreadable == StrictUnreadable && (failed < 0 || i < failed) {
				failed = i
			}
			done++
			n := done
			mu.Unlock()

			if b.progress != nil {
				b.progress(n, len(paths))
			}
		}(i, path)
	}

	wg.Wait()
	return digests, errs
}

// hashFile streams the file through the configured hash in bounded chunks
func (b *Builder) hashFile(ctx context.Context, path string) (Fingerprint, error) {
	reader, err := b.backend.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	hasher := b.config.Algorithm.New()

	bufPtr := b.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer b.bufferPool.Put(bufPtr)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", unreadable("read", path, err)
		}
	}

	return Fingerprint(hex.EncodeToString(hasher.Sum(nil))), nil
}

func (b *Builder) skip(ctx context.Context, table *Table, path string, err error) {
	b.logger.Warn(ctx, "skipping unreadable path", logging.Fields{"path": path, "error": err.Error()})
	table.Skipped = append(table.Skipped, Skipped{Path: path, Err: err})
}

// unreadable tags err with ErrUnreadable unless it already carries a kind
func unreadable(op, path string, err error) error {
	var pathErr *models.PathError
	if errors.As(err, &pathErr) {
		return err
	}
	return &models.PathError{Op: op, Path: path, Kind: models.ErrUnreadable, Err: err}
}

// firstFailure returns the first error in traversal order
func firstFailure(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Package tree compares two directory trees entry by entry.
package tree

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/amano41/dircmp/pkg/compare"
	"github.com/amano41/dircmp/pkg/filter"
	"github.com/amano41/dircmp/pkg/logging"
	"github.com/amano41/dircmp/pkg/storage"
)

// Walker compares two trees in lock-step, descending only into
// subdirectories present on both sides
type Walker struct {
	backend    storage.Backend
	comparator compare.Comparator
	exclude    *filter.Matcher
	logger     logging.Logger
}

// NewWalker creates a walker. exclude and logger may be nil.
func NewWalker(backend storage.Backend, comparator compare.Comparator, exclude *filter.Matcher, logger logging.Logger) *Walker {
	return &Walker{
		backend:    backend,
		comparator: comparator,
		exclude:    exclude,
		logger:     logging.OrNull(logger),
	}
}

// Walk classifies every file under left and right.
//
// Both roots must be directories (models.ErrNotADirectory otherwise) and
// must be listable. Failures below the roots are recorded as funny.
func (w *Walker) Walk(ctx context.Context, left, right string) (*Result, error) {
	if err := storage.RequireDir(ctx, w.backend, left); err != nil {
		return nil, err
	}
	if err := storage.RequireDir(ctx, w.backend, right); err != nil {
		return nil, err
	}

	result := newResult(left, right)
	if err := w.walk(ctx, "", DirPair{Left: left, Right: right}, result); err != nil {
		return nil, err
	}
	return result, nil
}

// walk handles one directory pair and recurses into common subdirectories.
// It fails only when pair itself cannot be listed or ctx is done.
func (w *Walker) walk(ctx context.Context, rel string, pair DirPair, result *Result) error {
	leftEntries, err := w.backend.ReadDir(ctx, pair.Left)
	if err != nil {
		return err
	}
	rightEntries, err := w.backend.ReadDir(ctx, pair.Right)
	if err != nil {
		return err
	}

	w.logger.Debug(ctx, "comparing directory pair", logging.Fields{
		"left":  pair.Left,
		"right": pair.Right,
	})

	subdirs, err := w.classify(ctx, rel, pair, leftEntries, rightEntries, result)
	if err != nil {
		return err
	}

	for _, name := range subdirs {
		sub := DirPair{
			Left:  filepath.Join(pair.Left, name),
			Right: filepath.Join(pair.Right, name),
		}
		if err := w.walk(ctx, filepath.Join(rel, name), sub, result); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Warn(ctx, "cannot list directory", logging.Fields{
				"left":  sub.Left,
				"right": sub.Right,
				"error": err.Error(),
			})
			result.Funny.Add(pair, name)
		}
	}
	return nil
}

// flatten records every file below a one-sided directory against the
// directory that holds it, pairing it with an empty placeholder
func (w *Walker) flatten(ctx context.Context, rel string, parent DirPair, name, root string, leftSide bool, result *Result) error {
	buckets := result.RightOnly
	if leftSide {
		buckets = result.LeftOnly
	}
	side := func(dir string) DirPair {
		if leftSide {
			return DirPair{Left: dir}
		}
		return DirPair{Right: dir}
	}
	dirRel := filepath.Join(rel, name)
	var pruned []string

	return w.backend.Walk(ctx, root, func(dir string, files []storage.FileInfo, listErr error) error {
		for _, p := range pruned {
			if strings.HasPrefix(dir, p+string(filepath.Separator)) {
				return nil
			}
		}
		sub, err := filepath.Rel(root, dir)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", dir, err)
		}
		if sub != "." && w.exclude.Excluded(filepath.Join(dirRel, sub), true) {
			pruned = append(pruned, dir)
			return nil
		}

		if listErr != nil {
			w.logger.Warn(ctx, "cannot list directory", logging.Fields{"path": dir, "error": listErr.Error()})
			if dir == root {
				result.Funny.Add(parent, name)
			} else {
				result.Funny.Add(side(filepath.Dir(dir)), filepath.Base(dir))
			}
			return nil
		}

		names := make([]string, 0, len(files))
		for _, f := range files {
			if w.exclude.Excluded(filepath.Join(dirRel, sub, f.Name), false) {
				continue
			}
			names = append(names, f.Name)
		}
		buckets.Add(side(dir), names...)
		return nil
	})
}

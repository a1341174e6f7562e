package tree

import (
	"context"
	"path/filepath"

	"github.com/amano41/dircmp/pkg/compare"
	"github.com/amano41/dircmp/pkg/logging"
	"github.com/amano41/dircmp/pkg/storage"
)

type entryKind int

const (
	kindFile entryKind = iota
	kindDir
	// symbolic link to a directory, never descended
	kindLinkedDir
)

func kindOf(e storage.FileInfo) entryKind {
	switch {
	case !e.IsDir:
		return kindFile
	case e.IsSymlink:
		return kindLinkedDir
	default:
		return kindDir
	}
}

// level is one directory pair's listing partitioned by name
type level struct {
	files     []string
	subdirs   []string
	mismatch  []string
	linked    []string
	leftOnly  []storage.FileInfo
	rightOnly []storage.FileInfo
}

// partition merges two name-sorted listings
func partition(left, right []storage.FileInfo) level {
	var lv level
	i, j := 0, 0
	for i < len(left) || j < len(right) {
		switch {
		case j == len(right) || (i < len(left) && left[i].Name < right[j].Name):
			lv.leftOnly = append(lv.leftOnly, left[i])
			i++
		case i == len(left) || right[j].Name < left[i].Name:
			lv.rightOnly = append(lv.rightOnly, right[j])
			j++
		default:
			name := left[i].Name
			lk, rk := kindOf(left[i]), kindOf(right[j])
			switch {
			case lk != rk:
				lv.mismatch = append(lv.mismatch, name)
			case lk == kindFile:
				lv.files = append(lv.files, name)
			case lk == kindDir:
				lv.subdirs = append(lv.subdirs, name)
			default:
				lv.linked = append(lv.linked, name)
			}
			i++
			j++
		}
	}
	return lv
}

// classify fills the buckets for one directory pair and returns the common
// subdirectories to descend into. The returned error is cancellation only.
func (w *Walker) classify(ctx context.Context, rel string, pair DirPair, left, right []storage.FileInfo, result *Result) ([]string, error) {
	lv := partition(w.keep(rel, left), w.keep(rel, right))

	// a visited pair holds its place in the output even with no matches
	result.Same.Add(pair)
	result.Diff.Add(pair)
	result.Funny.Add(pair)

	for _, name := range lv.files {
		c, err := w.comparator.Compare(ctx, w.backend,
			filepath.Join(pair.Left, name), filepath.Join(pair.Right, name))
		if err != nil {
			return nil, err
		}

		switch c.Result {
		case compare.Same:
			result.Same.Add(pair, name)
		case compare.Different:
			result.Diff.Add(pair, name)
		default:
			fields := logging.Fields{"left": c.LeftPath, "right": c.RightPath, "reason": c.Reason}
			if c.Error != nil {
				fields["error"] = c.Error.Error()
			}
			w.logger.Warn(ctx, "cannot compare files", fields)
			result.Funny.Add(pair, name)
		}
	}

	for _, name := range lv.mismatch {
		w.logger.Debug(ctx, "entry type differs between sides", logging.Fields{
			"left":  filepath.Join(pair.Left, name),
			"right": filepath.Join(pair.Right, name),
		})
		result.Funny.Add(pair, name)
	}

	if err := w.oneSided(ctx, rel, pair, lv.leftOnly, true, result); err != nil {
		return nil, err
	}
	if err := w.oneSided(ctx, rel, pair, lv.rightOnly, false, result); err != nil {
		return nil, err
	}

	for _, name := range lv.linked {
		w.skipLinked(ctx, filepath.Join(pair.Left, name))
	}

	return lv.subdirs, nil
}

// oneSided records entries present on a single side. Files go straight
// under pair; directories are flattened.
func (w *Walker) oneSided(ctx context.Context, rel string, pair DirPair, entries []storage.FileInfo, leftSide bool, result *Result) error {
	buckets := result.RightOnly
	if leftSide {
		buckets = result.LeftOnly
	}

	for _, e := range entries {
		switch kindOf(e) {
		case kindFile:
			buckets.Add(pair, e.Name)
		case kindLinkedDir:
			w.skipLinked(ctx, e.Path)
		default:
			if err := w.flatten(ctx, rel, pair, e.Name, e.Path, leftSide, result); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Walker) skipLinked(ctx context.Context, path string) {
	w.logger.Debug(ctx, "skipping symlinked directory", logging.Fields{"path": path})
}

// keep drops excluded entries
func (w *Walker) keep(rel string, entries []storage.FileInfo) []storage.FileInfo {
	if w.exclude.Empty() {
		return entries
	}
	kept := make([]storage.FileInfo, 0, len(entries))
	for _, e := range entries {
		if !w.exclude.Excluded(filepath.Join(rel, e.Name), e.IsDir) {
			kept = append(kept, e)
		}
	}
	return kept
}

package fingerprint

import (
	"path/filepath"

	"github.com/amano41/dircmp/pkg/models"
)

// GroupRecords emits one record per file of each group
func GroupRecords(category models.Category, groups []Group) []models.Record {
	var out []models.Record
	for _, g := range groups {
		out = appendFiles(out, category, g.Fingerprint, g.Files)
	}
	return out
}

// DuplicateRecords emits, per fingerprint, the left files then the right files
func DuplicateRecords(dups []Duplicate) []models.Record {
	var out []models.Record
	for _, d := range dups {
		out = appendFiles(out, models.CategoryDuplicates, d.Fingerprint, d.Left)
		out = appendFiles(out, models.CategoryDuplicates, d.Fingerprint, d.Right)
	}
	return out
}

func appendFiles(out []models.Record, category models.Category, fp Fingerprint, files []string) []models.Record {
	for _, path := range files {
		out = append(out, models.Record{
			Category:    category,
			Name:        filepath.Base(path),
			Left:        filepath.Dir(path),
			Fingerprint: string(fp),
		})
	}
	return out
}

// Selection picks which relationships a two-tree comparison reports
type Selection struct {
	LeftOnly   bool
	RightOnly  bool
	Unique     bool
	Duplicates bool
}

// Empty reports whether nothing was selected
func (s Selection) Empty() bool {
	return !s.LeftOnly && !s.RightOnly && !s.Unique && !s.Duplicates
}

// WithAll adds left only, right only and duplicates. Unique stays as given.
func (s Selection) WithAll() Selection {
	s.LeftOnly = true
	s.RightOnly = true
	s.Duplicates = true
	return s
}

// Records reports the selected relationships in the order left only,
// right only, unique, duplicates
func (s Selection) Records(l, r *Table) []models.Record {
	var out []models.Record
	if s.LeftOnly {
		out = append(out, GroupRecords(models.CategoryLeftOnly, LeftOnly(l, r))...)
	}
	if s.RightOnly {
		out = append(out, GroupRecords(models.CategoryRightOnly, RightOnly(l, r))...)
	}
	if s.Unique {
		out = append(out, GroupRecords(models.CategoryUnique, Unique(l, r))...)
	}
	if s.Duplicates {
		out = append(out, DuplicateRecords(Duplicates(l, r))...)
	}
	return out
}

// WithinRecords reports the files of t sharing content, for a tree compared
// against itself
func WithinRecords(t *Table) []models.Record {
	return GroupRecords(models.CategoryDuplicates, DuplicatesWithin(t))
}

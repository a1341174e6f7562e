package filter

import (
	"path/filepath"
	"strings"
)

// Matcher decides whether a root-relative path is excluded from comparison.
//
// Patterns support:
//   - basename globs: *.tmp, Thumbs.db
//   - directory patterns: .git/, node_modules/
//   - path globs: build/*, **/cache/*
type Matcher struct {
	patterns []string
}

// New compiles patterns; empty entries are ignored
func New(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p != "" {
			m.patterns = append(m.patterns, filepath.ToSlash(p))
		}
	}
	return m
}

// Empty reports whether the matcher excludes nothing
func (m *Matcher) Empty() bool {
	return m == nil || len(m.patterns) == 0
}

// Excluded reports whether relPath matches any pattern. isDir lets directory
// patterns match the directory entry itself.
func (m *Matcher) Excluded(relPath string, isDir bool) bool {
	if m.Empty() {
		return false
	}

	path := filepath.ToSlash(relPath)
	base := filepath.Base(relPath)

	for _, pattern := range m.patterns {
		if dir, ok := strings.CutSuffix(pattern, "/"); ok {
			if (isDir && (path == dir || base == dir)) ||
				strings.HasPrefix(path, dir+"/") ||
				strings.Contains(path, "/"+dir+"/") {
				return true
			}
			continue
		}

		if suffix, ok := strings.CutPrefix(pattern, "**/"); ok {
			if glob(base, suffix) || glob(path, suffix) || strings.HasSuffix(path, "/"+suffix) {
				return true
			}
			for _, part := range strings.Split(path, "/") {
				if glob(part, suffix) {
					return true
				}
			}
			continue
		}

		if strings.Contains(pattern, "/") {
			if glob(path, pattern) || strings.HasSuffix(path, "/"+pattern) {
				return true
			}
			continue
		}

		if glob(base, pattern) {
			return true
		}
	}

	return false
}

func glob(name, pattern string) bool {
	ok, _ := filepath.Match(pattern, name)
	return ok
}

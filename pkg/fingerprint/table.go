package fingerprint

// Fingerprint is the lowercase hex digest of a file's full content
type Fingerprint string

// Skipped is a path left out of a table because it could not be read
type Skipped struct {
	Path string
	Err  error
}

// Table maps fingerprints to the files sharing them.
//
// Fingerprints iterate in first-seen order and each bucket keeps traversal
// order, so output built from a table is reproducible.
type Table struct {
	Root    string
	Skipped []Skipped

	order   []Fingerprint
	buckets map[Fingerprint][]string
}

// NewTable creates an empty table for root
func NewTable(root string) *Table {
	return &Table{
		Root:    root,
		buckets: make(map[Fingerprint][]string),
	}
}

// Add appends path to the bucket for fp
func (t *Table) Add(fp Fingerprint, path string) {
	if _, ok := t.buckets[fp]; !ok {
		t.order = append(t.order, fp)
	}
	t.buckets[fp] = append(t.buckets[fp], path)
}

// Files returns the bucket for fp
func (t *Table) Files(fp Fingerprint) ([]string, bool) {
	if t == nil {
		return nil, false
	}
	files, ok := t.buckets[fp]
	return files, ok
}

// Has reports whether any file has fingerprint fp
func (t *Table) Has(fp Fingerprint) bool {
	_, ok := t.Files(fp)
	return ok
}

// Fingerprints returns every fingerprint in first-seen order
func (t *Table) Fingerprints() []Fingerprint {
	if t == nil {
		return nil
	}
	out := make([]Fingerprint, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of distinct fingerprints
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// FileCount returns the number of files across all buckets
func (t *Table) FileCount() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, files := range t.buckets {
		n += len(files)
	}
	return n
}

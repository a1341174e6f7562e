package fingerprint

// Group is a fingerprint with the files of one table that carry it
type Group struct {
	Fingerprint Fingerprint
	Files       []string
}

// Duplicate is a fingerprint present in both tables
type Duplicate struct {
	Fingerprint Fingerprint
	Left        []string
	Right       []string
}

// LeftOnly returns the groups of l whose fingerprint is absent from r,
// in l's order
func LeftOnly(l, r *Table) []Group {
	var out []Group
	for _, fp := range l.Fingerprints() {
		if r.Has(fp) {
			continue
		}
		files, _ := l.Files(fp)
		out = append(out, Group{Fingerprint: fp, Files: files})
	}
	return out
}

// RightOnly is LeftOnly with the tables swapped
func RightOnly(l, r *Table) []Group {
	return LeftOnly(r, l)
}

// Unique returns every fingerprint present on exactly one side: the left-only
// groups followed by the right-only groups
func Unique(l, r *Table) []Group {
	return append(LeftOnly(l, r), LeftOnly(r, l)...)
}

// Duplicates returns the fingerprints present in both tables, in l's order.
// It says nothing about repeated content within one table; see DuplicatesWithin.
func Duplicates(l, r *Table) []Duplicate {
	var out []Duplicate
	for _, fp := range l.Fingerprints() {
		right, ok := r.Files(fp)
		if !ok {
			continue
		}
		left, _ := l.Files(fp)
		out = append(out, Duplicate{Fingerprint: fp, Left: left, Right: right})
	}
	return out
}

// DuplicatesWithin returns the groups of t holding more than one file
func DuplicatesWithin(t *Table) []Group {
	var out []Group
	for _, fp := range t.Fingerprints() {
		files, _ := t.Files(fp)
		if len(files) > 1 {
			out = append(out, Group{Fingerprint: fp, Files: files})
		}
	}
	return out
}

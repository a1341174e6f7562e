package tree

import "github.com/amano41/dircmp/pkg/models"

// DirPair is the pair of directories a classification was made under.
// One side is empty when the other side's subtree has no counterpart.
type DirPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Buckets maps directory pairs to filenames.
// Pairs keep the order they were first recorded in and names keep
// recording order.
type Buckets struct {
	order []DirPair
	names map[DirPair][]string
}

func newBuckets() *Buckets {
	return &Buckets{names: make(map[DirPair][]string)}
}

// Add appends names to the bucket for pair, creating it if needed.
// Calling Add with no names records an empty bucket.
func (b *Buckets) Add(pair DirPair, names ...string) {
	existing, ok := b.names[pair]
	if !ok {
		b.order = append(b.order, pair)
	}
	b.names[pair] = append(existing, names...)
}

// Pairs returns every recorded pair, including those with no names
func (b *Buckets) Pairs() []DirPair {
	out := make([]DirPair, len(b.order))
	copy(out, b.order)
	return out
}

// Names returns the filenames recorded under pair
func (b *Buckets) Names(pair DirPair) []string {
	return b.names[pair]
}

// Has reports whether pair has been recorded
func (b *Buckets) Has(pair DirPair) bool {
	_, ok := b.names[pair]
	return ok
}

// Count returns the number of filenames across all pairs
func (b *Buckets) Count() int {
	n := 0
	for _, names := range b.names {
		n += len(names)
	}
	return n
}

func (b *Buckets) records(category models.Category) []models.Record {
	var out []models.Record
	for _, pair := range b.order {
		for _, name := range b.names[pair] {
			out = append(out, models.Record{
				Category: category,
				Name:     name,
				Left:     pair.Left,
				Right:    pair.Right,
			})
		}
	}
	return out
}

// Result holds the five classification buckets of a tree comparison
type Result struct {
	Left  string
	Right string

	Same      *Buckets
	Diff      *Buckets
	Funny     *Buckets
	LeftOnly  *Buckets
	RightOnly *Buckets
}

func newResult(left, right string) *Result {
	return &Result{
		Left:      left,
		Right:     right,
		Same:      newBuckets(),
		Diff:      newBuckets(),
		Funny:     newBuckets(),
		LeftOnly:  newBuckets(),
		RightOnly: newBuckets(),
	}
}

// Records flattens the result in output order: same, diff, funny, left only,
// right only
func (r *Result) Records() []models.Record {
	var out []models.Record
	out = append(out, r.Same.records(models.CategorySame)...)
	out = append(out, r.Diff.records(models.CategoryDiff)...)
	out = append(out, r.Funny.records(models.CategoryFunny)...)
	out = append(out, r.LeftOnly.records(models.CategoryLeftOnly)...)
	out = append(out, r.RightOnly.records(models.CategoryRightOnly)...)
	return out
}

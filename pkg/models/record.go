package models

// Category labels a classified file in the output
type Category string

const (
	// CategoryLeftOnly marks content present only on the left
	CategoryLeftOnly Category = "left only"
	// CategoryRightOnly marks content present only on the right
	CategoryRightOnly Category = "right only"
	// CategoryUnique marks content present on exactly one side
	CategoryUnique Category = "unique"
	// CategoryDuplicates marks content present on both sides (or twice in one tree)
	CategoryDuplicates Category = "duplicates"
	// CategorySame marks a file pair considered identical
	CategorySame Category = "same"
	// CategoryDiff marks a file pair considered different
	CategoryDiff Category = "diff"
	// CategoryFunny marks a file pair that could not be compared
	CategoryFunny Category = "funny"
)

// Record is one emitted output line.
//
// Tree records use Left and Right for the directory pair; fingerprint records
// use Left for the file's directory and Fingerprint for the digest.
type Record struct {
	Category    Category `json:"category"`
	Name        string   `json:"name"`
	Left        string   `json:"left"`
	Right       string   `json:"right,omitempty"`
	Fingerprint string   `json:"fingerprint,omitempty"`
}

// Fields returns the record as output columns
func (r Record) Fields() []string {
	if r.Fingerprint != "" {
		return []string{string(r.Category), r.Name, r.Left, r.Fingerprint}
	}
	return []string{string(r.Category), r.Name, r.Left, r.Right}
}

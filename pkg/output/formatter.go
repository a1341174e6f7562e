package output

import (
	"fmt"
	"io"
	"os"

	"github.com/amano41/dircmp/pkg/models"
)

// Formatter defines the interface for output formatting.
// Implementations include separator-joined records, JSON and a summary table.
type Formatter interface {
	// Write renders a finished session
	Write(w io.Writer, session *models.Session) error

	// Name returns the formatter name
	Name() string
}

// Formats lists the accepted format names
var Formats = []string{"records", "json", "table"}

// New returns the formatter for format. separator is used by the records
// format; color enables ANSI styling in the table format.
func New(format, separator string, color bool) (Formatter, error) {
	switch format {
	case "", "records":
		return NewRecordFormatter(separator), nil
	case "json":
		return NewJSONFormatter(), nil
	case "table":
		return NewTableFormatter(color), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (want one of %v)", format, Formats)
	}
}

// WriteFile renders session into the file at path, replacing it
func WriteFile(path string, f Formatter, session *models.Session) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := f.Write(file, session); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// categoryOrder is the order categories are reported in for each mode
func categoryOrder(mode models.Mode) []models.Category {
	if mode == models.ModeTree {
		return []models.Category{
			models.CategorySame,
			models.CategoryDiff,
			models.CategoryFunny,
			models.CategoryLeftOnly,
			models.CategoryRightOnly,
		}
	}
	return []models.Category{
		models.CategoryLeftOnly,
		models.CategoryRightOnly,
		models.CategoryUnique,
		models.CategoryDuplicates,
	}
}

package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/amano41/dircmp/pkg/models"
)

// RecordFormatter prints one line per record, fields joined by a separator
type RecordFormatter struct {
	separator string
}

// NewRecordFormatter creates a record formatter; an empty separator means tab
func NewRecordFormatter(separator string) *RecordFormatter {
	if separator == "" {
		separator = "\t"
	}
	return &RecordFormatter{separator: separator}
}

// Write prints the session's records in order
func (f *RecordFormatter) Write(w io.Writer, session *models.Session) error {
	bw := bufio.NewWriter(w)
	for _, r := range session.Records {
		if _, err := bw.WriteString(strings.Join(r.Fields(), f.separator) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Name returns the formatter name
func (f *RecordFormatter) Name() string {
	return "records"
}

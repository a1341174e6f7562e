package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/amano41/dircmp/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct{}

// JSONReportData is the document written by JSONFormatter
type JSONReportData struct {
	ID         string          `json:"id"`
	Mode       string          `json:"mode"`
	Left       string          `json:"left"`
	Right      string          `json:"right,omitempty"`
	Shallow    *bool           `json:"shallow,omitempty"`
	SameRoot   bool            `json:"same_root,omitempty"`
	StartTime  string          `json:"start_time"`
	Duration   string          `json:"duration"`
	DurationMs int64           `json:"duration_ms"`
	Counts     map[string]int  `json:"counts"`
	Records    []models.Record `json:"records"`
	Skipped    []string        `json:"skipped,omitempty"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Write encodes the session as one indented JSON document
func (f *JSONFormatter) Write(w io.Writer, session *models.Session) error {
	counts := make(map[string]int)
	for _, c := range categoryOrder(session.Mode) {
		counts[string(c)] = 0
	}
	for c, n := range session.Counts() {
		counts[string(c)] = n
	}

	records := session.Records
	if records == nil {
		records = []models.Record{}
	}

	data := JSONReportData{
		ID:         session.ID,
		Mode:       string(session.Mode),
		Left:       session.LeftPath,
		Right:      session.RightPath,
		SameRoot:   session.SameRoot,
		StartTime:  session.StartTime.Format(time.RFC3339),
		Duration:   session.Duration.Round(time.Millisecond).String(),
		DurationMs: session.Duration.Milliseconds(),
		Counts:     counts,
		Records:    records,
		Skipped:    session.Skipped,
	}
	if session.Mode == models.ModeTree {
		shallow := session.Shallow
		data.Shallow = &shallow
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

package output

import (
	"fmt"
	"io"
	"time"

	"github.com/amano41/dircmp/pkg/models"
	"github.com/fatih/color"
	"github.com/rodaine/table"
)

// TableFormatter prints a per-category summary of a session
type TableFormatter struct {
	color bool
}

// NewTableFormatter creates a summary formatter
func NewTableFormatter(color bool) *TableFormatter {
	return &TableFormatter{color: color}
}

// Write prints the session header, a count per category and any skipped paths
func (f *TableFormatter) Write(w io.Writer, session *models.Session) error {
	fmt.Fprintf(w, "Session %s (%s)\n", session.ID, session.Mode)
	if session.SameRoot {
		fmt.Fprintf(w, "Root:  %s\n", session.LeftPath)
	} else {
		fmt.Fprintf(w, "Left:  %s\n", session.LeftPath)
		fmt.Fprintf(w, "Right: %s\n", session.RightPath)
	}
	if session.Mode == models.ModeTree {
		depth := "full"
		if session.Shallow {
			depth = "shallow"
		}
		fmt.Fprintf(w, "Depth: %s\n", depth)
	}
	fmt.Fprintf(w, "Took:  %s\n\n", session.Duration.Round(time.Millisecond))

	tbl := table.New("Category", "Files").WithWriter(w)
	if f.color {
		tbl.WithHeaderFormatter(color.New(color.Italic).Add(color.Underline).SprintfFunc())
		tbl.WithFirstColumnFormatter(color.New(color.FgHiYellow).SprintfFunc())
	}

	counts := session.Counts()
	for _, c := range categoryOrder(session.Mode) {
		tbl.AddRow(string(c), counts[c])
	}
	tbl.Print()

	if len(session.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped (%d unreadable):\n", len(session.Skipped))
		for _, path := range session.Skipped {
			fmt.Fprintf(w, "  %s\n", path)
		}
	}
	return nil
}

// Name returns the formatter name
func (f *TableFormatter) Name() string {
	return "table"
}

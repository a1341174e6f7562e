package output

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

const progressTemplate = `{{string . "prefix"}} {{counters . }} {{bar . }} {{percent . }} {{etime . }}`

// HashProgress shows a bar while a tree is being fingerprinted.
// Update is safe to call from several goroutines.
type HashProgress struct {
	writer io.Writer
	label  string

	mu  sync.Mutex
	bar *pb.ProgressBar
}

// NewHashProgress creates a progress display writing to w
func NewHashProgress(w io.Writer, label string) *HashProgress {
	return &HashProgress{writer: w, label: label}
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Update records that done of total files have been hashed. The bar is
// created on the first call so that the total is known.
func (p *HashProgress) Update(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		p.bar = pb.New(total)
		p.bar.SetTemplateString(progressTemplate)
		p.bar.Set("prefix", p.label)
		p.bar.SetWriter(p.writer)
		p.bar.SetRefreshRate(200 * time.Millisecond)
		p.bar.Start()
	}
	p.bar.SetCurrent(int64(done))
}

// Finish stops the bar if it was started
func (p *HashProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

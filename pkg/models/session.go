package models

import (
	"time"

	"github.com/google/uuid"
)

// Mode identifies which comparison pipeline a session ran
type Mode string

const (
	// ModeFingerprint groups files by content digest
	ModeFingerprint Mode = "fingerprint"
	// ModeTree walks both trees in lock-step by path
	ModeTree Mode = "tree"
)

// Session describes one comparison run and its outcome
type Session struct {
	ID        string
	Mode      Mode
	LeftPath  string
	RightPath string
	Shallow   bool
	SameRoot  bool

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Records []Record
	// Skipped lists paths that could not be read and were left out
	Skipped []string
}

// NewSession starts a session with a fresh identifier
func NewSession(mode Mode, left, right string) *Session {
	return &Session{
		ID:        uuid.New().String(),
		Mode:      mode,
		LeftPath:  left,
		RightPath: right,
		StartTime: time.Now(),
	}
}

// Finish stamps the end time
func (s *Session) Finish() {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
}

// Counts returns the number of records per category
func (s *Session) Counts() map[Category]int {
	counts := make(map[Category]int)
	for _, r := range s.Records {
		counts[r.Category]++
	}
	return counts
}

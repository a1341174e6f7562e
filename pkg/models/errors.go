package models

import (
	"errors"
	"fmt"
)

// Error kinds shared by both comparison pipelines
var (
	// ErrNotADirectory indicates a root path is missing or not a directory
	ErrNotADirectory = errors.New("not a directory")
	// ErrUnreadable indicates a file could not be opened or fully read
	ErrUnreadable = errors.New("unreadable")
	// ErrTraversalRace indicates a path vanished between listing and opening
	ErrTraversalRace = errors.New("vanished during traversal")
)

// PathError records a failure tied to a single path.
// errors.Is matches both Kind and the underlying cause.
type PathError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *PathError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotADirectory builds a PathError of kind ErrNotADirectory
func NotADirectory(path string, cause error) *PathError {
	return &PathError{Op: "open root", Path: path, Kind: ErrNotADirectory, Err: cause}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

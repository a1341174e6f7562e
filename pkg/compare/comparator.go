package compare

import (
	"context"

	"github.com/amano41/dircmp/pkg/storage"
)

// Result represents the outcome of comparing two files
type Result string

const (
	// Same indicates files are considered identical
	Same Result = "same"
	// Different indicates files differ
	Different Result = "different"
	// Error indicates the comparison could not be carried out
	Error Result = "error"
)

// Comparison holds the result of comparing two files
type Comparison struct {
	LeftPath  string
	RightPath string
	Result    Result
	Reason    string
	Error     error
}

// Comparator defines the interface for file comparison depths.
//
// I/O failures are reported through a Comparison with Result Error; the
// returned error is reserved for cancellation.
type Comparator interface {
	// Compare compares two files and returns the result
	Compare(ctx context.Context, backend storage.Backend, leftPath, rightPath string) (*Comparison, error)

	// Name returns the name of the comparison method
	Name() string
}

// New returns the metadata comparator when shallow is set, otherwise the
// byte-by-byte comparator
func New(shallow bool, bufferSize int) Comparator {
	if shallow {
		return NewMetadataComparator()
	}
	return NewBinaryComparator(bufferSize)
}

func failed(left, right, reason string, err error) *Comparison {
	return &Comparison{
		LeftPath:  left,
		RightPath: right,
		Result:    Error,
		Reason:    reason,
		Error:     err,
	}
}

// statPair stats both files and rejects anything that is not a plain file
func statPair(ctx context.Context, backend storage.Backend, leftPath, rightPath string) (*storage.FileInfo, *storage.FileInfo, *Comparison) {
	leftInfo, err := backend.Stat(ctx, leftPath)
	if err != nil {
		return nil, nil, failed(leftPath, rightPath, "failed to stat left file", err)
	}
	rightInfo, err := backend.Stat(ctx, rightPath)
	if err != nil {
		return nil, nil, failed(leftPath, rightPath, "failed to stat right file", err)
	}
	if leftInfo.IsDir || rightInfo.IsDir {
		return nil, nil, failed(leftPath, rightPath, "not a regular file", nil)
	}
	return leftInfo, rightInfo, nil
}

package compare

import (
	"context"
	"fmt"

	"github.com/amano41/dircmp/pkg/storage"
)

// MetadataComparator decides equality from size and modification time only.
// File contents are never read.
type MetadataComparator struct{}

// NewMetadataComparator creates a shallow comparator
func NewMetadataComparator() *MetadataComparator {
	return &MetadataComparator{}
}

// Compare reports Same when both size and modification time are equal
func (c *MetadataComparator) Compare(ctx context.Context, backend storage.Backend, leftPath, rightPath string) (*Comparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	leftInfo, rightInfo, bad := statPair(ctx, backend, leftPath, rightPath)
	if bad != nil {
		return bad, nil
	}

	if leftInfo.Size != rightInfo.Size {
		return &Comparison{
			LeftPath:  leftPath,
			RightPath: rightPath,
			Result:    Different,
			Reason:    fmt.Sprintf("file sizes differ (left: %d, right: %d)", leftInfo.Size, rightInfo.Size),
		}, nil
	}

	if !leftInfo.ModTime.Equal(rightInfo.ModTime) {
		return &Comparison{
			LeftPath:  leftPath,
			RightPath: rightPath,
			Result:    Different,
			Reason: fmt.Sprintf("modification times differ (left: %s, right: %s)",
				leftInfo.ModTime.Format("2006-01-02 15:04:05.000"), rightInfo.ModTime.Format("2006-01-02 15:04:05.000")),
		}, nil
	}

	return &Comparison{
		LeftPath:  leftPath,
		RightPath: rightPath,
		Result:    Same,
		Reason:    "size and modification time match",
	}, nil
}

// Name returns the comparator name
func (c *MetadataComparator) Name() string {
	return "shallow"
}

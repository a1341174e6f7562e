package compare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/amano41/dircmp/pkg/storage"
)

// BinaryComparator compares files byte-by-byte.
// Files of different sizes are rejected without reading.
type BinaryComparator struct {
	bufferSize int
	bufferPool *sync.Pool
}

// NewBinaryComparator creates a new byte-by-byte comparator
func NewBinaryComparator(bufferSize int) *BinaryComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &BinaryComparator{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// Compare reports Same only if every byte matches
func (c *BinaryComparator) Compare(ctx context.Context, backend storage.Backend, leftPath, rightPath string) (*Comparison, error) {
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
			Reason:    fmt.Sprintf("size mismatch: left=%d, right=%d", leftInfo.Size, rightInfo.Size),
		}, nil
	}

	leftReader, err := backend.Open(ctx, leftPath)
	if err != nil {
		return failed(leftPath, rightPath, "failed to open left file", err), nil
	}
	defer leftReader.Close()

	rightReader, err := backend.Open(ctx, rightPath)
	if err != nil {
		return failed(leftPath, rightPath, "failed to open right file", err), nil
	}
	defer rightReader.Close()

	leftBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(leftBufPtr)
	leftBuf := *leftBufPtr

	rightBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(rightBufPtr)
	rightBuf := *rightBufPtr

	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		leftN, leftErr := io.ReadFull(leftReader, leftBuf)
		if leftErr != nil && !isEOF(leftErr) {
			return failed(leftPath, rightPath, "failed to read left file", leftErr), nil
		}
		rightN, rightErr := io.ReadFull(rightReader, rightBuf)
		if rightErr != nil && !isEOF(rightErr) {
			return failed(leftPath, rightPath, "failed to read right file", rightErr), nil
		}

		if !bytes.Equal(leftBuf[:leftN], rightBuf[:rightN]) {
			return &Comparison{
				LeftPath:  leftPath,
				RightPath: rightPath,
				Result:    Different,
				Reason:    fmt.Sprintf("content differs at byte offset %d", offset+firstDiff(leftBuf[:leftN], rightBuf[:rightN])),
			}, nil
		}
		offset += int64(leftN)

		// a short read means EOF on both sides, since the chunks were equal
		if leftErr != nil {
			break
		}
	}

	return &Comparison{
		LeftPath:  leftPath,
		RightPath: rightPath,
		Result:    Same,
		Reason:    fmt.Sprintf("content matches (%d bytes)", offset),
	}, nil
}

// Name returns the comparator name
func (c *BinaryComparator) Name() string {
	return "full"
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func firstDiff(a, b []byte) int64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return int64(i)
		}
	}
	return int64(n)
}

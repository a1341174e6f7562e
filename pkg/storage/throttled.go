package storage

import (
	"context"
	"io"

	"github.com/amano41/dircmp/pkg/ratelimit"
)

// Throttled limits the read bandwidth of every file opened through it
type Throttled struct {
	Backend
	limiter *ratelimit.Limiter
}

// NewThrottled wraps b; a nil limiter returns b unchanged
func NewThrottled(b Backend, limiter *ratelimit.Limiter) Backend {
	if limiter == nil {
		return b
	}
	return &Throttled{Backend: b, limiter: limiter}
}

// Open opens a file whose reads draw from the shared limiter
func (t *Throttled) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := t.Backend.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return ratelimit.NewReadCloser(ctx, rc, t.limiter), nil
}

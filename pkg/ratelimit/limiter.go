package ratelimit

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// minBurst keeps small limits from degrading into one-byte reads
const minBurst = 64 * 1024

// Limiter is a token bucket shared by every reader it throttles
type Limiter struct {
	rate  int64 // bytes per second
	burst int64

	mu     sync.Mutex
	tokens int64
	last   time.Time
}

// NewLimiter returns a limiter for bytesPerSecond, or nil when the limit is
// zero or negative. A nil *Limiter never throttles.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	burst := bytesPerSecond
	if burst < minBurst {
		burst = minBurst
	}

	return &Limiter{
		rate:   bytesPerSecond,
		burst:  burst,
		tokens: burst,
		last:   time.Now(),
	}
}

// Rate returns the configured bytes per second
func (l *Limiter) Rate() int64 {
	if l == nil {
		return 0
	}
	return l.rate
}

// Burst returns the bucket capacity in bytes
func (l *Limiter) Burst() int64 {
	if l == nil {
		return 0
	}
	return l.burst
}

// Wait blocks until n bytes may be read, or ctx is done.
// n is clamped to the burst size.
func (l *Limiter) Wait(ctx context.Context, n int64) error {
	if l == nil {
		return nil
	}
	if n > l.burst {
		n = l.burst
	}

	for {
		l.mu.Lock()
		l.refill(time.Now())
		if l.tokens >= n {
			l.tokens -= n
			l.mu.Unlock()
			return nil
		}
		deficit := n - l.tokens
		l.mu.Unlock()

		wait := time.Duration(float64(deficit) / float64(l.rate) * float64(time.Second))
		if wait < time.Millisecond {
			wait = time.Millisecond
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refund returns tokens reserved but not used by a short read
func (l *Limiter) refund(n int64) {
	if n <= 0 {
		return
	}
	l.mu.Lock()
	l.tokens += n
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.mu.Unlock()
}

// refill must be called with mu held
func (l *Limiter) refill(now time.Time) {
	add := int64(now.Sub(l.last).Seconds() * float64(l.rate))
	if add <= 0 {
		return
	}
	l.tokens += add
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.last = now
}

type readCloser struct {
	ctx     context.Context
	rc      io.ReadCloser
	limiter *Limiter
}

// NewReadCloser throttles reads from rc through limiter.
// With a nil limiter rc is returned unchanged.
func NewReadCloser(ctx context.Context, rc io.ReadCloser, limiter *Limiter) io.ReadCloser {
	if limiter == nil {
		return rc
	}
	return &readCloser{ctx: ctx, rc: rc, limiter: limiter}
}

func (r *readCloser) Read(p []byte) (int, error) {
	want := int64(len(p))
	if want > r.limiter.burst {
		want = r.limiter.burst
	}
	if err := r.limiter.Wait(r.ctx, want); err != nil {
		return 0, err
	}

	n, err := r.rc.Read(p[:want])
	r.limiter.refund(want - int64(n))
	return n, err
}

func (r *readCloser) Close() error {
	return r.rc.Close()
}

// ParseRate parses a bandwidth such as "512K", "10M" or "1G" into bytes per
// second. Suffixes are binary multiples; an empty string means unlimited.
func ParseRate(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	mult := int64(1)
	switch strings.ToUpper(s[len(s)-1:]) {
	case "K":
		mult = 1 << 10
	case "M":
		mult = 1 << 20
	case "G":
		mult = 1 << 30
	}
	if mult != 1 {
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid bandwidth %q", s)
	}
	if v > math.MaxInt64/mult {
		return 0, fmt.Errorf("bandwidth %q is too large", s)
	}
	return v * mult, nil
}

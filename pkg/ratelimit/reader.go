// Package ratelimit provides a token-bucket reader used to throttle
// fingerprint I/O so scans do not saturate the disk.
package ratelimit

import (
	"io"
	"sync"
	"time"
)

const minBucketSize = 64 * 1024

// Limiter is a token bucket shared across readers. The bucket holds up
// to one second of budget so short bursts are not penalized.
type Limiter struct {
	bytesPerSecond int64

	mu         sync.Mutex
	tokens     int64
	bucketSize int64
	lastRefill time.Time
}

// NewLimiter creates a limiter for the given rate. A rate <= 0 returns
// nil, which disables limiting everywhere it is passed.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}
	bucket := bytesPerSecond
	if bucket < minBucketSize {
		bucket = minBucketSize
	}
	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		tokens:         bucket,
		bucketSize:     bucket,
		lastRefill:     time.Now(),
	}
}

// take blocks until n tokens are available, then consumes them.
func (l *Limiter) take(n int64) {
	if n > l.bucketSize {
		n = l.bucketSize
	}
	for {
		l.mu.Lock()
		l.refill()
		if l.tokens >= n {
			l.tokens -= n
			l.mu.Unlock()
			return
		}
		deficit := n - l.tokens
		l.mu.Unlock()

		wait := time.Duration(float64(deficit) / float64(l.bytesPerSecond) * float64(time.Second))
		if wait < time.Millisecond {
			wait = time.Millisecond
		}
		time.Sleep(wait)
	}
}

// refill credits tokens for elapsed time. Caller holds the lock.
func (l *Limiter) refill() {
	now := time.Now()
	credit := int64(float64(now.Sub(l.lastRefill)) / float64(time.Second) * float64(l.bytesPerSecond))
	if credit > 0 {
		l.tokens += credit
		if l.tokens > l.bucketSize {
			l.tokens = l.bucketSize
		}
		l.lastRefill = now
	}
}

type reader struct {
	rc      io.ReadCloser
	limiter *Limiter
}

func (r *reader) Read(p []byte) (int, error) {
	max := len(p)
	if int64(max) > r.limiter.bucketSize {
		max = int(r.limiter.bucketSize)
	}
	r.limiter.take(int64(max))
	return r.rc.Read(p[:max])
}

func (r *reader) Close() error {
	return r.rc.Close()
}

// Wrap throttles an io.ReadCloser against the limiter. A nil limiter
// returns the reader unchanged.
func Wrap(rc io.ReadCloser, limiter *Limiter) io.ReadCloser {
	if limiter == nil {
		return rc
	}
	return &reader{rc: rc, limiter: limiter}
}

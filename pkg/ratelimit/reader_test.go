package ratelimit

import (
	"bytes"
	"io"
	"testing"
	"time"
)

// TestNewLimiter tests the Limiter constructor
func TestNewLimiter(t *testing.T) {
	t.Run("ValidBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024) // 1 MB/s
		if limiter == nil {
			t.Fatal("NewLimiter() returned nil for valid input")
		}
		if limiter.bytesPerSecond != 1024*1024 {
			t.Errorf("bytesPerSecond = %d, want %d", limiter.bytesPerSecond, 1024*1024)
		}
	})

	t.Run("ZeroBytesPerSecond", func(t *testing.T) {
		if limiter := NewLimiter(0); limiter != nil {
			t.Error("NewLimiter(0) should return nil (no limiting)")
		}
	})

	t.Run("NegativeBytesPerSecond", func(t *testing.T) {
		if limiter := NewLimiter(-100); limiter != nil {
			t.Error("NewLimiter(-100) should return nil (no limiting)")
		}
	})

	t.Run("SmallBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1000) // 1KB/s
		if limiter == nil {
			t.Fatal("NewLimiter() returned nil")
		}
		// Bucket size should be at least 64KB for smooth reads
		if limiter.bucketSize < minBucketSize {
			t.Errorf("bucketSize = %d, want at least %d", limiter.bucketSize, minBucketSize)
		}
	})

	t.Run("LargeBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(100 * 1024 * 1024) // 100 MB/s
		if limiter == nil {
			t.Fatal("NewLimiter() returned nil")
		}
		// Bucket size should be 1 second worth of data
		if limiter.bucketSize != 100*1024*1024 {
			t.Errorf("bucketSize = %d, want %d", limiter.bucketSize, 100*1024*1024)
		}
	})
}

// TestWrap tests the reader wrapper
func TestWrap(t *testing.T) {
	t.Run("NilLimiter", func(t *testing.T) {
		base := io.NopCloser(bytes.NewReader([]byte("test content")))
		wrapped := Wrap(base, nil)
		if wrapped != base {
			t.Error("Wrap() should return original reader when limiter is nil")
		}
	})

	t.Run("BasicRead", func(t *testing.T) {
		content := []byte("hello world")
		limiter := NewLimiter(1024 * 1024) // fast enough to not delay
		wrapped := Wrap(io.NopCloser(bytes.NewReader(content)), limiter)

		got, err := io.ReadAll(wrapped)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Errorf("ReadAll() = %q, want %q", got, content)
		}
		if err := wrapped.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	t.Run("MultipleReads", func(t *testing.T) {
		content := []byte("0123456789abcdef")
		wrapped := Wrap(io.NopCloser(bytes.NewReader(content)), NewLimiter(1024*1024))

		var result []byte
		buf := make([]byte, 4)
		for {
			n, err := wrapped.Read(buf)
			if n > 0 {
				result = append(result, buf[:n]...)
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
		}

		if !bytes.Equal(result, content) {
			t.Errorf("accumulated = %q, want %q", result, content)
		}
	})

	t.Run("ReadCappedToBucket", func(t *testing.T) {
		limiter := NewLimiter(1000) // bucket clamps to minBucketSize
		content := make([]byte, 2*minBucketSize)
		wrapped := Wrap(io.NopCloser(bytes.NewReader(content)), limiter)

		buf := make([]byte, 2*minBucketSize)
		n, err := wrapped.Read(buf)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if int64(n) > limiter.bucketSize {
			t.Errorf("Read() n = %d, want at most bucket size %d", n, limiter.bucketSize)
		}
	})
}

// TestTokenBucket tests the token bucket algorithm
func TestTokenBucket(t *testing.T) {
	t.Run("InitialTokens", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024)
		// Bucket starts full
		if limiter.tokens != limiter.bucketSize {
			t.Errorf("initial tokens = %d, want %d", limiter.tokens, limiter.bucketSize)
		}
	})

	t.Run("TakeConsumes", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024)
		initial := limiter.tokens
		// Park the refill clock in the future so no credit accrues
		limiter.lastRefill = time.Now().Add(time.Hour)

		limiter.take(1000)

		if limiter.tokens != initial-1000 {
			t.Errorf("after take, tokens = %d, want %d", limiter.tokens, initial-1000)
		}
	})

	t.Run("RefillCredits", func(t *testing.T) {
		limiter := NewLimiter(1000)
		limiter.tokens = 0
		limiter.lastRefill = time.Now().Add(-100 * time.Millisecond)

		limiter.mu.Lock()
		limiter.refill()
		limiter.mu.Unlock()

		// ~100 tokens for 100ms at 1000 bytes/s
		if limiter.tokens < 50 || limiter.tokens > 200 {
			t.Errorf("after refill, tokens = %d, expected ~100", limiter.tokens)
		}
	})

	t.Run("RefillCapped", func(t *testing.T) {
		limiter := NewLimiter(1000)
		limiter.tokens = limiter.bucketSize - 10
		limiter.lastRefill = time.Now().Add(-time.Minute)

		limiter.mu.Lock()
		limiter.refill()
		limiter.mu.Unlock()

		if limiter.tokens != limiter.bucketSize {
			t.Errorf("after capped refill, tokens = %d, want %d", limiter.tokens, limiter.bucketSize)
		}
	})

	t.Run("SlowRateBlocks", func(t *testing.T) {
		limiter := NewLimiter(minBucketSize) // bucket = 1s of budget
		limiter.tokens = 0

		start := time.Now()
		limiter.take(minBucketSize / 100) // 1% of a second of budget
		elapsed := time.Since(start)

		if elapsed < time.Millisecond {
			t.Errorf("take() with empty bucket returned in %v, expected a wait", elapsed)
		}
	})
}

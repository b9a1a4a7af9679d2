package verify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// TestIdentical covers byte-level file comparison
func TestIdentical(t *testing.T) {
	ctx := context.Background()

	t.Run("SameContent", func(t *testing.T) {
		a := writeTempFile(t, "a.bin", []byte("identical payload"))
		b := writeTempFile(t, "b.bin", []byte("identical payload"))

		same, reason, err := New(0).Identical(ctx, a, b)
		if err != nil {
			t.Fatalf("Identical() error = %v", err)
		}
		if !same {
			t.Errorf("Identical() = false, reason %q", reason)
		}
	})

	t.Run("SizeMismatch", func(t *testing.T) {
		a := writeTempFile(t, "a.bin", []byte("short"))
		b := writeTempFile(t, "b.bin", []byte("rather longer content"))

		same, reason, err := New(0).Identical(ctx, a, b)
		if err != nil {
			t.Fatalf("Identical() error = %v", err)
		}
		if same {
			t.Error("Identical() = true for different sizes")
		}
		if !strings.Contains(reason, "size mismatch") {
			t.Errorf("reason = %q, want size mismatch", reason)
		}
	})

	t.Run("ContentDiffersReportsOffset", func(t *testing.T) {
		a := writeTempFile(t, "a.bin", []byte("aaaa"))
		b := writeTempFile(t, "b.bin", []byte("aaba"))

		same, reason, err := New(0).Identical(ctx, a, b)
		if err != nil {
			t.Fatalf("Identical() error = %v", err)
		}
		if same {
			t.Error("Identical() = true for differing content")
		}
		if !strings.Contains(reason, "offset 2") {
			t.Errorf("reason = %q, want offset 2", reason)
		}
	})

	t.Run("LargerThanBuffer", func(t *testing.T) {
		content := bytes.Repeat([]byte{0xAB}, 3*4096+17)
		a := writeTempFile(t, "a.bin", content)
		b := writeTempFile(t, "b.bin", content)

		same, reason, err := New(4096).Identical(ctx, a, b)
		if err != nil {
			t.Fatalf("Identical() error = %v", err)
		}
		if !same {
			t.Errorf("Identical() = false, reason %q", reason)
		}
	})

	t.Run("DiffersInLaterChunk", func(t *testing.T) {
		content := bytes.Repeat([]byte{0xAB}, 2*4096)
		altered := append([]byte(nil), content...)
		altered[5000] ^= 0xFF

		a := writeTempFile(t, "a.bin", content)
		b := writeTempFile(t, "b.bin", altered)

		same, reason, err := New(4096).Identical(ctx, a, b)
		if err != nil {
			t.Fatalf("Identical() error = %v", err)
		}
		if same {
			t.Error("Identical() = true for differing content")
		}
		if !strings.Contains(reason, "offset 5000") {
			t.Errorf("reason = %q, want offset 5000", reason)
		}
	})

	t.Run("EmptyFiles", func(t *testing.T) {
		a := writeTempFile(t, "a.bin", nil)
		b := writeTempFile(t, "b.bin", nil)

		same, _, err := New(0).Identical(ctx, a, b)
		if err != nil {
			t.Fatalf("Identical() error = %v", err)
		}
		if !same {
			t.Error("Identical() = false for two empty files")
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		a := writeTempFile(t, "a.bin", []byte("content"))

		_, _, err := New(0).Identical(ctx, a, filepath.Join(t.TempDir(), "missing.bin"))
		if err == nil {
			t.Error("Identical() should fail for a missing file")
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		a := writeTempFile(t, "a.bin", []byte("content"))
		b := writeTempFile(t, "b.bin", []byte("content"))

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := New(0).Identical(cancelled, a, b)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

// Package fingerprint computes stable content signatures used as
// canonical equality keys for duplicate detection.
package fingerprint

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/sdejongh/dupenorris/pkg/models"
)

// DefaultChunkSize is the read size for streaming hashes.
const DefaultChunkSize = 64 * 1024

// ReaderWrapper wraps a reader, e.g. for bandwidth limiting.
type ReaderWrapper func(io.ReadCloser) io.ReadCloser

// Fingerprinter computes BLAKE2b-256 signatures over file contents.
// Files are streamed in fixed-size chunks so peak memory is bounded
// regardless of file size.
type Fingerprinter struct {
	chunkSize     int
	bufferPool    *sync.Pool
	readerWrapper ReaderWrapper
}

// New creates a fingerprinter reading in chunks of the given size.
func New(chunkSize int) *Fingerprinter {
	if chunkSize < 4096 {
		chunkSize = DefaultChunkSize
	}
	return &Fingerprinter{
		chunkSize: chunkSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, chunkSize)
				return &buf
			},
		},
	}
}

// SetReaderWrapper sets a function to wrap file readers (e.g. for rate limiting).
func (f *Fingerprinter) SetReaderWrapper(wrapper ReaderWrapper) {
	f.readerWrapper = wrapper
}

// File computes the signature of a file's raw bytes. Returns the hex
// signature and the number of bytes hashed. Unreadable paths fail with
// models.UnreadableItemError; cancellation is checked between chunks,
// so an in-flight chunk read finishes before cancellation is observed.
func (f *Fingerprinter) File(ctx context.Context, path string) (string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, &models.UnreadableItemError{Path: path, Err: err}
	}

	var reader io.ReadCloser = file
	if f.readerWrapper != nil {
		reader = f.readerWrapper(reader)
	}
	defer reader.Close()

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to initialize hasher: %w", err)
	}

	bufPtr := f.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer f.bufferPool.Put(bufPtr)

	var total int64
	for {
		select {
		case <-ctx.Done():
			return "", total, ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
			total += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", total, &models.UnreadableItemError{Path: path, Err: err}
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), total, nil
}

// Bytes computes the signature of an in-memory buffer.
func Bytes(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Package verify byte-compares files before destructive action.
// Fingerprints make collisions vanishingly unlikely; verification makes
// them impossible, at the cost of rereading both files.
package verify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

const defaultBufferSize = 64 * 1024

// Verifier compares two local files byte-by-byte.
type Verifier struct {
	bufferSize int
	bufferPool *sync.Pool
}

// New creates a verifier with the given read buffer size.
func New(bufferSize int) *Verifier {
	if bufferSize < 4096 {
		bufferSize = defaultBufferSize
	}
	return &Verifier{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// Identical reports whether two files have exactly the same content.
// The reason explains a mismatch, including the first differing offset.
func (v *Verifier) Identical(ctx context.Context, pathA, pathB string) (bool, string, error) {
	infoA, err := os.Stat(pathA)
	if err != nil {
		return false, "", fmt.Errorf("failed to stat %s: %w", pathA, err)
	}
	infoB, err := os.Stat(pathB)
	if err != nil {
		return false, "", fmt.Errorf("failed to stat %s: %w", pathB, err)
	}
	if infoA.Size() != infoB.Size() {
		return false, fmt.Sprintf("size mismatch: %d vs %d", infoA.Size(), infoB.Size()), nil
	}

	fileA, err := os.Open(pathA)
	if err != nil {
		return false, "", fmt.Errorf("failed to open %s: %w", pathA, err)
	}
	defer fileA.Close()

	fileB, err := os.Open(pathB)
	if err != nil {
		return false, "", fmt.Errorf("failed to open %s: %w", pathB, err)
	}
	defer fileB.Close()

	bufAPtr := v.bufferPool.Get().(*[]byte)
	defer v.bufferPool.Put(bufAPtr)
	bufA := *bufAPtr

	bufBPtr := v.bufferPool.Get().(*[]byte)
	defer v.bufferPool.Put(bufBPtr)
	bufB := *bufBPtr

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return false, "", ctx.Err()
		default:
		}

		nA, errA := io.ReadFull(fileA, bufA)
		nB, errB := io.ReadFull(fileB, bufB)

		if nA != nB {
			return false, fmt.Sprintf("read mismatch at offset %d", offset), nil
		}

		if nA > 0 && !bytes.Equal(bufA[:nA], bufB[:nB]) {
			for i := 0; i < nA; i++ {
				if bufA[i] != bufB[i] {
					offset += int64(i)
					break
				}
			}
			return false, fmt.Sprintf("content differs at byte offset %d", offset), nil
		}
		offset += int64(nA)

		done := errA == io.EOF || errA == io.ErrUnexpectedEOF
		if done {
			return true, "", nil
		}
		if errA != nil {
			return false, "", fmt.Errorf("failed to read %s: %w", pathA, errA)
		}
		if errB != nil && errB != io.EOF && errB != io.ErrUnexpectedEOF {
			return false, "", fmt.Errorf("failed to read %s: %w", pathB, errB)
		}
	}
}

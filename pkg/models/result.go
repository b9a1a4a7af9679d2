package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemError records a per-item failure encountered during a scan.
type ItemError struct {
	Path      string
	Error     string
	Timestamp time.Time
}

// Statistics holds scan metrics.
type Statistics struct {
	// ItemsDiscovered counts items that passed the filters
	ItemsDiscovered int

	// ItemsFingerprinted counts items whose signature was computed
	ItemsFingerprinted int

	// ItemsSkipped counts items excluded by filters (size, globs, depth)
	ItemsSkipped int

	// ItemsUnreadable counts items that failed to read
	ItemsUnreadable int

	// BytesHashed is the total bytes fed to the fingerprinter
	BytesHashed int64

	// Duration is the wall-clock scan time
	Duration time.Duration

	// Errors lists the per-item failures
	Errors []ItemError
}

// ScanResult holds everything a scan discovered. It is exclusively
// owned by the orchestrator until Freeze, after which it is immutable
// and safe to share with any number of readers.
type ScanResult struct {
	// ID uniquely identifies the scan
	ID string

	// Root is the absolute scan root
	Root string

	// StartTime and EndTime bound the scan
	StartTime time.Time
	EndTime   time.Time

	// Completed is false when the scan was cancelled before finishing;
	// groups are then the subset accumulated so far
	Completed bool

	// Items are all fingerprinted items, in discovery order
	Items []*Item

	// Groups are the duplicate groups, sorted by first member path
	Groups []*DuplicateGroup

	// Stats are the scan statistics
	Stats Statistics

	frozen bool
}

// NewScanResult creates an empty result for a scan of root.
func NewScanResult(root string) *ScanResult {
	return &ScanResult{
		ID:        uuid.New().String(),
		Root:      root,
		StartTime: time.Now(),
	}
}

// Freeze marks the result read-only. Completed records whether the
// walk ran to the end or was cancelled.
func (r *ScanResult) Freeze(completed bool) {
	if r.frozen {
		return
	}
	r.Completed = completed
	r.EndTime = time.Now()
	r.Stats.Duration = r.EndTime.Sub(r.StartTime)
	r.frozen = true
}

// Frozen reports whether the result has been frozen.
func (r *ScanResult) Frozen() bool {
	return r.frozen
}

// GroupFor returns the group containing the given path, or nil.
func (r *ScanResult) GroupFor(path string) *DuplicateGroup {
	for _, g := range r.Groups {
		if g.Contains(path) {
			return g
		}
	}
	return nil
}

// RecordError appends a per-item error to the statistics.
func (r *ScanResult) RecordError(path string, err error) {
	r.Stats.ItemsUnreadable++
	r.Stats.Errors = append(r.Stats.Errors, ItemError{
		Path:      path,
		Error:     err.Error(),
		Timestamp: time.Now(),
	})
}

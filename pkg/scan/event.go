package scan

import (
	"github.com/sdejongh/dupenorris/pkg/models"
)

// EventType identifies a scan event.
type EventType string

const (
	// EventItemDiscovered is emitted when the walk finds an item that
	// passed the filters, before it is fingerprinted
	EventItemDiscovered EventType = "item-discovered"

	// EventItemFingerprinted is emitted when an item's signature has
	// been computed
	EventItemFingerprinted EventType = "item-fingerprinted"

	// EventGroupUpdated is emitted when an item joins or extends a
	// provisional duplicate cluster
	EventGroupUpdated EventType = "group-updated"

	// EventItemError is emitted for a per-item failure; the scan
	// continues
	EventItemError EventType = "item-error"

	// EventCompleted is the final event; Result carries the frozen
	// ScanResult (partial when the scan was cancelled)
	EventCompleted EventType = "completed"
)

// Event is one step of a scan's progress stream. Events are emitted in
// order on a single channel; the channel is closed after EventCompleted.
// Callers must drain the channel even after cancelling.
type Event struct {
	Type EventType

	// Item is set for item-scoped events
	Item *models.Item

	// GroupPaths is the provisional cluster membership for
	// EventGroupUpdated
	GroupPaths []string

	// Err is set for EventItemError
	Err error

	// Result is set for EventCompleted
	Result *models.ScanResult
}

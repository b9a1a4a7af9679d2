package output

import (
	"io"

	"github.com/sdejongh/dupenorris/pkg/models"
	"github.com/sdejongh/dupenorris/pkg/scan"
)

// Formatter defines the interface for output formatting
// Implementations include human-readable, JSON, and progress formatters
type Formatter interface {
	// Start initializes the formatter for a new scan of root
	Start(writer io.Writer, root string) error

	// Event reports a scan event as it happens
	Event(ev scan.Event) error

	// Result finalizes output and displays the scan summary
	Result(result *models.ScanResult) error

	// Plan displays a selection plan
	Plan(plan *models.SelectionPlan) error

	// Error reports an error during the scan
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter for a format name, with progress upgrading
// the human formatter when enabled.
func New(format string, progress bool) Formatter {
	switch {
	case format == "json":
		return NewJSONFormatter()
	case progress:
		return NewProgressFormatter()
	default:
		return NewHumanFormatter()
	}
}

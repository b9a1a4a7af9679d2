package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/dupenorris/pkg/models"
	"github.com/sdejongh/dupenorris/pkg/scan"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct {
	writer io.Writer
	root   string
}

// JSONReportData represents the final scan report
type JSONReportData struct {
	ScanID     string          `json:"scan_id"`
	Root       string          `json:"root"`
	Completed  bool            `json:"completed"`
	Duration   string          `json:"duration"`
	DurationMs int64           `json:"duration_ms"`
	Stats      JSONStatsData   `json:"stats"`
	Groups     []JSONGroupData `json:"groups"`
	Errors     []JSONErrorData `json:"errors,omitempty"`
}

// JSONStatsData represents scan statistics in JSON format
type JSONStatsData struct {
	ItemsDiscovered    int   `json:"items_discovered"`
	ItemsFingerprinted int   `json:"items_fingerprinted"`
	ItemsSkipped       int   `json:"items_skipped"`
	ItemsUnreadable    int   `json:"items_unreadable"`
	BytesHashed        int64 `json:"bytes_hashed"`
}

// JSONGroupData represents one duplicate group
type JSONGroupData struct {
	ID          string         `json:"id"`
	Basis       string         `json:"basis"`
	Confidence  string         `json:"confidence"`
	Pattern     string         `json:"pattern,omitempty"`
	WastedBytes int64          `json:"wasted_bytes"`
	Items       []JSONItemData `json:"items"`
}

// JSONItemData represents one group member
type JSONItemData struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ModTime     string `json:"mod_time"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// JSONErrorData represents a per-item error entry
type JSONErrorData struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// JSONPlanData represents a selection plan
type JSONPlanData struct {
	ScanID  string           `json:"scan_id"`
	Policy  string           `json:"policy"`
	Actions []JSONActionData `json:"actions"`
}

// JSONActionData represents one planned action
type JSONActionData struct {
	Path        string `json:"path"`
	Action      string `json:"action"`
	MergeTarget string `json:"merge_target,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, root string) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.root = root
	return nil
}

// Event ignores intermediate events to keep the output a single
// parseable document
func (f *JSONFormatter) Event(ev scan.Event) error {
	return nil
}

// Result finalizes output and writes the report as JSON
func (f *JSONFormatter) Result(result *models.ScanResult) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildReport(result))
}

// Plan writes the plan as JSON
func (f *JSONFormatter) Plan(plan *models.SelectionPlan) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	data := JSONPlanData{
		ScanID: plan.ResultID,
		Policy: plan.Policy,
	}
	for _, g := range plan.Groups {
		for _, item := range g.Items {
			act := plan.Actions[item.Path]
			data.Actions = append(data.Actions, JSONActionData{
				Path:        item.Path,
				Action:      string(act.Action),
				MergeTarget: act.MergeTarget,
				Reason:      act.Reason,
			})
		}
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Error writes an error document
func (f *JSONFormatter) Error(err error) error {
	if f.writer == nil {
		return nil
	}
	return json.NewEncoder(f.writer).Encode(map[string]string{"error": err.Error()})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

// buildReport converts a scan result to its JSON form.
func buildReport(result *models.ScanResult) JSONReportData {
	report := JSONReportData{
		ScanID:     result.ID,
		Root:       result.Root,
		Completed:  result.Completed,
		Duration:   result.Stats.Duration.Round(time.Millisecond).String(),
		DurationMs: result.Stats.Duration.Milliseconds(),
		Stats: JSONStatsData{
			ItemsDiscovered:    result.Stats.ItemsDiscovered,
			ItemsFingerprinted: result.Stats.ItemsFingerprinted,
			ItemsSkipped:       result.Stats.ItemsSkipped,
			ItemsUnreadable:    result.Stats.ItemsUnreadable,
			BytesHashed:        result.Stats.BytesHashed,
		},
		Groups: make([]JSONGroupData, 0, len(result.Groups)),
	}

	for _, g := range result.Groups {
		group := JSONGroupData{
			ID:          g.ID,
			Basis:       string(g.Basis),
			Confidence:  string(g.Confidence),
			Pattern:     g.Pattern,
			WastedBytes: g.WastedBytes(),
		}
		for _, item := range g.Items {
			group.Items = append(group.Items, JSONItemData{
				Path:        item.Path,
				Size:        item.Size,
				ModTime:     item.ModTime.Format(time.RFC3339),
				Fingerprint: item.Fingerprint,
			})
		}
		report.Groups = append(report.Groups, group)
	}

	for _, e := range result.Stats.Errors {
		report.Errors = append(report.Errors, JSONErrorData{Path: e.Path, Error: e.Error})
	}

	return report
}

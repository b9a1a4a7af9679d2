package output

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/sdejongh/dupenorris/pkg/models"
	"github.com/sdejongh/dupenorris/pkg/scan"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer io.Writer
	root   string

	// Verbose prints per-item errors as they happen instead of only in
	// the final summary
	Verbose bool
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, root string) error {
	f.writer = writer
	f.root = root

	if writer != nil {
		fmt.Fprintf(writer, "Scanning %s...\n", root)
	}
	return nil
}

// Event reports a scan event
func (f *HumanFormatter) Event(ev scan.Event) error {
	if f.writer == nil || !f.Verbose {
		return nil
	}
	if ev.Type == scan.EventItemError && ev.Item != nil {
		fmt.Fprintf(f.writer, "  ! %s: %v\n", ev.Item.Path, ev.Err)
	}
	return nil
}

// Result finalizes output and displays the scan summary
func (f *HumanFormatter) Result(result *models.ScanResult) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	w := f.writer

	if !result.Completed {
		color.New(color.FgYellow).Fprintf(w, "\nScan cancelled, results are partial.\n")
	}

	fmt.Fprintf(w, "\n")
	if len(result.Groups) == 0 {
		fmt.Fprintf(w, "No duplicates found.\n")
	}

	var wasted int64
	for i, g := range result.Groups {
		confidenceColor(g.Confidence).Fprintf(w, "Group %d  [%s]", i+1, g.Confidence)
		fmt.Fprintf(w, "  basis: %s", g.Basis)
		if g.Pattern != "" {
			fmt.Fprintf(w, "  pattern: %s", g.Pattern)
		}
		fmt.Fprintf(w, "\n")

		for _, item := range g.Items {
			fmt.Fprintf(w, "  %s (%s)\n", item.Path, formatBytes(item.Size))
		}
		fmt.Fprintf(w, "\n")

		if g.Basis != models.BasisSuffix {
			wasted += g.WastedBytes()
		}
	}

	fmt.Fprintf(w, "Scan completed in %s\n", result.Stats.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Items discovered:     %d\n", result.Stats.ItemsDiscovered)
	fmt.Fprintf(w, "  Items fingerprinted:  %d\n", result.Stats.ItemsFingerprinted)
	fmt.Fprintf(w, "  Items skipped:        %d\n", result.Stats.ItemsSkipped)
	fmt.Fprintf(w, "  Items unreadable:     %d\n", result.Stats.ItemsUnreadable)
	fmt.Fprintf(w, "  Data hashed:          %s\n", formatBytes(result.Stats.BytesHashed))
	fmt.Fprintf(w, "  Duplicate groups:     %d\n", len(result.Groups))
	fmt.Fprintf(w, "  Reclaimable:          %s\n", formatBytes(wasted))

	if len(result.Stats.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, e := range result.Stats.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.Path, e.Error)
		}
	}

	return nil
}

// Plan displays a selection plan
func (f *HumanFormatter) Plan(plan *models.SelectionPlan) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	w := f.writer

	fmt.Fprintf(w, "\nPlan (%s):\n", plan.Policy)
	for i, g := range plan.Groups {
		fmt.Fprintf(w, "  Group %d:\n", i+1)
		for _, item := range g.Items {
			act := plan.Actions[item.Path]
			switch act.Action {
			case models.ActionKeep:
				color.New(color.FgGreen).Fprintf(w, "    keep   ")
			case models.ActionDelete:
				color.New(color.FgRed).Fprintf(w, "    delete ")
			case models.ActionMergeInto:
				color.New(color.FgCyan).Fprintf(w, "    merge  ")
			}
			fmt.Fprintf(w, "%s", item.Path)
			if act.Action == models.ActionMergeInto {
				fmt.Fprintf(w, " -> %s", act.MergeTarget)
			}
			fmt.Fprintf(w, "\n")
		}
	}

	fmt.Fprintf(w, "\n  %d deletions, %d merges planned\n",
		len(plan.Deletions()), len(plan.Merges()))
	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	if f.writer != nil {
		color.New(color.FgRed).Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// confidenceColor maps grouping confidence to a display color.
func confidenceColor(c models.Confidence) *color.Color {
	switch c {
	case models.ConfidenceExact:
		return color.New(color.FgGreen, color.Bold)
	case models.ConfidenceProbable:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan, color.Bold)
	}
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

package output

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/dupenorris/pkg/models"
	"github.com/sdejongh/dupenorris/pkg/scan"
)

// ProgressFormatter renders a live progress bar during the scan and
// falls back to the human formatter for the final summary. The total
// grows as discovery streams in, so the bar tracks fingerprinting
// catching up with the walk.
type ProgressFormatter struct {
	human      *HumanFormatter
	bar        *pb.ProgressBar
	discovered atomic.Int64
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{
		human: NewHumanFormatter(),
	}
}

// Start initializes the formatter
func (f *ProgressFormatter) Start(writer io.Writer, root string) error {
	if writer == nil {
		writer = os.Stdout
	}
	if err := f.human.Start(writer, root); err != nil {
		return err
	}

	f.bar = pb.New64(0)
	f.bar.SetWriter(writer)
	f.bar.SetTemplateString(`{{counters . }} {{bar . }} {{percent . }} {{etime . }}`)

	// Cap the bar to the terminal so redraws don't wrap
	if file, ok := writer.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			f.bar.SetWidth(width)
		}
	}

	f.bar.Start()
	return nil
}

// Event reports a scan event
func (f *ProgressFormatter) Event(ev scan.Event) error {
	if f.bar == nil {
		return nil
	}

	switch ev.Type {
	case scan.EventItemDiscovered:
		f.bar.SetTotal(f.discovered.Add(1))
	case scan.EventItemFingerprinted, scan.EventItemError:
		f.bar.Increment()
	}
	return nil
}

// Result finalizes the bar and displays the scan summary
func (f *ProgressFormatter) Result(result *models.ScanResult) error {
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
	return f.human.Result(result)
}

// Plan displays a selection plan
func (f *ProgressFormatter) Plan(plan *models.SelectionPlan) error {
	return f.human.Plan(plan)
}

// Error reports an error
func (f *ProgressFormatter) Error(err error) error {
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
	return f.human.Error(err)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

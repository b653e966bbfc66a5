// Package progress renders a stderr progress bar while files are analyzed.
package progress

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Tracker reports per-file completion on stderr. When stderr is not a
// terminal the tracker is a no-op so piped output stays clean.
type Tracker struct {
	bar *progressbar.ProgressBar
}

// NewTracker returns a tracker for total units of work under the given label.
func NewTracker(label string, total int) *Tracker {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return &Tracker{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar}
}

// Tick records one completed unit. Safe for concurrent use.
func (t *Tracker) Tick() {
	if t.bar != nil {
		t.bar.Add(1)
	}
}

// FinishSuccess completes and clears the bar.
func (t *Tracker) FinishSuccess() {
	if t.bar != nil {
		t.bar.Finish()
		t.bar.Clear()
	}
}

package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/who0xac/hackfusion/pkg/plan"
	"github.com/who0xac/hackfusion/pkg/tools"
)

// StepProgress prints step headers and results as a plan runs and keeps a
// progress bar across the steps
type StepProgress struct {
	bar    *progressbar.ProgressBar
	total  int
	failed int
}

// NewStepProgress creates a progress display for a plan of total steps. The
// bar is only drawn on a terminal.
func NewStepProgress(total int) *StepProgress {
	var w io.Writer = io.Discard
	if IsTTY() {
		w = os.Stderr
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("plan"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
	)
	return &StepProgress{bar: bar, total: total}
}

// StepStarted prints the step header
func (p *StepProgress) StepStarted(index int, step plan.Step) {
	_ = p.bar.Clear()
	PrintStep(step)
	p.bar.Describe(fmt.Sprintf("step %d/%d %s", index+1, p.total, step.Tool))
	_ = p.bar.RenderBlank()
}

// StepFinished prints the result and advances the bar
func (p *StepProgress) StepFinished(index int, entry plan.LogEntry, result tools.Result) {
	_ = p.bar.Clear()
	if entry.Status == plan.StatusError {
		p.failed++
	}
	PrintStepFinished(entry, result)
	_ = p.bar.Add(1)
}

// Finish removes the bar
func (p *StepProgress) Finish() {
	_ = p.bar.Finish()
}

// Failed returns the number of steps that ended in error so far
func (p *StepProgress) Failed() int {
	return p.failed
}

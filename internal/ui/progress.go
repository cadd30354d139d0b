package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"husky/internal/domain"
)

// ProgressBar shows run progress and counts outcomes as results are recorded
type ProgressBar struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	passed  int
	failed  int
	skipped int
}

// NewProgressBar creates a new progress bar on stderr
func NewProgressBar(count int) *ProgressBar {
	return NewProgressBarWriter(count, os.Stderr)
}

// NewProgressBarWriter creates a progress bar rendering to w
func NewProgressBarWriter(count int, w io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(0, 0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

func describe(passed, failed, skipped int) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d", failed) +
		" | " +
		color.YellowString("skipped: %d]", skipped)
}

// RecordResult advances the bar; safe for concurrent use
func (p *ProgressBar) RecordResult(result domain.TestResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch result.Outcome {
	case domain.OutcomePassed:
		p.passed++
	case domain.OutcomeFailed:
		p.failed++
	default:
		p.skipped++
	}
	p.bar.Describe(describe(p.passed, p.failed, p.skipped))
	return p.bar.Set(p.passed + p.failed + p.skipped)
}

// Counts returns passed, failed and skipped totals so far
func (p *ProgressBar) Counts() (passed, failed, skipped int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.passed, p.failed, p.skipped
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Finish()
}

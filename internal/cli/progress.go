package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/sift/internal/engine"
	"github.com/schollz/progressbar/v3"
)

// Progress renders row evaluation progress to a terminal.
type Progress struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
	label  string
}

// NewProgress creates a progress display; the bar is built on the first update
// because the row count is only known once evaluation starts.
func NewProgress(writer io.Writer, label string) *Progress {
	return &Progress{writer: writer, label: label}
}

// Func adapts the display to the engine's progress callback.
func (p *Progress) Func() engine.ProgressFunc {
	return func(done, total int) {
		if p.bar == nil {
			p.bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(p.writer),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]%s[reset]", p.label)),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
			)
		}
		if err := p.bar.Set(done); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
}

// Finish completes the bar if one was started.
func (p *Progress) Finish() {
	if p.bar == nil {
		return
	}
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
	if _, err := fmt.Fprintln(p.writer); err != nil {
		slog.Warn("Failed to write newline after progress bar", "error", err)
	}
}

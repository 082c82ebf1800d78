// Package cli renders sift's terminal output and collects interactive input.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// palette maps each kind of output to an adaptive color so previews stay
// readable on light and dark terminals.
var palette = struct {
	accent, match, miss, note, caution, muted, frame lipgloss.AdaptiveColor
}{
	accent:  lipgloss.AdaptiveColor{Light: "#3B5BDB", Dark: "#7AA2F7"},
	match:   lipgloss.AdaptiveColor{Light: "#2B8A3E", Dark: "#9ECE6A"},
	miss:    lipgloss.AdaptiveColor{Light: "#C92A2A", Dark: "#F7768E"},
	note:    lipgloss.AdaptiveColor{Light: "#1971C2", Dark: "#7DCFFF"},
	caution: lipgloss.AdaptiveColor{Light: "#E67700", Dark: "#E0AF68"},
	muted:   lipgloss.AdaptiveColor{Light: "#868E96", Dark: "#565F89"},
	frame:   lipgloss.AdaptiveColor{Light: "#CED4DA", Dark: "#3B4261"},
}

// Outcome styles. A predicate or formula that holds renders as a success,
// one that does not as an error.
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(palette.match)
	ErrorStyle   = lipgloss.NewStyle().Foreground(palette.miss)
	WarningStyle = lipgloss.NewStyle().Foreground(palette.caution)
	InfoStyle    = lipgloss.NewStyle().Foreground(palette.note)
	SubtleStyle  = lipgloss.NewStyle().Foreground(palette.muted)
)

// Layout styles for titles, table previews and spec boxes.
var (
	TitleStyle       = lipgloss.NewStyle().Bold(true).Foreground(palette.accent).MarginBottom(1)
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(palette.accent)
	PromptStyle      = lipgloss.NewStyle().Bold(true).Foreground(palette.accent)
	BoxStyle         = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.frame).
				Padding(0, 1)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	SiftIcon    = "🧮"
)

// FormatSuccess reports a completed write or save.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError reports a failed command.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning reports an interrupted pass.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo reports counts and notes.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle heads a listing.
func FormatTitle(title string) string {
	return TitleStyle.Render(SiftIcon + " " + title)
}

// FormatPrompt asks for authored input.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// FormatMark renders a single true/false result as a colored tick or cross.
func FormatMark(ok bool) string {
	if ok {
		return SuccessStyle.Render(SuccessIcon)
	}
	return ErrorStyle.Render(ErrorIcon)
}

// RenderBox frames content under a title, as used for spec bodies and check results.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.UnsetMargins().Render(title),
		content,
	))
}

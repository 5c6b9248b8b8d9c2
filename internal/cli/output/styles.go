package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by CLI output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// ModelPath renders file paths and project directories.
	ModelPath lipgloss.Style

	// Status icons, rendered with String().
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusSkipped lipgloss.Style
}

func newStyles(lg *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: lg.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: lg.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:    lg.NewStyle().Bold(true),
		Muted:   lg.NewStyle().Foreground(lipgloss.Color("8")),

		Success: lg.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lg.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lg.NewStyle().Foreground(lipgloss.Color("9")),
		Info:    lg.NewStyle().Foreground(lipgloss.Color("12")),

		ModelPath: lg.NewStyle().Foreground(lipgloss.Color("13")).Underline(true),

		StatusSuccess: lg.NewStyle().Foreground(lipgloss.Color("10")).SetString("✓"),
		StatusFailed:  lg.NewStyle().Foreground(lipgloss.Color("9")).SetString("✗"),
		StatusSkipped: lg.NewStyle().Foreground(lipgloss.Color("8")).SetString("-"),
	}
}

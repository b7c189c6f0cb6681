package console

import "github.com/charmbracelet/lipgloss"

// Styles groups the console's text styles. Colors collapse to plain text when
// the output is not a terminal.
type Styles struct {
	Title   lipgloss.Style
	Menu    lipgloss.Style
	Prompt  lipgloss.Style
	Record  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds styles bound to renderer r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title: r.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true),

		Menu: r.NewStyle().
			PaddingLeft(2),

		Prompt: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")),

		Record: r.NewStyle().
			PaddingLeft(2),

		Success: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")),

		Error: r.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")),

		Muted: r.NewStyle().
			Foreground(lipgloss.Color("#767676")).
			Italic(true),
	}
}

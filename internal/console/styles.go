package console

import "github.com/charmbracelet/lipgloss"

var (
	accent      = lipgloss.Color("#8BC34A")
	destructive = lipgloss.Color("#e53935")
	muted       = lipgloss.Color("#6b7280")
)

type styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Panel    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Label:    lipgloss.NewStyle().Width(11).Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(destructive).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Row:      lipgloss.NewStyle().PaddingLeft(2),
		Selected: lipgloss.NewStyle().Foreground(accent).Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
	}
}

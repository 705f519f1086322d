package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Scrolling",
			items: []helpItem{
				{"j/k", "Line down/up"},
				{"pgdn/pgup", "Page down/up"},
				{"ctrl+d/u", "Half page"},
				{"g", "Go to top"},
				{"G", "Bottom + follow"},
			},
		},
		{
			title: "Sources",
			items: []helpItem{
				{"left/right", "Move cursor"},
				{"enter", "Toggle selection"},
				{"a/A", "Select all / none"},
				{"c", "Clear output"},
				{"s/S/r", "Start/stop/restart"},
			},
		},
		{
			title: "Filter & search",
			items: []helpItem{
				{"F", "Edit filter"},
				{"/", "Search"},
				{"n/N", "Next/prev match"},
				{"esc", "Cancel input"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"t", "Toggle timestamps"},
				{"T", "Cycle theme"},
				{"h/?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			keyStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.Warning)).
				Width(12)
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(40)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

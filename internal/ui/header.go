package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader draws one chip per source: selection mark, name, status
// badge. The chip under the cursor is highlighted.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	if len(m.sourceOrder) == 0 {
		return styles.Header.Width(m.width).Render(styles.MutedText.Render("no processes"))
	}

	chips := make([]string, 0, len(m.sourceOrder))
	for i, name := range m.sourceOrder {
		src := m.snapshot.Sources[name]

		mark := "○"
		if src.Selected {
			mark = "●"
		}
		label := mark + " " + name + " " + styles.StatusStyle(src.Status.String()).Render(src.Status.String())

		chip := lipgloss.NewStyle().Padding(0, 1)
		if i == m.cursor {
			chip = chip.Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText))
		}
		chips = append(chips, chip.Render(label))
	}

	row := strings.Join(chips, " ")
	return styles.Header.Width(m.width).Render(row)
}

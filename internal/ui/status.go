package ui

import (
	"fmt"
	"strings"
)

// renderStatusBar summarizes follow state, search position, line counts
// and daemon stats in one footer row.
func (m Model) renderStatusBar() string {
	styles := m.theme.Styles()

	var parts []string

	if m.scrolls.Autoscroll {
		parts = append(parts, styles.AccentText.Render("FOLLOW"))
	} else {
		parts = append(parts, styles.WarningText.Render("PAUSED"))
	}

	if m.indexer.Active() {
		matches := len(m.indexer.Matches())
		if matches == 0 {
			parts = append(parts, styles.DangerText.Render(fmt.Sprintf("no matches for %q", m.indexer.Term())))
		} else {
			parts = append(parts, fmt.Sprintf("match %d/%d", m.indexer.Current()+1, matches))
		}
	}

	parts = append(parts, fmt.Sprintf("%d lines shown", m.view.Len()))

	if m.stats.TotalLines > 0 {
		stat := fmt.Sprintf("%d total", m.stats.TotalLines)
		if m.stats.DroppedLines > 0 {
			stat += fmt.Sprintf(", %d dropped", m.stats.DroppedLines)
		}
		parts = append(parts, stat)
	}

	parts = append(parts, m.theme.Name)

	return styles.Footer.Width(m.width).Render(strings.Join(parts, "  │  "))
}

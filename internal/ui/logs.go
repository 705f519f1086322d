package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// chrome rows around the log window: header chips, input row, status bar.
const chromeRows = 3

func (m *Model) logHeight() int {
	h := m.height - chromeRows
	if h < 1 {
		h = 1
	}
	return h
}

// renderMain assembles the full frame: sources header, log window,
// input row, status bar.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderLogWindow())
	b.WriteString("\n")
	b.WriteString(m.renderInputRow())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// renderLogWindow materializes only the visible log rows.
func (m Model) renderLogWindow() string {
	m.viewport.height = m.logHeight()
	if m.view.Len() == 0 {
		empty := m.theme.Styles().MutedText.Render("waiting for output")
		return empty + strings.Repeat("\n", m.viewport.height-1)
	}

	// Highlighted content for lines the current search matches.
	highlighted := make(map[int]string)
	currentMatch := -1
	if m.indexer.Active() {
		for _, match := range m.indexer.Matches() {
			highlighted[match.DisplayIndex] = match.Highlighted
		}
		currentMatch = m.indexer.CurrentDisplayIndex()
	}

	rows := m.window.Rows(func(i int) string {
		return m.renderLine(i, highlighted, currentMatch)
	})
	return strings.Join(rows, "\n")
}

// renderLine formats one display line: gutter, source prefix, optional
// timestamp, wrapped content.
func (m Model) renderLine(i int, highlighted map[int]string, currentMatch int) string {
	if i < 0 || i >= m.view.Len() {
		return ""
	}
	line := m.view.Lines[i]
	styles := m.theme.Styles()

	gutter := "  "
	if i == currentMatch {
		gutter = styles.CurrentMatch.Render("> ")
	}

	prefix := styles.SourceStyle(line.Source).Render(padName(line.Source, 10)) + " "

	ts := ""
	if m.showTimestamps && !line.Timestamp.IsZero() {
		ts = styles.MutedText.Render(line.Timestamp.In(time.Local).Format("15:04:05.000")) + " "
	}

	content := line.Content
	if h, ok := highlighted[i]; ok {
		content = h
	}

	used := lipgloss.Width(gutter) + lipgloss.Width(prefix) + lipgloss.Width(ts)
	avail := m.width - used
	if avail < 10 {
		avail = 10
	}
	body := lipgloss.NewStyle().Width(avail).Render(content)

	// Continuation rows indent under the content column.
	parts := strings.Split(body, "\n")
	if len(parts) > 1 {
		indent := strings.Repeat(" ", used)
		for j := 1; j < len(parts); j++ {
			parts[j] = indent + parts[j]
		}
		body = strings.Join(parts, "\n")
	}

	return gutter + prefix + ts + body
}

// renderInputRow shows whichever input is active, or hints otherwise.
func (m Model) renderInputRow() string {
	styles := m.theme.Styles()
	switch m.mode {
	case modeFilter:
		return m.filterInput.View()
	case modeSearch:
		return m.searchInput.View()
	}

	var parts []string
	if m.filterText != "" {
		parts = append(parts, styles.AccentText.Render("filter: "+m.filterText))
	}
	if m.indexer.Active() {
		parts = append(parts, styles.AccentText.Render("/"+m.indexer.Term()))
	}
	if len(parts) == 0 {
		return styles.MutedText.Render("F filter  / search  h help")
	}
	return strings.Join(parts, "  ")
}

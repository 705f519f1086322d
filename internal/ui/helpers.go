package ui

import "sort"

func sortStrings(s []string) {
	sort.Strings(s)
}

// padName pads or truncates a source name to a fixed prefix column.
func padName(name string, width int) string {
	runes := []rune(name)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	for len(runes) < width {
		runes = append(runes, ' ')
	}
	return string(runes)
}

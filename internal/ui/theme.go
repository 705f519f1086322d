package ui

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the viewer.
type Theme struct {
	Name string

	Background string
	Surface    string

	Text   string
	Muted  string
	Accent string

	Success string
	Warning string
	Danger  string

	SelectionBg   string
	SelectionText string

	// MatchBg highlights the focused search match.
	MatchBg   string
	MatchText string

	// SourceColors is the palette for per-source prefixes; a source is
	// assigned a color by name hash so it stays stable across restarts.
	SourceColors []string

	// StatusColors keys on the lowercase process status.
	StatusColors map[string]string
}

// Styles returns pre-built lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		CurrentMatch: lipgloss.NewStyle().
			Background(lipgloss.Color(t.MatchBg)).
			Foreground(lipgloss.Color(t.MatchText)).
			Bold(true),

		statusColors: t.StatusColors,
		sourceColors: t.SourceColors,
		background:   t.Background,
		muted:        t.Muted,
	}
}

// Styles contains pre-built lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	AccentText  lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header       lipgloss.Style
	Footer       lipgloss.Style
	Selected     lipgloss.Style
	CurrentMatch lipgloss.Style

	statusColors map[string]string
	sourceColors []string
	background   string
	muted        string
}

// StatusStyle returns a badge style for the given process status.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	color := s.statusColors[status]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// SourceStyle returns the prefix style for a source, stable by name.
func (s Styles) SourceStyle(name string) lipgloss.Style {
	if len(s.sourceColors) == 0 {
		return s.Text
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	color := s.sourceColors[int(h.Sum32())%len(s.sourceColors)]
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// Theme definitions

var themes = map[string]Theme{
	"Dark":  darkTheme(),
	"Light": lightTheme(),
}

var themeOrder = []string{"Dark", "Light"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return darkTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func darkTheme() Theme {
	return Theme{
		Name: "Dark",

		Background: "#16181d",
		Surface:    "#21242b",

		Text:   "#c9ccd3",
		Muted:  "#767d8a",
		Accent: "#6fa8dc",

		Success: "#7cb97c",
		Warning: "#d8bc6e",
		Danger:  "#cf6679",

		SelectionBg:   "#2c3340",
		SelectionText: "#e2e4e9",

		MatchBg:   "#d8bc6e",
		MatchText: "#16181d",

		SourceColors: []string{
			"#6fa8dc", "#7cb97c", "#d8bc6e", "#c586c0",
			"#4ec9b0", "#ce9178", "#9cdcfe", "#cf6679",
		},

		StatusColors: map[string]string{
			"running": "#7cb97c",
			"stopped": "#d8bc6e",
			"dead":    "#cf6679",
			"broken":  "#cf6679",
			"unknown": "#767d8a",
		},
	}
}

func lightTheme() Theme {
	return Theme{
		Name: "Light",

		Background: "#f4f4f2",
		Surface:    "#e4e4e0",

		Text:   "#2b2d31",
		Muted:  "#6e7380",
		Accent: "#1f6fb2",

		Success: "#2e7d32",
		Warning: "#9a7b0a",
		Danger:  "#b3261e",

		SelectionBg:   "#cdd8e3",
		SelectionText: "#1b1d21",

		MatchBg:   "#f4d35e",
		MatchText: "#1b1d21",

		SourceColors: []string{
			"#1f6fb2", "#2e7d32", "#9a7b0a", "#8e4f9f",
			"#00796b", "#b35a1f", "#0b7285", "#b3261e",
		},

		StatusColors: map[string]string{
			"running": "#2e7d32",
			"stopped": "#9a7b0a",
			"dead":    "#b3261e",
			"broken":  "#b3261e",
			"unknown": "#6e7380",
		},
	}
}

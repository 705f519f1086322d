package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames() returned %d names, want 2", len(names))
	}
	if names[0] != "Dark" || names[1] != "Light" {
		t.Fatalf("ThemeNames() = %v, want [Dark Light]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Dark"); got != "Light" {
		t.Fatalf("NextTheme(Dark) = %q, want Light", got)
	}
	if got := NextTheme("Light"); got != "Dark" {
		t.Fatalf("NextTheme(Light) = %q, want Dark", got)
	}
	if got := NextTheme("Unknown"); got != "Dark" {
		t.Fatalf("NextTheme(Unknown) = %q, want Dark", got)
	}
}

func TestGetTheme(t *testing.T) {
	dark := GetTheme("Dark")
	if dark.Name != "Dark" {
		t.Fatalf("GetTheme(Dark).Name = %q, want Dark", dark.Name)
	}

	light := GetTheme("Light")
	if light.Name != "Light" {
		t.Fatalf("GetTheme(Light).Name = %q, want Light", light.Name)
	}

	unknown := GetTheme("Unknown")
	if unknown.Name != "Dark" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Dark (fallback)", unknown.Name)
	}
}

func TestSourceStyleIsStable(t *testing.T) {
	styles := GetTheme("Dark").Styles()
	first := styles.SourceStyle("api").Render("api")
	second := styles.SourceStyle("api").Render("api")
	if first != second {
		t.Fatalf("SourceStyle(api) not stable: %q vs %q", first, second)
	}
}

func TestThemesCoverAllStatuses(t *testing.T) {
	statuses := []string{"running", "stopped", "dead", "broken", "unknown"}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, status := range statuses {
			if th.StatusColors[status] == "" {
				t.Errorf("theme %s missing status color for %q", name, status)
			}
		}
	}
}

package ui

import "testing"

func TestPadName(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"pads_short", "api", 6, "api   "},
		{"exact", "worker", 6, "worker"},
		{"truncates_long", "background", 6, "backg…"},
		{"width_one", "api", 1, "a"},
		{"empty", "", 3, "   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := padName(tc.in, tc.width)
			if got != tc.want {
				t.Fatalf("padName(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
			}
			if len([]rune(got)) > tc.width {
				t.Fatalf("padName(%q, %d) = %q, exceeds width", tc.in, tc.width, got)
			}
		})
	}
}

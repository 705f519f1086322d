package display

import (
	"fmt"
	"testing"

	"github.com/darrenoakey/overmind-gui-sub000/internal/logstore"
)

func seedStore(t *testing.T, max int) *logstore.Store {
	t.Helper()
	return logstore.New(max)
}

func appendLines(s *logstore.Store, source string, from, to int64) {
	lines := make([]logstore.Line, 0, to-from+1)
	for id := from; id <= to; id++ {
		lines = append(lines, logstore.Line{
			ID:         id,
			Source:     source,
			Content:    fmt.Sprintf("%s %d", source, id),
			Searchable: fmt.Sprintf("%s %d", source, id),
		})
	}
	s.Append(lines)
}

func TestProjector_SelectionFilter(t *testing.T) {
	s := seedStore(t, 100)
	appendLines(s, "api", 1, 3)
	appendLines(s, "db", 4, 5)
	s.ToggleSelection("db")

	p := NewProjector(5000)
	view := p.Project(s.Snapshot(), "", true)

	if view.Len() != 3 {
		t.Fatalf("view has %d lines, want 3 api lines", view.Len())
	}
	for i, ln := range view.Lines {
		if ln.Source != "api" {
			t.Errorf("line %d from %q, want api", i, ln.Source)
		}
		if i > 0 && view.Lines[i-1].ID >= ln.ID {
			t.Errorf("relative order broken at %d", i)
		}
	}
}

func TestProjector_TextFilterCaseInsensitive(t *testing.T) {
	s := seedStore(t, 100)
	s.Append([]logstore.Line{
		{ID: 1, Source: "api", Searchable: "GET /health 200"},
		{ID: 2, Source: "api", Searchable: "ERROR timeout"},
		{ID: 3, Source: "api", Searchable: "another error here"},
	})

	p := NewProjector(5000)
	view := p.Project(s.Snapshot(), "Error", true)

	if view.Len() != 2 {
		t.Fatalf("view has %d lines, want 2", view.Len())
	}
	if view.Lines[0].ID != 2 || view.Lines[1].ID != 3 {
		t.Fatalf("matched ids = %d,%d, want 2,3", view.Lines[0].ID, view.Lines[1].ID)
	}
}

func TestProjector_TailCap(t *testing.T) {
	s := seedStore(t, 10000)
	appendLines(s, "api", 1, 120)

	p := NewProjector(100)
	view := p.Project(s.Snapshot(), "", true)

	if view.Len() != 100 {
		t.Fatalf("view has %d lines, want 100", view.Len())
	}
	if view.Lines[0].ID != 21 {
		t.Fatalf("view starts at id %d, want 21 (most recent kept)", view.Lines[0].ID)
	}
}

func TestProjector_FrozenViewStability(t *testing.T) {
	s := seedStore(t, 1000)
	appendLines(s, "api", 1, 10)

	p := NewProjector(5000)
	frozen := p.Project(s.Snapshot(), "", false)

	appendLines(s, "api", 11, 20)
	again := p.Project(s.Snapshot(), "", false)

	if &frozen.Lines[0] != &again.Lines[0] || len(frozen.Lines) != len(again.Lines) {
		t.Fatalf("frozen view was recomputed while autoscroll off")
	}
	if again.Len() != 10 {
		t.Fatalf("frozen view grew to %d lines", again.Len())
	}

	// Selection change forces recomputation even while frozen.
	s.ToggleSelection("api")
	after := p.Project(s.Snapshot(), "", false)
	if after.Len() != 0 {
		t.Fatalf("selection change ignored: %d lines", after.Len())
	}
}

func TestProjector_ClearForcesRecomputeWhileFrozen(t *testing.T) {
	s := seedStore(t, 1000)
	appendLines(s, "api", 1, 5)
	appendLines(s, "db", 6, 8)

	p := NewProjector(5000)
	frozen := p.Project(s.Snapshot(), "", false)
	if frozen.Len() != 8 {
		t.Fatalf("primed view has %d lines, want 8", frozen.Len())
	}

	// Cleared lines must vanish even though autoscroll is off and the
	// selection and filter are unchanged.
	s.ClearSource("api")
	after := p.Project(s.Snapshot(), "", false)
	if after.Len() != 3 {
		t.Fatalf("view has %d lines after clear, want 3", after.Len())
	}
	for i, ln := range after.Lines {
		if ln.Source == "api" {
			t.Fatalf("cleared line id=%d still in display view at %d", ln.ID, i)
		}
	}

	// The recomputed view is frozen again: later appends stay invisible.
	appendLines(s, "db", 9, 10)
	still := p.Project(s.Snapshot(), "", false)
	if still.Len() != 3 {
		t.Fatalf("view grew to %d lines while paused, want 3", still.Len())
	}
}

func TestProjector_FilterChangeForcesRecompute(t *testing.T) {
	s := seedStore(t, 1000)
	s.Append([]logstore.Line{
		{ID: 1, Source: "api", Searchable: "alpha"},
		{ID: 2, Source: "api", Searchable: "beta"},
	})

	p := NewProjector(5000)
	_ = p.Project(s.Snapshot(), "", false)
	view := p.Project(s.Snapshot(), "beta", false)

	if view.Len() != 1 || view.Lines[0].ID != 2 {
		t.Fatalf("filter change while frozen not applied: %+v", view.Lines)
	}
}

func TestProjector_AutoscrollTracksNewContent(t *testing.T) {
	s := seedStore(t, 1000)
	appendLines(s, "api", 1, 5)

	p := NewProjector(5000)
	first := p.Project(s.Snapshot(), "", true)
	if first.Len() != 5 {
		t.Fatalf("first view has %d lines, want 5", first.Len())
	}

	appendLines(s, "api", 6, 8)
	second := p.Project(s.Snapshot(), "", true)
	if second.Len() != 8 {
		t.Fatalf("autoscroll view has %d lines, want 8", second.Len())
	}
}

func TestProjector_UnknownSourceFailsOpen(t *testing.T) {
	// A snapshot whose registry lost track of a source must still show it.
	snap := logstore.Snapshot{
		Lines:   []logstore.Line{{ID: 1, Source: "ghost", Searchable: "boo"}},
		Sources: map[string]logstore.Source{},
		Version: 1,
	}
	p := NewProjector(10)
	if view := p.Project(snap, "", true); view.Len() != 1 {
		t.Fatalf("unknown source hidden from view")
	}
}

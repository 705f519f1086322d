package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/darrenoakey/overmind-gui-sub000/internal/logstore"
)

type recordingController struct {
	store *logstore.Store
	calls []string
}

func (c *recordingController) ToggleSource(name string) {
	c.calls = append(c.calls, "toggle:"+name)
	c.store.ToggleSelection(name)
}

func (c *recordingController) SetAllSelected(selected bool) {
	c.calls = append(c.calls, "all")
	c.store.SetAllSelected(selected)
}

func (c *recordingController) ClearSource(name string) {
	c.calls = append(c.calls, "clear:"+name)
	c.store.ClearSource(name)
}

func (c *recordingController) StartProcess(name string)   { c.calls = append(c.calls, "start:"+name) }
func (c *recordingController) StopProcess(name string)    { c.calls = append(c.calls, "stop:"+name) }
func (c *recordingController) RestartProcess(name string) { c.calls = append(c.calls, "restart:"+name) }

func seedStore(t *testing.T, names []string, linesPer int) *logstore.Store {
	t.Helper()
	store := logstore.New(100)
	id := int64(0)
	var lines []logstore.Line
	for i := 0; i < linesPer; i++ {
		for _, name := range names {
			id++
			lines = append(lines, logstore.Line{
				ID:        id,
				Source:    name,
				Content:   "line",
				Timestamp: time.Now(),
			})
		}
	}
	store.Append(lines)
	return store
}

func newTestModel(t *testing.T, store *logstore.Store) (Model, *recordingController) {
	t.Helper()
	ctrl := &recordingController{store: store}
	m := New(Options{
		Store:           store,
		Controller:      ctrl,
		MaxDisplayLines: 100,
		PrefsPath:       t.TempDir() + "/prefs.toml",
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model), ctrl
}

func TestModel_SourceOrderIsStable(t *testing.T) {
	store := seedStore(t, []string{"web", "api"}, 2)
	m, _ := newTestModel(t, store)

	if len(m.sourceOrder) != 2 || m.sourceOrder[0] != "api" || m.sourceOrder[1] != "web" {
		t.Fatalf("sourceOrder = %v, want [api web]", m.sourceOrder)
	}

	// A new source lands at the end rather than reshuffling.
	store.Append([]logstore.Line{{ID: 100, Source: "db", Content: "x"}})
	next, _ := m.Update(RefreshMsg{})
	m = next.(Model)
	if len(m.sourceOrder) != 3 || m.sourceOrder[2] != "db" {
		t.Fatalf("sourceOrder = %v, want db appended", m.sourceOrder)
	}
}

func TestModel_CursorToggleRoutesToController(t *testing.T) {
	store := seedStore(t, []string{"api", "web"}, 1)
	m, ctrl := newTestModel(t, store)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if len(ctrl.calls) != 1 || ctrl.calls[0] != "toggle:web" {
		t.Fatalf("controller calls = %v, want [toggle:web]", ctrl.calls)
	}
	if m.snapshot.Sources["web"].Selected {
		t.Fatalf("web should be deselected after toggle")
	}
}

func TestModel_RefreshFollowsWhileAutoscroll(t *testing.T) {
	store := seedStore(t, []string{"api"}, 5)
	m, _ := newTestModel(t, store)

	if !m.scrolls.Autoscroll {
		t.Fatalf("autoscroll should start enabled")
	}

	store.Append([]logstore.Line{{ID: 500, Source: "api", Content: "new"}})
	next, _ := m.Update(RefreshMsg{})
	m = next.(Model)

	if m.view.Len() != 6 {
		t.Fatalf("view len = %d, want 6", m.view.Len())
	}
	if m.scrolls.PendingProgrammatic != 0 {
		t.Fatalf("programmatic echo not consumed: pending = %d", m.scrolls.PendingProgrammatic)
	}
	if !m.scrolls.Autoscroll {
		t.Fatalf("autoscroll should survive programmatic follow scrolls")
	}
}

func TestModel_FrozenViewWhilePaused(t *testing.T) {
	store := seedStore(t, []string{"api"}, 30)
	m, _ := newTestModel(t, store)

	// Scroll up enough to leave bottom proximity and disable follow.
	for i := 0; i < 5; i++ {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
		m = next.(Model)
	}
	if m.scrolls.Autoscroll {
		t.Fatalf("scrolling up should disable autoscroll")
	}

	frozen := m.view.Len()
	store.Append([]logstore.Line{{ID: 900, Source: "api", Content: "late"}})
	next, _ := m.Update(RefreshMsg{})
	m = next.(Model)

	if m.view.Len() != frozen {
		t.Fatalf("view grew to %d while paused, want frozen at %d", m.view.Len(), frozen)
	}

	// Jumping to the bottom resumes following and picks up the new line.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	m = next.(Model)
	if !m.scrolls.Autoscroll {
		t.Fatalf("G should re-enable autoscroll")
	}
	if m.view.Len() != frozen+1 {
		t.Fatalf("view len = %d after resume, want %d", m.view.Len(), frozen+1)
	}
}

func TestModel_ClearRoutesToCursorSource(t *testing.T) {
	store := seedStore(t, []string{"api"}, 3)
	m, ctrl := newTestModel(t, store)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = next.(Model)

	if len(ctrl.calls) != 1 || ctrl.calls[0] != "clear:api" {
		t.Fatalf("controller calls = %v, want [clear:api]", ctrl.calls)
	}
	if m.view.Len() != 0 {
		t.Fatalf("view len = %d after clear, want 0", m.view.Len())
	}
}

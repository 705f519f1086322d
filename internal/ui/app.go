package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/darrenoakey/overmind-gui-sub000/internal/display"
	"github.com/darrenoakey/overmind-gui-sub000/internal/logstore"
	"github.com/darrenoakey/overmind-gui-sub000/internal/overmind"
	"github.com/darrenoakey/overmind-gui-sub000/internal/prefs"
	"github.com/darrenoakey/overmind-gui-sub000/internal/scroll"
	"github.com/darrenoakey/overmind-gui-sub000/internal/search"
	"github.com/darrenoakey/overmind-gui-sub000/internal/vlist"
)

// Debounce windows for the two text inputs. Filter edits re-project the
// whole view, search edits re-scan it; neither should run per keystroke.
const (
	filterDebounce = 300 * time.Millisecond
	searchDebounce = 250 * time.Millisecond
)

// Controller receives user intents. The composition root implements it
// by mutating the local store and forwarding to the daemon.
type Controller interface {
	ToggleSource(name string)
	SetAllSelected(selected bool)
	ClearSource(name string)
	StartProcess(name string)
	StopProcess(name string)
	RestartProcess(name string)
}

// RefreshMsg tells the model the store changed; it re-projects the view.
type RefreshMsg struct{}

// StatsMsg carries updated daemon counters for the status bar.
type StatsMsg overmind.Stats

type inputMode int

const (
	modeNormal inputMode = iota
	modeFilter
	modeSearch
)

type filterDebounceMsg struct{ gen int }
type searchDebounceMsg struct{ gen int }

// Options configures the UI.
type Options struct {
	Store      *logstore.Store
	Controller Controller

	MaxDisplayLines int
	ThemeName       string
	PrefsPath       string
	ShowTimestamps  bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	keys      keyMap
	theme     Theme
	prefsPath string

	store *logstore.Store
	ctrl  Controller

	projector *display.Projector
	indexer   *search.Indexer
	scrolls   scroll.State
	viewport  *logViewport
	window    *vlist.Window

	snapshot logstore.Snapshot
	view     display.View
	stats    overmind.Stats

	// sourceOrder is the stable header order; cursor indexes into it.
	sourceOrder []string
	cursor      int

	mode        inputMode
	filterInput textinput.Model
	searchInput textinput.Model
	filterText  string
	filterGen   int
	searchGen   int

	showTimestamps bool
	showHelp       bool

	width  int
	height int
	ready  bool
}

// logViewport is the render target the virtual list scrolls against.
type logViewport struct {
	height int
	offset int
}

func (v *logViewport) ViewportHeight() int  { return v.height }
func (v *logViewport) ScrollOffset() int    { return v.offset }
func (v *logViewport) ScrollToOffset(o int) { v.offset = o }

// New creates the root Bubble Tea model.
func New(opts Options) Model {
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dark"
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	maxDisplay := opts.MaxDisplayLines
	if maxDisplay <= 0 {
		maxDisplay = 5000
	}

	filterInput := textinput.New()
	filterInput.Prompt = "filter: "
	filterInput.CharLimit = 200

	searchInput := textinput.New()
	searchInput.Prompt = "/"
	searchInput.CharLimit = 200

	viewport := &logViewport{}
	return Model{
		keys:           DefaultKeyMap(),
		theme:          GetTheme(themeName),
		prefsPath:      prefsPath,
		store:          opts.Store,
		ctrl:           opts.Controller,
		projector:      display.NewProjector(maxDisplay),
		indexer:        search.NewIndexer(search.ReverseVideo),
		scrolls:        scroll.Initial(),
		viewport:       viewport,
		window:         vlist.NewWindow(vlist.New(1, vlist.DefaultOverscan), viewport),
		filterInput:    filterInput,
		searchInput:    searchInput,
		showTimestamps: opts.ShowTimestamps,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.height = m.logHeight()
		m.ready = true
		m.refresh()
		if m.scrolls.Autoscroll {
			m.window.ScrollToBottom()
			m.observeScroll()
		}
		return m, nil

	case RefreshMsg:
		grew := m.applyRefresh()
		if grew && m.view.Len() > 0 {
			m.applyScroll(scroll.Event{Kind: scroll.ContentAppended, Index: m.view.Len() - 1})
		}
		return m, nil

	case StatsMsg:
		m.stats = overmind.Stats(msg)
		return m, nil

	case filterDebounceMsg:
		if msg.gen == m.filterGen {
			m.filterText = m.filterInput.Value()
			m.applyRefresh()
		}
		return m, nil

	case searchDebounceMsg:
		if msg.gen == m.searchGen {
			m.applySearchTerm()
		}
		return m, nil
	}

	return m, nil
}

// applyRefresh re-projects the display view from the current store
// snapshot. It reports whether the view gained lines.
func (m *Model) applyRefresh() bool {
	if m.store == nil {
		return false
	}
	m.snapshot = m.store.Snapshot()
	before := m.view.Len()
	m.view = m.projector.Project(m.snapshot, m.filterText, m.scrolls.Autoscroll)
	m.window.List.SetCount(m.view.Len())
	if m.indexer.Active() {
		m.indexer.Refresh(m.view)
	}
	m.syncSourceOrder()
	return m.view.Len() > before
}

// refresh is applyRefresh without growth bookkeeping, for resize paths.
func (m *Model) refresh() {
	m.applyRefresh()
}

// applyScroll feeds one event to the scroll state machine and executes
// whatever command it returns against the window.
func (m *Model) applyScroll(ev scroll.Event) {
	next, cmd := scroll.Apply(m.scrolls, ev)
	m.scrolls = next
	if cmd.Scroll {
		m.window.ScrollToIndex(cmd.Index, cmd.Align)
		m.observeScroll()
	}
}

// observeScroll drains the window's scroll attribution and mirrors it
// into the state machine so command echoes never read as user gestures.
func (m *Model) observeScroll() {
	ev := m.window.ObserveScroll()
	if ev.Programmatic {
		m.scrolls, _ = scroll.Apply(m.scrolls, scroll.Event{Kind: scroll.ProgrammaticScrollDone})
		return
	}
	if ev.Delta < 0 {
		m.scrolls, _ = scroll.Apply(m.scrolls, scroll.Event{Kind: scroll.UserScrolledUp})
	}
	if ev.EnteredBottom {
		m.scrolls, _ = scroll.Apply(m.scrolls, scroll.Event{Kind: scroll.ReachedBottom})
		m.applyRefresh()
	}
}

// scrollBy moves the viewport by delta rows as a user gesture.
func (m *Model) scrollBy(delta int) {
	offset := m.viewport.offset + delta
	if offset < 0 {
		offset = 0
	}
	if bottom := m.window.List.BottomOffset(m.viewport.height); offset > bottom {
		offset = bottom
	}
	m.viewport.offset = offset
	m.observeScroll()
}

// applySearchTerm commits the debounced search input to the indexer and
// centers the first match.
func (m *Model) applySearchTerm() {
	term := m.searchInput.Value()
	m.indexer.SetTerm(m.view, term)
	if term == "" {
		m.applyScroll(scroll.Event{Kind: scroll.SearchCleared, Index: m.lastIndex()})
		return
	}
	m.applyScroll(scroll.Event{
		Kind:    scroll.SearchStarted,
		Index:   m.indexer.CurrentDisplayIndex(),
		Matches: len(m.indexer.Matches()),
	})
}

func (m *Model) lastIndex() int {
	if m.view.Len() == 0 {
		return 0
	}
	return m.view.Len() - 1
}

// syncSourceOrder keeps the header chip order stable while picking up
// newly registered sources at the end.
func (m *Model) syncSourceOrder() {
	seen := make(map[string]bool, len(m.sourceOrder))
	for _, name := range m.sourceOrder {
		seen[name] = true
	}
	fresh := make([]string, 0, 4)
	for name := range m.snapshot.Sources {
		if !seen[name] {
			fresh = append(fresh, name)
		}
	}
	sortStrings(fresh)
	m.sourceOrder = append(m.sourceOrder, fresh...)

	// Drop sources that vanished from the snapshot.
	kept := m.sourceOrder[:0]
	for _, name := range m.sourceOrder {
		if _, ok := m.snapshot.Sources[name]; ok {
			kept = append(kept, name)
		}
	}
	m.sourceOrder = kept
	if m.cursor >= len(m.sourceOrder) {
		m.cursor = max(0, len(m.sourceOrder)-1)
	}
}

// cursorSource returns the name under the header cursor, or "".
func (m *Model) cursorSource() string {
	if m.cursor < 0 || m.cursor >= len(m.sourceOrder) {
		return ""
	}
	return m.sourceOrder[m.cursor]
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Connecting..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch m.mode {
	case modeFilter:
		return m.handleFilterKey(msg)
	case modeSearch:
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Timestamps):
		m.showTimestamps = !m.showTimestamps
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.mode = modeFilter
		m.filterInput.SetValue(m.filterText)
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.SetValue(m.indexer.Term())
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.NextMatch):
		if idx := m.indexer.Next(m.view); idx >= 0 {
			m.window.ScrollToIndex(idx, vlist.AlignCenter)
			m.observeScroll()
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch):
		if idx := m.indexer.Previous(m.view); idx >= 0 {
			m.window.ScrollToIndex(idx, vlist.AlignCenter)
			m.observeScroll()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.scrollBy(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.scrollBy(-m.viewport.height)
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.scrollBy(m.viewport.height)
		return m, nil

	case key.Matches(msg, m.keys.HalfPageUp):
		m.scrollBy(-m.viewport.height / 2)
		return m, nil

	case key.Matches(msg, m.keys.HalfPageDown):
		m.scrollBy(m.viewport.height / 2)
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.viewport.offset = 0
		m.observeScroll()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.applyScroll(scroll.Event{Kind: scroll.JumpToBottom, Index: m.lastIndex()})
		m.applyRefresh()
		return m, nil

	case key.Matches(msg, m.keys.PrevSource):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.NextSource):
		if m.cursor < len(m.sourceOrder)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleSource):
		if name := m.cursorSource(); name != "" && m.ctrl != nil {
			m.ctrl.ToggleSource(name)
			m.applyRefresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		if m.ctrl != nil {
			m.ctrl.SetAllSelected(true)
			m.applyRefresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.SelectNone):
		if m.ctrl != nil {
			m.ctrl.SetAllSelected(false)
			m.applyRefresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if name := m.cursorSource(); name != "" && m.ctrl != nil {
			m.ctrl.ClearSource(name)
			m.applyRefresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Start):
		if name := m.cursorSource(); name != "" && m.ctrl != nil {
			m.ctrl.StartProcess(name)
		}
		return m, nil

	case key.Matches(msg, m.keys.Stop):
		if name := m.cursorSource(); name != "" && m.ctrl != nil {
			m.ctrl.StopProcess(name)
		}
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		if name := m.cursorSource(); name != "" && m.ctrl != nil {
			m.ctrl.RestartProcess(name)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeNormal
		m.filterInput.Blur()
		m.filterText = m.filterInput.Value()
		m.applyRefresh()
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.filterInput.Blur()
		m.filterInput.SetValue(m.filterText)
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filterGen++
	gen := m.filterGen
	debounce := tea.Tick(filterDebounce, func(time.Time) tea.Msg {
		return filterDebounceMsg{gen: gen}
	})
	return m, tea.Batch(cmd, debounce)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeNormal
		m.searchInput.Blur()
		m.applySearchTerm()
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		if m.indexer.Active() {
			m.indexer.SetTerm(m.view, "")
			m.applyScroll(scroll.Event{Kind: scroll.SearchCleared, Index: m.lastIndex()})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchGen++
	gen := m.searchGen
	debounce := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{gen: gen}
	})
	return m, tea.Batch(cmd, debounce)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{
		Theme:          m.theme.Name,
		ShowTimestamps: m.showTimestamps,
	})
}

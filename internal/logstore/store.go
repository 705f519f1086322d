package logstore

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultMaxPerSource is the per-source retention cap applied when the
// caller does not supply one.
const DefaultMaxPerSource = 5000

// Status describes the last known lifecycle state of a source process.
type Status int

const (
	StatusUnknown Status = iota
	StatusRunning
	StatusStopped
	StatusDead
	StatusBroken
)

// ParseStatus maps the daemon's status strings onto a Status.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "running":
		return StatusRunning
	case "stopped":
		return StatusStopped
	case "dead":
		return StatusDead
	case "broken":
		return StatusBroken
	default:
		return StatusUnknown
	}
}

// String returns the lowercase wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusStopped:
		return "stopped"
	case StatusDead:
		return "dead"
	case StatusBroken:
		return "broken"
	default:
		return "unknown"
	}
}

// Line is one processed log line. Lines are immutable once appended;
// consumers hold references into snapshots and never mutate them.
type Line struct {
	ID         int64
	Source     string
	Content    string // pre-rendered, opaque to the engine
	Searchable string // plain text used for filtering and search
	Timestamp  time.Time
}

// Source is the engine's view of one log-producing process. Sources are
// created on first sighting and persist for the session even after the
// process dies.
type Source struct {
	Name     string
	Status   Status
	Selected bool
}

// Snapshot is an immutable view of the store at one version. Lines shares
// the store's backing array (the store never overwrites published
// elements, it only appends or replaces the whole slice), Sources is a
// copy.
type Snapshot struct {
	Lines   []Line
	Sources map[string]Source
	Version uint64
	// ClearGen counts ClearSource calls. Tombstoned lines must never be
	// displayed, so a projection cache keyed on it recomputes after a
	// clear even while the view is otherwise frozen.
	ClearGen uint64
}

// Visible reports whether lines from name belong in the display. Sources
// the registry has never seen default to visible so bookkeeping gaps do
// not hide legitimate output.
func (s Snapshot) Visible(name string) bool {
	src, ok := s.Sources[name]
	if !ok {
		return true
	}
	return src.Selected
}

// SelectionKey returns a stable key describing the set of selected
// sources, used to detect selection changes between projections.
func (s Snapshot) SelectionKey() string {
	names := make([]string, 0, len(s.Sources))
	for name, src := range s.Sources {
		if src.Selected {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, "\x00")
}

// Store is the single chronological collection of log lines and the only
// owner of mutable engine state. All other components work on snapshots.
type Store struct {
	mu           sync.RWMutex
	lines        []Line
	perSource    map[string]int
	cleared      map[string]int64 // source -> last cleared id (tombstone)
	sources      map[string]Source
	maxPerSource int
	lastID       int64
	version      uint64
	clearGen     uint64
}

// New creates a Store retaining at most maxPerSource lines per source.
// maxPerSource <= 0 selects DefaultMaxPerSource.
func New(maxPerSource int) *Store {
	if maxPerSource <= 0 {
		maxPerSource = DefaultMaxPerSource
	}
	return &Store{
		perSource:    make(map[string]int),
		cleared:      make(map[string]int64),
		sources:      make(map[string]Source),
		maxPerSource: maxPerSource,
	}
}

// Append adds lines in order, registers unseen sources, and evicts the
// oldest lines of any source that exceeds its cap. Lines at or below
// their source's clear marker are silently discarded (the clear/in-flight
// race is resolved here, not by the caller). Returns the number of lines
// actually stored.
func (s *Store) Append(lines []Line) int {
	if len(lines) == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	accepted := 0
	for _, ln := range lines {
		if ln.ID > s.lastID {
			s.lastID = ln.ID
		}
		s.ensureSourceLocked(ln.Source)
		if ln.ID <= s.cleared[ln.Source] {
			continue
		}
		s.lines = append(s.lines, ln)
		s.perSource[ln.Source]++
		accepted++
	}

	s.evictLocked()
	if accepted > 0 {
		s.version++
	}
	return accepted
}

// evictLocked removes the oldest surviving lines of every source that is
// over its cap, preserving the relative order of everything else. The
// scan is chronological because removal is source-scoped within a
// globally ordered slice.
func (s *Store) evictLocked() {
	var over map[string]int
	for name, n := range s.perSource {
		if n > s.maxPerSource {
			if over == nil {
				over = make(map[string]int)
			}
			over[name] = n - s.maxPerSource
		}
	}
	if over == nil {
		return
	}

	kept := make([]Line, 0, len(s.lines))
	for _, ln := range s.lines {
		if over[ln.Source] > 0 {
			over[ln.Source]--
			s.perSource[ln.Source]--
			continue
		}
		kept = append(kept, ln)
	}
	s.lines = kept
}

// ClearSource tombstones everything the source has produced so far: the
// marker is set to the greatest line id seen process-wide, stored lines
// for the source are dropped, and the marker is returned so the caller
// can also discard in-flight batches. Late arrivals at or below the
// marker are filtered by Append.
func (s *Store) ClearSource(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	marker := s.lastID
	if marker <= s.cleared[name] {
		marker = s.cleared[name]
	}
	s.cleared[name] = marker

	if s.perSource[name] > 0 {
		kept := make([]Line, 0, len(s.lines)-s.perSource[name])
		for _, ln := range s.lines {
			if ln.Source == name {
				continue
			}
			kept = append(kept, ln)
		}
		s.lines = kept
		s.perSource[name] = 0
	}
	s.clearGen++
	s.version++
	return marker
}

// ClearMark returns the clear tombstone for a source, zero when unset.
func (s *Store) ClearMark(name string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cleared[name]
}

// ToggleSelection flips a source's selected flag and returns the new
// value. Unseen sources are registered first (selected, per the fail-open
// default) so the toggle hides them.
func (s *Store) ToggleSelection(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureSourceLocked(name)
	src := s.sources[name]
	src.Selected = !src.Selected
	s.sources[name] = src
	s.version++
	return src.Selected
}

// SetAllSelected selects or deselects every known source.
func (s *Store) SetAllSelected(selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, src := range s.sources {
		src.Selected = selected
		s.sources[name] = src
	}
	s.version++
}

// SetStatus records a status update for a source, creating it on first
// sighting. Stored lines are untouched.
func (s *Store) SetStatus(name string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureSourceLocked(name)
	src := s.sources[name]
	if src.Status == status {
		return
	}
	src.Status = status
	s.sources[name] = src
	s.version++
}

// ApplyStatusUpdates records a batch of status strings from the daemon.
func (s *Store) ApplyStatusUpdates(updates map[string]string) {
	if len(updates) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for name, raw := range updates {
		s.ensureSourceLocked(name)
		src := s.sources[name]
		status := ParseStatus(raw)
		if src.Status != status {
			src.Status = status
			s.sources[name] = src
			changed = true
		}
	}
	if changed {
		s.version++
	}
}

func (s *Store) ensureSourceLocked(name string) {
	if _, ok := s.sources[name]; ok {
		return
	}
	s.sources[name] = Source{Name: name, Selected: true}
	s.version++
}

// Snapshot returns an immutable view of the store. The line slice shares
// the store's backing array; the source map is copied.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := make(map[string]Source, len(s.sources))
	for name, src := range s.sources {
		sources[name] = src
	}
	return Snapshot{
		Lines:    s.lines,
		Sources:  sources,
		Version:  s.version,
		ClearGen: s.clearGen,
	}
}

// Version returns the store's mutation counter.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// LastID returns the greatest line id seen so far, including discarded
// and evicted lines.
func (s *Store) LastID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastID
}

// Count returns the number of stored lines for one source.
func (s *Store) Count(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.perSource[name]
}

// Len returns the total number of stored lines.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

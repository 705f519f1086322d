// Package display projects the log store into the bounded, filtered view
// the renderer consumes.
package display

import (
	"strings"

	"github.com/darrenoakey/overmind-gui-sub000/internal/logstore"
)

// DefaultMaxLines caps the projected view when no cap is configured.
const DefaultMaxLines = 5000

// View is an ordered, capped slice of lines ready for rendering. It is
// derived state: never mutated, recomputed when its inputs change.
type View struct {
	Lines []logstore.Line
}

// Len returns the number of lines in the view.
func (v View) Len() int { return len(v.Lines) }

// Projector computes Views and caches the last result so a frozen view
// can be handed back untouched while the user reads history.
type Projector struct {
	maxLines int

	last      View
	hasLast   bool
	lastVer   uint64
	lastClear uint64
	lastSel   string
	lastText  string
}

// NewProjector creates a Projector keeping at most maxLines lines.
// maxLines <= 0 selects DefaultMaxLines.
func NewProjector(maxLines int) *Projector {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Projector{maxLines: maxLines}
}

// Project returns the display view for the snapshot.
//
// While autoscroll is off, new content must not move what the user is
// reading: if the selection set and filter text are unchanged since the
// last computation the previous View is returned as-is, even when the
// snapshot has grown. A selection change, a filter change, or a source
// clear forces recomputation regardless of autoscroll; cleared lines
// must never linger in a frozen view.
func (p *Projector) Project(snap logstore.Snapshot, filterText string, autoscroll bool) View {
	sel := snap.SelectionKey()

	if p.hasLast && sel == p.lastSel && filterText == p.lastText && snap.ClearGen == p.lastClear {
		if !autoscroll {
			return p.last
		}
		if snap.Version == p.lastVer {
			return p.last
		}
	}

	lower := strings.ToLower(filterText)
	lines := project(snap, lower, p.maxLines)

	p.last = View{Lines: lines}
	p.hasLast = true
	p.lastVer = snap.Version
	p.lastClear = snap.ClearGen
	p.lastSel = sel
	p.lastText = filterText
	return p.last
}

// project is the pure single-pass filter: selected source, substring
// match, tail cap. Input is already chronological so the cap is a slice
// from the tail, never a sort.
func project(snap logstore.Snapshot, lowerFilter string, maxLines int) []logstore.Line {
	var kept []logstore.Line
	for i := range snap.Lines {
		ln := &snap.Lines[i]
		if !snap.Visible(ln.Source) {
			continue
		}
		if lowerFilter != "" && !strings.Contains(strings.ToLower(ln.Searchable), lowerFilter) {
			continue
		}
		kept = append(kept, *ln)
	}
	if over := len(kept) - maxLines; over > 0 {
		kept = kept[over:]
	}
	return kept
}

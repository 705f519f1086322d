// Package scroll decides when the log window follows new output and when
// it stays put. The whole policy lives in one pure transition function so
// it can be tested without a terminal.
package scroll

import "github.com/darrenoakey/overmind-gui-sub000/internal/vlist"

// State is the coordinator's complete state. The zero value is not
// meaningful; use Initial.
type State struct {
	Autoscroll   bool
	ManualScroll bool // a user drag/wheel gesture is in progress
	SearchActive bool

	// PendingProgrammatic counts programmatic scrolls whose echo has not
	// been observed yet. Scroll events are attributed to the program
	// while it is positive, so they cannot re-trigger the "user scrolled
	// away" transition.
	PendingProgrammatic int
}

// Initial returns the starting state: pinned to the bottom, no search.
func Initial() State {
	return State{Autoscroll: true}
}

// Event is one input to the state machine.
type Event struct {
	Kind EventKind

	// Index carries the jump target for SearchStarted (first match) and
	// the last index for ContentAppended / JumpToBottom.
	Index int

	// Programmatic marks scroll-originated events the program caused.
	Programmatic bool

	// Matches carries the match count for SearchStarted.
	Matches int
}

// EventKind enumerates the inputs the coordinator reacts to.
type EventKind int

const (
	// ContentAppended fires when the display view grew. Index is the new
	// last display index.
	ContentAppended EventKind = iota
	// UserScrolledUp fires on a wheel-up or scrollbar drag away from the
	// bottom.
	UserScrolledUp
	// ReachedBottom fires when the window lands on the last line.
	// Programmatic distinguishes command echoes from user gestures.
	ReachedBottom
	// ManualScrollStart / ManualScrollEnd bracket a drag gesture.
	ManualScrollStart
	ManualScrollEnd
	// SearchStarted fires on a fresh term with its match count and the
	// first match's display index.
	SearchStarted
	// SearchCleared fires when the term is emptied.
	SearchCleared
	// JumpToBottom is the explicit "follow again" user action. Index is
	// the last display index.
	JumpToBottom
	// ProgrammaticScrollDone clears one pending programmatic flag when
	// its echo was observed or timed out.
	ProgrammaticScrollDone
)

// Command tells the renderer what to do after a transition. Align uses
// the renderer's own alignment modes.
type Command struct {
	Scroll bool
	Index  int
	Align  vlist.Align
}

var noop = Command{}

func scrollTo(index int, align vlist.Align) Command {
	return Command{Scroll: true, Index: index, Align: align}
}

// Apply computes the next state and the renderer command for one event.
// It is pure: no clocks, no I/O.
func Apply(s State, ev Event) (State, Command) {
	switch ev.Kind {
	case ContentAppended:
		if s.Autoscroll && !s.ManualScroll {
			s.PendingProgrammatic++
			return s, scrollTo(ev.Index, vlist.AlignEnd)
		}
		return s, noop

	case UserScrolledUp:
		if s.PendingProgrammatic > 0 {
			// Echo of our own scroll command; not the user leaving.
			return s, noop
		}
		s.Autoscroll = false
		return s, noop

	case ReachedBottom:
		if ev.Programmatic || s.PendingProgrammatic > 0 {
			return s, noop
		}
		if !s.Autoscroll {
			s.Autoscroll = true
		}
		return s, noop

	case ManualScrollStart:
		s.ManualScroll = true
		return s, noop

	case ManualScrollEnd:
		s.ManualScroll = false
		return s, noop

	case SearchStarted:
		s.SearchActive = true
		if ev.Matches > 0 {
			s.Autoscroll = false
			s.PendingProgrammatic++
			return s, scrollTo(ev.Index, vlist.AlignCenter)
		}
		return s, noop

	case SearchCleared:
		s.SearchActive = false
		s.Autoscroll = true
		s.PendingProgrammatic++
		return s, scrollTo(ev.Index, vlist.AlignEnd)

	case JumpToBottom:
		s.Autoscroll = true
		s.PendingProgrammatic++
		return s, scrollTo(ev.Index, vlist.AlignEnd)

	case ProgrammaticScrollDone:
		if s.PendingProgrammatic > 0 {
			s.PendingProgrammatic--
		}
		return s, noop
	}
	return s, noop
}

package scroll

import (
	"testing"

	"github.com/darrenoakey/overmind-gui-sub000/internal/vlist"
)

func TestApply_ContentFollowsWhileAutoscroll(t *testing.T) {
	s := Initial()
	s, cmd := Apply(s, Event{Kind: ContentAppended, Index: 42})

	if !cmd.Scroll || cmd.Index != 42 || cmd.Align != vlist.AlignEnd {
		t.Fatalf("cmd = %+v, want scroll to 42 end-aligned", cmd)
	}
	if !s.Autoscroll {
		t.Fatalf("autoscroll dropped by append")
	}
	if s.PendingProgrammatic != 1 {
		t.Fatalf("PendingProgrammatic = %d, want 1", s.PendingProgrammatic)
	}
}

func TestApply_ContentIgnoredWhileManualScroll(t *testing.T) {
	s := Initial()
	s, _ = Apply(s, Event{Kind: ManualScrollStart})
	s, cmd := Apply(s, Event{Kind: ContentAppended, Index: 10})

	if cmd.Scroll {
		t.Fatalf("scrolled during a manual drag")
	}
	s, _ = Apply(s, Event{Kind: ManualScrollEnd})
	if s.ManualScroll {
		t.Fatalf("manual flag stuck")
	}
}

func TestApply_UserScrollUpDisablesAutoscroll(t *testing.T) {
	s := Initial()
	s, _ = Apply(s, Event{Kind: UserScrolledUp})
	if s.Autoscroll {
		t.Fatalf("user scroll-up did not disable autoscroll")
	}

	_, cmd := Apply(s, Event{Kind: ContentAppended, Index: 5})
	if cmd.Scroll {
		t.Fatalf("frozen window scrolled on new content")
	}
}

func TestApply_ProgrammaticEchoDoesNotDisableAutoscroll(t *testing.T) {
	s := Initial()
	s, _ = Apply(s, Event{Kind: ContentAppended, Index: 5}) // pending++

	// The renderer echoes our own command as a scroll event.
	s, _ = Apply(s, Event{Kind: UserScrolledUp})
	if !s.Autoscroll {
		t.Fatalf("own scroll echo treated as user gesture")
	}

	s, _ = Apply(s, Event{Kind: ProgrammaticScrollDone})
	if s.PendingProgrammatic != 0 {
		t.Fatalf("pending flag not consumed")
	}

	// With the flag cleared the same event is a real user gesture.
	s, _ = Apply(s, Event{Kind: UserScrolledUp})
	if s.Autoscroll {
		t.Fatalf("real user gesture ignored after flag cleared")
	}
}

func TestApply_ManualBottomReenablesAutoscroll(t *testing.T) {
	s := Initial()
	s, _ = Apply(s, Event{Kind: UserScrolledUp})

	// Programmatic landings do not re-enable.
	s, _ = Apply(s, Event{Kind: ReachedBottom, Programmatic: true})
	if s.Autoscroll {
		t.Fatalf("programmatic bottom re-enabled autoscroll")
	}

	s, _ = Apply(s, Event{Kind: ReachedBottom})
	if !s.Autoscroll {
		t.Fatalf("manual bottom did not re-enable autoscroll")
	}
}

func TestApply_FreshSearchJumpsToFirstMatchCentered(t *testing.T) {
	s := Initial()
	s, cmd := Apply(s, Event{Kind: SearchStarted, Matches: 2, Index: 2})

	if s.Autoscroll {
		t.Fatalf("search with matches kept autoscroll on")
	}
	if !s.SearchActive {
		t.Fatalf("search not marked active")
	}
	if !cmd.Scroll || cmd.Index != 2 || cmd.Align != vlist.AlignCenter {
		t.Fatalf("cmd = %+v, want centered scroll to 2", cmd)
	}
}

func TestApply_SearchWithoutMatchesKeepsAutoscroll(t *testing.T) {
	s := Initial()
	s, cmd := Apply(s, Event{Kind: SearchStarted, Matches: 0})
	if !s.Autoscroll || cmd.Scroll {
		t.Fatalf("zero-match search changed scroll behavior: %+v %+v", s, cmd)
	}
}

func TestApply_SearchClearedRestoresFollow(t *testing.T) {
	s := Initial()
	s, _ = Apply(s, Event{Kind: SearchStarted, Matches: 1, Index: 0})
	s, cmd := Apply(s, Event{Kind: SearchCleared, Index: 99})

	if !s.Autoscroll || s.SearchActive {
		t.Fatalf("state after clear = %+v", s)
	}
	if !cmd.Scroll || cmd.Index != 99 || cmd.Align != vlist.AlignEnd {
		t.Fatalf("cmd = %+v, want bottom scroll", cmd)
	}
}

func TestApply_JumpToBottom(t *testing.T) {
	s := Initial()
	s, _ = Apply(s, Event{Kind: UserScrolledUp})
	s, cmd := Apply(s, Event{Kind: JumpToBottom, Index: 7})

	if !s.Autoscroll {
		t.Fatalf("explicit jump did not re-enable autoscroll")
	}
	if !cmd.Scroll || cmd.Index != 7 || cmd.Align != vlist.AlignEnd {
		t.Fatalf("cmd = %+v", cmd)
	}
}

func TestApply_PendingNeverGoesNegative(t *testing.T) {
	s := Initial()
	s, _ = Apply(s, Event{Kind: ProgrammaticScrollDone})
	if s.PendingProgrammatic != 0 {
		t.Fatalf("PendingProgrammatic = %d, want 0", s.PendingProgrammatic)
	}
}

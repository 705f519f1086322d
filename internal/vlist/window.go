package vlist

import "strings"

// ItemFunc returns the renderable content of item i. Content may span
// multiple rows; the window measures it on first render.
type ItemFunc func(i int) string

// ScrollEvent classifies one observed change of scroll position.
type ScrollEvent struct {
	Offset int
	Delta  int // rows moved since the last observation; negative is up
	// Programmatic is true when the movement is the echo of a
	// ScrollToIndex/ScrollToBottom issued by the program.
	Programmatic bool
	AtBottom     bool
	// EnteredBottom is true when this movement crossed into bottom
	// proximity from outside it.
	EnteredBottom bool
}

// Window drives a RenderTarget from a List: it issues programmatic
// scrolls, attributes observed scroll movement to the user or the
// program, and materializes only the visible rows.
type Window struct {
	List   *List
	target RenderTarget

	lastOffset  int
	wasAtBottom bool
	expected    []int // FIFO of outstanding programmatic target offsets
}

// NewWindow binds a List to a RenderTarget.
func NewWindow(list *List, target RenderTarget) *Window {
	return &Window{List: list, target: target, wasAtBottom: true}
}

// ScrollToIndex scrolls so that item i lands per align. Returns false
// when no movement is needed (AlignAuto with the item fully visible).
// The resulting offset is remembered so the echo of this scroll is not
// mistaken for a user gesture.
func (w *Window) ScrollToIndex(i int, align Align) bool {
	offset, ok := w.List.ScrollTargetFor(i, align, w.target.ScrollOffset(), w.target.ViewportHeight())
	if !ok {
		return false
	}
	w.expected = append(w.expected, offset)
	w.target.ScrollToOffset(offset)
	return true
}

// ScrollToBottom pins the viewport to the end of the list.
func (w *Window) ScrollToBottom() {
	offset := w.List.BottomOffset(w.target.ViewportHeight())
	w.expected = append(w.expected, offset)
	w.target.ScrollToOffset(offset)
}

// ObserveScroll inspects the target's current offset and classifies the
// movement since the previous observation. Programmatic echoes consume
// their pending expectation.
func (w *Window) ObserveScroll() ScrollEvent {
	offset := w.target.ScrollOffset()
	ev := ScrollEvent{
		Offset: offset,
		Delta:  offset - w.lastOffset,
	}

	if len(w.expected) > 0 && w.expected[0] == offset {
		ev.Programmatic = true
		w.expected = w.expected[1:]
	}

	ev.AtBottom = w.List.AtBottom(offset, w.target.ViewportHeight())
	ev.EnteredBottom = ev.AtBottom && !w.wasAtBottom

	w.lastOffset = offset
	w.wasAtBottom = ev.AtBottom
	return ev
}

// ExpireProgrammatic drops the oldest pending expectation. Called when
// the echo of a programmatic scroll never arrived within its deadline so
// real user gestures are not misattributed forever.
func (w *Window) ExpireProgrammatic() {
	if len(w.expected) > 0 {
		w.expected = w.expected[1:]
	}
}

// PendingProgrammatic returns the number of unconsumed expectations.
func (w *Window) PendingProgrammatic() int { return len(w.expected) }

// Rows materializes exactly the viewport's rows. Items in the visible
// range (plus overscan) are rendered and measured; everything outside it
// is never touched. Short content pads with empty rows so the window
// height is constant.
func (w *Window) Rows(itemAt ItemFunc) []string {
	viewportH := w.target.ViewportHeight()
	if viewportH <= 0 {
		return nil
	}
	offset := w.target.ScrollOffset()

	start, end := w.List.VisibleRange(offset, viewportH)

	// Render once with whatever heights are known, remeasure as we go.
	// A measurement only dirties offsets from its own index onward, so
	// rows before it stay stable within this frame.
	rendered := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		rows := strings.Split(itemAt(i), "\n")
		w.List.Measure(i, len(rows))
		rendered = append(rendered, rows)
	}

	// Clamp the offset against the freshly measured geometry.
	if max := w.List.TotalHeight() - viewportH; offset > max {
		if max < 0 {
			max = 0
		}
		offset = max
	}

	skip := offset - w.List.OffsetOf(start)
	out := make([]string, 0, viewportH)
	for _, rows := range rendered {
		for _, row := range rows {
			if skip > 0 {
				skip--
				continue
			}
			if len(out) == viewportH {
				return out
			}
			out = append(out, row)
		}
	}
	for len(out) < viewportH {
		out = append(out, "")
	}
	return out
}

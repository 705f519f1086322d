// Package vlist implements a windowed (virtualized) list: only the
// visible index range plus an overscan margin is ever materialized.
// Heights are learned lazily (items render once at an estimate and are
// remeasured) and all geometry is expressed through a RenderTarget so
// the package is testable without a terminal.
package vlist

// Align selects where a ScrollToIndex target lands in the viewport.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	// AlignAuto is a no-op when the item is already fully visible,
	// otherwise the nearest edge.
	AlignAuto
)

// RenderTarget is the geometry surface the list scrolls. Offsets and
// heights are in rows.
type RenderTarget interface {
	ViewportHeight() int
	ScrollOffset() int
	ScrollToOffset(offset int)
}

// DefaultOverscan is the extra item margin rendered beyond the viewport.
const DefaultOverscan = 8

// bottomSlack is how close to the end (in rows) still counts as "at the
// bottom" for follow re-engagement.
const bottomSlack = 1

// List tracks per-item heights and cumulative offsets for a sequence of
// items. Heights default to the estimate until measured.
type List struct {
	estimate int
	overscan int
	count    int

	heights []int // 0 = unmeasured
	prefix  []int // prefix[i] = offset of item i
	valid   int   // prefix entries 0..valid are up to date
}

// New creates a List with the given height estimate (rows per item) and
// overscan margin. Non-positive values select 1 and DefaultOverscan.
func New(estimate, overscan int) *List {
	if estimate <= 0 {
		estimate = 1
	}
	if overscan <= 0 {
		overscan = DefaultOverscan
	}
	return &List{
		estimate: estimate,
		overscan: overscan,
		prefix:   []int{0},
	}
}

// Count returns the current item count.
func (l *List) Count() int { return l.count }

// SetCount resizes the list. Growth keeps existing measurements;
// shrinking drops them all, since the remaining indices no longer
// describe the same items after eviction or refiltering.
func (l *List) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	switch {
	case n == l.count:
		return
	case n < l.count:
		l.heights = make([]int, n)
		l.valid = 0
	default:
		for len(l.heights) < n {
			l.heights = append(l.heights, 0)
		}
	}
	l.count = n
	if l.valid > n {
		l.valid = n
	}
}

// Reset drops every measurement, keeping the count.
func (l *List) Reset() {
	l.heights = make([]int, l.count)
	l.valid = 0
}

// Measure records an item's observed height. Zero or negative heights
// are ignored and the prior estimate stays in effect. Only offsets from
// the measured item onward become stale.
func (l *List) Measure(i, h int) {
	if i < 0 || i >= l.count || h <= 0 {
		return
	}
	if l.heights[i] == h {
		return
	}
	l.heights[i] = h
	if l.valid > i {
		l.valid = i
	}
}

// HeightOf returns the measured height of an item, or the estimate.
func (l *List) HeightOf(i int) int {
	if i < 0 || i >= l.count || l.heights[i] == 0 {
		return l.estimate
	}
	return l.heights[i]
}

// OffsetOf returns the row offset of an item's first row.
func (l *List) OffsetOf(i int) int {
	if i < 0 {
		return 0
	}
	if i > l.count {
		i = l.count
	}
	l.extendPrefix(i)
	return l.prefix[i]
}

// TotalHeight returns the height of the whole list in rows.
func (l *List) TotalHeight() int {
	return l.OffsetOf(l.count)
}

// extendPrefix brings prefix entries up to and including index i in sync
// with the current measurements.
func (l *List) extendPrefix(i int) {
	if i > l.count {
		i = l.count
	}
	if i <= l.valid {
		return
	}
	for len(l.prefix) <= l.count {
		l.prefix = append(l.prefix, 0)
	}
	for j := l.valid; j < i; j++ {
		l.prefix[j+1] = l.prefix[j] + l.HeightOf(j)
	}
	l.valid = i
}

// indexAt returns the item covering the given row offset.
func (l *List) indexAt(offset int) int {
	if l.count == 0 || offset <= 0 {
		return 0
	}
	l.extendPrefix(l.count)
	lo, hi := 0, l.count-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if l.prefix[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// VisibleRange returns the half-open index range [start, end) to render
// for the given scroll offset and viewport height, including overscan.
func (l *List) VisibleRange(offset, viewportH int) (int, int) {
	if l.count == 0 || viewportH <= 0 {
		return 0, 0
	}
	start := l.indexAt(offset) - l.overscan
	if start < 0 {
		start = 0
	}
	end := l.indexAt(offset+viewportH-1) + 1 + l.overscan
	if end > l.count {
		end = l.count
	}
	return start, end
}

// ScrollTargetFor computes the row offset that places item i per align.
// The second return is false when no scroll is needed (AlignAuto with the
// item already fully visible, or an empty list).
func (l *List) ScrollTargetFor(i int, align Align, curOffset, viewportH int) (int, bool) {
	if l.count == 0 || viewportH <= 0 {
		return 0, false
	}
	if i < 0 {
		i = 0
	}
	if i >= l.count {
		i = l.count - 1
	}

	top := l.OffsetOf(i)
	h := l.HeightOf(i)

	var target int
	switch align {
	case AlignStart:
		target = top
	case AlignCenter:
		target = top + h/2 - viewportH/2
	case AlignEnd:
		target = top + h - viewportH
	case AlignAuto:
		if top >= curOffset && top+h <= curOffset+viewportH {
			return 0, false
		}
		if top < curOffset {
			target = top
		} else {
			target = top + h - viewportH
		}
	}
	return l.clampOffset(target, viewportH), true
}

// BottomOffset returns the offset that pins the viewport to the end.
func (l *List) BottomOffset(viewportH int) int {
	return l.clampOffset(l.TotalHeight(), viewportH)
}

// AtBottom reports whether the viewport is within bottomSlack rows of
// the end of the list.
func (l *List) AtBottom(offset, viewportH int) bool {
	return l.TotalHeight()-(offset+viewportH) <= bottomSlack
}

func (l *List) clampOffset(offset, viewportH int) int {
	max := l.TotalHeight() - viewportH
	if max < 0 {
		max = 0
	}
	if offset > max {
		return max
	}
	if offset < 0 {
		return 0
	}
	return offset
}

// Package search tracks ordered, unranked substring matches over the
// current display view and keeps the user's position sensible while the
// view shifts underneath an active search.
package search

import (
	"regexp"
	"strings"

	"github.com/darrenoakey/overmind-gui-sub000/internal/display"
)

// Match is one hit in the display view.
type Match struct {
	DisplayIndex int
	Highlighted  string // renderable content with the term wrapped
}

// Highlighter wraps matched spans of a renderable line. The default wraps
// in terminal reverse video; the UI installs a themed one.
type Highlighter func(term, content string) string

// ReverseVideo is the fallback highlighter.
func ReverseVideo(term, content string) string {
	return wrapMatches(term, content, "\x1b[7m", "\x1b[27m")
}

// wrapMatches locates the term case-insensitively against the original
// content, never against a lowercased copy: folding can change byte
// lengths (U+023A lowercases from 2 bytes to 3), so offsets computed on
// a folded string do not transfer back.
func wrapMatches(term, content, open, close string) string {
	if term == "" {
		return content
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
	locs := re.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return content
	}
	var b strings.Builder
	pos := 0
	for _, loc := range locs {
		b.WriteString(content[pos:loc[0]])
		b.WriteString(open)
		b.WriteString(content[loc[0]:loc[1]])
		b.WriteString(close)
		pos = loc[1]
	}
	b.WriteString(content[pos:])
	return b.String()
}

// Indexer computes matches for a term against successive display views.
// Not safe for concurrent use; it lives on the UI event loop.
type Indexer struct {
	highlight Highlighter

	term    string
	matcher *regexp.Regexp
	matches []Match
	current int

	// searchable text of the current match's line, used to re-anchor
	// after the view changes
	currentText string
}

// NewIndexer creates an Indexer using the given highlighter, or
// ReverseVideo when nil.
func NewIndexer(h Highlighter) *Indexer {
	if h == nil {
		h = ReverseVideo
	}
	return &Indexer{highlight: h, current: -1}
}

// Active reports whether a non-empty term is set.
func (x *Indexer) Active() bool { return x.term != "" }

// Term returns the current search term.
func (x *Indexer) Term() string { return x.term }

// Matches returns a copy of the current match list in display order.
// The copy stays valid after later SetTerm/Refresh calls, which reuse
// the internal slice.
func (x *Indexer) Matches() []Match {
	if len(x.matches) == 0 {
		return nil
	}
	out := make([]Match, len(x.matches))
	copy(out, x.matches)
	return out
}

// Current returns the index into Matches of the focused match, -1 when
// there are no matches.
func (x *Indexer) Current() int { return x.current }

// CurrentDisplayIndex returns the display-view index of the focused
// match, -1 when there is none.
func (x *Indexer) CurrentDisplayIndex() int {
	if x.current < 0 || x.current >= len(x.matches) {
		return -1
	}
	return x.matches[x.current].DisplayIndex
}

// SetTerm installs a fresh term and recomputes matches from scratch. The
// focus always resets to the first match on a fresh term. An empty term
// clears the search. The term is matched as an escaped literal, so no
// user input can produce a regexp error.
func (x *Indexer) SetTerm(view display.View, term string) {
	x.term = term
	if term == "" {
		x.matcher = nil
		x.matches = nil
		x.current = -1
		x.currentText = ""
		return
	}
	x.matcher = regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
	x.scan(view)
	if len(x.matches) > 0 {
		x.focus(view, 0)
	} else {
		x.current = -1
		x.currentText = ""
	}
}

// Refresh recomputes matches after the display view changed while the
// search stayed active. Continuity is best effort: prefer the line whose
// searchable text equals the previously focused line, otherwise clamp
// the old numeric index into the new range. The fallback can land on an
// unrelated line after heavy filtering changes; that imprecision is
// accepted.
func (x *Indexer) Refresh(view display.View) {
	if x.term == "" {
		return
	}
	prevText := x.currentText
	prevIdx := x.current
	x.scan(view)

	if len(x.matches) == 0 {
		x.current = -1
		x.currentText = ""
		return
	}

	if prevText != "" {
		for i, m := range x.matches {
			if view.Lines[m.DisplayIndex].Searchable == prevText {
				x.focus(view, i)
				return
			}
		}
	}

	if prevIdx < 0 {
		prevIdx = 0
	}
	if prevIdx >= len(x.matches) {
		prevIdx = len(x.matches) - 1
	}
	x.focus(view, prevIdx)
}

// Next advances the focus cyclically. No-op with zero matches. Returns
// the new display index, -1 when there are no matches.
func (x *Indexer) Next(view display.View) int {
	if len(x.matches) == 0 {
		return -1
	}
	x.focus(view, (x.current+1)%len(x.matches))
	return x.matches[x.current].DisplayIndex
}

// Previous moves the focus back cyclically. No-op with zero matches.
func (x *Indexer) Previous(view display.View) int {
	if len(x.matches) == 0 {
		return -1
	}
	i := x.current - 1
	if i < 0 {
		i = len(x.matches) - 1
	}
	x.focus(view, i)
	return x.matches[x.current].DisplayIndex
}

func (x *Indexer) focus(view display.View, i int) {
	x.current = i
	x.currentText = view.Lines[x.matches[i].DisplayIndex].Searchable
}

func (x *Indexer) scan(view display.View) {
	x.matches = x.matches[:0]
	for i := range view.Lines {
		ln := &view.Lines[i]
		if !x.matcher.MatchString(ln.Searchable) {
			continue
		}
		x.matches = append(x.matches, Match{
			DisplayIndex: i,
			Highlighted:  x.highlight(x.term, ln.Content),
		})
	}
}

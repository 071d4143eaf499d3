package backtrack

// Span is a half-open [Start, End) byte range in the searched text.
type Span struct {
	Start int
	End   int
}

// Captures records the best-known span for each capture group during one
// match attempt. Index 0 holds the whole match; groups start at 1.
//
// A Captures instance is owned by a single attempt and mutated in place as
// the matcher enters and leaves groups. Group and repetition attempts save
// the prior entry before writing and restore it when they backtrack, so a
// failed attempt leaves the context exactly as it found it. When a group
// matches repeatedly inside a quantifier, the last successful iteration
// wins; no history is kept.
type Captures struct {
	spans []Span
}

func newCaptures(groups int) *Captures {
	spans := make([]Span, groups+1)
	for i := range spans {
		spans[i] = Span{Start: -1, End: -1}
	}
	return &Captures{spans: spans}
}

// Get returns the span recorded for group i. ok is false if the group has
// not matched (or i is out of range).
func (c *Captures) Get(i int) (Span, bool) {
	if i < 0 || i >= len(c.spans) || c.spans[i].Start < 0 {
		return Span{}, false
	}
	return c.spans[i], true
}

// Groups returns the number of capture groups, excluding the whole match.
func (c *Captures) Groups() int {
	return len(c.spans) - 1
}

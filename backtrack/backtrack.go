// Package backtrack implements the recursive backtracking matcher and its
// search driver.
//
// The matcher walks the syntax tree in continuation-passing style: every
// node is matched against the input at a position together with a
// continuation representing "the rest of the pattern". A node succeeds only
// if the continuation succeeds, so a failure deep in the pattern unwinds to
// the nearest choice point (an alternation branch or a repetition count)
// and resumes from there. Capture state follows the same discipline: each
// tentative write saves the prior entry and restores it on the way back.
//
// Backtracking can visit an exponential number of states on pathological
// patterns. Every attempt therefore runs under a step budget; exceeding it
// aborts the attempt with ErrResourceExhausted, which is distinct from an
// ordinary "no match".
package backtrack

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"github.com/btgrep/btgrep/syntax"
)

// ErrResourceExhausted reports that a match attempt exceeded its step
// budget before reaching a verdict.
var ErrResourceExhausted = errors.New("backtracking step budget exceeded")

// cont is a continuation: can the remainder of the pattern succeed starting
// at the given position?
type cont func(pos int) bool

// machine holds the state of one match attempt. A fresh machine is created
// per attempt; nothing is shared across attempts.
type machine struct {
	input     []byte
	caps      *Captures
	steps     int
	limit     int
	exhausted bool
}

func (m *machine) matchNode(n syntax.Node, pos int, k cont) bool {
	m.steps++
	if m.steps > m.limit {
		m.exhausted = true
		return false
	}

	switch n := n.(type) {
	case *syntax.Literal:
		r, w := m.runeAt(pos)
		if w > 0 && r == n.Rune {
			return k(pos + w)
		}
		return false

	case *syntax.AnyChar:
		_, w := m.runeAt(pos)
		if w > 0 {
			return k(pos + w)
		}
		return false

	case *syntax.DigitClass:
		r, w := m.runeAt(pos)
		if w > 0 && r >= '0' && r <= '9' {
			return k(pos + w)
		}
		return false

	case *syntax.WordClass:
		r, w := m.runeAt(pos)
		if w > 0 && isWord(r) {
			return k(pos + w)
		}
		return false

	case *syntax.CharSet:
		r, w := m.runeAt(pos)
		if w == 0 {
			return false
		}
		_, member := n.Set[r]
		if member != n.Negated {
			return k(pos + w)
		}
		return false

	case *syntax.StartAnchor:
		if pos == 0 {
			return k(pos)
		}
		return false

	case *syntax.EndAnchor:
		if pos == len(m.input) {
			return k(pos)
		}
		return false

	case *syntax.Concat:
		return m.matchSeq(n.Subs, pos, k)

	case *syntax.Alternation:
		// Branches are tried in source order. A failed branch has already
		// rolled back its capture writes via the group undo below, so no
		// extra snapshot is needed here.
		for _, sub := range n.Subs {
			if m.matchNode(sub, pos, k) {
				return true
			}
			if m.exhausted {
				return false
			}
		}
		return false

	case *syntax.Group:
		return m.matchNode(n.Sub, pos, func(end int) bool {
			prev := m.caps.spans[n.Index]
			m.caps.spans[n.Index] = Span{Start: pos, End: end}
			if k(end) {
				return true
			}
			m.caps.spans[n.Index] = prev
			return false
		})

	case *syntax.Quantified:
		return m.matchRepeat(n, pos, 0, k)

	case *syntax.Backreference:
		span, ok := m.caps.Get(n.Index)
		if !ok {
			// The group never matched (e.g. it sits in an untaken
			// alternation branch); the backreference fails outright.
			return false
		}
		length := span.End - span.Start
		if pos+length > len(m.input) {
			return false
		}
		if !bytes.Equal(m.input[pos:pos+length], m.input[span.Start:span.End]) {
			return false
		}
		return k(pos + length)
	}
	return false
}

// matchSeq chains the children of a concatenation: each child's
// continuation matches the remaining children, terminating in k.
func (m *machine) matchSeq(subs []syntax.Node, pos int, k cont) bool {
	if len(subs) == 0 {
		return k(pos)
	}
	return m.matchNode(subs[0], pos, func(next int) bool {
		return m.matchSeq(subs[1:], next, k)
	})
}

// matchRepeat matches count..Max further applications of q.Sub followed by
// k, preferring more repetitions (greedy). A repetition that consumes no
// input is taken at most once: repeating it again can never change the
// outcome, and with it any minimum count is already satisfiable, so the
// loop hands straight over to k instead of recursing.
func (m *machine) matchRepeat(q *syntax.Quantified, pos, count int, k cont) bool {
	if q.Max == syntax.Unbounded || count < q.Max {
		ok := m.matchNode(q.Sub, pos, func(next int) bool {
			if next == pos {
				return k(next)
			}
			return m.matchRepeat(q, next, count+1, k)
		})
		if ok {
			return true
		}
		if m.exhausted {
			return false
		}
	}
	if count >= q.Min {
		return k(pos)
	}
	return false
}

func (m *machine) runeAt(pos int) (rune, int) {
	if pos >= len(m.input) {
		return 0, 0
	}
	return utf8.DecodeRune(m.input[pos:])
}

func isWord(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

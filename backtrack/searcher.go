package backtrack

import (
	"github.com/btgrep/btgrep/prefilter"
	"github.com/btgrep/btgrep/syntax"
)

// DefaultStepLimit is the per-attempt step budget used when a Searcher is
// built without an explicit limit.
const DefaultStepLimit = 1 << 20

// Result is a successful match: the overall span and the final capture
// context. Offsets index the text passed to FindAt.
type Result struct {
	Start int
	End   int
	Caps  *Captures
}

// Searcher drives the matcher over a text: it scans candidate start
// offsets left to right and reports the leftmost position at which the
// whole pattern matches.
//
// A Searcher is immutable after construction and safe for concurrent use;
// every attempt owns a fresh machine and capture context.
type Searcher struct {
	root      syntax.Node
	groups    int
	stepLimit int
	pf        prefilter.Prefilter
	anchored  bool
}

// NewSearcher builds a Searcher for a parsed pattern. pf may be nil; when
// present it is only consulted to skip start offsets that cannot begin a
// match. stepLimit <= 0 selects DefaultStepLimit.
func NewSearcher(root syntax.Node, groups, stepLimit int, pf prefilter.Prefilter) *Searcher {
	if stepLimit <= 0 {
		stepLimit = DefaultStepLimit
	}
	return &Searcher{
		root:      root,
		groups:    groups,
		stepLimit: stepLimit,
		pf:        pf,
		anchored:  startAnchored(root),
	}
}

// FindAt returns the leftmost match beginning at or after start, or nil if
// no start offset through len(text) yields a match. The scan includes
// len(text) itself so that patterns matching empty input can succeed at
// end of text.
//
// A nil Result with a nil error means no match. ErrResourceExhausted is
// returned when an attempt blows its step budget; the text may still match
// under a larger budget.
func (s *Searcher) FindAt(text []byte, start int) (*Result, error) {
	if start < 0 || start > len(text) {
		return nil, nil
	}

	last := len(text)
	if s.anchored {
		// A leading ^ can only succeed at offset 0.
		if start > 0 {
			return nil, nil
		}
		last = 0
	}

	for off := start; off <= last; off++ {
		if s.pf != nil {
			cand := s.pf.Find(text, off)
			if cand < 0 || cand > last {
				return nil, nil
			}
			off = cand
		}

		m := &machine{
			input: text,
			caps:  newCaptures(s.groups),
			limit: s.stepLimit,
		}
		end := -1
		ok := m.matchNode(s.root, off, func(pos int) bool {
			end = pos
			return true
		})
		if m.exhausted {
			return nil, ErrResourceExhausted
		}
		if ok {
			m.caps.spans[0] = Span{Start: off, End: end}
			return &Result{Start: off, End: end, Caps: m.caps}, nil
		}
	}
	return nil, nil
}

// startAnchored reports whether every match of n must begin at offset 0,
// i.e. the pattern opens with ^ along all paths. Used only to prune the
// start-offset scan.
func startAnchored(n syntax.Node) bool {
	switch n := n.(type) {
	case *syntax.StartAnchor:
		return true
	case *syntax.Concat:
		return startAnchored(n.Subs[0])
	case *syntax.Group:
		return startAnchored(n.Sub)
	case *syntax.Alternation:
		for _, sub := range n.Subs {
			if !startAnchored(sub) {
				return false
			}
		}
		return true
	case *syntax.Quantified:
		return n.Min >= 1 && startAnchored(n.Sub)
	default:
		return false
	}
}

package literal

import (
	"unicode/utf8"

	"github.com/btgrep/btgrep/syntax"
)

const (
	// maxLiterals bounds the number of prefix literals extracted from one
	// pattern; beyond this a prefilter stops paying for itself.
	maxLiterals = 64

	// maxSetExpansion bounds how large a character set may be before it is
	// treated as unenumerable.
	maxSetExpansion = 8

	// maxLiteralLen bounds the length of any single extracted literal.
	maxLiteralLen = 32
)

// ExtractPrefixes walks the AST and returns the set of literals a match
// can start with. The result is infinite when prefixes cannot be
// enumerated; callers should then search without a prefilter.
func ExtractPrefixes(n syntax.Node) *Seq {
	return extract(n)
}

func extract(n syntax.Node) *Seq {
	switch n := n.(type) {
	case *syntax.Literal:
		return NewSeq(Literal{Bytes: runeBytes(n.Rune), Complete: true})

	case *syntax.CharSet:
		if n.Negated || len(n.Set) > maxSetExpansion {
			return Infinite()
		}
		lits := make([]Literal, 0, len(n.Set))
		for r := range n.Set {
			lits = append(lits, Literal{Bytes: runeBytes(r), Complete: true})
		}
		return &Seq{lits: lits, finite: true}

	case *syntax.StartAnchor:
		// zero-width: contributes nothing but does not block extension
		return NewSeq(Literal{Bytes: nil, Complete: true})

	case *syntax.Group:
		return extract(n.Sub)

	case *syntax.Concat:
		cur := NewSeq(Literal{Bytes: nil, Complete: true})
		for _, sub := range n.Subs {
			cur = cur.cross(extract(sub), maxLiterals)
			if !cur.anyComplete() {
				break
			}
		}
		return clamp(cur)

	case *syntax.Alternation:
		var lits []Literal
		for _, sub := range n.Subs {
			s := extract(sub)
			if !s.IsFinite() {
				return Infinite()
			}
			lits = append(lits, s.lits...)
			if len(lits) > maxLiterals {
				return Infinite()
			}
		}
		return &Seq{lits: lits, finite: true}

	case *syntax.Quantified:
		sub := extract(n.Sub)
		if !sub.IsFinite() {
			return Infinite()
		}
		if n.Min >= 1 {
			// one mandatory iteration; further iterations freeze the prefix
			if n.Max == 1 {
				return sub
			}
			return clamp(sub.markIncomplete())
		}
		// the whole node is skippable, so the empty prefix stays complete
		// and lets the following node contribute
		skipped := Literal{Bytes: nil, Complete: true}
		taken := sub
		if n.Max != 1 {
			taken = sub.markIncomplete()
		}
		lits := make([]Literal, 0, taken.Len()+1)
		lits = append(lits, taken.lits...)
		lits = append(lits, skipped)
		return &Seq{lits: lits, finite: true}

	default:
		// AnyChar, DigitClass, WordClass, EndAnchor, Backreference
		return Infinite()
	}
}

// clamp freezes literals that grew past maxLiteralLen.
func clamp(s *Seq) *Seq {
	if !s.finite {
		return s
	}
	out := make([]Literal, len(s.lits))
	for i, l := range s.lits {
		if len(l.Bytes) > maxLiteralLen {
			out[i] = Literal{Bytes: l.Bytes[:maxLiteralLen], Complete: false}
		} else {
			out[i] = l
		}
	}
	return &Seq{lits: out, finite: true}
}

func runeBytes(r rune) []byte {
	buf := make([]byte, utf8.RuneLen(r))
	utf8.EncodeRune(buf, r)
	return buf
}

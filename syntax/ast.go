// Package syntax defines the pattern AST and the parser that produces it.
//
// A pattern string is compiled into a tree of Node values. The tree is pure
// data: it carries no matching behavior and is immutable once built, so a
// single compiled tree can back any number of concurrent searches.
//
// The dialect is a compact extended-grep subset:
//
//	a        literal character
//	.        any character
//	\d \w    digit / word classes
//	[abc]    character set, [^abc] negated
//	^ $      start / end anchors
//	ab|cd    alternation
//	(ab)     capture group, numbered left to right from 1
//	\1..\9   backreference
//	* + ?    greedy repetition
//	{n,m}    counted repetition, {n,} unbounded
//
// Character sets hold literal members only; ranges are not part of the
// dialect, so - and a leading ] are ordinary members.
package syntax

// Unbounded marks a Quantified node with no upper repetition limit.
const Unbounded = -1

// Node is a single AST node. The concrete types below form a closed set;
// the matcher dispatches on them with a type switch.
type Node interface {
	node()
}

// Literal matches exactly one character.
type Literal struct {
	Rune rune
}

// AnyChar matches any single character (the . metacharacter).
type AnyChar struct{}

// DigitClass matches an ASCII digit (\d).
type DigitClass struct{}

// WordClass matches an ASCII letter, digit, or underscore (\w).
type WordClass struct{}

// CharSet matches membership (or, when Negated, non-membership) in an
// explicit set of characters.
type CharSet struct {
	Set     map[rune]struct{}
	Negated bool
}

// StartAnchor is the zero-width ^ assertion: position 0 of the text.
type StartAnchor struct{}

// EndAnchor is the zero-width $ assertion: end of the text.
type EndAnchor struct{}

// Concat matches its children in sequence.
type Concat struct {
	Subs []Node
}

// Alternation matches if any child matches, tried in source order.
type Alternation struct {
	Subs []Node
}

// Group matches Sub and, on success, records the matched span under Index.
// Indices are assigned at parse time in the order opening parentheses
// appear, starting at 1; index 0 is reserved for the whole match.
type Group struct {
	Index int
	Sub   Node
}

// Quantified matches Sub repeated between Min and Max times, greedily.
// Max is Unbounded for *, + and {n,} forms.
type Quantified struct {
	Sub Node
	Min int
	Max int
}

// Backreference matches the text previously captured by group Index.
// The parser guarantees Index refers to a group declared in the pattern.
type Backreference struct {
	Index int
}

func (*Literal) node()       {}
func (*AnyChar) node()       {}
func (*DigitClass) node()    {}
func (*WordClass) node()     {}
func (*CharSet) node()       {}
func (*StartAnchor) node()   {}
func (*EndAnchor) node()     {}
func (*Concat) node()        {}
func (*Alternation) node()   {}
func (*Group) node()         {}
func (*Quantified) node()    {}
func (*Backreference) node() {}

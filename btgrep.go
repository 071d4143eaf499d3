// Package btgrep provides a self-contained backtracking pattern engine for
// grep-style line searching.
//
// A pattern is compiled once into an immutable syntax tree; matching walks
// the tree with a recursive backtracking engine that supports capture
// groups, backreferences, greedy quantifiers, alternation, character sets,
// and anchors. Patterns with usable literal prefixes get a prefilter that
// skips start offsets wholesale before the engine runs.
//
// Basic usage:
//
//	pat, err := btgrep.Compile(`(ab)+c`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := pat.Find([]byte("xxababc"))
//	if m != nil {
//	    fmt.Println(string(m.Text([]byte("xxababc")))) // "ababc"
//	}
//
// Matching is strictly backtracking: greedy quantifiers try the maximum
// repetition count first and alternation branches are tried in source
// order, with full unwinding on failure. This keeps backreference
// semantics exact at the cost of exponential worst-case time; every match
// attempt therefore runs under a configurable step budget and reports
// ErrResourceExhausted instead of looping forever on pathological
// patterns.
package btgrep

import (
	"errors"
	"fmt"

	"github.com/btgrep/btgrep/backtrack"
	"github.com/btgrep/btgrep/literal"
	"github.com/btgrep/btgrep/prefilter"
	"github.com/btgrep/btgrep/syntax"
)

// ErrResourceExhausted reports that a match attempt exceeded its step
// budget. It is distinct from "no match": the text may still match under a
// larger budget.
var ErrResourceExhausted = backtrack.ErrResourceExhausted

// ErrInvalidConfig indicates an invalid Config was passed to
// CompileWithConfig.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config controls compilation and matching behavior.
type Config struct {
	// StepLimit is the per-attempt backtracking step budget. Exceeding it
	// surfaces ErrResourceExhausted from FindAt.
	StepLimit int

	// DisablePrefilter turns off literal prefiltering; matching semantics
	// are unaffected.
	DisablePrefilter bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{StepLimit: backtrack.DefaultStepLimit}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.StepLimit <= 0 {
		return fmt.Errorf("%w: step limit must be positive, got %d", ErrInvalidConfig, c.StepLimit)
	}
	return nil
}

// Pattern is a compiled pattern. It is immutable and safe for concurrent
// use: every match attempt owns its own capture state.
type Pattern struct {
	expr     string
	groups   int
	searcher *backtrack.Searcher
}

// Compile compiles a pattern with the default configuration. On a syntax
// fault it returns a *syntax.ParseError identifying the kind of fault and
// its offset in the pattern.
//
// Example:
//
//	pat, err := btgrep.Compile(`(\w+)@\1`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(expr string) (*Pattern, error) {
	return CompileWithConfig(expr, DefaultConfig())
}

// MustCompile is like Compile but panics if the pattern does not compile.
// Use it for patterns known to be valid at program start.
func MustCompile(expr string) *Pattern {
	pat, err := Compile(expr)
	if err != nil {
		panic("btgrep: Compile(`" + expr + "`): " + err.Error())
	}
	return pat
}

// CompileWithConfig compiles a pattern with an explicit configuration.
//
// The pipeline is: parse to an AST, extract prefix literals, build a
// prefilter when the literals support one, then wrap everything in an
// immutable Pattern.
func CompileWithConfig(expr string, cfg Config) (*Pattern, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root, groups, err := syntax.Parse(expr)
	if err != nil {
		return nil, err
	}

	var pf prefilter.Prefilter
	if !cfg.DisablePrefilter {
		pf = prefilter.NewBuilder(literal.ExtractPrefixes(root)).Build()
	}

	return &Pattern{
		expr:     expr,
		groups:   groups,
		searcher: backtrack.NewSearcher(root, groups, cfg.StepLimit, pf),
	}, nil
}

// String returns the source text of the pattern.
func (p *Pattern) String() string {
	return p.expr
}

// GroupCount returns the number of capture groups in the pattern,
// excluding the implicit group 0 for the whole match.
func (p *Pattern) GroupCount() int {
	return p.groups
}

// FindAt returns the leftmost match beginning at or after start, or nil if
// there is none. Offsets out of [0, len(text)] yield no match. The error
// is non-nil only for ErrResourceExhausted.
func (p *Pattern) FindAt(text []byte, start int) (*Match, error) {
	res, err := p.searcher.FindAt(text, start)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	return &Match{Start: res.Start, End: res.End, caps: res.Caps}, nil
}

// Find returns the leftmost match in text, or nil if there is none.
func (p *Pattern) Find(text []byte) (*Match, error) {
	return p.FindAt(text, 0)
}

// Match reports whether text contains a match of the pattern.
func (p *Pattern) Match(text []byte) (bool, error) {
	m, err := p.Find(text)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

// MatchString reports whether s contains a match of the pattern.
func (p *Pattern) MatchString(s string) (bool, error) {
	return p.Match([]byte(s))
}

// Match is a successful match: the overall span plus the capture spans,
// all byte offsets into the searched text.
type Match struct {
	Start int
	End   int
	caps  *backtrack.Captures
}

// Group returns the span captured by group i (1-based; 0 is the whole
// match). ok is false when the group did not participate in the match.
func (m *Match) Group(i int) (start, end int, ok bool) {
	span, ok := m.caps.Get(i)
	if !ok {
		return 0, 0, false
	}
	return span.Start, span.End, true
}

// GroupText returns the text captured by group i, or nil when the group
// did not participate in the match.
func (m *Match) GroupText(text []byte, i int) []byte {
	start, end, ok := m.Group(i)
	if !ok {
		return nil
	}
	return text[start:end]
}

// Text returns the overall matched substring of text.
func (m *Match) Text(text []byte) []byte {
	return text[m.Start:m.End]
}

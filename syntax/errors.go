package syntax

import (
	"errors"
	"fmt"
)

// Parse error kinds. Every parser failure wraps one of these, so callers can
// classify errors with errors.Is.
var (
	// ErrUnbalancedDelimiter indicates an unmatched (, ) or unterminated [.
	ErrUnbalancedDelimiter = errors.New("unbalanced delimiter")

	// ErrInvalidQuantifier indicates a malformed repetition: non-numeric
	// {n,m} bounds, max < min, or a quantifier with nothing to repeat.
	ErrInvalidQuantifier = errors.New("invalid quantifier")

	// ErrDanglingEscape indicates a backslash at the end of the pattern.
	ErrDanglingEscape = errors.New("dangling escape")

	// ErrUnknownEscape indicates an unrecognized escape sequence.
	ErrUnknownEscape = errors.New("unknown escape")

	// ErrEmptyExpression indicates an empty pattern, group, or
	// alternation branch.
	ErrEmptyExpression = errors.New("empty expression")

	// ErrBadBackreference indicates a backreference to a capture group
	// that is not declared anywhere in the pattern.
	ErrBadBackreference = errors.New("bad backreference")
)

// ParseError describes a syntax fault in a pattern. Pos is the byte offset
// of the fault in Expr.
type ParseError struct {
	Expr string
	Pos  int
	Kind error
	Msg  string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s at offset %d", e.Expr, e.Msg, e.Pos)
}

// Unwrap returns the error kind, one of the Err* sentinels above.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

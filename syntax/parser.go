package syntax

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse compiles a pattern string into an AST. It returns the root node and
// the number of capture groups declared in the pattern. On failure it
// returns a *ParseError carrying the byte offset of the fault.
//
// All syntax validation happens here: balanced delimiters, quantifier
// ranges, escape sequences, and backreference resolution. A pattern that
// parses cleanly never produces a syntax fault at match time.
func Parse(expr string) (Node, int, error) {
	p := &parser{expr: expr}

	root, err := p.alternation()
	if err != nil {
		return nil, 0, err
	}
	if p.pos < len(p.expr) {
		// alternation only stops early on an unconsumed ')'
		return nil, 0, p.fault(p.pos, ErrUnbalancedDelimiter, "unmatched )")
	}

	// Backreferences may point forward, so they are resolved against the
	// final group count rather than during the scan.
	for _, ref := range p.refs {
		if ref.index > p.groups {
			return nil, 0, p.fault(ref.pos, ErrBadBackreference,
				"backreference \\"+strconv.Itoa(ref.index)+" has no capture group")
		}
	}
	return root, p.groups, nil
}

type backref struct {
	index int
	pos   int
}

type parser struct {
	expr   string
	pos    int
	groups int
	refs   []backref
}

func (p *parser) fault(pos int, kind error, msg string) error {
	return &ParseError{Expr: p.expr, Pos: pos, Kind: kind, Msg: msg}
}

// alternation := concat ('|' concat)*
func (p *parser) alternation() (Node, error) {
	first, err := p.concat()
	if err != nil {
		return nil, err
	}
	subs := []Node{first}
	for p.pos < len(p.expr) && p.expr[p.pos] == '|' {
		p.pos++
		next, err := p.concat()
		if err != nil {
			return nil, err
		}
		subs = append(subs, next)
	}
	if len(subs) == 1 {
		return first, nil
	}
	return &Alternation{Subs: subs}, nil
}

// concat := repeat+
func (p *parser) concat() (Node, error) {
	var subs []Node
	for p.pos < len(p.expr) {
		if c := p.expr[p.pos]; c == '|' || c == ')' {
			break
		}
		sub, err := p.repeat()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if len(subs) == 0 {
		return nil, p.fault(p.pos, ErrEmptyExpression, "missing expression")
	}
	if len(subs) == 1 {
		return subs[0], nil
	}
	return &Concat{Subs: subs}, nil
}

// repeat := atom quantifier*
//
// Quantifiers bind to the immediately preceding atom. Stacked quantifiers
// ("a?*") apply outward, each wrapping the previous result.
func (p *parser) repeat() (Node, error) {
	atom, err := p.atom()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.expr) {
		switch p.expr[p.pos] {
		case '*':
			atom = &Quantified{Sub: atom, Min: 0, Max: Unbounded}
			p.pos++
		case '+':
			atom = &Quantified{Sub: atom, Min: 1, Max: Unbounded}
			p.pos++
		case '?':
			atom = &Quantified{Sub: atom, Min: 0, Max: 1}
			p.pos++
		case '{':
			atom, err = p.countedRepeat(atom)
			if err != nil {
				return nil, err
			}
		default:
			return atom, nil
		}
	}
	return atom, nil
}

func (p *parser) atom() (Node, error) {
	switch c := p.expr[p.pos]; c {
	case '*', '+', '?', '{':
		return nil, p.fault(p.pos, ErrInvalidQuantifier, "quantifier has nothing to repeat")
	case '(':
		return p.group()
	case '[':
		return p.charSet()
	case '.':
		p.pos++
		return &AnyChar{}, nil
	case '^':
		p.pos++
		return &StartAnchor{}, nil
	case '$':
		p.pos++
		return &EndAnchor{}, nil
	case '\\':
		return p.escape()
	default:
		r, w := utf8.DecodeRuneInString(p.expr[p.pos:])
		p.pos += w
		return &Literal{Rune: r}, nil
	}
}

func (p *parser) group() (Node, error) {
	open := p.pos
	p.pos++
	p.groups++
	index := p.groups

	sub, err := p.alternation()
	if err != nil {
		return nil, err
	}
	if p.pos >= len(p.expr) || p.expr[p.pos] != ')' {
		return nil, p.fault(open, ErrUnbalancedDelimiter, "missing closing )")
	}
	p.pos++
	return &Group{Index: index, Sub: sub}, nil
}

// charSet parses [abc] and [^abc]. A ] as the first member (after the
// optional ^) is a literal member, as is -; the dialect has no ranges.
func (p *parser) charSet() (Node, error) {
	open := p.pos
	p.pos++

	negated := false
	if p.pos < len(p.expr) && p.expr[p.pos] == '^' {
		negated = true
		p.pos++
	}

	set := make(map[rune]struct{})
	first := true
	for {
		if p.pos >= len(p.expr) {
			return nil, p.fault(open, ErrUnbalancedDelimiter, "missing closing ]")
		}
		r, w := utf8.DecodeRuneInString(p.expr[p.pos:])
		if r == ']' && !first {
			p.pos++
			return &CharSet{Set: set, Negated: negated}, nil
		}
		set[r] = struct{}{}
		first = false
		p.pos += w
	}
}

func (p *parser) escape() (Node, error) {
	open := p.pos
	p.pos++
	if p.pos >= len(p.expr) {
		return nil, p.fault(open, ErrDanglingEscape, "pattern ends with a bare backslash")
	}

	r, w := utf8.DecodeRuneInString(p.expr[p.pos:])
	p.pos += w
	switch {
	case r == 'd':
		return &DigitClass{}, nil
	case r == 'w':
		return &WordClass{}, nil
	case r >= '1' && r <= '9':
		index := int(r - '0')
		p.refs = append(p.refs, backref{index: index, pos: open})
		return &Backreference{Index: index}, nil
	case unicode.IsLetter(r) || unicode.IsDigit(r):
		return nil, p.fault(open, ErrUnknownEscape, "unknown escape \\"+string(r))
	default:
		// escaped metacharacter or punctuation matches itself
		return &Literal{Rune: r}, nil
	}
}

// countedRepeat parses {n}, {n,} and {n,m} applied to atom.
func (p *parser) countedRepeat(atom Node) (Node, error) {
	open := p.pos
	p.pos++

	end := strings.IndexByte(p.expr[p.pos:], '}')
	if end < 0 {
		return nil, p.fault(open, ErrInvalidQuantifier, "missing closing }")
	}
	body := p.expr[p.pos : p.pos+end]
	p.pos += end + 1

	minPart, maxPart, comma := strings.Cut(body, ",")
	min, err := strconv.Atoi(minPart)
	if err != nil || min < 0 {
		return nil, p.fault(open, ErrInvalidQuantifier, "non-numeric repetition bound")
	}
	if !comma {
		return &Quantified{Sub: atom, Min: min, Max: min}, nil
	}
	if maxPart == "" {
		return &Quantified{Sub: atom, Min: min, Max: Unbounded}, nil
	}
	max, err := strconv.Atoi(maxPart)
	if err != nil || max < 0 {
		return nil, p.fault(open, ErrInvalidQuantifier, "non-numeric repetition bound")
	}
	if max < min {
		return nil, p.fault(open, ErrInvalidQuantifier, "repetition maximum below minimum")
	}
	return &Quantified{Sub: atom, Min: min, Max: max}, nil
}

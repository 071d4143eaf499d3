// Package literal extracts literal prefixes from a pattern AST.
//
// A prefix literal is a byte string that some match of the pattern can
// start with. When extraction is exact — every possible match starts with
// one of the extracted literals — the sequence can seed a prefilter that
// skips start offsets wholesale. Extraction gives up (returning an
// infinite sequence) as soon as it meets a construct whose prefixes it
// cannot enumerate: unrestricted character classes, backreferences, end
// anchors mid-pattern, and the like.
package literal

// Literal is one extracted byte string. Complete means the literal covers
// an entire match of the node it came from, so it can still be extended by
// whatever follows; incomplete literals are frozen as-is.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// Seq is an ordered set of prefix literals. The zero distinction that
// matters to callers is finite vs infinite: an infinite Seq means "no
// useful literals", not "matches nothing".
type Seq struct {
	lits   []Literal
	finite bool
}

// NewSeq returns a finite sequence of the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{lits: lits, finite: true}
}

// Infinite returns the sequence representing "prefixes not enumerable".
func Infinite() *Seq {
	return &Seq{finite: false}
}

// IsFinite reports whether the sequence enumerates every possible prefix.
func (s *Seq) IsFinite() bool {
	return s.finite
}

// Len returns the number of literals. Infinite sequences have length 0.
func (s *Seq) Len() int {
	return len(s.lits)
}

// Get returns the i-th literal.
func (s *Seq) Get(i int) Literal {
	return s.lits[i]
}

// HasEmpty reports whether any literal is the empty string. An empty
// literal makes the sequence useless for prefiltering: every position is
// a candidate.
func (s *Seq) HasEmpty() bool {
	for _, l := range s.lits {
		if len(l.Bytes) == 0 {
			return true
		}
	}
	return false
}

// markIncomplete returns s with every literal flagged incomplete, stopping
// further extension by cross products.
func (s *Seq) markIncomplete() *Seq {
	out := make([]Literal, len(s.lits))
	for i, l := range s.lits {
		out[i] = Literal{Bytes: l.Bytes, Complete: false}
	}
	return &Seq{lits: out, finite: s.finite}
}

// anyComplete reports whether any literal is still extensible.
func (s *Seq) anyComplete() bool {
	for _, l := range s.lits {
		if l.Complete {
			return true
		}
	}
	return false
}

// cross appends each literal of next to each complete literal of s;
// incomplete literals pass through frozen. When the result would exceed
// maxLiterals, s is returned with all literals frozen instead.
func (s *Seq) cross(next *Seq, maxLiterals int) *Seq {
	if !next.finite {
		return s.markIncomplete()
	}
	size := 0
	for _, a := range s.lits {
		if a.Complete {
			size += next.Len()
		} else {
			size++
		}
	}
	if size > maxLiterals {
		return s.markIncomplete()
	}
	out := make([]Literal, 0, size)
	for _, a := range s.lits {
		if !a.Complete {
			out = append(out, a)
			continue
		}
		for _, b := range next.lits {
			joined := make([]byte, 0, len(a.Bytes)+len(b.Bytes))
			joined = append(joined, a.Bytes...)
			joined = append(joined, b.Bytes...)
			out = append(out, Literal{Bytes: joined, Complete: b.Complete})
		}
	}
	return &Seq{lits: out, finite: true}
}

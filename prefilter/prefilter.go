// Package prefilter provides fast candidate filtering for the backtracking
// search using extracted prefix literals.
//
// A prefilter scans the text for positions where a match could begin. The
// backtracker then verifies only those positions instead of attempting a
// match at every offset. A prefilter never decides a match on its own: a
// reported candidate still has to be verified, and a miss is authoritative
// only because extraction was exact (every possible match starts with one
// of the literals).
//
// The builder selects a strategy from the shape of the literal sequence:
//   - single one-byte literal: bytes.IndexByte
//   - single literal: bytes.Index
//   - several literals: Aho-Corasick automaton
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/btgrep/btgrep/literal"
)

// Prefilter reports candidate match start positions.
type Prefilter interface {
	// Find returns the first candidate position at or after start, or -1
	// if no candidate exists. start must be in [0, len(haystack)].
	Find(haystack []byte, start int) int
}

// Builder selects and constructs a Prefilter from extracted literals.
type Builder struct {
	seq *literal.Seq
}

// NewBuilder returns a builder over the given prefix literal sequence.
func NewBuilder(seq *literal.Seq) *Builder {
	return &Builder{seq: seq}
}

// Build returns a prefilter for the sequence, or nil when the sequence
// cannot support one (not exact, empty, or containing an empty literal —
// an empty literal would make every position a candidate).
func (b *Builder) Build() Prefilter {
	seq := b.seq
	if seq == nil || !seq.IsFinite() || seq.Len() == 0 || seq.HasEmpty() {
		return nil
	}

	if seq.Len() == 1 {
		lit := seq.Get(0).Bytes
		if len(lit) == 1 {
			return &memchrFilter{b: lit[0]}
		}
		return &memmemFilter{needle: lit}
	}

	builder := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		builder.AddPattern(seq.Get(i).Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoCorasickFilter{auto: auto}
}

// memchrFilter finds candidates for a single-byte literal.
type memchrFilter struct {
	b byte
}

func (f *memchrFilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	i := bytes.IndexByte(haystack[start:], f.b)
	if i < 0 {
		return -1
	}
	return start + i
}

// memmemFilter finds candidates for a single multi-byte literal.
type memmemFilter struct {
	needle []byte
}

func (f *memmemFilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	i := bytes.Index(haystack[start:], f.needle)
	if i < 0 {
		return -1
	}
	return start + i
}

// ahoCorasickFilter finds candidates for a set of literals with a single
// automaton pass.
type ahoCorasickFilter struct {
	auto *ahocorasick.Automaton
}

func (f *ahoCorasickFilter) Find(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	m := f.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

package backtrack

import (
	"errors"
	"testing"

	"github.com/btgrep/btgrep/syntax"
)

// find compiles expr and searches text from offset 0 with no prefilter.
func find(t *testing.T, expr, text string) (*Result, error) {
	t.Helper()
	root, groups, err := syntax.Parse(expr)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", expr, err)
	}
	return NewSearcher(root, groups, 0, nil).FindAt([]byte(text), 0)
}

func mustFind(t *testing.T, expr, text string) *Result {
	t.Helper()
	res, err := find(t, expr, text)
	if err != nil {
		t.Fatalf("FindAt(%q, %q) error: %v", expr, text, err)
	}
	if res == nil {
		t.Fatalf("FindAt(%q, %q) = no match, want match", expr, text)
	}
	return res
}

func mustNotFind(t *testing.T, expr, text string) {
	t.Helper()
	res, err := find(t, expr, text)
	if err != nil {
		t.Fatalf("FindAt(%q, %q) error: %v", expr, text, err)
	}
	if res != nil {
		t.Fatalf("FindAt(%q, %q) = [%d,%d), want no match", expr, text, res.Start, res.End)
	}
}

func TestFindSpans(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		text  string
		start int
		end   int
	}{
		{"literal inside text", "abc", "xxabcxx", 2, 5},
		{"leftmost match wins", "a", "bbabba", 2, 3},
		{"greedy counted repetition", "a{2,3}", "aaaa", 0, 3},
		{"greedy star backtracks for suffix", "a*ab", "aaab", 0, 4},
		{"alternation backtracks into later branch", "(a|ab)c", "abc", 0, 3},
		{"full anchors", "^abc$", "abc", 0, 3},
		{"negated class run", "[^abc]+", "xyzabc", 0, 3},
		{"wildcard", "a.c", "zaxc", 1, 4},
		{"digit class", `\d+`, "id 4217 ok", 3, 7},
		{"word class", `\w+`, "--ab_9--", 2, 6},
		{"backreference", `(ab)\1`, "abab", 0, 4},
		{"optional absent", "ab?c", "ac", 0, 2},
		{"star matches empty at start", "b*", "abc", 0, 0},
		{"end anchor empty match", "$", "ab", 2, 2},
		{"group repetition", "(ab)+", "ababx", 0, 4},
		{"multibyte literal", "héllo", "xhéllo", 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustFind(t, tt.expr, tt.text)
			if res.Start != tt.start || res.End != tt.end {
				t.Errorf("span = [%d,%d), want [%d,%d)", res.Start, res.End, tt.start, tt.end)
			}
		})
	}
}

func TestNoMatch(t *testing.T) {
	tests := []struct {
		name string
		expr string
		text string
	}{
		{"missing suffix", "abc", "ab"},
		{"backreference mismatch", `(ab)\1`, "abba"},
		{"start anchor rejects offset", "^abc", "xabc"},
		{"end anchor rejects suffix", "abc$", "abcx"},
		{"plus needs one", "ab+c", "ac"},
		{"counted minimum unmet", "a{3}", "aab"},
		{"backreference to unentered branch", `(x)|y\1`, "ya"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustNotFind(t, tt.expr, tt.text)
		})
	}
}

func TestCaptureSpans(t *testing.T) {
	t.Run("last repetition wins", func(t *testing.T) {
		res := mustFind(t, "(a)+", "aaa")
		span, ok := res.Caps.Get(1)
		if !ok {
			t.Fatal("group 1 not captured")
		}
		if span.Start != 2 || span.End != 3 {
			t.Errorf("group 1 = [%d,%d), want [2,3)", span.Start, span.End)
		}
	})

	t.Run("whole match is group zero", func(t *testing.T) {
		res := mustFind(t, "a(b)c", "xabc")
		span, ok := res.Caps.Get(0)
		if !ok || span.Start != 1 || span.End != 4 {
			t.Errorf("group 0 = %+v ok=%v, want [1,4)", span, ok)
		}
	})

	t.Run("failed branch rolls back its captures", func(t *testing.T) {
		res := mustFind(t, "(a)b|(a)c", "ac")
		if _, ok := res.Caps.Get(1); ok {
			t.Error("group 1 should be unset after its branch failed")
		}
		span, ok := res.Caps.Get(2)
		if !ok || span.Start != 0 || span.End != 1 {
			t.Errorf("group 2 = %+v ok=%v, want [0,1)", span, ok)
		}
	})

	t.Run("zero-width repetition records an empty capture", func(t *testing.T) {
		// The single zero-width iteration of the inner star is taken, so
		// group 1 holds an empty span rather than staying unset.
		res := mustFind(t, "(a*)*", "b")
		span, ok := res.Caps.Get(1)
		if !ok || span.Start != 0 || span.End != 0 {
			t.Errorf("group 1 = %+v ok=%v, want [0,0)", span, ok)
		}
	})

	t.Run("group in untaken optional stays unset", func(t *testing.T) {
		res := mustFind(t, "(x)?y", "y")
		if _, ok := res.Caps.Get(1); ok {
			t.Error("group 1 should be unset when the optional was skipped")
		}
	})
}

func TestZeroWidthRepetitionTerminates(t *testing.T) {
	tests := []struct {
		name string
		expr string
		text string
	}{
		{"star of star", "(a*)*", "b"},
		{"star of optional", "(a?)+", "b"},
		{"anchor under plus", "(^)+a", "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := mustFind(t, tt.expr, tt.text); res.Start != 0 {
				t.Errorf("start = %d, want 0", res.Start)
			}
		})
	}
}

func TestFindAtOffsets(t *testing.T) {
	root, groups, err := syntax.Parse("ab")
	if err != nil {
		t.Fatal(err)
	}
	s := NewSearcher(root, groups, 0, nil)
	text := []byte("abxab")

	res, err := s.FindAt(text, 1)
	if err != nil || res == nil || res.Start != 3 {
		t.Errorf("FindAt from 1 = %+v, %v, want start 3", res, err)
	}

	res, err = s.FindAt(text, 4)
	if err != nil || res != nil {
		t.Errorf("FindAt from 4 = %+v, %v, want no match", res, err)
	}

	res, err = s.FindAt(text, -1)
	if err != nil || res != nil {
		t.Errorf("FindAt from -1 = %+v, %v, want no match", res, err)
	}

	res, err = s.FindAt(text, len(text)+1)
	if err != nil || res != nil {
		t.Errorf("FindAt past end = %+v, %v, want no match", res, err)
	}
}

func TestDeterminism(t *testing.T) {
	for i := 0; i < 5; i++ {
		res := mustFind(t, "(a|ab)+c", "aababc")
		if res.Start != 0 || res.End != 6 {
			t.Fatalf("run %d: span = [%d,%d), want [0,6)", i, res.Start, res.End)
		}
	}
}

func TestStepBudget(t *testing.T) {
	root, groups, err := syntax.Parse("(a+)+b")
	if err != nil {
		t.Fatal(err)
	}
	text := []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa") // no b: exponential blowup

	s := NewSearcher(root, groups, 1000, nil)
	_, err = s.FindAt(text, 0)
	if !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("error = %v, want ErrResourceExhausted", err)
	}

	// The same pattern against matchable input stays well under the budget.
	s = NewSearcher(root, groups, 1000, nil)
	res, err := s.FindAt([]byte("aaab"), 0)
	if err != nil || res == nil {
		t.Fatalf("matchable input: res=%+v err=%v", res, err)
	}
}

func TestStartAnchoredPruning(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{"^abc", true},
		{"(^a|^b)", true},
		{"(^a)+", true},
		{"abc", false},
		{"a^b", false},
		{"(^a|b)", false},
		{"(^a)*", false},
	}
	for _, tt := range tests {
		root, _, err := syntax.Parse(tt.expr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.expr, err)
		}
		if got := startAnchored(root); got != tt.want {
			t.Errorf("startAnchored(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

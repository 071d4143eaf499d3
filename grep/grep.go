// Package grep implements the line-oriented search driver on top of the
// pattern engine: it owns reading, per-line match iteration, highlighting,
// filename prefixes, and recursive traversal. The engine below it only
// ever sees one line at a time.
package grep

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/btgrep/btgrep"
)

// Options configures a Searcher.
type Options struct {
	// OnlyMatching prints each match on its own line instead of the whole
	// matching line (-o).
	OnlyMatching bool

	// Recursive descends into directories (-r).
	Recursive bool

	// Include, when non-empty, restricts file searches to base names
	// matching this glob (--include).
	Include string

	// Color highlights match regions in bold red. Callers resolve
	// always/never/auto to a boolean before constructing the Searcher.
	Color bool
}

// Searcher runs a compiled pattern over lines of input and writes matching
// output. It is not safe for concurrent use of a single instance.
type Searcher struct {
	pat       *btgrep.Pattern
	opts      Options
	log       *zap.Logger
	highlight *color.Color
}

// NewSearcher builds a Searcher. log may be nil, in which case warnings
// are dropped.
func NewSearcher(pat *btgrep.Pattern, opts Options, log *zap.Logger) *Searcher {
	if log == nil {
		log = zap.NewNop()
	}
	// grep's default match color: bold red (01;31)
	hl := color.New(color.FgRed, color.Bold)
	if opts.Color {
		hl.EnableColor()
	} else {
		hl.DisableColor()
	}
	return &Searcher{pat: pat, opts: opts, log: log, highlight: hl}
}

// SearchReader scans r line by line and writes matching output to w. name
// labels the input in warnings and, when withName is true, prefixes every
// output line. It reports whether any line matched.
func (s *Searcher) SearchReader(r io.Reader, name string, w io.Writer, withName bool) (bool, error) {
	prefix := ""
	if withName && name != "" {
		prefix = name + ":"
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	matched := false
	lineno := 0
	for sc.Scan() {
		lineno++
		line := sc.Bytes()
		spans := s.lineSpans(line, name, lineno)
		if len(spans) == 0 {
			continue
		}
		matched = true
		if err := s.writeLine(w, prefix, line, spans); err != nil {
			return matched, err
		}
	}
	if err := sc.Err(); err != nil {
		return matched, errors.Wrapf(err, "reading %s", name)
	}
	return matched, nil
}

// lineSpans collects all non-overlapping match spans on one line, leftmost
// first, advancing past empty matches by one byte. A step-budget blowup on
// a line is warned and ends that line's scan; spans found before the
// blowup are kept.
func (s *Searcher) lineSpans(line []byte, name string, lineno int) [][2]int {
	var spans [][2]int
	at := 0
	for at <= len(line) {
		m, err := s.pat.FindAt(line, at)
		if err != nil {
			s.log.Warn("skipping rest of line: pattern too expensive",
				zap.String("file", name),
				zap.Int("line", lineno),
				zap.Error(err))
			break
		}
		if m == nil {
			break
		}
		spans = append(spans, [2]int{m.Start, m.End})
		if m.End == m.Start {
			at = m.End + 1
		} else {
			at = m.End
		}
	}
	return spans
}

// writeLine emits output for one matching line: each match on its own line
// with OnlyMatching, otherwise the whole line with match regions
// highlighted.
func (s *Searcher) writeLine(w io.Writer, prefix string, line []byte, spans [][2]int) error {
	if s.opts.OnlyMatching {
		for _, sp := range spans {
			if _, err := fmt.Fprintf(w, "%s%s\n", prefix, s.highlight.Sprint(string(line[sp[0]:sp[1]]))); err != nil {
				return err
			}
		}
		return nil
	}

	var buf bytes.Buffer
	last := 0
	for _, sp := range spans {
		buf.Write(line[last:sp[0]])
		buf.WriteString(s.highlight.Sprint(string(line[sp[0]:sp[1]])))
		last = sp[1]
	}
	buf.Write(line[last:])
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, buf.String())
	return err
}

// SearchPaths searches the given files and, with Recursive, directory
// trees. Filename prefixes appear when searching recursively or when more
// than one file is involved. Unreadable files are warned and skipped; the
// scan continues. It reports whether anything matched.
func (s *Searcher) SearchPaths(paths []string, w io.Writer) (bool, error) {
	files := s.collectFiles(paths)
	withName := s.opts.Recursive || len(files) > 1

	matched := false
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			s.log.Warn("skipping unreadable file", zap.Error(errors.Wrap(err, "open")))
			continue
		}
		ok, serr := s.SearchReader(f, path, w, withName)
		f.Close()
		if ok {
			matched = true
		}
		if serr != nil {
			return matched, serr
		}
	}
	return matched, nil
}

// Command btgrep is a grep-style line searcher built on the btgrep
// pattern engine.
//
// Exit status follows grep: 0 when at least one line matched, 1 when
// nothing matched, 2 on a usage, pattern, or I/O error.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/btgrep/btgrep"
	"github.com/btgrep/btgrep/grep"
)

func main() {
	var matched bool
	cmd := newRootCmd(&matched)
	if err := cmd.Execute(); err != nil {
		os.Exit(2)
	}
	if !matched {
		os.Exit(1)
	}
}

type flags struct {
	pattern     string
	fixed       bool
	onlyMatch   bool
	recursive   bool
	colorWhen   string
	includeGlob string
}

func newRootCmd(matched *bool) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "btgrep -E pattern [path ...]",
		Short:         "search lines with a backtracking pattern engine",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := run(f, args, cmd.OutOrStdout())
			*matched = ok
			return err
		},
	}
	cmd.Flags().StringVarP(&f.pattern, "regexp", "E", "", "pattern to search for")
	cmd.Flags().BoolVarP(&f.fixed, "fixed-string", "F", false, "treat the pattern as a literal string")
	cmd.Flags().BoolVarP(&f.onlyMatch, "only-matching", "o", false, "print only the matched parts of lines")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "search directories recursively")
	cmd.Flags().StringVar(&f.colorWhen, "color", "never", "highlight matches: always, never, or auto")
	cmd.Flags().StringVar(&f.includeGlob, "include", "", "search only files whose base name matches this glob")
	return cmd
}

func run(f flags, paths []string, out io.Writer) (bool, error) {
	if f.pattern == "" {
		return false, fmt.Errorf("missing pattern: use -E")
	}
	if f.includeGlob != "" && !doublestar.ValidatePattern(f.includeGlob) {
		return false, fmt.Errorf("invalid --include glob %q", f.includeGlob)
	}

	expr := f.pattern
	if f.fixed {
		expr = btgrep.QuoteMeta(expr)
	}
	pat, err := btgrep.Compile(expr)
	if err != nil {
		return false, err
	}

	useColor, err := resolveColor(f.colorWhen)
	if err != nil {
		return false, err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return false, err
	}
	defer logger.Sync() //nolint:errcheck

	searcher := grep.NewSearcher(pat, grep.Options{
		OnlyMatching: f.onlyMatch,
		Recursive:    f.recursive,
		Include:      f.includeGlob,
		Color:        useColor,
	}, logger)

	if len(paths) == 0 {
		return searcher.SearchReader(os.Stdin, "(standard input)", out, false)
	}
	return searcher.SearchPaths(paths, out)
}

func resolveColor(when string) (bool, error) {
	switch when {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return isatty.IsTerminal(os.Stdout.Fd()), nil
	default:
		return false, fmt.Errorf("invalid --color value %q", when)
	}
}

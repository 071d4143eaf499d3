package grep

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// collectFiles expands the given paths to the concrete files to search.
// Plain files are kept as-is (subject to the include glob); directories
// are walked only when Recursive is set, matching grep's behavior of
// ignoring directories otherwise.
func (s *Searcher) collectFiles(paths []string) []string {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			s.log.Warn("skipping path", zap.String("path", p), zap.Error(err))
			continue
		}
		switch {
		case info.IsDir() && s.opts.Recursive:
			files = append(files, s.walkDir(p)...)
		case info.IsDir():
			s.log.Warn("ignoring directory without -r", zap.String("path", p))
		case s.includes(p):
			files = append(files, p)
		}
	}
	return files
}

func (s *Searcher) walkDir(root string) []string {
	var files []string
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsRegular() && s.includes(path) {
				files = append(files, path)
			}
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			s.log.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			return godirwalk.SkipNode
		},
		Unsorted: false,
	})
	if err != nil {
		s.log.Warn("walk failed", zap.String("path", root), zap.Error(err))
	}
	return files
}

// includes applies the --include glob against the file's base name.
func (s *Searcher) includes(path string) bool {
	if s.opts.Include == "" {
		return true
	}
	ok, err := doublestar.Match(s.opts.Include, filepath.Base(path))
	if err != nil {
		// a bad glob was rejected at CLI setup; treat as no filter
		return true
	}
	return ok
}

// Package grouping scans a source directory and buckets exported halves by year-page identifier.
package grouping

import (
	"os"
	"path/filepath"

	"github.com/nmrenyi/rosenwald-benchmark/internal/identifier"
	"github.com/nmrenyi/rosenwald-benchmark/internal/types"
)

// DefaultPattern selects the exported tab-separated files.
const DefaultPattern = "*.tsv"

// Group lists sourceDir, keeps regular files whose name matches pattern and
// buckets them by the identifier found after prefixLength characters.
// Files are visited in lexical name order; names without an identifier are
// dropped silently. File contents are never opened.
func Group(sourceDir, pattern string, prefixLength int) (*types.Groups, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, &ScanError{Dir: sourceDir, Message: "invalid file pattern " + pattern, Cause: err}
	}

	// os.ReadDir returns entries sorted by filename.
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, &ScanError{Dir: sourceDir, Message: "failed to read source directory", Cause: err}
	}

	groups := types.NewGroups()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !matches(pattern, name) {
			continue
		}
		id, ok := identifier.Extract(name, prefixLength)
		if !ok {
			continue
		}
		groups.Add(id, filepath.Join(sourceDir, name))
	}
	return groups, nil
}

// matches applies shell-style matching. Names starting with a dot are not
// special: "*.tsv" matches ".a.tsv".
func matches(pattern, name string) bool {
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}

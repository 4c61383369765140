package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ExpandGlobs expands log file arguments into a sorted, deduplicated list of
// paths. Directories matched by a pattern are dropped. A pattern matching
// nothing is kept as a literal path so that opening it reports the missing
// file by name.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			add(pattern)
			continue
		}

		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && info.IsDir() {
				continue
			}
			add(match)
		}
	}

	sort.Strings(result)
	return result, nil
}

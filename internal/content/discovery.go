// Package content discovers page folders and loads the documents, styles and
// scripts they hold.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ContentFile is the document that marks a directory as a page.
const ContentFile = "content.json"

// FindPages returns the sorted names of root's immediate sub-directories that
// hold a content.json, skipping names matched by any exclude pattern.
func FindPages(root string, exclude []string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}

	var pages []string
	for _, e := range entries {
		if !e.IsDir() || MatchesExclude(e.Name(), exclude) {
			continue
		}
		info, err := os.Stat(filepath.Join(root, e.Name(), ContentFile))
		if err != nil || info.IsDir() {
			continue
		}
		pages = append(pages, e.Name())
	}
	sort.Strings(pages)
	return pages, nil
}

// MatchesExclude reports whether relPath matches any of the glob patterns,
// either as a whole or by its base name.
func MatchesExclude(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	base := filepath.Base(normalized)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// ValidName reports whether name can address a page folder directly under
// the root.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

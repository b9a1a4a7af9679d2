package scan

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skipReason explains why the walk passed over an entry. Used for
// statistics and debug logging only.
type skipReason string

const (
	skipExcluded    skipReason = "excluded"
	skipNotIncluded skipReason = "not-included"
	skipTooSmall    skipReason = "too-small"
	skipSymlink     skipReason = "symlink"
	skipNotNote     skipReason = "not-a-note"
)

// accepts decides whether a regular file at relPath with the given size
// passes the configured filters.
func (c *Config) accepts(relPath string, size int64) (bool, skipReason) {
	slashPath := filepath.ToSlash(relPath)

	for _, pattern := range c.Exclude {
		if matched, _ := doublestar.Match(pattern, slashPath); matched {
			return false, skipExcluded
		}
	}

	if len(c.Include) > 0 {
		included := false
		for _, pattern := range c.Include {
			if matched, _ := doublestar.Match(pattern, slashPath); matched {
				included = true
				break
			}
		}
		if !included {
			return false, skipNotIncluded
		}
	}

	if c.Notes && !c.isNote(relPath) {
		return false, skipNotNote
	}

	if size < c.MinSize {
		return false, skipTooSmall
	}

	return true, ""
}

// isNote reports whether the path carries a note extension.
func (c *Config) isNote(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, noteExt := range c.NoteExtensions {
		if ext == noteExt {
			return true
		}
	}
	return false
}

// depthOf counts directory levels of a relative path below the root.
func depthOf(relPath string) int {
	if relPath == "." || relPath == "" {
		return 0
	}
	return strings.Count(filepath.ToSlash(relPath), "/") + 1
}

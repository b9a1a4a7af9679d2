package models

import (
	"time"
)

// Item represents a unit under duplicate comparison: a filesystem file
// or a parsed note document.
type Item struct {
	// Path is the absolute path on the filesystem
	Path string

	// RelativePath is the path relative to the scan root
	RelativePath string

	// Size in bytes
	Size int64

	// ModTime is the last modification time
	ModTime time.Time

	// Fingerprint is the hex-encoded content signature.
	// Empty until computed; immutable afterwards. An item whose content
	// changed must be re-scanned, not mutated in place.
	Fingerprint string

	// Note holds the parsed note document for note scans, nil for plain files
	Note *Note
}

// Note is a parsed markdown document with YAML frontmatter.
type Note struct {
	// Frontmatter maps frontmatter keys to their parsed values
	Frontmatter map[string]interface{}

	// Tags is the deduplicated, sorted tag set (frontmatter tags plus
	// inline #tags found in the body)
	Tags []string

	// Body is the document text after the frontmatter block
	Body string
}

// HasTag reports whether the note carries the given tag.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsNote reports whether the item is a parsed note document.
func (i *Item) IsNote() bool {
	return i.Note != nil
}

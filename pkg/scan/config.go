package scan

import (
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sdejongh/dupenorris/pkg/fingerprint"
	"github.com/sdejongh/dupenorris/pkg/models"
	"github.com/sdejongh/dupenorris/pkg/suffix"
)

// Config holds scan settings. Configuration is passed explicitly into
// each scan, never read from global state, so concurrent scans (files
// vs. notes) run with independent settings.
type Config struct {
	// Include restricts the scan to relative paths matching any of
	// these doublestar globs; empty means everything
	Include []string

	// Exclude skips relative paths matching any of these globs
	Exclude []string

	// MinSize skips files smaller than this many bytes, reducing noise
	// from trivially small files
	MinSize int64

	// FollowSymlinks fingerprints symlinked files when true. Symlinked
	// directories are never descended, to avoid walk loops.
	FollowSymlinks bool

	// MaxDepth limits directory depth below the root; 0 means unlimited
	MaxDepth int

	// Workers bounds the fingerprinting pool; 0 means GOMAXPROCS
	Workers int

	// ChunkSize is the streaming read size for hashing
	ChunkSize int

	// BandwidthLimit throttles hash reads in bytes per second; 0 means
	// unlimited
	BandwidthLimit int64

	// Notes enables note mode: only NoteExtensions files are scanned,
	// frontmatter is parsed, and fingerprints are computed over the
	// normalized document instead of raw bytes
	Notes bool

	// NoteExtensions are the file extensions treated as notes
	NoteExtensions []string

	// Patterns is the ordered suffix pattern list; nil means the
	// built-in defaults
	Patterns []suffix.Pattern
}

// DefaultConfig returns sensible scan defaults.
func DefaultConfig() Config {
	return Config{
		MinSize:        1024,
		Workers:        runtime.GOMAXPROCS(0),
		ChunkSize:      fingerprint.DefaultChunkSize,
		NoteExtensions: []string{".md", ".markdown"},
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	for _, pattern := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return &models.ValidationError{Field: "glob", Message: "invalid pattern: " + pattern}
		}
	}
	if c.MinSize < 0 {
		return &models.ValidationError{Field: "min_size", Message: "must not be negative"}
	}
	if c.MaxDepth < 0 {
		return &models.ValidationError{Field: "max_depth", Message: "must not be negative"}
	}
	if c.Workers < 0 {
		return &models.ValidationError{Field: "workers", Message: "must not be negative"}
	}
	return nil
}

// normalized fills in zero values with defaults and canonicalizes note
// extensions to lowercase dotted form, so "md" and ".MD" both match.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Workers < 1 {
		c.Workers = def.Workers
	}
	if c.ChunkSize < 1 {
		c.ChunkSize = def.ChunkSize
	}
	if len(c.NoteExtensions) == 0 {
		c.NoteExtensions = def.NoteExtensions
	}
	exts := make([]string, len(c.NoteExtensions))
	for i, ext := range c.NoteExtensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[i] = ext
	}
	c.NoteExtensions = exts
	return c
}

// matcher builds the suffix matcher for this configuration.
func (c *Config) matcher() *suffix.Matcher {
	if len(c.Patterns) > 0 {
		return suffix.NewMatcher(c.Patterns)
	}
	return suffix.NewDefaultMatcher()
}

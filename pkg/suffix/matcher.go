package suffix

import (
	"path/filepath"
)

// DefaultPatterns returns the built-in pattern list. Order is
// significant: device-specific suffixes come first, then explicit copy
// markers, then bare numeric suffixes. First match wins.
func DefaultPatterns() []Pattern {
	return []Pattern{
		// Machine-specific suffixes left behind by sync clients
		Literal("-surfacepro6"),
		MustRegexp("desktop-device", `-DESKTOP-[A-Z0-9]+`),
		Literal("-laptop"),
		// Copy markers: " copy", "-copy", "_copy", " - Copy", "copy (2)"
		MustRegexp("copy-marker", `(?i)[-_ ]+copy(?: ?\(\d+\))?`),
		// Numbered duplicates: "(1)", " (2)"
		MustRegexp("numbered-parens", ` ?\(\d+\)`),
		// Bare numeric suffixes: "-1", "_2", " 3"
		MustRegexp("numbered", `[-_ ]\d+`),
	}
}

// Matcher canonicalizes filenames against an ordered pattern list.
type Matcher struct {
	patterns []Pattern
}

// NewMatcher creates a matcher evaluating the given patterns in order.
// Pattern order is caller-controlled and significant.
func NewMatcher(patterns []Pattern) *Matcher {
	return &Matcher{patterns: patterns}
}

// NewDefaultMatcher creates a matcher with the built-in patterns,
// with any extra caller patterns evaluated first.
func NewDefaultMatcher(extra ...Pattern) *Matcher {
	return &Matcher{patterns: append(extra, DefaultPatterns()...)}
}

// Canonicalize strips the first matching suffix from a filename and
// returns the base identity plus the pattern that matched, or the name
// unchanged and nil when nothing matched. The extension is preserved in
// the base so names only cluster within the same file type.
func (m *Matcher) Canonicalize(name string) (string, *Pattern) {
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]

	for i := range m.patterns {
		if stripped, ok := m.patterns[i].Strip(stem); ok {
			return stripped + ext, &m.patterns[i]
		}
	}
	return name, nil
}

// Matches reports whether the filename carries any known suffix.
func (m *Matcher) Matches(name string) bool {
	_, p := m.Canonicalize(name)
	return p != nil
}

// Package suffix detects filename conventions that indicate a file is
// likely a copy of another (" copy", "(1)", cloud-sync device suffixes)
// and canonicalizes names to a base identity used for clustering.
package suffix

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is a compiled matching rule: either a literal suffix or an
// anchored regular expression over the filename stem (name without
// extension). Matching never touches the filesystem; it is a pure
// string transform.
type Pattern struct {
	// Name identifies the pattern in reports and group metadata
	Name string

	literal string
	re      *regexp.Regexp
}

// Literal creates a pattern matching an exact trailing string.
func Literal(suffix string) Pattern {
	return Pattern{Name: suffix, literal: suffix}
}

// Regexp creates a pattern from a regular expression. The expression is
// matched against the stem and must be anchored at the end to strip a
// suffix; Compile forces a trailing $ if missing.
func Regexp(name, expr string) (Pattern, error) {
	if !strings.HasSuffix(expr, "$") {
		expr += "$"
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("invalid suffix pattern %q: %w", expr, err)
	}
	return Pattern{Name: name, re: re}, nil
}

// MustRegexp is Regexp for compile-time-known expressions.
func MustRegexp(name, expr string) Pattern {
	p, err := Regexp(name, expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Strip removes the suffix from the stem if the pattern matches.
// Returns the stripped stem and whether the pattern matched.
func (p Pattern) Strip(stem string) (string, bool) {
	if p.re != nil {
		loc := p.re.FindStringIndex(stem)
		if loc == nil || loc[0] == 0 {
			// A match consuming the whole stem would leave an empty
			// base, which cannot identify anything.
			return stem, false
		}
		return stem[:loc[0]], true
	}
	if p.literal != "" && strings.HasSuffix(stem, p.literal) && len(stem) > len(p.literal) {
		return stem[:len(stem)-len(p.literal)], true
	}
	return stem, false
}

// Parse builds a pattern from its configuration form: strings prefixed
// with "re:" compile as regular expressions, everything else is a
// literal suffix.
func Parse(spec string) (Pattern, error) {
	if expr, ok := strings.CutPrefix(spec, "re:"); ok {
		return Regexp(spec, expr)
	}
	if spec == "" {
		return Pattern{}, fmt.Errorf("empty suffix pattern")
	}
	return Literal(spec), nil
}

// ParseAll builds patterns from configuration strings, preserving order.
func ParseAll(specs []string) ([]Pattern, error) {
	patterns := make([]Pattern, 0, len(specs))
	for _, spec := range specs {
		p, err := Parse(spec)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

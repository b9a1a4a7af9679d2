package models

// Basis indicates what evidence placed items in the same group.
type Basis string

const (
	// BasisContent indicates grouping by matching content fingerprints
	BasisContent Basis = "content"
	// BasisSuffix indicates grouping by filename suffix affinity only
	BasisSuffix Basis = "suffix"
	// BasisBoth indicates both content and suffix evidence contributed
	BasisBoth Basis = "both"
)

// Confidence grades how certain the grouping is.
type Confidence string

const (
	// ConfidenceExact means all members share one content fingerprint
	ConfidenceExact Confidence = "exact"
	// ConfidenceProbable means a subset shares content, suffix affinity covers the rest
	ConfidenceProbable Confidence = "probable"
	// ConfidenceSuggested means the grouping is name-based only, with no
	// content confirmation; callers should require extra confirmation
	// before destructive action
	ConfidenceSuggested Confidence = "suggested"
)

// DuplicateGroup is an ordered set of items believed to represent the
// same logical content. A group always has at least two members and an
// item belongs to at most one group per scan.
type DuplicateGroup struct {
	// ID uniquely identifies the group within its scan
	ID string

	// Basis is the grouping evidence
	Basis Basis

	// Confidence grades the grouping
	Confidence Confidence

	// Pattern is the suffix pattern that linked members by name, if any
	Pattern string

	// Items are the members, sorted by path
	Items []*Item
}

// Paths returns the member paths in order.
func (g *DuplicateGroup) Paths() []string {
	paths := make([]string, len(g.Items))
	for i, item := range g.Items {
		paths[i] = item.Path
	}
	return paths
}

// Contains reports whether the group has a member with the given path.
func (g *DuplicateGroup) Contains(path string) bool {
	for _, item := range g.Items {
		if item.Path == path {
			return true
		}
	}
	return false
}

// WastedBytes returns the bytes that would be reclaimed if all members
// but one were removed. Only meaningful for content-confirmed groups.
func (g *DuplicateGroup) WastedBytes() int64 {
	if len(g.Items) < 2 {
		return 0
	}
	var total int64
	for _, item := range g.Items[1:] {
		total += item.Size
	}
	return total
}

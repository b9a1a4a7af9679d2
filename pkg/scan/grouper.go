package scan

import (
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/sdejongh/dupenorris/pkg/models"
	"github.com/sdejongh/dupenorris/pkg/suffix"
)

// Grouper accumulates fingerprinted items and resolves them into
// duplicate groups. It is single-writer: only the scan collector calls
// Add, so the maps need no locking.
type Grouper struct {
	matcher *suffix.Matcher

	items       []*models.Item
	bySignature map[string][]*models.Item
	byBase      map[string]*nameCluster
}

// nameCluster collects items sharing a canonical base name within one
// directory. It only becomes group evidence once at least one member
// carried a matched suffix.
type nameCluster struct {
	items      []*models.Item
	pattern    string
	suffixSeen bool
}

func (c *nameCluster) eligible() bool {
	return c.suffixSeen && len(c.items) >= 2
}

// NewGrouper creates a grouper using the given suffix matcher.
func NewGrouper(matcher *suffix.Matcher) *Grouper {
	return &Grouper{
		matcher:     matcher,
		bySignature: make(map[string][]*models.Item),
		byBase:      make(map[string]*nameCluster),
	}
}

// Add inserts a fingerprinted item into the clustering maps.
// Returns the provisional membership of any cluster the item completed
// or extended (at least two members), for progress reporting.
func (g *Grouper) Add(item *models.Item) ([]string, bool) {
	g.items = append(g.items, item)

	var updated []string

	if item.Fingerprint != "" {
		sigItems := append(g.bySignature[item.Fingerprint], item)
		g.bySignature[item.Fingerprint] = sigItems
		if len(sigItems) >= 2 {
			updated = appendPaths(updated, sigItems)
		}
	}

	base, pattern := g.matcher.Canonicalize(filepath.Base(item.Path))
	baseKey := filepath.Dir(item.Path) + "\x00" + base

	cluster, ok := g.byBase[baseKey]
	if !ok {
		cluster = &nameCluster{}
		g.byBase[baseKey] = cluster
	}
	cluster.items = append(cluster.items, item)
	if pattern != nil {
		cluster.suffixSeen = true
		if cluster.pattern == "" {
			cluster.pattern = pattern.Name
		}
	}
	if cluster.eligible() {
		updated = appendPaths(updated, cluster.items)
	}

	return updated, len(updated) > 0
}

// Finalize resolves the accumulated clusters into duplicate groups.
// Content clusters and suffix clusters overlapping on a member are
// merged into one group with basis "both", so the same pair is never
// reported twice. Items with unique signatures and no suffix affinity
// form no group.
func (g *Grouper) Finalize() []*models.DuplicateGroup {
	parent := make(map[string]string)

	var find func(string) string
	find = func(p string) string {
		root, ok := parent[p]
		if !ok || root == p {
			return p
		}
		root = find(root)
		parent[p] = root
		return root
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
		parent[ra] = ra
	}

	for _, sigItems := range g.bySignature {
		for i := 1; i < len(sigItems); i++ {
			union(sigItems[0].Path, sigItems[i].Path)
		}
	}
	suffixRoots := make(map[string]string) // component root -> pattern name
	for _, cluster := range g.byBase {
		if !cluster.eligible() {
			continue
		}
		for i := 1; i < len(cluster.items); i++ {
			union(cluster.items[0].Path, cluster.items[i].Path)
		}
	}
	for _, cluster := range g.byBase {
		if cluster.eligible() {
			suffixRoots[find(cluster.items[0].Path)] = cluster.pattern
		}
	}

	// Collect components in discovery order for determinism.
	components := make(map[string][]*models.Item)
	var order []string
	for _, item := range g.items {
		if _, ok := parent[item.Path]; !ok {
			continue // never clustered with anything
		}
		root := find(item.Path)
		if _, ok := components[root]; !ok {
			order = append(order, root)
		}
		components[root] = append(components[root], item)
	}

	var groups []*models.DuplicateGroup
	for _, root := range order {
		members := components[root]
		if len(members) < 2 {
			continue
		}

		sort.Slice(members, func(i, j int) bool {
			return members[i].Path < members[j].Path
		})

		group := &models.DuplicateGroup{
			ID:      uuid.New().String(),
			Items:   members,
			Pattern: suffixRoots[root],
		}
		group.Basis, group.Confidence = classify(members, group.Pattern != "")
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Items[0].Path < groups[j].Items[0].Path
	})
	return groups
}

// classify derives the group's basis and confidence from member
// signatures and suffix evidence.
func classify(members []*models.Item, suffixEvidence bool) (models.Basis, models.Confidence) {
	sigCounts := make(map[string]int)
	for _, m := range members {
		if m.Fingerprint != "" {
			sigCounts[m.Fingerprint]++
		}
	}

	contentEvidence := false
	for _, count := range sigCounts {
		if count >= 2 {
			contentEvidence = true
			break
		}
	}
	allSame := len(sigCounts) == 1 && sigCounts[members[0].Fingerprint] == len(members)

	var basis models.Basis
	switch {
	case contentEvidence && suffixEvidence:
		basis = models.BasisBoth
	case contentEvidence:
		basis = models.BasisContent
	default:
		basis = models.BasisSuffix
	}

	var confidence models.Confidence
	switch {
	case allSame:
		confidence = models.ConfidenceExact
	case contentEvidence:
		confidence = models.ConfidenceProbable
	default:
		confidence = models.ConfidenceSuggested
	}
	return basis, confidence
}

func appendPaths(dst []string, items []*models.Item) []string {
	for _, item := range items {
		dst = append(dst, item.Path)
	}
	return dst
}

package notes

import (
	"reflect"
	"sort"

	"github.com/sdejongh/dupenorris/pkg/fingerprint"
	"github.com/sdejongh/dupenorris/pkg/models"
)

// FrontmatterPolicy selects which member wins conflicting frontmatter fields.
type FrontmatterPolicy string

const (
	// PreferNewest resolves conflicts toward the most recently modified member
	PreferNewest FrontmatterPolicy = "prefer-newest"
	// PreferLongestBody resolves conflicts toward the member with the longest body
	PreferLongestBody FrontmatterPolicy = "prefer-longest-body"
)

// BodyPolicy selects the merged document's body. Only whole-body
// selection is supported; there is no automatic text-diff merging.
type BodyPolicy string

const (
	// BodyFromPrimary uses the body of the frontmatter winner
	BodyFromPrimary BodyPolicy = "primary"
	// BodyFromLongest uses the longest member body
	BodyFromLongest BodyPolicy = "longest"
	// BodyDiffMerge is recognized but unsupported: it always fails with
	// models.MergeReviewError so the caller can route to a diff UI
	BodyDiffMerge BodyPolicy = "diff"
)

// MergePolicy configures a merge attempt.
type MergePolicy struct {
	Frontmatter FrontmatterPolicy
	Body        BodyPolicy
}

// DefaultMergePolicy returns prefer-newest frontmatter with the
// winner's body.
func DefaultMergePolicy() MergePolicy {
	return MergePolicy{Frontmatter: PreferNewest, Body: BodyFromPrimary}
}

// MergedDocument is the computed result of merging a duplicate note
// group. Pure data: writing it out is the caller's job.
type MergedDocument struct {
	// TargetPath is the path of the member the merge settles on
	TargetPath string

	// Frontmatter is the merged field map (conflicting keys excluded)
	Frontmatter map[string]interface{}

	// Tags is the union of all members' tag sets, sorted
	Tags []string

	// Body is the selected whole body
	Body string

	// Conflicts maps frontmatter keys whose values disagreed to the
	// competing values, in member order. Retained for manual
	// resolution rather than silently dropped.
	Conflicts map[string][]interface{}
}

// HasConflicts reports whether any frontmatter keys need manual resolution.
func (d *MergedDocument) HasConflicts() bool {
	return len(d.Conflicts) > 0
}

// Merge computes a merged document for a duplicate note group. Every
// member must be a parsed note; groups with non-note members fail with
// models.MergeReviewError, as does an unsupported body policy.
func Merge(group *models.DuplicateGroup, policy MergePolicy) (*MergedDocument, error) {
	if len(group.Items) < 2 {
		return nil, &models.MergeReviewError{Reason: "group has fewer than two members"}
	}
	for _, item := range group.Items {
		if item.Note == nil {
			return nil, &models.MergeReviewError{Reason: "member " + item.Path + " is not a note"}
		}
	}
	if policy.Body == BodyDiffMerge {
		return nil, &models.MergeReviewError{Reason: "text-diff body merging is not supported"}
	}
	if policy.Frontmatter == "" {
		policy.Frontmatter = PreferNewest
	}
	if policy.Body == "" {
		policy.Body = BodyFromPrimary
	}

	primary := pickPrimary(group.Items, policy.Frontmatter)

	doc := &MergedDocument{
		TargetPath:  primary.Path,
		Frontmatter: map[string]interface{}{},
		Conflicts:   map[string][]interface{}{},
	}

	// Start from the primary's frontmatter, then fold in the others:
	// missing keys are adopted, diverging keys become conflicts.
	for k, v := range primary.Note.Frontmatter {
		doc.Frontmatter[k] = v
	}
	for _, item := range group.Items {
		if item == primary {
			continue
		}
		for k, v := range item.Note.Frontmatter {
			if k == "tags" || k == "tag" {
				continue // tags merge by union below
			}
			if vals, conflicted := doc.Conflicts[k]; conflicted {
				doc.Conflicts[k] = appendValue(vals, v)
				continue
			}
			existing, ok := doc.Frontmatter[k]
			if !ok {
				doc.Frontmatter[k] = v
				continue
			}
			if !reflect.DeepEqual(existing, v) {
				doc.Conflicts[k] = []interface{}{existing, v}
				delete(doc.Frontmatter, k)
			}
		}
	}
	delete(doc.Frontmatter, "tags")
	delete(doc.Frontmatter, "tag")

	doc.Tags = unionTags(group.Items)

	switch policy.Body {
	case BodyFromLongest:
		longest := group.Items[0]
		for _, item := range group.Items[1:] {
			if len(item.Note.Body) > len(longest.Note.Body) {
				longest = item
			}
		}
		doc.Body = longest.Note.Body
	default:
		doc.Body = primary.Note.Body
	}

	return doc, nil
}

// pickPrimary chooses the member whose frontmatter wins conflicts.
func pickPrimary(items []*models.Item, policy FrontmatterPolicy) *models.Item {
	primary := items[0]
	for _, item := range items[1:] {
		switch policy {
		case PreferLongestBody:
			if len(item.Note.Body) > len(primary.Note.Body) {
				primary = item
			}
		default: // PreferNewest
			if item.ModTime.After(primary.ModTime) {
				primary = item
			}
		}
	}
	return primary
}

// appendValue adds a conflicting value unless an equal one is already recorded.
func appendValue(vals []interface{}, v interface{}) []interface{} {
	for _, existing := range vals {
		if reflect.DeepEqual(existing, v) {
			return vals
		}
	}
	return append(vals, v)
}

// unionTags merges all members' tag sets.
func unionTags(items []*models.Item) []string {
	seen := map[string]bool{}
	for _, item := range items {
		for _, t := range item.Note.Tags {
			seen[t] = true
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// BodiesMatch reports whether all members share the same normalized
// body, in which case a merge needs no body decision at all.
func BodiesMatch(group *models.DuplicateGroup) bool {
	if len(group.Items) == 0 {
		return true
	}
	first := fingerprint.NormalizeBody(group.Items[0].Note.Body)
	for _, item := range group.Items[1:] {
		if fingerprint.NormalizeBody(item.Note.Body) != first {
			return false
		}
	}
	return true
}

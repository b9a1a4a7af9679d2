// Package selection computes which members of duplicate groups to keep
// and which to remove or merge. Plans are pure data: no filesystem
// mutation happens here, and no plan ever leaves a group without a
// surviving member.
package selection

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sdejongh/dupenorris/pkg/models"
)

// PolicyKind names a selection strategy.
type PolicyKind string

const (
	// KeepNewest keeps the most recently modified member
	KeepNewest PolicyKind = "keep-newest"
	// KeepOldest keeps the least recently modified member
	KeepOldest PolicyKind = "keep-oldest"
	// KeepShortestPath keeps the member with the shortest path
	KeepShortestPath PolicyKind = "keep-shortest-path"
	// KeepMatching keeps the single member whose path matches a regex
	KeepMatching PolicyKind = "keep-matching"
	// Manual keeps a caller-supplied explicit keep set
	Manual PolicyKind = "manual"
)

// Policy configures one plan computation.
type Policy struct {
	Kind PolicyKind

	// Match is the keeper pattern for KeepMatching
	Match *regexp.Regexp

	// Keep is the explicit keep set for Manual, keyed by path
	Keep map[string]bool

	// MergeNotes marks note-group losers merge-into the keeper instead
	// of delete, for the merge resolver to consume
	MergeNotes bool
}

// Parse builds a policy from its string form, e.g. "keep-newest" or
// "keep-matching:\.orig$".
func Parse(s string) (Policy, error) {
	if expr, ok := strings.CutPrefix(s, string(KeepMatching)+":"); ok {
		re, err := regexp.Compile(expr)
		if err != nil {
			return Policy{}, fmt.Errorf("invalid keep-matching pattern %q: %w", expr, err)
		}
		return Policy{Kind: KeepMatching, Match: re}, nil
	}

	switch PolicyKind(s) {
	case KeepNewest, KeepOldest, KeepShortestPath:
		return Policy{Kind: PolicyKind(s)}, nil
	case Manual:
		return Policy{Kind: Manual}, nil
	}
	return Policy{}, fmt.Errorf("unknown policy %q", s)
}

// String returns the policy's canonical name.
func (p Policy) String() string {
	if p.Kind == KeepMatching && p.Match != nil {
		return string(KeepMatching) + ":" + p.Match.String()
	}
	return string(p.Kind)
}

// Apply computes a selection plan for a frozen scan result. Policy
// failures (AmbiguousPolicyError, InvalidPolicyResultError) abort only
// this application; the result stays untouched and reusable with a
// different policy.
func Apply(result *models.ScanResult, policy Policy) (*models.SelectionPlan, error) {
	if !result.Frozen() {
		return nil, &models.InvalidPolicyResultError{Message: "scan result is not frozen"}
	}

	plan := &models.SelectionPlan{
		ResultID: result.ID,
		Policy:   policy.String(),
		Actions:  make(map[string]models.PlannedAction),
		Groups:   result.Groups,
	}

	for _, group := range result.Groups {
		keeper, reason, err := pickKeeper(group, policy)
		if err != nil {
			return nil, err
		}

		plan.Actions[keeper.Path] = models.PlannedAction{
			Item:   keeper,
			Action: models.ActionKeep,
			Reason: reason,
		}
		for _, item := range group.Items {
			if item == keeper {
				continue
			}
			act := models.PlannedAction{
				Item:   item,
				Action: models.ActionDelete,
				Reason: "duplicate of " + keeper.Path,
			}
			if policy.MergeNotes && item.IsNote() && keeper.IsNote() {
				act.Action = models.ActionMergeInto
				act.MergeTarget = keeper.Path
				act.Reason = "merge into " + keeper.Path
			}
			plan.Actions[item.Path] = act
		}
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// pickKeeper selects the surviving member of a group under the policy.
func pickKeeper(group *models.DuplicateGroup, policy Policy) (*models.Item, string, error) {
	switch policy.Kind {
	case KeepNewest:
		return pickByOrder(group, func(a, b *models.Item) bool {
			if !a.ModTime.Equal(b.ModTime) {
				return a.ModTime.After(b.ModTime)
			}
			return shorterPath(a, b)
		}), "newest member", nil

	case KeepOldest:
		return pickByOrder(group, func(a, b *models.Item) bool {
			if !a.ModTime.Equal(b.ModTime) {
				return a.ModTime.Before(b.ModTime)
			}
			return shorterPath(a, b)
		}), "oldest member", nil

	case KeepShortestPath:
		return pickByOrder(group, shorterPath), "shortest path", nil

	case KeepMatching:
		if policy.Match == nil {
			return nil, "", &models.AmbiguousPolicyError{GroupID: group.ID, Pattern: "", Matches: 0}
		}
		var matched []*models.Item
		for _, item := range group.Items {
			if policy.Match.MatchString(item.Path) {
				matched = append(matched, item)
			}
		}
		if len(matched) != 1 {
			return nil, "", &models.AmbiguousPolicyError{
				GroupID: group.ID,
				Pattern: policy.Match.String(),
				Matches: len(matched),
			}
		}
		return matched[0], "matched " + policy.Match.String(), nil

	case Manual:
		var kept *models.Item
		keeps := 0
		for _, item := range group.Items {
			if policy.Keep[item.Path] {
				kept = item
				keeps++
			}
		}
		if keeps != 1 {
			return nil, "", &models.InvalidPolicyResultError{
				GroupID: group.ID,
				Message: fmt.Sprintf("manual keep set selects %d members, want exactly 1", keeps),
			}
		}
		return kept, "manual selection", nil
	}

	return nil, "", &models.InvalidPolicyResultError{Message: "unknown policy kind " + string(policy.Kind)}
}

// pickByOrder returns the member that sorts first under less.
func pickByOrder(group *models.DuplicateGroup, less func(a, b *models.Item) bool) *models.Item {
	members := make([]*models.Item, len(group.Items))
	copy(members, group.Items)
	sort.SliceStable(members, func(i, j int) bool {
		return less(members[i], members[j])
	})
	return members[0]
}

// shorterPath orders by path length, then lexicographically.
func shorterPath(a, b *models.Item) bool {
	if len(a.Path) != len(b.Path) {
		return len(a.Path) < len(b.Path)
	}
	return a.Path < b.Path
}

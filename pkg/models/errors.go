package models

import (
	"fmt"
)

// UnreadableItemError reports a single item that could not be read
// (permission denied, broken symlink, removed mid-scan). Non-fatal:
// the item is recorded in scan statistics and skipped.
type UnreadableItemError struct {
	Path string
	Err  error
}

func (e *UnreadableItemError) Error() string {
	return fmt.Sprintf("unreadable item %s: %v", e.Path, e.Err)
}

func (e *UnreadableItemError) Unwrap() error {
	return e.Err
}

// TraversalError reports a fatal failure of the directory walk itself
// (root missing, root is a file). The scan aborts before producing any
// groups.
type TraversalError struct {
	Root string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("cannot traverse %s: %v", e.Root, e.Err)
}

func (e *TraversalError) Unwrap() error {
	return e.Err
}

// AmbiguousPolicyError reports a keep-matching policy whose pattern
// matched zero or more than one member of a group. Fatal only to that
// policy application; the scan result stays reusable.
type AmbiguousPolicyError struct {
	GroupID string
	Pattern string
	Matches int
}

func (e *AmbiguousPolicyError) Error() string {
	return fmt.Sprintf("policy pattern %q matched %d members of group %s, want exactly 1",
		e.Pattern, e.Matches, e.GroupID)
}

// InvalidPolicyResultError reports a policy application that would
// violate plan safety (a group left without a keeper, or a merge target
// marked for deletion). The engine fails instead of emitting an unsafe
// plan.
type InvalidPolicyResultError struct {
	GroupID string
	Message string
}

func (e *InvalidPolicyResultError) Error() string {
	if e.GroupID == "" {
		return "invalid policy result: " + e.Message
	}
	return fmt.Sprintf("invalid policy result for group %s: %s", e.GroupID, e.Message)
}

// MergeReviewError reports a merge that cannot be completed without
// manual review (diverging bodies with no whole-body selection, or a
// non-note member). Fatal only to that merge attempt.
type MergeReviewError struct {
	Reason string
}

func (e *MergeReviewError) Error() string {
	return "merge requires manual review: " + e.Reason
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

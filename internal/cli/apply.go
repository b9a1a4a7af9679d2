package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sdejongh/dupenorris/pkg/logging"
	"github.com/sdejongh/dupenorris/pkg/models"
	"github.com/sdejongh/dupenorris/pkg/notes"
	"github.com/sdejongh/dupenorris/pkg/verify"
)

// executePlan carries out a validated selection plan: merges first so
// no source disappears before its content lands in the keeper, then
// deletions. Every outcome is recorded on the plan; individual failures
// don't stop the rest. A non-nil verifier byte-compares each deletion
// candidate against its keeper and refuses mismatches.
func executePlan(plan *models.SelectionPlan, mergePolicy *notes.MergePolicy, verifier *verify.Verifier, logger logging.Logger) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	ctx := context.Background()

	for _, group := range plan.Groups {
		if !hasMerges(plan, group) {
			continue
		}
		if mergePolicy == nil {
			return fmt.Errorf("plan contains merges but no merge policy was given")
		}
		executeGroupMerge(ctx, plan, group, *mergePolicy, logger)
	}

	for _, group := range plan.Groups {
		keeper := keeperPath(plan, group)
		for _, item := range group.Items {
			if plan.Actions[item.Path].Action != models.ActionDelete {
				continue
			}

			if verifier != nil {
				same, reason, err := verifier.Identical(ctx, item.Path, keeper)
				if err == nil && !same {
					err = fmt.Errorf("verification failed against %s: %s", keeper, reason)
				}
				if err != nil {
					plan.RecordOutcome(item.Path, err)
					logger.Warn(ctx, "delete refused", logging.Fields{"path": item.Path, "error": err.Error()})
					continue
				}
			}

			err := os.Remove(item.Path)
			plan.RecordOutcome(item.Path, err)
			if err != nil {
				logger.Warn(ctx, "delete failed", logging.Fields{"path": item.Path, "error": err.Error()})
				continue
			}
			logger.Info(ctx, "deleted duplicate", logging.Fields{"path": item.Path})
		}
	}

	return nil
}

// executeGroupMerge merges a note group's losers into its keeper and
// removes them. Conflicted or unmergeable groups are left untouched and
// recorded as failures for manual review.
func executeGroupMerge(
	ctx context.Context,
	plan *models.SelectionPlan,
	group *models.DuplicateGroup,
	policy notes.MergePolicy,
	logger logging.Logger,
) {
	keeper := keeperPath(plan, group)

	doc, err := notes.Merge(group, policy)
	if err == nil && doc.HasConflicts() {
		err = fmt.Errorf("%d frontmatter conflicts need manual resolution", len(doc.Conflicts))
	}
	if err != nil {
		logger.Warn(ctx, "merge skipped", logging.Fields{"group": group.ID, "error": err.Error()})
		for _, item := range group.Items {
			if plan.Actions[item.Path].Action == models.ActionMergeInto {
				plan.RecordOutcome(item.Path, err)
			}
		}
		return
	}

	data, err := notes.Render(doc.Frontmatter, doc.Tags, doc.Body)
	if err == nil {
		err = os.WriteFile(keeper, data, 0644)
	}
	if err != nil {
		logger.Error(ctx, "merge write failed", err, logging.Fields{"path": keeper})
		for _, item := range group.Items {
			if plan.Actions[item.Path].Action == models.ActionMergeInto {
				plan.RecordOutcome(item.Path, err)
			}
		}
		return
	}

	for _, item := range group.Items {
		if plan.Actions[item.Path].Action != models.ActionMergeInto {
			continue
		}
		removeErr := os.Remove(item.Path)
		plan.RecordOutcome(item.Path, removeErr)
		if removeErr != nil {
			logger.Warn(ctx, "merged source removal failed", logging.Fields{"path": item.Path, "error": removeErr.Error()})
			continue
		}
		logger.Info(ctx, "merged note", logging.Fields{"path": item.Path, "target": keeper})
	}
}

// hasMerges reports whether the plan marks any group member merge-into
func hasMerges(plan *models.SelectionPlan, group *models.DuplicateGroup) bool {
	for _, item := range group.Items {
		if plan.Actions[item.Path].Action == models.ActionMergeInto {
			return true
		}
	}
	return false
}

// keeperPath returns the path of the group's kept member
func keeperPath(plan *models.SelectionPlan, group *models.DuplicateGroup) string {
	for _, item := range group.Items {
		if plan.Actions[item.Path].Action == models.ActionKeep {
			return item.Path
		}
	}
	return ""
}

// reportExecution prints the execution summary
func reportExecution(w io.Writer, plan *models.SelectionPlan) {
	fmt.Fprintf(w, "\nExecution: %d succeeded, %d failed\n",
		plan.Execution.Succeeded, plan.Execution.Failed)
	for _, f := range plan.Execution.Failures {
		fmt.Fprintf(w, "  %s: %s\n", f.Path, f.Error)
	}
}

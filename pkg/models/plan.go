package models

import (
	"sync"
	"time"
)

// PlanAction is the action a plan assigns to an item.
type PlanAction string

const (
	// ActionKeep retains the item untouched
	ActionKeep PlanAction = "keep"
	// ActionDelete marks the item for removal by the caller
	ActionDelete PlanAction = "delete"
	// ActionMergeInto marks the item for merging into a kept target
	ActionMergeInto PlanAction = "merge-into"
)

// PlannedAction binds an item to its action.
type PlannedAction struct {
	Item   *Item
	Action PlanAction

	// MergeTarget is the path of the kept item this one merges into;
	// set only for ActionMergeInto
	MergeTarget string

	// Reason explains why the policy chose this action
	Reason string
}

// ExecutionStats accumulates the caller's per-item execution reports.
// The engine uses these for statistics only; retrying filesystem
// operations is entirely the caller's responsibility.
type ExecutionStats struct {
	mu        sync.Mutex
	Succeeded int
	Failed    int
	Failures  []ItemError
}

// SelectionPlan maps every grouped item to an action. It is pure data:
// producing a plan never mutates the filesystem.
type SelectionPlan struct {
	// ResultID ties the plan to the scan result it was computed from
	ResultID string

	// Policy names the policy that produced the plan
	Policy string

	// Actions maps item path to its planned action
	Actions map[string]PlannedAction

	// Groups references the groups the plan covers
	Groups []*DuplicateGroup

	// Execution collects the caller's success/failure reports
	Execution ExecutionStats
}

// Validate checks the plan safety invariants: every group has exactly
// one keeper, and every merge target is itself kept.
func (p *SelectionPlan) Validate() error {
	for _, g := range p.Groups {
		keeps := 0
		for _, item := range g.Items {
			act, ok := p.Actions[item.Path]
			if !ok {
				return &InvalidPolicyResultError{GroupID: g.ID, Message: "member " + item.Path + " has no action"}
			}
			if act.Action == ActionKeep {
				keeps++
			}
			if act.Action == ActionMergeInto {
				target, ok := p.Actions[act.MergeTarget]
				if !ok || target.Action != ActionKeep {
					return &InvalidPolicyResultError{
						GroupID: g.ID,
						Message: "merge target " + act.MergeTarget + " is not marked keep",
					}
				}
			}
		}
		if keeps != 1 {
			return &InvalidPolicyResultError{GroupID: g.ID, Message: "group must have exactly one keeper"}
		}
	}
	return nil
}

// Deletions returns the items marked for deletion, in group order.
func (p *SelectionPlan) Deletions() []*Item {
	var items []*Item
	for _, g := range p.Groups {
		for _, item := range g.Items {
			if p.Actions[item.Path].Action == ActionDelete {
				items = append(items, item)
			}
		}
	}
	return items
}

// Merges returns the items marked merge-into, in group order.
func (p *SelectionPlan) Merges() []PlannedAction {
	var actions []PlannedAction
	for _, g := range p.Groups {
		for _, item := range g.Items {
			if act := p.Actions[item.Path]; act.Action == ActionMergeInto {
				actions = append(actions, act)
			}
		}
	}
	return actions
}

// RecordOutcome registers the caller's execution result for one item.
func (p *SelectionPlan) RecordOutcome(path string, err error) {
	p.Execution.mu.Lock()
	defer p.Execution.mu.Unlock()

	if err == nil {
		p.Execution.Succeeded++
		return
	}
	p.Execution.Failed++
	p.Execution.Failures = append(p.Execution.Failures, ItemError{
		Path:      path,
		Error:     err.Error(),
		Timestamp: time.Now(),
	})
}

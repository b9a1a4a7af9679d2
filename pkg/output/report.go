package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sdejongh/dupenorris/pkg/models"
)

// WritePlanReport writes a selection plan to a file for review before
// execution. Format can be "human" or "json".
func WritePlanReport(plan *models.SelectionPlan, path string, format string) error {
	if len(plan.Groups) == 0 {
		// No duplicates - don't create an empty file
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plan report: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		return writePlanJSON(plan, file)
	default: // "human"
		return writePlanHuman(plan, file)
	}
}

// writePlanHuman writes the plan in human-readable format
func writePlanHuman(plan *models.SelectionPlan, w io.Writer) error {
	fmt.Fprintf(w, "Selection Plan\n")
	fmt.Fprintf(w, "==============\n\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Scan: %s\n", plan.ResultID)
	fmt.Fprintf(w, "Policy: %s\n\n", plan.Policy)

	// Group actions by kind
	byAction := make(map[models.PlanAction][]models.PlannedAction)
	for _, g := range plan.Groups {
		for _, item := range g.Items {
			act := plan.Actions[item.Path]
			byAction[act.Action] = append(byAction[act.Action], act)
		}
	}

	actionOrder := []models.PlanAction{
		models.ActionDelete,
		models.ActionMergeInto,
		models.ActionKeep,
	}
	actionLabels := map[models.PlanAction]string{
		models.ActionDelete:    "To Delete",
		models.ActionMergeInto: "To Merge",
		models.ActionKeep:      "To Keep",
	}

	for _, action := range actionOrder {
		acts := byAction[action]
		if len(acts) == 0 {
			continue
		}

		label := fmt.Sprintf("%s (%d items)", actionLabels[action], len(acts))
		fmt.Fprintf(w, "%s\n", label)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))

		for _, act := range acts {
			fmt.Fprintf(w, "  %s (%s)\n", act.Item.Path, formatBytes(act.Item.Size))
			if act.MergeTarget != "" {
				fmt.Fprintf(w, "    Target: %s\n", act.MergeTarget)
			}
			if act.Reason != "" {
				fmt.Fprintf(w, "    Reason: %s\n", act.Reason)
			}
		}
		fmt.Fprintf(w, "\n")
	}

	return nil
}

// writePlanJSON writes the plan in JSON format
func writePlanJSON(plan *models.SelectionPlan, w io.Writer) error {
	actions := make([]JSONActionData, 0)
	for _, g := range plan.Groups {
		for _, item := range g.Items {
			act := plan.Actions[item.Path]
			actions = append(actions, JSONActionData{
				Path:        item.Path,
				Action:      string(act.Action),
				MergeTarget: act.MergeTarget,
				Reason:      act.Reason,
			})
		}
	}

	output := struct {
		Generated string           `json:"generated"`
		ScanID    string           `json:"scan_id"`
		Policy    string           `json:"policy"`
		Actions   []JSONActionData `json:"actions"`
	}{
		Generated: time.Now().Format(time.RFC3339),
		ScanID:    plan.ResultID,
		Policy:    plan.Policy,
		Actions:   actions,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

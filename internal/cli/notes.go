package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dupenorris/pkg/notes"
	"github.com/sdejongh/dupenorris/pkg/output"
	"github.com/sdejongh/dupenorris/pkg/selection"
)

// NotesFlags holds notes command flags
type NotesFlags struct {
	Extensions  []string
	Frontmatter string
	Body        string
	Policy      string
	Apply       bool
}

var notesFlags NotesFlags

// NewNotesCommand creates the notes command
func NewNotesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes <root>",
		Short: "Find and merge duplicate notes",
		Long: `Scan a directory tree for duplicate notes. Notes are compared on
their normalized content: YAML frontmatter with canonical key order
plus the body with trailing whitespace stripped, so two notes differing
only in key order or line endings still match. With --apply, losing
members are merged into the kept note (frontmatter union, tag union)
and then removed.`,
		Args: cobra.ExactArgs(1),
		RunE: runNotes,
	}

	addScanFlags(cmd)
	cmd.Flags().StringSliceVar(&notesFlags.Extensions, "extensions", nil,
		"note file extensions (default: .md, .markdown)")
	cmd.Flags().StringVar(&notesFlags.Frontmatter, "frontmatter", string(notes.PreferNewest),
		"frontmatter conflict policy: prefer-newest, prefer-longest-body")
	cmd.Flags().StringVar(&notesFlags.Body, "body", string(notes.BodyFromPrimary),
		"merged body selection: primary, longest, diff")
	cmd.Flags().StringVar(&notesFlags.Policy, "policy", string(selection.KeepNewest),
		"selection policy: keep-newest, keep-oldest, keep-shortest-path, keep-matching:<regex>")
	cmd.Flags().BoolVar(&notesFlags.Apply, "apply", false,
		"execute the plan: merge losers into keepers and remove them")

	return cmd
}

func runNotes(cmd *cobra.Command, args []string) error {
	root := args[0]

	if err := validateRoot(root); err != nil {
		return err
	}
	mergePolicy, err := parseMergePolicy()
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlagsToConfig(cfg); err != nil {
		return err
	}
	if len(notesFlags.Extensions) > 0 {
		cfg.Scan.NoteExtensions = notesFlags.Extensions
	}

	logger, err := createLogger(scanFlags.LogFile, scanFlags.LogFormat, scanFlags.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	result, formatter, err := runScanPhase(cmd, cfg.ScanConfig(true), root, cfg, logger)
	if err != nil {
		return err
	}

	policy, err := selection.Parse(notesFlags.Policy)
	if err != nil {
		return err
	}
	policy.MergeNotes = true

	plan, err := selection.Apply(result, policy)
	if err != nil {
		return err
	}
	formatter.Plan(plan)

	if scanFlags.Report != "" {
		if err := output.WritePlanReport(plan, scanFlags.Report, scanFlags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write plan report: %w", err)
		}
	}

	if notesFlags.Apply {
		if err := executePlan(plan, &mergePolicy, nil, logger); err != nil {
			return err
		}
		reportExecution(cmd.OutOrStdout(), plan)
	}

	if code := exitCode(result); code != 0 {
		logger.Close()
		os.Exit(code)
	}
	return nil
}

// parseMergePolicy validates the merge flags
func parseMergePolicy() (notes.MergePolicy, error) {
	policy := notes.MergePolicy{
		Frontmatter: notes.FrontmatterPolicy(notesFlags.Frontmatter),
		Body:        notes.BodyPolicy(notesFlags.Body),
	}

	switch policy.Frontmatter {
	case notes.PreferNewest, notes.PreferLongestBody:
	default:
		return policy, fmt.Errorf("invalid frontmatter policy: %s (valid: prefer-newest, prefer-longest-body)",
			notesFlags.Frontmatter)
	}

	switch policy.Body {
	case notes.BodyFromPrimary, notes.BodyFromLongest, notes.BodyDiffMerge:
	default:
		return policy, fmt.Errorf("invalid body policy: %s (valid: primary, longest, diff)", notesFlags.Body)
	}

	return policy, nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dupenorris/pkg/config"
	"github.com/sdejongh/dupenorris/pkg/logging"
	"github.com/sdejongh/dupenorris/pkg/models"
	"github.com/sdejongh/dupenorris/pkg/output"
	"github.com/sdejongh/dupenorris/pkg/scan"
	"github.com/sdejongh/dupenorris/pkg/selection"
	"github.com/sdejongh/dupenorris/pkg/verify"
)

// ScanFlags holds scan command flags
type ScanFlags struct {
	Include        []string
	Exclude        []string
	MinSize        int64
	MaxDepth       int
	FollowSymlinks bool
	Parallel       int
	Bandwidth      string
	Suffixes       []string
	Output         string
	Policy         string
	Keep           []string
	Apply          bool
	Verify         bool
	Report         string
	ReportFormat   string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var scanFlags ScanFlags

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <root>",
		Short: "Find duplicate files under a directory",
		Long: `Scan a directory tree for duplicate files. Files are grouped by
content fingerprint and by copy-suffix naming conventions (" copy",
"(1)", cloud-sync device suffixes). Pass --policy to compute which
member of each group to keep, and --apply to delete the rest.`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}

	addScanFlags(cmd)
	cmd.Flags().StringVar(&scanFlags.Policy, "policy", "",
		"selection policy: keep-newest, keep-oldest, keep-shortest-path, keep-matching:<regex>, manual")
	cmd.Flags().StringSliceVar(&scanFlags.Keep, "keep", nil,
		"paths to keep with --policy manual (one per group)")
	cmd.Flags().BoolVar(&scanFlags.Apply, "apply", false,
		"execute the plan: delete non-kept members")
	cmd.Flags().BoolVar(&scanFlags.Verify, "verify", false,
		"byte-compare each deletion candidate against its keeper before deleting")

	return cmd
}

// addScanFlags registers the flags shared by scan and notes
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&scanFlags.Include, "include", nil, "glob patterns to include (default: everything)")
	cmd.Flags().StringSliceVar(&scanFlags.Exclude, "exclude", nil, "glob patterns to exclude")
	cmd.Flags().Int64Var(&scanFlags.MinSize, "min-size", -1, "skip files smaller than this many bytes")
	cmd.Flags().IntVar(&scanFlags.MaxDepth, "max-depth", 0, "limit directory depth (0 = unlimited)")
	cmd.Flags().BoolVar(&scanFlags.FollowSymlinks, "follow-symlinks", false, "fingerprint symlinked files")
	cmd.Flags().IntVarP(&scanFlags.Parallel, "parallel", "p", 0, "number of fingerprinting workers (default: CPU count)")
	cmd.Flags().StringVarP(&scanFlags.Bandwidth, "bandwidth", "b", "", "hash read limit (e.g., \"10M\", \"1G\")")
	cmd.Flags().StringSliceVar(&scanFlags.Suffixes, "suffix", nil, "extra copy-suffix patterns (prefix with \"re:\" for regex)")
	cmd.Flags().StringVarP(&scanFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().StringVar(&scanFlags.Report, "report", "", "write the selection plan to file")
	cmd.Flags().StringVar(&scanFlags.ReportFormat, "report-format", "human", "plan report format: human, json")

	// Logging flags
	cmd.Flags().StringVar(&scanFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&scanFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&scanFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]

	if err := validateRoot(root); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlagsToConfig(cfg); err != nil {
		return err
	}

	logger, err := createLogger(scanFlags.LogFile, scanFlags.LogFormat, scanFlags.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	result, formatter, err := runScanPhase(cmd, cfg.ScanConfig(false), root, cfg, logger)
	if err != nil {
		return err
	}

	if scanFlags.Policy != "" {
		policy, err := selection.Parse(scanFlags.Policy)
		if err != nil {
			return err
		}
		if policy.Kind == selection.Manual {
			policy.Keep = make(map[string]bool, len(scanFlags.Keep))
			for _, path := range scanFlags.Keep {
				policy.Keep[path] = true
			}
		}

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

		if scanFlags.Apply {
			var verifier *verify.Verifier
			if scanFlags.Verify {
				verifier = verify.New(cfg.Performance.ChunkSize)
			}
			if err := executePlan(plan, nil, verifier, logger); err != nil {
				return err
			}
			reportExecution(cmd.OutOrStdout(), plan)
		}
	}

	if code := exitCode(result); code != 0 {
		logger.Close()
		os.Exit(code)
	}
	return nil
}

// runScanPhase runs one scan, streaming events to a formatter, and
// returns the frozen result.
func runScanPhase(
	cmd *cobra.Command,
	scanCfg scan.Config,
	root string,
	cfg *config.Config,
	logger logging.Logger,
) (*models.ScanResult, output.Formatter, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Ctrl-C cancels the scan; results stay usable as a partial set
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	scanner, err := scan.NewScanner(scanCfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var writer io.Writer = cmd.OutOrStdout()
	if cfg.Output.Quiet {
		writer = io.Discard
	}

	formatter := output.New(cfg.Output.Format, cfg.Output.Progress && !cfg.Output.Quiet)
	if err := formatter.Start(writer, root); err != nil {
		return nil, nil, err
	}

	events, err := scanner.Scan(ctx, root)
	if err != nil {
		formatter.Error(err)
		return nil, nil, err
	}

	var result *models.ScanResult
	for ev := range events {
		formatter.Event(ev)
		if ev.Type == scan.EventCompleted {
			result = ev.Result
		}
	}
	if result == nil {
		return nil, nil, fmt.Errorf("scan produced no result")
	}

	if err := formatter.Result(result); err != nil {
		return nil, nil, err
	}
	return result, formatter, nil
}

// exitCode maps a scan outcome to the process exit code: 0 for a clean
// tree, 1 when duplicates were found, 2 for a cancelled scan.
func exitCode(result *models.ScanResult) int {
	if !result.Completed {
		return 2
	}
	if len(result.Groups) > 0 {
		return 1
	}
	return 0
}

// createLogger creates a logger based on configuration
func createLogger(logFile, logFormat, logLevel string) (logging.Logger, error) {
	if logFile == "" {
		return logging.NewNull(), nil
	}

	var format logging.Format
	switch logFormat {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	return logging.NewFile(logFile, format, logging.ParseLevel(logLevel))
}

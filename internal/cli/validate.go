package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sdejongh/dupenorris/internal/platform"
	"github.com/sdejongh/dupenorris/pkg/config"
)

// validateRoot checks the scan root exists and is a directory
func validateRoot(root string) error {
	if err := platform.ValidatePath(root); err != nil {
		return err
	}

	info, err := os.Stat(platform.NormalizePath(root))
	if os.IsNotExist(err) {
		return fmt.Errorf("scan root does not exist: %s", root)
	}
	if err != nil {
		return fmt.Errorf("failed to access scan root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("scan root is not a directory: %s", root)
	}
	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config) error {
	if len(scanFlags.Include) > 0 {
		cfg.Scan.Include = scanFlags.Include
	}
	if len(scanFlags.Exclude) > 0 {
		cfg.Scan.Exclude = scanFlags.Exclude
	}
	if scanFlags.MinSize >= 0 {
		cfg.Scan.MinSize = scanFlags.MinSize
	}
	if scanFlags.MaxDepth > 0 {
		cfg.Scan.MaxDepth = scanFlags.MaxDepth
	}
	if scanFlags.FollowSymlinks {
		cfg.Scan.FollowSymlinks = true
	}
	if scanFlags.Parallel > 0 {
		cfg.Performance.Workers = scanFlags.Parallel
	}
	if len(scanFlags.Suffixes) > 0 {
		cfg.Suffixes = append(cfg.Suffixes, scanFlags.Suffixes...)
	}

	if scanFlags.Bandwidth != "" {
		limit, err := parseByteSize(scanFlags.Bandwidth)
		if err != nil {
			return fmt.Errorf("invalid bandwidth limit: %w", err)
		}
		cfg.Performance.BandwidthLimit = limit
	}

	if scanFlags.Output != "" {
		cfg.Output.Format = scanFlags.Output
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	// Enable progress in verbose mode
	if globalFlags.Verbose {
		cfg.Output.Progress = true
	}

	return cfg.Validate()
}

// parseByteSize parses a size with an optional K/M/G suffix
func parseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	multiplier := int64(1)
	switch s[len(s)-1] {
	case 'K':
		multiplier = 1024
		s = s[:len(s)-1]
	case 'M':
		multiplier = 1024 * 1024
		s = s[:len(s)-1]
	case 'G':
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if value < 0 {
		return 0, fmt.Errorf("size must not be negative")
	}
	return value * multiplier, nil
}

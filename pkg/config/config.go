package config

import (
	"github.com/sdejongh/dupenorris/pkg/models"
	"github.com/sdejongh/dupenorris/pkg/scan"
	"github.com/sdejongh/dupenorris/pkg/suffix"
)

// Config represents the application configuration
type Config struct {
	Scan        ScanConfig        `yaml:"scan"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`

	// Suffixes are extra suffix patterns appended to the built-in list;
	// prefix an entry with "re:" for a regular expression
	Suffixes []string `yaml:"suffixes"`
}

// ScanConfig holds traversal and filtering settings
type ScanConfig struct {
	Include        []string `yaml:"include"`
	Exclude        []string `yaml:"exclude"`
	MinSize        int64    `yaml:"min_size"`
	FollowSymlinks bool     `yaml:"follow_symlinks"`
	MaxDepth       int      `yaml:"max_depth"`
	NoteExtensions []string `yaml:"note_extensions"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	Workers        int   `yaml:"workers"`
	ChunkSize      int   `yaml:"chunk_size"`
	BandwidthLimit int64 `yaml:"bandwidth_limit"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = stderr)
}

// Default returns the default configuration
func Default() *Config {
	def := scan.DefaultConfig()
	return &Config{
		Scan: ScanConfig{
			Exclude: []string{
				".git/**",
				"node_modules/**",
				"*.tmp",
			},
			MinSize:        def.MinSize,
			NoteExtensions: def.NoteExtensions,
		},
		Performance: PerformanceConfig{
			Workers:        def.Workers,
			ChunkSize:      def.ChunkSize,
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Format:  "json",
			Level:   "info",
			File:    "",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Performance.Workers < 1 {
		return &models.ValidationError{
			Field:   "performance.workers",
			Message: "must be at least 1",
		}
	}

	if c.Performance.ChunkSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.chunk_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if c.Performance.BandwidthLimit < 0 {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: "must not be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if _, err := suffix.ParseAll(c.Suffixes); err != nil {
		return &models.ValidationError{
			Field:   "suffixes",
			Message: err.Error(),
		}
	}

	sc := c.ScanConfig(false)
	return sc.Validate()
}

// ScanConfig assembles the scan-level configuration, with notes mode
// toggled per invocation.
func (c *Config) ScanConfig(notes bool) scan.Config {
	sc := scan.Config{
		Include:        c.Scan.Include,
		Exclude:        c.Scan.Exclude,
		MinSize:        c.Scan.MinSize,
		FollowSymlinks: c.Scan.FollowSymlinks,
		MaxDepth:       c.Scan.MaxDepth,
		Workers:        c.Performance.Workers,
		ChunkSize:      c.Performance.ChunkSize,
		BandwidthLimit: c.Performance.BandwidthLimit,
		Notes:          notes,
		NoteExtensions: c.Scan.NoteExtensions,
	}
	if extra, err := suffix.ParseAll(c.Suffixes); err == nil && len(extra) > 0 {
		sc.Patterns = append(extra, suffix.DefaultPatterns()...)
	}
	return sc
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
	if cfg.Output.Format != "human" {
		t.Errorf("Output.Format = %s, want human", cfg.Output.Format)
	}
	if cfg.Performance.Workers < 1 {
		t.Errorf("Performance.Workers = %d, want at least 1", cfg.Performance.Workers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"ZeroWorkers", func(c *Config) { c.Performance.Workers = 0 }},
		{"TinyChunkSize", func(c *Config) { c.Performance.ChunkSize = 512 }},
		{"NegativeBandwidth", func(c *Config) { c.Performance.BandwidthLimit = -1 }},
		{"BadOutputFormat", func(c *Config) { c.Output.Format = "xml" }},
		{"BadLogFormat", func(c *Config) { c.Logging.Format = "csv" }},
		{"BadLogLevel", func(c *Config) { c.Logging.Level = "loud" }},
		{"EmptySuffix", func(c *Config) { c.Suffixes = []string{""} }},
		{"BadSuffixRegexp", func(c *Config) { c.Suffixes = []string{"re:[unclosed"} }},
		{"BadGlob", func(c *Config) { c.Scan.Include = []string{"[unclosed"} }},
		{"NegativeMinSize", func(c *Config) { c.Scan.MinSize = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() accepted invalid configuration")
			}
		})
	}
}

func TestScanConfig(t *testing.T) {
	t.Run("FieldMapping", func(t *testing.T) {
		cfg := Default()
		cfg.Scan.Include = []string{"**/*.jpg"}
		cfg.Scan.MinSize = 4096
		cfg.Scan.MaxDepth = 3
		cfg.Performance.Workers = 2
		cfg.Performance.BandwidthLimit = 1 << 20

		sc := cfg.ScanConfig(false)
		if len(sc.Include) != 1 || sc.Include[0] != "**/*.jpg" {
			t.Errorf("Include = %v", sc.Include)
		}
		if sc.MinSize != 4096 || sc.MaxDepth != 3 || sc.Workers != 2 {
			t.Errorf("scan config = %+v", sc)
		}
		if sc.BandwidthLimit != 1<<20 {
			t.Errorf("BandwidthLimit = %d", sc.BandwidthLimit)
		}
		if sc.Notes {
			t.Error("Notes = true, want false")
		}
	})

	t.Run("NotesMode", func(t *testing.T) {
		cfg := Default()
		sc := cfg.ScanConfig(true)
		if !sc.Notes {
			t.Error("Notes = false, want true")
		}
		if len(sc.NoteExtensions) == 0 {
			t.Error("NoteExtensions is empty")
		}
	})

	t.Run("ExtraSuffixesEvaluatedFirst", func(t *testing.T) {
		cfg := Default()
		cfg.Suffixes = []string{"-backup"}

		sc := cfg.ScanConfig(false)
		if len(sc.Patterns) == 0 {
			t.Fatal("Patterns is empty")
		}
		if sc.Patterns[0].Name != "-backup" {
			t.Errorf("Patterns[0].Name = %s, want -backup", sc.Patterns[0].Name)
		}
	})

	t.Run("NoSuffixesUsesDefaults", func(t *testing.T) {
		cfg := Default()
		if sc := cfg.ScanConfig(false); sc.Patterns != nil {
			t.Errorf("Patterns = %v, want nil for built-in defaults", sc.Patterns)
		}
	})
}

func TestSaveAndLoad(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.yaml")

		cfg := Default()
		cfg.Scan.MinSize = 2048
		cfg.Output.Format = "json"
		cfg.Suffixes = []string{"-backup", `re:-v\d+`}

		if err := SaveToFile(cfg, path); err != nil {
			t.Fatalf("SaveToFile() error = %v", err)
		}

		loaded, err := LoadFromFile(path)
		if err != nil {
			t.Fatalf("LoadFromFile() error = %v", err)
		}
		if loaded.Scan.MinSize != 2048 {
			t.Errorf("Scan.MinSize = %d, want 2048", loaded.Scan.MinSize)
		}
		if loaded.Output.Format != "json" {
			t.Errorf("Output.Format = %s, want json", loaded.Output.Format)
		}
		if len(loaded.Suffixes) != 2 {
			t.Errorf("Suffixes = %v, want 2 entries", loaded.Suffixes)
		}
	})

	t.Run("SaveRejectsInvalid", func(t *testing.T) {
		cfg := Default()
		cfg.Performance.Workers = 0
		if err := SaveToFile(cfg, filepath.Join(t.TempDir(), "config.yaml")); err == nil {
			t.Error("SaveToFile() accepted invalid configuration")
		}
	})

	t.Run("LoadMissingFile", func(t *testing.T) {
		if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("LoadFromFile() should fail for a missing file")
		}
	})

	t.Run("LoadMalformedYAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("scan: [not a mapping"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if _, err := LoadFromFile(path); err == nil {
			t.Error("LoadFromFile() should fail for malformed YAML")
		}
	})

	t.Run("LoadRejectsInvalidValues", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("output:\n  format: xml\n"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if _, err := LoadFromFile(path); err == nil {
			t.Error("LoadFromFile() should reject an invalid format")
		}
	})
}

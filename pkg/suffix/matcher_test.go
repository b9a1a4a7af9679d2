package suffix

import (
	"testing"
)

// TestCanonicalize verifies suffix stripping against the built-in patterns
func TestCanonicalize(t *testing.T) {
	m := NewDefaultMatcher()

	tests := []struct {
		name        string
		input       string
		wantBase    string
		wantMatched bool
	}{
		{"NoSuffix", "report.pdf", "report.pdf", false},
		{"SurfacePro", "notes-surfacepro6.md", "notes.md", true},
		{"DesktopDevice", "budget-DESKTOP-AKQD6B9.xlsx", "budget.xlsx", true},
		{"Laptop", "todo-laptop.txt", "todo.txt", true},
		{"SpaceCopy", "photo copy.jpg", "photo.jpg", true},
		{"DashCopy", "photo-copy.jpg", "photo.jpg", true},
		{"UnderscoreCopy", "photo_copy.jpg", "photo.jpg", true},
		{"WindowsCopy", "photo - Copy.jpg", "photo.jpg", true},
		{"CopyWithNumber", "photo copy (2).jpg", "photo.jpg", true},
		{"NumberedParens", "invoice (1).pdf", "invoice.pdf", true},
		{"NumberedParensNoSpace", "invoice(3).pdf", "invoice.pdf", true},
		{"DashNumber", "draft-1.md", "draft.md", true},
		{"UnderscoreNumber", "draft_2.md", "draft.md", true},
		{"NoExtension", "README copy", "README", true},
		{"SuffixOnlyStem", "copy.txt", "copy.txt", false},
		{"NumberOnlyStem", "-1.txt", "-1.txt", false},
		{"SuffixMidName", "copy of plan.txt", "copy of plan.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, pattern := m.Canonicalize(tt.input)
			if base != tt.wantBase {
				t.Errorf("Canonicalize(%q) base = %q, want %q", tt.input, base, tt.wantBase)
			}
			if (pattern != nil) != tt.wantMatched {
				t.Errorf("Canonicalize(%q) matched = %v, want %v", tt.input, pattern != nil, tt.wantMatched)
			}
		})
	}
}

// TestCanonicalizePreservesExtension checks that names only cluster
// within the same file type
func TestCanonicalizePreservesExtension(t *testing.T) {
	m := NewDefaultMatcher()

	basePDF, _ := m.Canonicalize("report (1).pdf")
	baseTXT, _ := m.Canonicalize("report (1).txt")

	if basePDF == baseTXT {
		t.Errorf("bases collide across extensions: %q vs %q", basePDF, baseTXT)
	}
}

// TestPatternOrder verifies first-match-wins ordering
func TestPatternOrder(t *testing.T) {
	// "-DESKTOP-XYZ123" also ends in digits; the device pattern must win
	m := NewDefaultMatcher()
	base, pattern := m.Canonicalize("plan-DESKTOP-XYZ123.md")
	if base != "plan.md" {
		t.Errorf("base = %q, want plan.md", base)
	}
	if pattern == nil || pattern.Name != "desktop-device" {
		t.Errorf("pattern = %v, want desktop-device", pattern)
	}
}

// TestExtraPatternsFirst verifies caller patterns take priority
func TestExtraPatternsFirst(t *testing.T) {
	m := NewDefaultMatcher(Literal("-backup"))

	base, pattern := m.Canonicalize("db-backup.sqlite")
	if base != "db.sqlite" {
		t.Errorf("base = %q, want db.sqlite", base)
	}
	if pattern == nil || pattern.Name != "-backup" {
		t.Errorf("pattern = %v, want -backup", pattern)
	}
}

// TestParse verifies the configuration string forms
func TestParse(t *testing.T) {
	t.Run("Literal", func(t *testing.T) {
		p, err := Parse("-mirror")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		stripped, ok := p.Strip("file-mirror")
		if !ok || stripped != "file" {
			t.Errorf("Strip() = %q, %v, want file, true", stripped, ok)
		}
	})

	t.Run("Regexp", func(t *testing.T) {
		p, err := Parse(`re:~\d+`)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		stripped, ok := p.Strip("file~12")
		if !ok || stripped != "file" {
			t.Errorf("Strip() = %q, %v, want file, true", stripped, ok)
		}
	})

	t.Run("InvalidRegexp", func(t *testing.T) {
		if _, err := Parse("re:["); err == nil {
			t.Error("Parse() should fail for invalid regexp")
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if _, err := Parse(""); err == nil {
			t.Error("Parse() should fail for empty pattern")
		}
	})
}

// TestParseAll verifies order preservation and error propagation
func TestParseAll(t *testing.T) {
	patterns, err := ParseAll([]string{"-a", "-b"})
	if err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}
	if len(patterns) != 2 || patterns[0].Name != "-a" || patterns[1].Name != "-b" {
		t.Errorf("ParseAll() order not preserved: %v", patterns)
	}

	if _, err := ParseAll([]string{"-a", "re:("}); err == nil {
		t.Error("ParseAll() should propagate pattern errors")
	}
}

// TestRegexpAnchoring verifies patterns are forced to match at the end
func TestRegexpAnchoring(t *testing.T) {
	p, err := Regexp("digits", `\d+`)
	if err != nil {
		t.Fatalf("Regexp() error = %v", err)
	}

	if _, ok := p.Strip("a1b"); ok {
		t.Error("unanchored interior match should not strip")
	}
	stripped, ok := p.Strip("a1")
	if !ok || stripped != "a" {
		t.Errorf("Strip(a1) = %q, %v, want a, true", stripped, ok)
	}
}

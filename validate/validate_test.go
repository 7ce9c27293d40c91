package validate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/memorygame/game/engine"
)

const validJSON = `{
	"name": "Test Config",
	"description": "Test configuration",
	"palette": ["A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"],
	"deal_delay_ms": 100,
	"resolve_delay_ms": 100,
	"messages": {
		"menu": "Pick one",
		"loading": "Shuffling",
		"playing": "Pairs: %d | Clicks: %d",
		"victory": "Done in %d clicks"
	}
}`

const validHCL = `
name        = "HCL Config"
description = "Test configuration"
palette     = ["A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"]

messages {
  menu    = "Pick one"
  loading = "Shuffling"
  victory = "Done in %d clicks"
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestFile_ValidConfig(t *testing.T) {
	dir := t.TempDir()

	for _, tt := range []struct{ name, content string }{
		{"valid.json", validJSON},
		{"valid.hcl", validHCL},
	} {
		t.Run(tt.name, func(t *testing.T) {
			result := File(writeFile(t, dir, tt.name, tt.content))
			if !result.Valid {
				t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
			}
			if result.File != tt.name {
				t.Errorf("Expected file %s, got %s", tt.name, result.File)
			}

			// One summary line plus one line per difficulty
			if len(result.Errors) != 1+len(engine.Difficulties()) {
				t.Errorf("Expected %d info lines, got %v", 1+len(engine.Difficulties()), result.Errors)
			}
			for _, info := range result.Errors {
				if !strings.HasPrefix(info, "✓") {
					t.Errorf("Expected informational message, got %q", info)
				}
			}
		})
	}
}

func TestFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		expected string
	}{
		{
			name:     "invalid json",
			file:     "broken.json",
			content:  `{"name": "Broken", "palette": [`,
			expected: "Invalid syntax",
		},
		{
			name:     "invalid hcl",
			file:     "broken.hcl",
			content:  `name = `,
			expected: "Invalid syntax",
		},
		{
			name:     "small palette",
			file:     "small.json",
			content:  strings.Replace(validJSON, `"K", "L"`, `"K"`, 1),
			expected: "palette must have between",
		},
		{
			name:     "duplicate icon",
			file:     "dup.json",
			content:  strings.Replace(validJSON, `"L"]`, `"A"]`, 1),
			expected: "repeats",
		},
		{
			name:     "victory without count",
			file:     "victory.json",
			content:  strings.Replace(validJSON, `Done in %d clicks`, `Done`, 1),
			expected: "messages.victory",
		},
		{
			name:     "negative delay",
			file:     "delay.json",
			content:  strings.Replace(validJSON, `"deal_delay_ms": 100`, `"deal_delay_ms": -1`, 1),
			expected: "deal_delay_ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := File(writeFile(t, dir, tt.file, tt.content))
			if result.Valid {
				t.Fatal("Expected invalid config")
			}
			if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], tt.expected) {
				t.Errorf("Expected error containing %q, got %v", tt.expected, result.Errors)
			}
		})
	}
}

func TestFile_MissingFile(t *testing.T) {
	result := File("/non/existent/file.json")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "Failed to read file") {
		t.Errorf("Expected read error, got %v", result.Errors)
	}
}

func TestPlayability(t *testing.T) {
	result := Playability(engine.DefaultConfig())
	if !result.Valid {
		t.Fatalf("Expected default config to be playable, got %v", result.Errors)
	}
	if len(result.Errors) != len(engine.Difficulties()) {
		t.Errorf("Expected one line per difficulty, got %v", result.Errors)
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", validJSON)
	writeFile(t, dir, "a.hcl", validHCL)
	writeFile(t, dir, "notes.txt", "ignored")

	results, err := Dir(dir)
	if err != nil {
		t.Fatalf("Dir() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].File != "a.hcl" || results[1].File != "b.json" {
		t.Errorf("Expected results sorted by path, got %s, %s", results[0].File, results[1].File)
	}

	if _, err := Dir("/non/existent/dir"); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestDir_ShippedConfigs(t *testing.T) {
	results, err := Dir("../configs")
	if err != nil {
		t.Skipf("configs directory not available: %v", err)
	}
	for _, result := range results {
		if !result.Valid {
			t.Errorf("%s: %v", result.File, result.Errors)
		}
	}
}

func TestReport(t *testing.T) {
	valid := Result{File: "ok.json", Valid: true, Errors: []string{"✓ fine"}}
	invalid := Result{File: "bad.json", Valid: false, Errors: []string{"palette is empty"}}

	var buf bytes.Buffer
	if !Report(&buf, []Result{valid}) {
		t.Error("Expected all valid")
	}
	if !strings.Contains(buf.String(), "All configurations are valid") {
		t.Errorf("Unexpected report:\n%s", buf.String())
	}

	buf.Reset()
	if Report(&buf, []Result{valid, invalid}) {
		t.Error("Expected a failing report")
	}
	out := buf.String()
	if !strings.Contains(out, "❌ palette is empty") || !strings.Contains(out, "Some configurations have errors") {
		t.Errorf("Unexpected report:\n%s", out)
	}
}

// Package validate checks rule set files before a server loads them. For each
// JSON or HCL file it checks:
//   - the file parses
//   - required fields, palette size and delay bounds (engine.ValidateGameConfig)
//   - playability: every difficulty can be dealt and completed by a
//     perfect-memory player
package validate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/memorygame/game/config"
	"github.com/wricardo/mcp-training/memorygame/game/engine"
	"github.com/wricardo/mcp-training/memorygame/game/solver"
)

// playSeed keeps playability checks reproducible
const playSeed = 42

// Result captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type Result struct {
	File   string
	Valid  bool
	Errors []string
}

// File loads and validates a single rule set file
func File(path string) Result {
	result := Result{
		File:   filepath.Base(path),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	cfg, err := config.Parse(data, path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid syntax: %v", err))
		return result
	}

	if err := engine.ValidateGameConfig(cfg); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}
	result.Errors = append(result.Errors, fmt.Sprintf("✓ %d icons, deal %v, resolve %v",
		len(cfg.Palette), cfg.DealDelay(), cfg.ResolveDelay()))

	playability := Playability(cfg)
	if !playability.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, playability.Errors...)
	return result
}

// Playability deals every difficulty with a fixed seed and plays it to the
// end with the solver
func Playability(cfg *engine.GameConfig) Result {
	result := Result{Valid: true, Errors: []string{}}

	eng, err := engine.NewSeededEngine(cfg, playSeed)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot build engine: %v", err))
		return result
	}

	for _, d := range engine.Difficulties() {
		clicks, err := solver.Play(eng, d)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s is not completable: %v", d, err))
			continue
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ %s: %d pairs cleared in %d clicks", d, d.PairCount(), clicks))
	}
	return result
}

// Dir validates every JSON and HCL file in dir, sorted by name
func Dir(dir string) ([]Result, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.hcl"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("finding config files: %w", err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}
	sort.Strings(files)

	results := make([]Result, 0, len(files))
	for _, file := range files {
		results = append(results, File(file))
	}
	return results, nil
}

// Report prints a concise report and returns whether every result is valid
func Report(w io.Writer, results []Result) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		fmt.Fprintln(w, "❌ INVALID")
		allValid = false
		for _, err := range result.Errors {
			if !strings.HasPrefix(err, "✓") {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}

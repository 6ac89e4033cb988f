// Command validate provides a small CLI that validates game configuration
// files (JSON or YAML) in a configs directory. It checks:
//   - JSON/YAML structure
//   - Grid size, creature counts, health and message formats
//   - Glyphs that fit one or two terminal cells
//   - Connectivity: every door tile is reachable from the player start
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/wricardo/dragons-dungeon/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) note(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := engine.DecodeGameConfig(data, filepath.Ext(filePath))
	if err != nil {
		result.fail("Invalid document: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), engine.ErrInvalidConfig.Error()+": "))
		return result
	}

	validateGlyphs(&result, config.Glyphs)

	if result.Valid {
		connectivity := validateConnectivity(config.Width, config.Height)
		if !connectivity.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, connectivity.Errors...)
	}

	// Add informational data
	if result.Valid {
		result.note("✓ Name: %s", config.Name)
		result.note("✓ Grid: %dx%d", config.Width, config.Height)
		result.note("✓ Dragons: %d (smell %d, reveal %d)", config.DragonCount, config.SmellRadius, config.RevealRadius)
		result.note("✓ Health: %d", config.InitialHealth)
		if config.Seed != 0 {
			result.note("✓ Seed: %d", config.Seed)
		}
	}

	return result
}

// validateGlyphs rejects glyphs that would break the board's columns
func validateGlyphs(result *ValidationResult, g engine.Glyphs) {
	glyphs := []struct {
		name  string
		value string
	}{
		{"wall", g.Wall},
		{"floor", g.Floor},
		{"exit", g.Exit},
		{"player", g.Player},
		{"dragon", g.Dragon},
		{"visible_dragon", g.VisibleDragon},
		{"heart", g.Heart},
	}

	for _, glyph := range glyphs {
		w := runewidth.StringWidth(glyph.value)
		if w < 1 || w > 2 {
			result.fail("glyphs.%s %q is %d cells wide, want 1 or 2", glyph.name, glyph.value, w)
		}
	}
}

// validateConnectivity ensures every door tile is reachable from the player
// start using 4-directional movement around the walls.
func validateConnectivity(width, height int) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	grid := engine.NewGrid(width, height)
	start := engine.PlayerStart(width, height)
	exits := engine.ExitCandidates(grid)
	if len(exits) == 0 {
		result.fail("Cannot validate connectivity: no door tiles")
		return result
	}

	var unreachable []string
	for _, exit := range exits {
		if engine.PathLength(grid, start, exit) < 0 {
			unreachable = append(unreachable, fmt.Sprintf("Door tile at (%d,%d)", exit.X, exit.Y))
		}
	}

	if len(unreachable) > 0 {
		result.fail("Connectivity failure: %d/%d door tiles unreachable from start", len(unreachable), len(exits))
		for _, tile := range unreachable {
			result.fail("Unreachable: %s", tile)
		}
	} else {
		result.note("✓ Connectivity: All %d door tiles reachable from start", len(exits))
	}

	return result
}

// configFiles lists the JSON and YAML documents in dir
func configFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// main validates every config in the directory given as the first argument
// (default "configs"), printing a concise report and exiting with non-zero
// status if any are invalid.
func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := configFiles(configDir)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}

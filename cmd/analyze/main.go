// Command analyze prints quick, human-readable heuristics about the game
// presets: free tiles, how many tiles may host the door and the dragons,
// whether every door tile can be reached from the player start, and how many
// dragon spawn tiles already smell the player on the first turn.
//
// Usage: analyze [config-dir]. Without a directory only the built-in presets
// are analyzed.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/wricardo/dragons-dungeon/game/config"
	"github.com/wricardo/dragons-dungeon/game/engine"
)

// Analysis summarizes one configuration
type Analysis struct {
	Name           string
	Width, Height  int
	FreeTiles      int
	ExitCandidates int
	// DragonCapacity is how many dragons fit once the door is placed
	DragonCapacity int
	DragonCount    int
	// UnreachableExits are door tiles with no route from the start
	UnreachableExits []engine.Position
	NearestExit      int
	FarthestExit     int
	// ExposedSpawns are dragon spawn tiles within smell range of the start
	ExposedSpawns int
	SpawnTiles    int
}

// Overcrowded reports whether the dragons cannot all be placed
func (a Analysis) Overcrowded() bool {
	return a.DragonCount > a.DragonCapacity
}

// ExposureRatio is the share of spawn tiles that alert on turn one
func (a Analysis) ExposureRatio() float64 {
	if a.SpawnTiles == 0 {
		return 0
	}
	return float64(a.ExposedSpawns) / float64(a.SpawnTiles)
}

func main() {
	dir := ""
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	manager, err := config.NewManager(dir)
	if err != nil {
		log.Fatalf("Failed to open configs: %v", err)
	}

	infos, err := manager.ListConfigs()
	if err != nil {
		log.Fatalf("Failed to list configs: %v", err)
	}

	for _, info := range infos {
		fmt.Printf("\n=== Analyzing %s ===\n", info.ConfigID)
		cfg, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			continue
		}
		printAnalysis(os.Stdout, analyzeConfig(cfg))
	}
}

func analyzeConfig(cfg *engine.GameConfig) Analysis {
	grid := engine.NewGrid(cfg.Width, cfg.Height)
	start := engine.PlayerStart(cfg.Width, cfg.Height)

	a := Analysis{
		Name:        cfg.Name,
		Width:       cfg.Width,
		Height:      cfg.Height,
		FreeTiles:   len(grid.FreeTiles()),
		DragonCount: cfg.DragonCount,
		NearestExit: -1,
	}

	exits := engine.ExitCandidates(grid)
	a.ExitCandidates = len(exits)
	for _, exit := range exits {
		steps := engine.PathLength(grid, start, exit)
		if steps < 0 {
			a.UnreachableExits = append(a.UnreachableExits, exit)
			continue
		}
		if a.NearestExit < 0 || steps < a.NearestExit {
			a.NearestExit = steps
		}
		if steps > a.FarthestExit {
			a.FarthestExit = steps
		}
	}

	// No door yet, and the door takes at most one spawn tile
	spawns := engine.DragonCandidates(grid, engine.Position{X: -1, Y: -1})
	a.SpawnTiles = len(spawns)
	a.DragonCapacity = max(len(spawns)-1, 0)
	for _, p := range spawns {
		if engine.WithinRadius(p, start, cfg.SmellRadius) {
			a.ExposedSpawns++
		}
	}

	return a
}

func printAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", a.Width, a.Height)
	fmt.Fprintf(w, "Free Tiles: %d\n", a.FreeTiles)
	fmt.Fprintf(w, "Door Tiles: %d\n", a.ExitCandidates)
	fmt.Fprintf(w, "Dragons: %d (room for %d)\n", a.DragonCount, a.DragonCapacity)

	if a.Overcrowded() {
		fmt.Fprintf(w, "⚠️  CRITICAL: %d dragons requested but only %d fit\n", a.DragonCount, a.DragonCapacity)
	}

	if len(a.UnreachableExits) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d door tiles are unreachable from the start!\n", len(a.UnreachableExits))
		for i, p := range a.UnreachableExits {
			if i < 5 {
				fmt.Fprintf(w, "   Unreachable: (%d, %d)\n", p.X, p.Y)
			}
		}
		if len(a.UnreachableExits) > 5 {
			fmt.Fprintf(w, "   ... and %d more\n", len(a.UnreachableExits)-5)
		}
	} else {
		fmt.Fprintf(w, "✅ Every door tile is reachable (%d to %d steps)\n", a.NearestExit, a.FarthestExit)
	}

	fmt.Fprintf(w, "Spawn tiles smelling the start: %d of %d (%.0f%%)\n",
		a.ExposedSpawns, a.SpawnTiles, a.ExposureRatio()*100)
}

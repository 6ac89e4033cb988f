package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wricardo/dragons-dungeon/game/engine"
)

func TestAnalyzeConfig_Normal(t *testing.T) {
	a := analyzeConfig(engine.Presets()[engine.PresetNormal])

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"free tiles", a.FreeTiles, 204},
		{"door tiles", a.ExitCandidates, 132},
		{"spawn tiles", a.SpawnTiles, 134},
		{"dragon capacity", a.DragonCapacity, 133},
		{"nearest door", a.NearestExit, 6},
		{"farthest door", a.FarthestExit, 26},
		{"exposed spawns", a.ExposedSpawns, 14},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}

	if len(a.UnreachableExits) != 0 {
		t.Errorf("Expected every door tile to be reachable, got %v", a.UnreachableExits)
	}
	if a.Overcrowded() {
		t.Error("Normal preset should not be overcrowded")
	}
}

func TestAnalyzeConfig_SmellGrowsExposure(t *testing.T) {
	presets := engine.Presets()
	easy := analyzeConfig(presets[engine.PresetEasy])
	hard := analyzeConfig(presets[engine.PresetHard])

	if easy.ExposureRatio() >= hard.ExposureRatio() {
		t.Errorf("Expected hard exposure %.2f above easy %.2f", hard.ExposureRatio(), easy.ExposureRatio())
	}
}

func TestAnalysis_Overcrowded(t *testing.T) {
	cfg := &engine.GameConfig{Name: "crowded", Width: 7, Height: 7, DragonCount: 49, SmellRadius: 1, InitialHealth: 1}
	a := analyzeConfig(cfg)
	if !a.Overcrowded() {
		t.Errorf("Expected %d dragons to overflow capacity %d", a.DragonCount, a.DragonCapacity)
	}

	var buf bytes.Buffer
	printAnalysis(&buf, a)
	if !strings.Contains(buf.String(), "CRITICAL: 49 dragons requested") {
		t.Errorf("Expected overcrowding warning, got:\n%s", buf.String())
	}
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	printAnalysis(&buf, analyzeConfig(engine.DefaultGameConfig()))
	out := buf.String()

	for _, want := range []string{
		"Name: normal",
		"Grid Size: 17 x 17",
		"Dragons: 3 (room for 133)",
		"Every door tile is reachable (6 to 26 steps)",
		"Spawn tiles smelling the start: 14 of 134",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalysis_ExposureRatioEmpty(t *testing.T) {
	if got := (Analysis{}).ExposureRatio(); got != 0 {
		t.Errorf("ExposureRatio() = %v, want 0", got)
	}
}

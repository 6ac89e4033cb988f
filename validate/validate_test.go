package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func hasMessage(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestValidateConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "classic.json", `{
		"name": "classic",
		"description": "Test configuration",
		"width": 17,
		"height": 17,
		"dragon_count": 3,
		"smell_radius": 5,
		"initial_health": 3
	}`)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}
	if result.File != "classic.json" {
		t.Errorf("Expected file name classic.json, got %s", result.File)
	}
	for _, want := range []string{"✓ Name: classic", "✓ Grid: 17x17", "✓ Connectivity", "✓ Health: 3"} {
		if !hasMessage(result.Errors, want) {
			t.Errorf("Expected %q in %v", want, result.Errors)
		}
	}
}

func TestValidateConfig_ValidYAML(t *testing.T) {
	path := writeConfig(t, "tiny.yaml", `name: tiny
width: 9
height: 11
dragon_count: 1
smell_radius: 2
initial_health: 2
seed: 42
glyphs:
  exit: "D"
`)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}
	if !hasMessage(result.Errors, "✓ Seed: 42") {
		t.Errorf("Expected seed note in %v", result.Errors)
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{
			name:    "broken json",
			file:    "broken.json",
			content: `{"name": "test", invalid json}`,
			want:    "Invalid document",
		},
		{
			name:    "broken yaml",
			file:    "broken.yaml",
			content: "name: [unclosed",
			want:    "Invalid document",
		},
		{
			name:    "too small",
			file:    "small.json",
			content: `{"name": "small", "width": 5, "height": 17, "initial_health": 3}`,
			want:    "width must be between",
		},
		{
			name:    "too many dragons",
			file:    "crowded.json",
			content: `{"name": "crowded", "width": 7, "height": 7, "dragon_count": 49, "initial_health": 3}`,
			want:    "dragons requested",
		},
		{
			name:    "no health",
			file:    "dead.json",
			content: `{"name": "dead", "width": 17, "height": 17, "initial_health": 0}`,
			want:    "initial_health",
		},
		{
			name:    "wide glyph",
			file:    "wide.json",
			content: `{"name": "wide", "width": 17, "height": 17, "initial_health": 3, "glyphs": {"wall": "###"}}`,
			want:    "glyphs.wall",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateConfig(writeConfig(t, tt.file, tt.content))
			if result.Valid {
				t.Fatal("Expected invalid config")
			}
			if !hasMessage(result.Errors, tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig(filepath.Join(t.TempDir(), "missing.json"))
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if !hasMessage(result.Errors, "Failed to read file") {
		t.Errorf("Expected read error, got %v", result.Errors)
	}
}

func TestValidateConnectivity(t *testing.T) {
	for _, size := range []int{7, 17, 31} {
		result := validateConnectivity(size, size)
		if !result.Valid {
			t.Errorf("%dx%d: expected every door tile to be reachable, got %v", size, size, result.Errors)
		}
	}
}

func TestConfigFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.json", "b.yaml", "c.yml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := configFiles(dir)
	if err != nil {
		t.Fatalf("configFiles failed: %v", err)
	}
	if len(files) != 3 {
		t.Errorf("Expected 3 config files, got %v", files)
	}
}

func TestShippedConfigsAreValid(t *testing.T) {
	files, err := configFiles(filepath.Join("..", "configs"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Skip("configs directory not found")
	}
	for _, file := range files {
		if result := validateConfig(file); !result.Valid {
			t.Errorf("%s: %v", result.File, result.Errors)
		}
	}
}

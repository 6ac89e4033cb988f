package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrGameOver      = errors.New("game is over")
)

// Built-in preset names
const (
	PresetEasy   = "easy"
	PresetNormal = "normal"
	PresetHard   = "hard"
)

// DefaultGlyphs returns the emoji set of the classic game. Hidden dragons and
// the dungeon door use the floor glyph so they blend into the map.
func DefaultGlyphs() Glyphs {
	return Glyphs{
		Wall:          "⬛",
		Floor:         "⬜",
		Exit:          "⬜",
		Player:        "😎",
		Dragon:        "⬜",
		VisibleDragon: "🐉",
		Heart:         "💜",
	}
}

// ASCIIGlyphs is a plain text glyph set for clients without emoji support.
// Unlike the classic set it shows the door.
func ASCIIGlyphs() Glyphs {
	return Glyphs{
		Wall:          "#",
		Floor:         ".",
		Exit:          "E",
		Player:        "@",
		Dragon:        ".",
		VisibleDragon: "D",
		Heart:         "+",
	}
}

// DefaultMessages returns the stock game texts
func DefaultMessages() Messages {
	return Messages{
		Welcome:  "Find the dungeon door. Dragons are hiding in the dark.",
		Alert:    "ALERT: Dragon is suspicious and might move towards you!",
		Hit:      "A dragon burned you! Health: %d",
		Blocked:  "A wall blocks the way %s.",
		Invalid:  "Enter up, down, left or right to move.",
		Victory:  "YAY! YOU WON :)",
		Defeat:   "SORRY, YOU LOST :(",
		GameOver: "The game is over.",
	}
}

// Presets returns the built-in difficulty levels keyed by name
func Presets() map[string]*GameConfig {
	mk := func(name, desc string, dragons, health, smell int) *GameConfig {
		return &GameConfig{
			Name:          name,
			Description:   desc,
			Width:         17,
			Height:        17,
			DragonCount:   dragons,
			SmellRadius:   smell,
			RevealRadius:  DefaultReveal,
			InitialHealth: health,
			Glyphs:        DefaultGlyphs(),
			Messages:      DefaultMessages(),
		}
	}
	return map[string]*GameConfig{
		PresetEasy:   mk(PresetEasy, "Two dragons with a weak sense of smell", 2, 4, 3),
		PresetNormal: mk(PresetNormal, "Three dragons, the classic dungeon", 3, 3, 5),
		PresetHard:   mk(PresetHard, "Four keen-nosed dragons", 4, 4, 7),
	}
}

// DefaultGameConfig returns the normal preset
func DefaultGameConfig() *GameConfig {
	return Presets()[PresetNormal]
}

// ApplyDefaults fills unset display fields. Logic fields are left untouched
// so validation still catches them.
func ApplyDefaults(config *GameConfig) {
	g := DefaultGlyphs()
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&config.Glyphs.Wall, g.Wall)
	fill(&config.Glyphs.Floor, g.Floor)
	fill(&config.Glyphs.Exit, g.Exit)
	fill(&config.Glyphs.Player, g.Player)
	fill(&config.Glyphs.Dragon, g.Dragon)
	fill(&config.Glyphs.VisibleDragon, g.VisibleDragon)
	fill(&config.Glyphs.Heart, g.Heart)

	m := DefaultMessages()
	fill(&config.Messages.Welcome, m.Welcome)
	fill(&config.Messages.Alert, m.Alert)
	fill(&config.Messages.Hit, m.Hit)
	fill(&config.Messages.Blocked, m.Blocked)
	fill(&config.Messages.Invalid, m.Invalid)
	fill(&config.Messages.Victory, m.Victory)
	fill(&config.Messages.Defeat, m.Defeat)
	fill(&config.Messages.GameOver, m.GameOver)

	if config.RevealRadius == 0 {
		config.RevealRadius = DefaultReveal
	}
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	// Validate grid size
	if config.Width < MinGridSize || config.Width > MaxGridSize {
		return fmt.Errorf("%w: width must be between %d and %d, got %d", ErrInvalidConfig, MinGridSize, MaxGridSize, config.Width)
	}
	if config.Height < MinGridSize || config.Height > MaxGridSize {
		return fmt.Errorf("%w: height must be between %d and %d, got %d", ErrInvalidConfig, MinGridSize, MaxGridSize, config.Height)
	}

	// Validate creatures
	if config.DragonCount < 0 {
		return fmt.Errorf("%w: dragon_count must not be negative, got %d", ErrInvalidConfig, config.DragonCount)
	}
	if config.SmellRadius < 0 {
		return fmt.Errorf("%w: smell_radius must not be negative, got %d", ErrInvalidConfig, config.SmellRadius)
	}
	if config.RevealRadius < 0 {
		return fmt.Errorf("%w: reveal_radius must not be negative, got %d", ErrInvalidConfig, config.RevealRadius)
	}
	if config.InitialHealth < MinHealth {
		return fmt.Errorf("%w: initial_health must be at least %d, got %d", ErrInvalidConfig, MinHealth, config.InitialHealth)
	}

	// Validate that the layout can host every entity
	grid := NewGrid(config.Width, config.Height)
	start := PlayerStart(config.Width, config.Height)
	if grid.IsWall(start) {
		return fmt.Errorf("%w: player start (%d,%d) is a wall", ErrInvalidConfig, start.X, start.Y)
	}
	exits := ExitCandidates(grid)
	if len(exits) == 0 {
		return fmt.Errorf("%w: no free tile available for the exit", ErrInvalidConfig)
	}
	// The exit takes at most one dragon candidate
	capacity := len(DragonCandidates(grid, Position{X: -1, Y: -1}))
	if config.DragonCount > capacity-1 {
		return fmt.Errorf("%w: %d dragons requested but only %d free tiles can host them",
			ErrInvalidConfig, config.DragonCount, capacity-1)
	}

	// Validate format strings
	if config.Messages.Hit != "" && !strings.Contains(config.Messages.Hit, "%d") {
		return fmt.Errorf("%w: messages.hit must contain %%d for health", ErrInvalidConfig)
	}
	if config.Messages.Blocked != "" && !strings.Contains(config.Messages.Blocked, "%s") {
		return fmt.Errorf("%w: messages.blocked must contain %%s for the direction", ErrInvalidConfig)
	}

	return nil
}

// PlayerStart is where the player enters the dungeon: bottom row, centered
func PlayerStart(width, height int) Position {
	return Position{X: width / 2, Y: height - 2}
}

// ExitCandidates lists the free tiles the dungeon door may be placed on.
// The door always sits in the upper part of the map.
func ExitCandidates(g *Grid) []Position {
	maxY := g.Height - (g.Height/3 + 2)
	var out []Position
	for y := 1; y <= maxY; y++ {
		for x := 1; x <= g.Width-2; x++ {
			p := Position{X: x, Y: y}
			if !g.IsWall(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// DragonCandidates lists the free tiles a dragon may spawn on, excluding the
// exit and the player start.
func DragonCandidates(g *Grid, exit Position) []Position {
	maxY := g.Height - g.Height/3
	start := PlayerStart(g.Width, g.Height)
	var out []Position
	for y := 2; y <= maxY && y < g.Height-1; y++ {
		for x := 2; x <= g.Width-2; x++ {
			p := Position{X: x, Y: y}
			if p == exit || p == start || g.IsWall(p) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// DecodeGameConfig parses a config document. ext selects YAML (".yaml",
// ".yml") or JSON (anything else).
func DecodeGameConfig(data []byte, ext string) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse yaml config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse json config: %w", err)
		}
	}
	ApplyDefaults(&config)
	return &config, nil
}

// EncodeGameConfig is the inverse of DecodeGameConfig
func EncodeGameConfig(config *GameConfig, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Marshal(config)
	default:
		return json.MarshalIndent(config, "", "  ")
	}
}

// LoadGameConfig loads and validates a game configuration file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := DecodeGameConfig(data, filepath.Ext(filename))
	if err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

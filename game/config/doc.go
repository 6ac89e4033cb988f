// Package config provides configuration management for Dungeon & Dragons.
//
// The config package handles:
//   - Loading game configurations from JSON or YAML files
//   - Configuration validation and verification
//   - Built-in difficulty presets (easy, normal, hard)
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Game configurations are stored as .json, .yaml or .yml files in the configs
// directory. Each configuration defines:
//   - Dungeon width and height
//   - Number of dragons, their smell radius and the reveal radius
//   - Initial player health
//   - Display glyphs and game messages
//
// A file named after a preset (for example normal.yaml) overrides it.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	gameConfig, err := manager.LoadConfig("hard")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
package config

// Package engine provides the core game logic for Dungeon & Dragons.
//
// The engine package implements the game mechanics including:
//   - Grid construction with a fixed border and cross partition
//   - Player movement resolution against walls
//   - Dragon perception (scent radius) and pursuit
//   - Health loss, victory and defeat evaluation
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState represents the current game state,
// while GameConfig defines the dungeon size, the dragons and the display
// glyphs, loaded from JSON or YAML files.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/normal.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Move the player
//	result := gameEngine.Move("up")
//	fmt.Println(result.Outcome, result.Health)
//
// Game Rules:
//
// The player starts at the bottom of the dungeon and looks for a hidden door.
// Dragons within smell radius of the player are alerted and move, pursuing
// more eagerly when close. Every dragon next to the player costs one health
// point. The game is lost when health reaches zero or a dragon lands on the
// player, and won when the player reaches the door.
package engine

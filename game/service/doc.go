// Package service provides the business logic layer for Dungeon & Dragons.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration lookup
//   - Turn processing and event reporting
//   - Move history pagination
//   - Player accounts and result recording
//
// Core Interfaces:
//
// GameService is the main service interface used by every transport.
// SessionManager stores live sessions, ConfigManager resolves presets and
// custom configurations, and PlayerRegistry keeps accounts.
//
// The service serializes access to sessions with a single lock, so a turn
// is always applied as a whole. When a session bound to a player reaches a
// win or a loss, the result is written to the registry exactly once. A reset
// starts a new game that is recorded again.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, registry)
//
//	info, err := gameService.CreateSession(ctx, "hard", "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "up", false)
package service

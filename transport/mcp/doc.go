// Package mcp provides a Model Context Protocol server for Dungeon & Dragons.
//
// The server is a thin client of the REST API: every tool call is forwarded
// to the HTTP server and the JSON answer is turned into text an AI agent can
// read. Boards are drawn with the plain text glyph set (@ player, E door,
// D visible dragon, # wall, . floor) so they survive any terminal font.
//
// MCP Tools:
//   - create_session: Create new game session, optionally for a registered player
//   - list_sessions, get_session: Inspect running sessions
//   - game_state: Current board, health and turn
//   - move: One turn in a direction
//   - bulk_move: Up to engine.MaxBulkMoves turns in sequence
//   - reset_game: Restart the session on the same dungeon
//   - move_history: Paginated turn history
//   - list_configs: Difficulty presets and custom configs
//   - leaderboard: Player standings
//   - game_instructions: The full rules
//   - describe_cell: What a single tile is, without revealing hidden dragons
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp

package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/dragons-dungeon/game/engine"
	"github.com/wricardo/dragons-dungeon/game/players"
	"github.com/wricardo/dragons-dungeon/game/service"
)

const gameInstructions = `🐉 Dungeon & Dragons - Complete Instructions

GAME OBJECTIVE:
Walk out of the dungeon through its door without being eaten by a dragon.

GAME MECHANICS:
• Every command is one turn: you move first, then the dragons act
• Walls (#) block you; bumping into one still costs the turn
• A dragon that can smell you (within its smell radius) is ALERTED and moves
• Alerted dragons close to you (two tiles or less) chase you most of the time;
  farther ones usually wander
• Every dragon standing right next to you (not diagonally) burns one health point
• Dragons never walk through walls and never share a tile

VICTORY:
• Step on the door (E) while you still have health

DEFEAT:
• Health reaches 0, or a dragon ends its move on your tile

GRID LEGEND:
• @ - You
• E - The dungeon door
• D - A dragon close enough to see
• # - Wall (impassable)
• . - Floor. Dragons far away look like floor too!

THE DUNGEON:
The border is solid wall and a cross of walls splits the middle of the map.
The four rooms connect through gaps next to the border. You always start on
the bottom row in the middle.

STRATEGY:
- Watch the danger level after every move: critical, danger, caution, low, safe
- Keep at least two tiles between you and any visible dragon
- Alerted dragons are listed after each move; a long detour beats a hit
- Use bulk_move for long safe corridors, single moves near dragons

DIFFICULTY:
- easy: fewer dragons, more health, weak sense of smell
- normal: 3 dragons, 3 health, smell radius 5
- hard: more dragons, less health, keen sense of smell

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has a unique 4-character ID
- Pass a registered player name to create_session to count the result
  towards the leaderboard

Good luck, and mind the dark! 🕯️`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	player := session.Player
	if player == "" {
		player = "anonymous"
	}
	return fmt.Sprintf("Session: %s\nConfig: %s\nPlayer: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, player,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// boardLines renders the state with the plain text glyph set
func boardLines(state *engine.GameState) ([]string, error) {
	g, err := engine.GridFromState(state)
	if err != nil {
		return nil, err
	}
	return engine.RenderBoard(g, state, engine.ASCIIGlyphs(), engine.DefaultReveal), nil
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Position: (%d,%d) | Health: %d/%d | Turn: %d | Moves: %d | Outcome: %s\n",
		state.PlayerPos.X, state.PlayerPos.Y,
		state.Health, state.MaxHealth, state.Turn, state.TotalMoves, state.Outcome)
	fmt.Fprintf(&result, "Door: (%d,%d)\n", state.ExitPos.X, state.ExitPos.Y)
	if len(state.Alerted) > 0 {
		fmt.Fprintf(&result, "Alerted dragons: %s\n", formatPositions(state.Alerted))
	}
	result.WriteString("\n")

	rows, err := boardLines(state)
	if err != nil {
		fmt.Fprintf(&result, "(board unavailable: %v)\n", err)
	} else {
		for _, row := range rows {
			result.WriteString(row)
			result.WriteString("\n")
		}
	}

	if state.GameOver {
		if state.Victory {
			result.WriteString("\n🎉 VICTORY!")
		} else {
			result.WriteString("\n💀 GAME OVER")
		}
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}

	return result.String()
}

func formatPositions(ps []engine.Position) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func formatEvents(b *strings.Builder, events []service.GameEvent) {
	if len(events) == 0 {
		return
	}
	b.WriteString("Events:\n")
	for _, event := range events {
		fmt.Fprintf(b, "- %s: %s\n", event.Type, event.Message)
	}
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	t := result.Turn

	switch {
	case !t.Applied:
		b.WriteString("✗ Move not applied\n")
	case t.Moved:
		b.WriteString("✓ Move successful\n")
	default:
		b.WriteString("✗ Blocked by a wall, turn used\n")
	}

	if t.Applied {
		fmt.Fprintf(&b, "Step: %s (%d,%d)→(%d,%d) health=%d", t.Direction,
			t.From.X, t.From.Y, t.PlayerPos.X, t.PlayerPos.Y, t.Health)
		if t.HealthLost > 0 {
			fmt.Fprintf(&b, " (-%d)", t.HealthLost)
		}
		if len(t.Alerted) > 0 {
			fmt.Fprintf(&b, " alerted=%d", len(t.Alerted))
		}
		b.WriteString("\n")
	}

	formatEvents(&b, result.Events)

	if result.Danger != "" {
		fmt.Fprintf(&b, "Danger: %s\n", result.Danger)
	}
	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(result.PossibleMoves, ","))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	configName := ""
	if result.GameState != nil {
		configName = result.GameState.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s\n", sessionID, configName)

	fmt.Fprintf(&b, "Executed %d/%d moves\n", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "Only the first %d moves were used\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d (%s): %s\n", result.StoppedOnMove, result.StopReasonCode, result.StoppedReason)
	}
	fmt.Fprintf(&b, "Health: %d → %d\n", result.StartHealth, result.EndHealth)

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for _, s := range result.Steps {
			b.WriteString(formatStepLine(s))
		}
	}

	if len(result.Events) > 0 {
		b.WriteString("\n")
		formatEvents(&b, result.Events)
	}

	if result.Danger != "" {
		fmt.Fprintf(&b, "\nDanger: %s\n", result.Danger)
	}
	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(result.PossibleMoves, ","))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

// formatStepLine renders a single compact step line
func formatStepLine(s service.StepInfo) string {
	status := "✓"
	if !s.Moved {
		status = "✗"
	}
	line := fmt.Sprintf("%d. %s (%d,%d)→(%d,%d) health=%d %s",
		s.Idx, s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y, s.HealthAfter, status)
	if s.HealthAfter < s.HealthBefore {
		line += fmt.Sprintf(" hit(-%d)", s.HealthBefore-s.HealthAfter)
	}
	if s.Alerted > 0 {
		line += fmt.Sprintf(" alerted=%d", s.Alerted)
	}
	if s.Outcome.Terminal() {
		line += " " + string(s.Outcome)
	}
	return line + "\n"
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d) • Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	if len(history.Moves) == 0 {
		b.WriteString("(no moves yet)\n")
		return b.String()
	}

	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s (%d,%d)→(%d,%d) [Health: %d]",
			move.MoveNumber, move.Action, status,
			move.FromPosition.X, move.FromPosition.Y,
			move.ToPosition.X, move.ToPosition.Y, move.Health)
		if move.Alerted > 0 {
			fmt.Fprintf(&b, " alerted=%d", move.Alerted)
		}
		if move.Outcome.Terminal() {
			fmt.Fprintf(&b, " %s", move.Outcome)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func formatConfigs(configs []service.ConfigInfo) string {
	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		kind := "custom"
		if config.BuiltIn {
			kind = "built-in"
		}
		fmt.Fprintf(&b, "• %s [%s, %s]\n  %s\n  Grid: %dx%d, Dragons: %d, Smell: %d, Health: %d\n\n",
			config.Name, config.ConfigID, kind, config.Description,
			config.Width, config.Height, config.DragonCount, config.SmellRadius, config.InitialHealth)
	}
	return b.String()
}

func formatLeaderboard(standings []players.Standing) string {
	if len(standings) == 0 {
		return "No players registered yet."
	}

	var b strings.Builder
	b.WriteString("Leaderboard (lowest win ratio first):\n\n")
	fmt.Fprintf(&b, "%-4s %-16s %5s %5s %7s\n", "#", "Player", "Won", "Lost", "Ratio")
	for _, s := range standings {
		fmt.Fprintf(&b, "%-4d %-16s %5d %5d %6.1f%%\n", s.Rank, s.Username, s.GamesWon, s.GamesLost, s.WinRatio)
	}
	return b.String()
}

// describeCell explains a single tile the way the board shows it, so hidden
// dragons stay hidden
func describeCell(state *engine.GameState, p engine.Position) (string, error) {
	if p.X < 0 || p.Y < 0 || p.X >= state.Width || p.Y >= state.Height {
		return "", fmt.Errorf("coordinates (%d, %d) are out of bounds. Grid size is %dx%d (0-%d for x, 0-%d for y)",
			p.X, p.Y, state.Width, state.Height, state.Width-1, state.Height-1)
	}

	g, err := engine.GridFromState(state)
	if err != nil {
		return "", err
	}

	var char, kind, description string
	passable := true

	switch g.At(p) {
	case engine.Wall:
		char, kind, passable = "#", "Wall", false
		description = "Solid rock - IMPASSABLE. Moving into it wastes the turn."
	case engine.Player:
		char, kind = "@", "Player"
		description = "Your current position"
	case engine.Exit:
		char, kind = "E", "Door"
		description = "The dungeon door - step here to win!"
	case engine.Dragon:
		if state.GameOver || engine.WithinRadius(p, state.PlayerPos, engine.DefaultReveal) {
			char, kind = "D", "Dragon"
			description = "A dragon! Stepping here ends the game."
		} else {
			char, kind = ".", "Floor"
			description = "Dark floor"
		}
	default:
		char, kind = ".", "Floor"
		description = "Dark floor"
	}

	return fmt.Sprintf(`Cell at position (%d, %d):
━━━━━━━━━━━━━━━━━━━━━━━━
Character: %s
Type: %s
Passable: %v
Description: %s`,
		p.X, p.Y, char, kind, passable, description), nil
}

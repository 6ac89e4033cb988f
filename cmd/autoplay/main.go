// Command autoplay plays games through the REST API with a path-finding bot
// and reports how often it escapes on each difficulty. It is a balance check
// for the presets: a preset the bot always wins is too easy.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/dragons-dungeon/game/engine"
)

// GameResult is the end of one bot game
type GameResult struct {
	Config    string
	SessionID string
	Outcome   engine.Outcome
	Turns     int
	Health    int
}

// Summary aggregates the games played on one config
type Summary struct {
	Config   string
	Games    int
	Wins     int
	Losses   int
	WinTurns int
}

func (s *Summary) Add(r GameResult) {
	s.Games++
	switch r.Outcome {
	case engine.Win:
		s.Wins++
		s.WinTurns += r.Turns
	case engine.Loss:
		s.Losses++
	}
}

// WinRatio is the percentage of games won
func (s Summary) WinRatio() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games) * 100
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "let a bot play the dungeon through the API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL", Sources: cli.EnvVars("API_URL")},
			&cli.StringSliceFlag{Name: "config", Value: []string{engine.PresetEasy, engine.PresetNormal, engine.PresetHard}, Usage: "configs to play"},
			&cli.IntFlag{Name: "games", Value: 20, Usage: "games per config"},
			&cli.IntFlag{Name: "max-turns", Value: 500, Usage: "give up a game after this many turns"},
			&cli.BoolFlag{Name: "v", Usage: "print every game"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client := NewClient(cmd.String("url"))
			strategy := NewStrategy()
			games := int(cmd.Int("games"))
			maxTurns := int(cmd.Int("max-turns"))

			log.Printf("Connecting to game server at %s", cmd.String("url"))
			for _, configID := range cmd.StringSlice("config") {
				summary := Summary{Config: configID}
				for i := 0; i < games; i++ {
					result, err := playGame(ctx, client, strategy, configID, maxTurns)
					if err != nil {
						return err
					}
					summary.Add(result)
					if cmd.Bool("v") {
						printResult(os.Stdout, result)
					}
				}
				printSummary(os.Stdout, summary)
			}
			return nil
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// playGame runs one session to its end or until maxTurns
func playGame(ctx context.Context, client *Client, strategy *Strategy, configID string, maxTurns int) (GameResult, error) {
	info, err := client.CreateSession(ctx, configID)
	if err != nil {
		return GameResult{}, err
	}
	defer func() {
		if err := client.DeleteSession(context.Background(), info.ID); err != nil {
			log.Printf("Failed to delete session %s: %v", info.ID, err)
		}
	}()

	smell := 0
	if info.GameConfig != nil {
		smell = info.GameConfig.SmellRadius
	}

	state := info.GameState
	for !state.GameOver && state.Turn < maxTurns {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}

		moves := strategy.NextMoves(state, smell)
		if len(moves) == 0 {
			moves = []string{waitMove(state)}
		}

		result, err := client.BulkMove(ctx, info.ID, moves)
		if err != nil {
			return GameResult{}, err
		}
		if result.GameState == nil {
			return GameResult{}, fmt.Errorf("bulk move on %s returned no state", info.ID)
		}
		state = result.GameState
	}

	return GameResult{
		Config:    configID,
		SessionID: info.ID,
		Outcome:   state.Outcome,
		Turns:     state.Turn,
		Health:    state.Health,
	}, nil
}

// waitMove picks a step that does not walk onto a dragon, preferring one
// that actually moves. Walking into a wall just spends the turn.
func waitMove(state *engine.GameState) string {
	grid := engine.NewGrid(state.Width, state.Height)
	dragons := make(map[engine.Position]bool, len(state.Dragons))
	for _, d := range state.Dragons {
		dragons[d] = true
	}

	fallback := ""
	for _, dir := range engine.Directions {
		next := engine.Resolve(grid, state.PlayerPos, dir.Delta())
		if dragons[next] {
			continue
		}
		if next != state.PlayerPos {
			return string(dir)
		}
		if fallback == "" {
			fallback = string(dir)
		}
	}
	if fallback == "" {
		fallback = string(engine.Up)
	}
	return fallback
}

func printResult(w io.Writer, r GameResult) {
	fmt.Fprintf(w, "[%s] session=%s outcome=%s turns=%d health=%d\n", r.Config, r.SessionID, r.Outcome, r.Turns, r.Health)
}

func printSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\n=== %s ===\n", s.Config)
	fmt.Fprintf(w, "Won %d/%d (%.1f%%), lost %d, unfinished %d\n", s.Wins, s.Games, s.WinRatio(), s.Losses, s.Games-s.Wins-s.Losses)
	if s.Wins > 0 {
		fmt.Fprintf(w, "Average turns to escape: %.1f\n", float64(s.WinTurns)/float64(s.Wins))
	}
}

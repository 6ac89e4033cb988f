package terminal

import (
	"fmt"
	"strings"

	"github.com/wricardo/dragons-dungeon/game/engine"
)

const keyHint = "arrows / WASD / hjkl to move, q to quit"

// Frame lists the text lines of one screen, top to bottom
type Frame struct {
	Title  string
	Board  []string
	Status string
	Alert  string
	Notice string
	Hint   string
}

// Lines flattens the frame, skipping empty lines other than the spacer under
// the board
func (f Frame) Lines() []string {
	lines := make([]string, 0, len(f.Board)+6)
	if f.Title != "" {
		lines = append(lines, f.Title, "")
	}
	lines = append(lines, f.Board...)
	lines = append(lines, "")
	for _, l := range []string{f.Status, f.Alert, f.Notice, f.Hint} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// BuildFrame lays out the board, the health hearts and the messages of the
// current turn. It never touches the screen.
func BuildFrame(config *engine.GameConfig, state *engine.GameState, player string) Frame {
	title := config.Name
	if player != "" {
		title = fmt.Sprintf("%s | %s", config.Name, player)
	}

	health := state.Health
	if health < 0 {
		health = 0
	}
	status := fmt.Sprintf("Health: %s  Turn: %d", strings.Repeat(config.Glyphs.Heart, health), state.Turn)

	f := Frame{
		Title:  title,
		Board:  state.Board,
		Status: status,
		Notice: state.Message,
		Hint:   keyHint,
	}

	if len(state.Alerted) > 0 && !state.GameOver {
		f.Alert = config.Messages.Alert
		// The turn message repeats the alert, keep it on its own line only
		f.Notice = strings.TrimSpace(strings.Replace(f.Notice, f.Alert, "", 1))
	}

	if state.GameOver {
		f.Hint = ""
		if state.Victory {
			f.Notice = config.Messages.Victory
		} else {
			f.Notice = config.Messages.Defeat
		}
	}
	return f
}

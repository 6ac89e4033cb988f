package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/dragons-dungeon/game/engine"
)

// KeyMap binds runes and special keys to game commands
type KeyMap struct {
	Runes map[rune]engine.Direction
	Keys  map[tcell.Key]engine.Direction
	Quit  []rune
}

// DefaultKeyMap accepts arrow keys, WASD and vi-style hjkl
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Runes: map[rune]engine.Direction{
			'w': engine.Up, 'W': engine.Up, 'k': engine.Up,
			's': engine.Down, 'S': engine.Down, 'j': engine.Down,
			'a': engine.Left, 'A': engine.Left, 'h': engine.Left,
			'd': engine.Right, 'D': engine.Right, 'l': engine.Right,
		},
		Keys: map[tcell.Key]engine.Direction{
			tcell.KeyUp:    engine.Up,
			tcell.KeyDown:  engine.Down,
			tcell.KeyLeft:  engine.Left,
			tcell.KeyRight: engine.Right,
		},
		Quit: []rune{'q', 'Q'},
	}
}

// Command translates a key press. Unbound keys give an invalid command.
func (km KeyMap) Command(ev *tcell.EventKey) engine.Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return engine.Command{Kind: engine.CommandQuit, Raw: "quit"}
	case tcell.KeyRune:
		r := ev.Rune()
		for _, q := range km.Quit {
			if r == q {
				return engine.Command{Kind: engine.CommandQuit, Raw: string(r)}
			}
		}
		if d, ok := km.Runes[r]; ok {
			return engine.Move(d)
		}
		return engine.Command{Kind: engine.CommandInvalid, Raw: string(r)}
	}

	if d, ok := km.Keys[ev.Key()]; ok {
		return engine.Move(d)
	}
	return engine.Command{Kind: engine.CommandInvalid, Raw: ev.Name()}
}

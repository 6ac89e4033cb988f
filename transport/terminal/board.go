package terminal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/wricardo/dragons-dungeon/game/engine"
)

// ErrScreenClosed is returned when the screen goes away mid-game
var ErrScreenClosed = errors.New("screen closed")

// EndPause is how long the final board stays up before returning
const EndPause = time.Second

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorMediumPurple)
	styleAlert   = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorRed)
	styleNotice  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHint    = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Board runs games on a tcell screen
type Board struct {
	screen tcell.Screen
	sounds Sounds
	keys   KeyMap
	pause  time.Duration

	events chan tcell.Event
	done   chan struct{}
}

// OpenBoard takes over the terminal. Close gives it back.
func OpenBoard(sounds Sounds) (*Board, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return NewBoard(screen, sounds), nil
}

// NewBoard wraps an initialized screen and starts reading its events
func NewBoard(screen tcell.Screen, sounds Sounds) *Board {
	if sounds == nil {
		sounds = Silent{}
	}
	b := &Board{
		screen: screen,
		sounds: sounds,
		keys:   DefaultKeyMap(),
		pause:  EndPause,
		events: make(chan tcell.Event, 16),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(b.events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case b.events <- ev:
			case <-b.done:
				return
			}
		}
	}()

	return b
}

// Close restores the terminal
func (b *Board) Close() {
	close(b.done)
	b.screen.Fini()
}

// Play runs one game until it ends or the player quits. A quit returns the
// ongoing outcome.
func (b *Board) Play(ctx context.Context, eng *engine.GameEngine, player string) (engine.Outcome, error) {
	config := eng.GetConfig()
	b.draw(BuildFrame(config, eng.GetState(), player))

	for {
		select {
		case <-ctx.Done():
			return eng.GetState().Outcome, ctx.Err()

		case ev, ok := <-b.events:
			if !ok {
				return eng.GetState().Outcome, ErrScreenClosed
			}

			switch ev := ev.(type) {
			case *tcell.EventResize:
				b.screen.Sync()
				b.draw(BuildFrame(config, eng.GetState(), player))

			case *tcell.EventKey:
				cmd := b.keys.Command(ev)
				if cmd.Kind == engine.CommandQuit {
					return eng.GetState().Outcome, nil
				}

				turn := eng.Apply(cmd)
				b.sounds.Play(CuesFor(turn)...)

				frame := BuildFrame(config, eng.GetState(), player)
				if !turn.Applied {
					frame.Notice = turn.Message
				}
				b.draw(frame)

				if turn.Outcome.Terminal() {
					b.wait(ctx)
					return turn.Outcome, nil
				}
			}
		}
	}
}

func (b *Board) wait(ctx context.Context) {
	if b.pause <= 0 {
		return
	}
	timer := time.NewTimer(b.pause)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (b *Board) draw(f Frame) {
	b.screen.Clear()

	y := 0
	put := func(line string, style tcell.Style) {
		x := 0
		for _, r := range line {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				// Variation selectors and other zero-width runes
				continue
			}
			b.screen.SetContent(x, y, r, nil, style)
			x += w
		}
		y++
	}

	if f.Title != "" {
		put(f.Title, styleTitle)
		y++
	}
	for _, row := range f.Board {
		put(row, styleDefault)
	}
	y++
	put(f.Status, styleDefault)
	if f.Alert != "" {
		put(f.Alert, styleAlert)
	}
	if f.Notice != "" {
		put(f.Notice, styleNotice)
	}
	if f.Hint != "" {
		put(f.Hint, styleHint)
	}

	b.screen.Show()
}

// ScreenPlayer plays each game on a fresh full-screen board, handing the
// terminal back to the menus in between
func ScreenPlayer(sounds Sounds) PlayFunc {
	return func(ctx context.Context, config *engine.GameConfig, player string) (*engine.GameState, error) {
		eng, err := engine.NewEngine(config)
		if err != nil {
			return nil, err
		}

		board, err := OpenBoard(sounds)
		if err != nil {
			return nil, fmt.Errorf("failed to open terminal screen: %w", err)
		}
		defer board.Close()

		if _, err := board.Play(ctx, eng, player); err != nil {
			return nil, err
		}
		return eng.GetState(), nil
	}
}

package terminal

import (
	"context"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/dragons-dungeon/game/engine"
)

type zeroRoller struct{}

func (zeroRoller) IntN(int) int { return 0 }

type recordingSounds struct {
	played []Cue
	closed bool
}

func (r *recordingSounds) Play(cues ...Cue) { r.played = append(r.played, cues...) }
func (r *recordingSounds) Close()           { r.closed = true }

func newTestBoard(t *testing.T) (*Board, tcell.SimulationScreen, *recordingSounds) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 30)

	sounds := &recordingSounds{}
	b := NewBoard(screen, sounds)
	b.pause = 0
	t.Cleanup(b.Close)
	return b, screen, sounds
}

// newTestEngine puts the door right above the player and one dragon far away
func newTestEngine(t *testing.T) *engine.GameEngine {
	t.Helper()
	eng, err := engine.NewEngineFromLayout(engine.DefaultGameConfig(), engine.Layout{
		Exit:    engine.Position{X: 8, Y: 14},
		Player:  engine.Position{X: 8, Y: 15},
		Dragons: []engine.Position{{X: 2, Y: 2}},
	}, zeroRoller{})
	require.NoError(t, err)
	return eng
}

func rowText(screen tcell.SimulationScreen, y, width int) string {
	var out []rune
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		out = append(out, r)
	}
	return string(out)
}

func TestBoard_PlayToVictory(t *testing.T) {
	b, screen, sounds := newTestBoard(t)
	eng := newTestEngine(t)

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	screen.InjectKey(tcell.KeyUp, 0, tcell.ModNone)

	outcome, err := b.Play(context.Background(), eng, "amy")
	require.NoError(t, err)

	assert.Equal(t, engine.Win, outcome)
	assert.Equal(t, 1, eng.GetState().Turn, "invalid key must not use a turn")
	assert.Equal(t, []Cue{CueWin}, sounds.played)
	assert.Equal(t, "normal | amy", rowText(screen, 0, len("normal | amy")))
}

func TestBoard_Quit(t *testing.T) {
	b, screen, sounds := newTestBoard(t)
	eng := newTestEngine(t)

	screen.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	outcome, err := b.Play(context.Background(), eng, "")
	require.NoError(t, err)

	assert.Equal(t, engine.Ongoing, outcome)
	assert.Equal(t, engine.Position{X: 7, Y: 15}, eng.GetState().PlayerPos)
	assert.Empty(t, sounds.played)
}

func TestBoard_ContextCancelled(t *testing.T) {
	b, _, _ := newTestBoard(t)
	eng := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := b.Play(ctx, eng, "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, engine.Ongoing, outcome)
}

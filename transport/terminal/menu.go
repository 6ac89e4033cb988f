package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/wricardo/dragons-dungeon/game/engine"
	"github.com/wricardo/dragons-dungeon/game/players"
)

const helpText = `HOW TO PLAY
You are lost in a dark dungeon. Find the hidden door and walk through it.
Dragons sleep in the dark. When one smells you it wakes up and moves, and it
chases you harder the closer you are. You only see a dragon when it is near.
Every dragon right next to you burns one heart. Lose all hearts, or let a
dragon step onto you, and the game is over.

Move with the arrow keys, WASD or hjkl. Walking into a wall wastes the turn.
Press q or Esc to give up.`

// Accounts is the part of the player registry the menus need
type Accounts interface {
	Register(username, password, repeat string) (*players.Player, error)
	Login(username, password string) (*players.Player, error)
	RecordResult(username string, outcome engine.Outcome) (*players.Player, error)
	Leaderboard() ([]players.Standing, error)
}

// Presets resolves difficulty names to configurations
type Presets interface {
	LoadConfig(name string) (*engine.GameConfig, error)
}

// PlayFunc runs one game and returns its final state
type PlayFunc func(ctx context.Context, config *engine.GameConfig, player string) (*engine.GameState, error)

// Menu is the line-based front end around the games
type Menu struct {
	in           *bufio.Reader
	out          io.Writer
	readPassword func() (string, error)

	accounts Accounts
	presets  Presets
	play     PlayFunc

	player string
}

// NewMenu creates the menus. accounts may be nil to play as a guest without
// statistics.
func NewMenu(in io.Reader, out io.Writer, accounts Accounts, presets Presets, play PlayFunc) *Menu {
	m := &Menu{
		in:       bufio.NewReader(in),
		out:      out,
		accounts: accounts,
		presets:  presets,
		play:     play,
	}
	m.readPassword = m.readLine
	return m
}

// HidePasswords reads passwords from fd without echo when it is a terminal
func (m *Menu) HidePasswords(fd int) {
	if !term.IsTerminal(fd) {
		return
	}
	m.hidePasswords(func() ([]byte, error) { return term.ReadPassword(fd) })
}

// hidePasswords reads passwords with raw. Input typed ahead and already
// buffered is read from the buffer so it is not skipped.
func (m *Menu) hidePasswords(raw func() ([]byte, error)) {
	m.readPassword = func() (string, error) {
		if m.in.Buffered() > 0 {
			return m.readLine()
		}
		b, err := raw()
		fmt.Fprintln(m.out)
		return string(b), err
	}
}

// Run shows the start page until the user quits or input ends
func (m *Menu) Run(ctx context.Context) error {
	fmt.Fprintln(m.out, renderLogo())

	err := m.startPage(ctx)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (m *Menu) startPage(ctx context.Context) error {
	if m.accounts == nil {
		m.player = ""
		return m.welcomePage(ctx)
	}

	for {
		fmt.Fprintln(m.out, renderMenu(
			"[R]      register",
			"[RETURN] log in",
			"[L]      leaderboard",
			"[Q]      quit",
		))

		choice, err := m.prompt("> ")
		if err != nil {
			return err
		}

		switch strings.ToLower(choice) {
		case "r":
			if err := m.register(); err != nil {
				if errors.Is(err, io.EOF) {
					return err
				}
				m.fail(err)
				continue
			}
			if err := m.welcomePage(ctx); err != nil {
				return err
			}
		case "":
			if err := m.login(); err != nil {
				if errors.Is(err, io.EOF) {
					return err
				}
				m.fail(err)
				continue
			}
			if err := m.welcomePage(ctx); err != nil {
				return err
			}
		case "l":
			m.showLeaderboard()
		case "q":
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			m.fail(fmt.Errorf("unknown choice %q", choice))
		}
	}
}

func (m *Menu) register() error {
	username, err := m.prompt("Username: ")
	if err != nil {
		return err
	}
	password, err := m.promptPassword("Password: ")
	if err != nil {
		return err
	}
	repeat, err := m.promptPassword("Repeat password: ")
	if err != nil {
		return err
	}

	p, err := m.accounts.Register(username, password, repeat)
	if err != nil {
		return err
	}
	m.player = p.Username
	fmt.Fprintln(m.out, winStyle.Render("Account created for "+p.Username))
	return nil
}

func (m *Menu) login() error {
	username, err := m.prompt("Username: ")
	if err != nil {
		return err
	}
	password, err := m.promptPassword("Password: ")
	if err != nil {
		return err
	}

	p, err := m.accounts.Login(username, password)
	if err != nil {
		return err
	}
	m.player = p.Username
	return nil
}

func (m *Menu) showLeaderboard() {
	board, err := m.accounts.Leaderboard()
	if err != nil {
		m.fail(err)
		return
	}
	fmt.Fprintln(m.out, RenderLeaderboard(board))
}

func (m *Menu) welcomePage(ctx context.Context) error {
	name := m.player
	if name == "" {
		name = "stranger"
	}

	for {
		fmt.Fprintln(m.out, renderMenu(
			fmt.Sprintf("Welcome, %s!", name),
			"[RETURN] start a game",
			"[help]   instructions",
			"[q]      leave",
		))

		choice, err := m.prompt("> ")
		if err != nil {
			return err
		}

		switch strings.ToLower(choice) {
		case "":
			if err := m.startGame(ctx); err != nil {
				return err
			}
		case "help", "h", "?":
			fmt.Fprintln(m.out, helpText)
		case "q", "quit":
			m.player = ""
			return nil
		default:
			m.fail(fmt.Errorf("unknown choice %q", choice))
		}
	}
}

func (m *Menu) startGame(ctx context.Context) error {
	config, err := m.chooseDifficulty()
	if err != nil {
		if errors.Is(err, engine.ErrInvalidConfig) {
			m.fail(err)
			return nil
		}
		return err
	}

	state, err := m.play(ctx, config, m.player)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidConfig) {
			m.fail(err)
			return nil
		}
		return err
	}

	m.finish(config, state)
	return nil
}

func (m *Menu) chooseDifficulty() (*engine.GameConfig, error) {
	for {
		fmt.Fprintln(m.out, renderMenu(
			"Choose your difficulty",
			"[1] easy",
			"[2] normal",
			"[3] hard",
			"[4] custom",
		))

		choice, err := m.prompt("> ")
		if err != nil {
			return nil, err
		}

		switch choice {
		case "1":
			return m.presets.LoadConfig(engine.PresetEasy)
		case "2":
			return m.presets.LoadConfig(engine.PresetNormal)
		case "3":
			return m.presets.LoadConfig(engine.PresetHard)
		case "4":
			return m.customConfig()
		default:
			m.fail(fmt.Errorf("pick a number from 1 to 4"))
		}
	}
}

// customConfig asks for every setting of a one-off dungeon. Dragons and the
// door are always drawn in custom games.
func (m *Menu) customConfig() (*engine.GameConfig, error) {
	width, err := m.promptInt("Width", engine.MinGridSize, engine.MaxGridSize)
	if err != nil {
		return nil, err
	}
	height, err := m.promptInt("Height", engine.MinGridSize, engine.MaxGridSize)
	if err != nil {
		return nil, err
	}
	dragonGlyph, err := m.promptGlyph("Dragon symbol", engine.DefaultGlyphs().VisibleDragon)
	if err != nil {
		return nil, err
	}
	doorGlyph, err := m.promptGlyph("Door symbol", "🚪")
	if err != nil {
		return nil, err
	}
	dragons, err := m.promptInt("Number of dragons", 0, width*height)
	if err != nil {
		return nil, err
	}
	smell, err := m.promptInt("Smell radius", 0, engine.MaxGridSize)
	if err != nil {
		return nil, err
	}
	health, err := m.promptInt("Health", engine.MinHealth, 0)
	if err != nil {
		return nil, err
	}

	config := &engine.GameConfig{
		Name:          "custom",
		Description:   "Custom dungeon",
		Width:         width,
		Height:        height,
		DragonCount:   dragons,
		SmellRadius:   smell,
		RevealRadius:  engine.DefaultReveal,
		InitialHealth: health,
		Glyphs:        engine.DefaultGlyphs(),
		Messages:      engine.DefaultMessages(),
	}
	config.Glyphs.Dragon = dragonGlyph
	config.Glyphs.VisibleDragon = dragonGlyph
	config.Glyphs.Exit = doorGlyph

	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// finish reports a game and records it for logged in players. Abandoned games
// are not recorded.
func (m *Menu) finish(config *engine.GameConfig, state *engine.GameState) {
	frame := BuildFrame(config, state, m.player)
	frame.Hint = ""
	fmt.Fprintln(m.out, strings.Join(frame.Lines(), "\n"))

	switch state.Outcome {
	case engine.Win:
		fmt.Fprintln(m.out, winStyle.Render(config.Messages.Victory))
	case engine.Loss:
		fmt.Fprintln(m.out, lossStyle.Render(config.Messages.Defeat))
	default:
		fmt.Fprintln(m.out, infoStyle.Render("Game abandoned."))
		return
	}

	if m.accounts == nil || m.player == "" {
		return
	}
	p, err := m.accounts.RecordResult(m.player, state.Outcome)
	if err != nil {
		m.fail(fmt.Errorf("failed to record result: %w", err))
		return
	}
	fmt.Fprintln(m.out, infoStyle.Render(fmt.Sprintf("Won %d, lost %d, win ratio %.1f%%", p.GamesWon, p.GamesLost, p.WinRatio)))
}

func (m *Menu) fail(err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, players.ErrUsernameTaken):
		msg = "That username already exists."
	case errors.Is(err, players.ErrPlayerNotFound):
		msg = "No such player."
	case errors.Is(err, players.ErrWrongPassword):
		msg = "Wrong password."
	case errors.Is(err, players.ErrPasswordMismatch):
		msg = "Passwords do not match."
	}
	fmt.Fprintln(m.out, errorStyle.Render(msg))
}

func (m *Menu) readLine() (string, error) {
	line, err := m.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	return m.readLine()
}

func (m *Menu) promptPassword(label string) (string, error) {
	fmt.Fprint(m.out, label)
	return m.readPassword()
}

// promptInt asks for a number in [min, max]. A max below min leaves the
// range open at the top.
func (m *Menu) promptInt(label string, min, max int) (int, error) {
	open := max < min
	bounds := fmt.Sprintf("%d-%d", min, max)
	if open {
		bounds = fmt.Sprintf("%d or more", min)
	}
	for {
		answer, err := m.prompt(fmt.Sprintf("%s (%s): ", label, bounds))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < min || (!open && n > max) {
			m.fail(fmt.Errorf("enter a whole number, %s", bounds))
			continue
		}
		return n, nil
	}
}

func (m *Menu) promptGlyph(label, fallback string) (string, error) {
	answer, err := m.prompt(fmt.Sprintf("%s [%s]: ", label, fallback))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return fallback, nil
	}
	return answer, nil
}

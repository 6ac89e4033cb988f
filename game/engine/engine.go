package engine

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	IsVictory() bool
	GetHealth() int
	GetPlayerPosition() Position

	// Movement operations
	Move(direction string) TurnResult
	Apply(cmd Command) TurnResult
	CanMove(direction string) bool
	GetPossibleMoves() []string

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Map
	Grid() *Grid
}

// Layout fixes where the entities start. Sessions normally get a random one
// from NewEngine; tests and tools can supply their own.
type Layout struct {
	Exit    Position   `json:"exit"`
	Player  Position   `json:"player"`
	Dragons []Position `json:"dragons"`
}

// GameEngine implements the Engine interface
type GameEngine struct {
	config     *GameConfig
	grid       *Grid
	state      *GameState
	layout     Layout
	roller     Roller
	controller *DragonController
}

// NewRoller returns the random source for a session. A zero seed is replaced
// by the current time.
func NewRoller(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// NewEngine creates a new game session with the provided configuration.
// The exit and the dragons are placed at random.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	return NewEngineWithRoller(config, NewRoller(config.Seed))
}

// NewEngineWithRoller is NewEngine with an explicit random source
func NewEngineWithRoller(config *GameConfig, roller Roller) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	grid := NewGrid(config.Width, config.Height)
	layout, err := RandomLayout(grid, config.DragonCount, roller)
	if err != nil {
		return nil, err
	}
	return newEngine(config, grid, layout, roller), nil
}

// NewEngineFromLayout starts a session with fixed entity positions
func NewEngineFromLayout(config *GameConfig, layout Layout, roller Roller) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	grid := NewGrid(config.Width, config.Height)
	if err := checkLayout(grid, layout); err != nil {
		return nil, err
	}
	return newEngine(config, grid, layout, roller), nil
}

func newEngine(config *GameConfig, grid *Grid, layout Layout, roller Roller) *GameEngine {
	e := &GameEngine{
		config:     config,
		grid:       grid,
		layout:     layout,
		roller:     roller,
		controller: NewDragonController(grid, roller),
	}
	e.state = e.initialState()
	e.syncGrid()
	return e
}

// RandomLayout draws the exit and the dragon positions for grid
func RandomLayout(grid *Grid, dragonCount int, roller Roller) (Layout, error) {
	exits := ExitCandidates(grid)
	if len(exits) == 0 {
		return Layout{}, fmt.Errorf("%w: no free tile available for the exit", ErrInvalidConfig)
	}
	exit := exits[roller.IntN(len(exits))]

	candidates := DragonCandidates(grid, exit)
	if dragonCount > len(candidates) {
		return Layout{}, fmt.Errorf("%w: %d dragons requested but only %d free tiles can host them",
			ErrInvalidConfig, dragonCount, len(candidates))
	}

	// Partial shuffle keeps the draw distinct
	dragons := make([]Position, 0, dragonCount)
	for i := 0; i < dragonCount; i++ {
		j := i + roller.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
		dragons = append(dragons, candidates[i])
	}

	return Layout{
		Exit:    exit,
		Player:  PlayerStart(grid.Width, grid.Height),
		Dragons: dragons,
	}, nil
}

func checkLayout(grid *Grid, layout Layout) error {
	free := func(p Position) bool { return grid.InBounds(p) && !grid.IsWall(p) }

	if !free(layout.Exit) {
		return fmt.Errorf("%w: exit (%d,%d) is not a free tile", ErrInvalidConfig, layout.Exit.X, layout.Exit.Y)
	}
	if !free(layout.Player) {
		return fmt.Errorf("%w: player (%d,%d) is not a free tile", ErrInvalidConfig, layout.Player.X, layout.Player.Y)
	}
	seen := make(map[Position]bool, len(layout.Dragons))
	for _, d := range layout.Dragons {
		if !free(d) {
			return fmt.Errorf("%w: dragon (%d,%d) is not a free tile", ErrInvalidConfig, d.X, d.Y)
		}
		if d == layout.Exit || d == layout.Player || seen[d] {
			return fmt.Errorf("%w: dragon (%d,%d) overlaps another entity", ErrInvalidConfig, d.X, d.Y)
		}
		seen[d] = true
	}
	return nil
}

func (e *GameEngine) initialState() *GameState {
	dragons := make([]Position, len(e.layout.Dragons))
	copy(dragons, e.layout.Dragons)

	return &GameState{
		Width:       e.config.Width,
		Height:      e.config.Height,
		PlayerPos:   e.layout.Player,
		StartPos:    e.layout.Player,
		ExitPos:     e.layout.Exit,
		Dragons:     dragons,
		Alerted:     []Position{},
		Health:      e.config.InitialHealth,
		MaxHealth:   e.config.InitialHealth,
		Outcome:     Ongoing,
		Message:     e.config.Messages.Welcome,
		ConfigName:  e.config.Name,
		MoveHistory: []MoveHistoryEntry{},
	}
}

// syncGrid rewrites the occupant overlay from the state
func (e *GameEngine) syncGrid() {
	e.grid.Overlay(e.state)
	e.state.Board = RenderBoard(e.grid, e.state, e.config.Glyphs, e.config.RevealRadius)
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state. The state must fit the session's grid.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Width != e.grid.Width || state.Height != e.grid.Height {
		return fmt.Errorf("state is %dx%d but the grid is %dx%d", state.Width, state.Height, e.grid.Width, e.grid.Height)
	}
	// Dragons may stand on the exit or the player mid-game, so only walls are rejected
	positions := append([]Position{state.ExitPos, state.PlayerPos}, state.Dragons...)
	for _, p := range positions {
		if !e.grid.InBounds(p) || e.grid.IsWall(p) {
			return fmt.Errorf("state places an entity on (%d,%d), which is not a free tile", p.X, p.Y)
		}
	}
	e.state = state
	e.syncGrid()
	return nil
}

// Reset restarts the session with the same layout
func (e *GameEngine) Reset() *GameState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	e.state = e.initialState()
	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.syncGrid()

	return e.state
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// IsVictory returns whether the player has won
func (e *GameEngine) IsVictory() bool {
	return e.state.Victory
}

// GetHealth returns the remaining health
func (e *GameEngine) GetHealth() int {
	return e.state.Health
}

// GetPlayerPosition returns the current player position
func (e *GameEngine) GetPlayerPosition() Position {
	return e.state.PlayerPos
}

// Grid returns the session map with the current overlay
func (e *GameEngine) Grid() *Grid {
	return e.grid
}

// Move parses direction and plays one turn
func (e *GameEngine) Move(direction string) TurnResult {
	return e.Apply(ParseCommand(direction))
}

// Apply plays one turn: the player moves, nearby dragons react, then the
// outcome is evaluated. Invalid commands and moves after the end of the game
// change nothing.
func (e *GameEngine) Apply(cmd Command) TurnResult {
	s := e.state
	result := e.snapshot()

	if s.Outcome.Terminal() {
		result.Message = e.config.Messages.GameOver
		return result
	}
	if cmd.Kind != CommandMove {
		result.Message = e.config.Messages.Invalid
		return result
	}

	from := s.PlayerPos
	to := Resolve(e.grid, from, cmd.Direction.Delta())

	alerted := Alerted(s.Dragons, to, e.config.SmellRadius)
	e.controller.MoveAlerted(s.Dragons, alerted, to)

	health := s.Health
	outcome := Evaluate(to, s.Dragons, s.ExitPos, &health)

	alertedPos := make([]Position, 0, len(alerted))
	for _, i := range alerted {
		alertedPos = append(alertedPos, s.Dragons[i])
	}

	lost := s.Health - health
	s.PlayerPos = to
	s.Health = health
	s.Alerted = alertedPos
	s.Outcome = outcome
	s.GameOver = outcome.Terminal()
	s.Victory = outcome == Win
	s.Turn++
	s.Message = e.turnMessage(cmd.Direction, to != from, len(alerted) > 0, lost, outcome)
	e.syncGrid()
	e.addMoveToHistory(cmd.Direction, from, len(alerted))

	result = e.snapshot()
	result.Applied = true
	result.Direction = cmd.Direction
	result.From = from
	result.Moved = to != from
	result.HealthLost = lost
	return result
}

func (e *GameEngine) snapshot() TurnResult {
	s := e.state
	dragons := make([]Position, len(s.Dragons))
	copy(dragons, s.Dragons)
	alerted := make([]Position, len(s.Alerted))
	copy(alerted, s.Alerted)

	return TurnResult{
		From:      s.PlayerPos,
		PlayerPos: s.PlayerPos,
		Dragons:   dragons,
		Alerted:   alerted,
		Health:    s.Health,
		Outcome:   s.Outcome,
		Turn:      s.Turn,
		Message:   s.Message,
	}
}

func (e *GameEngine) turnMessage(dir Direction, moved, alerted bool, lost int, outcome Outcome) string {
	msgs := e.config.Messages
	switch outcome {
	case Win:
		return msgs.Victory
	case Loss:
		return msgs.Defeat
	}

	var parts []string
	if !moved {
		parts = append(parts, fmt.Sprintf(msgs.Blocked, dir))
	}
	if lost > 0 {
		parts = append(parts, fmt.Sprintf(msgs.Hit, e.state.Health))
	}
	if alerted {
		parts = append(parts, msgs.Alert)
	}
	return strings.Join(parts, " ")
}

func (e *GameEngine) addMoveToHistory(dir Direction, from Position, alerted int) {
	s := e.state
	s.TotalMoves++
	s.CurrentMoves++
	s.MoveHistory = append(s.MoveHistory, MoveHistoryEntry{
		Action:       string(dir),
		FromPosition: from,
		ToPosition:   s.PlayerPos,
		Health:       s.Health,
		Alerted:      alerted,
		Outcome:      s.Outcome,
		Timestamp:    time.Now().Unix(),
		Success:      from != s.PlayerPos,
		MoveNumber:   s.TotalMoves,
	})
}

// CanMove checks if the player can move in the specified direction
func (e *GameEngine) CanMove(direction string) bool {
	if e.state.GameOver {
		return false
	}
	cmd := ParseCommand(direction)
	if cmd.Kind != CommandMove {
		return false
	}
	return CanStep(e.grid, e.state.PlayerPos, cmd.Direction.Delta())
}

// GetPossibleMoves returns all valid directions the player can move
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, dir := range []Direction{Up, Down, Left, Right} {
		if e.CanMove(string(dir)) {
			possible = append(possible, string(dir))
		}
	}
	return possible
}

// GetConfig returns the session configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetLayout returns the starting layout of the session
func (e *GameEngine) GetLayout() Layout {
	return e.layout
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// BulkMove plays several turns in sequence, stopping once the game ends
func (e *GameEngine) BulkMove(moves []string) []TurnResult {
	results := make([]TurnResult, 0, len(moves))

	for _, direction := range moves {
		if e.IsGameOver() {
			break
		}
		results = append(results, e.Move(direction))
	}

	return results
}

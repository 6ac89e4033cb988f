package engine

// Tile represents the marker held by a single grid cell
type Tile string

const (
	Wall   Tile = "wall"
	Floor  Tile = "floor"
	Exit   Tile = "exit"
	Player Tile = "player"
	Dragon Tile = "dragon"

	// Validation constants
	MinGridSize   = 7
	MaxGridSize   = 60
	MinHealth     = 1
	MaxBulkMoves  = 50
	PartitionGap  = 3
	DefaultReveal = 3
)

// Outcome classifies the session after a turn
type Outcome string

const (
	Ongoing Outcome = "ongoing"
	Win     Outcome = "win"
	Loss    Outcome = "loss"
)

// Terminal reports whether the outcome ends the session
func (o Outcome) Terminal() bool {
	return o == Win || o == Loss
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position shifted by d
func (p Position) Add(d Delta) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Delta is a single step offset
type Delta struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// less orders deltas by their (dx, dy) tuple
func (d Delta) less(o Delta) bool {
	if d.DX != o.DX {
		return d.DX < o.DX
	}
	return d.DY < o.DY
}

// Glyphs are the display markers for every tile. They never affect game logic.
type Glyphs struct {
	Wall          string `json:"wall" yaml:"wall"`
	Floor         string `json:"floor" yaml:"floor"`
	Exit          string `json:"exit" yaml:"exit"`
	Player        string `json:"player" yaml:"player"`
	Dragon        string `json:"dragon" yaml:"dragon"`
	VisibleDragon string `json:"visible_dragon" yaml:"visible_dragon"`
	Heart         string `json:"heart" yaml:"heart"`
}

// Messages are the texts shown for game events
type Messages struct {
	Welcome  string `json:"welcome" yaml:"welcome"`
	Alert    string `json:"alert" yaml:"alert"`
	Hit      string `json:"hit" yaml:"hit"`
	Blocked  string `json:"blocked" yaml:"blocked"`
	Invalid  string `json:"invalid" yaml:"invalid"`
	Victory  string `json:"victory" yaml:"victory"`
	Defeat   string `json:"defeat" yaml:"defeat"`
	GameOver string `json:"game_over" yaml:"game_over"`
}

// GameConfig represents the session configuration loaded from JSON or YAML
type GameConfig struct {
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description" yaml:"description"`
	Width         int      `json:"width" yaml:"width"`
	Height        int      `json:"height" yaml:"height"`
	DragonCount   int      `json:"dragon_count" yaml:"dragon_count"`
	SmellRadius   int      `json:"smell_radius" yaml:"smell_radius"`
	RevealRadius  int      `json:"reveal_radius,omitempty" yaml:"reveal_radius,omitempty"`
	InitialHealth int      `json:"initial_health" yaml:"initial_health"`
	Seed          int64    `json:"seed,omitempty" yaml:"seed,omitempty"`
	Glyphs        Glyphs   `json:"glyphs" yaml:"glyphs"`
	Messages      Messages `json:"messages" yaml:"messages"`
}

// GameState represents the complete game state
type GameState struct {
	Width        int                `json:"width"`
	Height       int                `json:"height"`
	PlayerPos    Position           `json:"player_pos"`
	StartPos     Position           `json:"start_pos"`
	ExitPos      Position           `json:"exit_pos"`
	Dragons      []Position         `json:"dragons"`
	Alerted      []Position         `json:"alerted"`
	Health       int                `json:"health"`
	MaxHealth    int                `json:"max_health"`
	Outcome      Outcome            `json:"outcome"`
	GameOver     bool               `json:"game_over"`
	Victory      bool               `json:"victory"`
	Message      string             `json:"message"`
	ConfigName   string             `json:"config_name"`
	Turn         int                `json:"turn"`
	MoveHistory  []MoveHistoryEntry `json:"move_history"`
	TotalMoves   int                `json:"total_moves"`
	CurrentMoves int                `json:"current_moves"`

	// Rendered view (hidden markers applied), not required for game logic
	Board []string `json:"board,omitempty"`
}

// Clone returns a deep copy of the state that shares no slices with s
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	c := *s
	c.Dragons = cloneSlice(s.Dragons)
	c.Alerted = cloneSlice(s.Alerted)
	c.MoveHistory = cloneSlice(s.MoveHistory)
	c.Board = cloneSlice(s.Board)
	return &c
}

// cloneSlice keeps nil as nil and empty as empty so JSON output is unchanged
func cloneSlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

// TurnResult reports what a single apply_move did
type TurnResult struct {
	Applied    bool       `json:"applied"`
	Direction  Direction  `json:"direction,omitempty"`
	From       Position   `json:"from"`
	PlayerPos  Position   `json:"player_pos"`
	Moved      bool       `json:"moved"`
	Dragons    []Position `json:"dragons"`
	Alerted    []Position `json:"alerted"`
	Health     int        `json:"health"`
	HealthLost int        `json:"health_lost"`
	Outcome    Outcome    `json:"outcome"`
	Turn       int        `json:"turn"`
	Message    string     `json:"message"`
}

// MoveHistoryEntry represents a single turn in the game history
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Health       int      `json:"health"`
	Alerted      int      `json:"alerted"`
	Outcome      Outcome  `json:"outcome"`
	Timestamp    int64    `json:"timestamp"`
	Success      bool     `json:"success"`
	MoveNumber   int      `json:"move_number"`
}

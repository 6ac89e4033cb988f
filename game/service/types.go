package service

import (
	"time"

	"github.com/wricardo/dragons-dungeon/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Player         string             `json:"player,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a single turn
type MoveResult struct {
	Success       bool              `json:"success"`
	Turn          engine.TurnResult `json:"turn"`
	GameState     *engine.GameState `json:"game_state"`
	Message       string            `json:"message"`
	Events        []GameEvent       `json:"events,omitempty"`
	PossibleMoves []string          `json:"possible_moves,omitempty"`
	Danger        string            `json:"danger,omitempty"`
}

// BulkMoveResult contains the result of multiple turns
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // invalid_move|victory|defeat|game_over
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos    engine.Position `json:"start_pos"`
	EndPos      engine.Position `json:"end_pos"`
	StartHealth int             `json:"start_health"`
	EndHealth   int             `json:"end_health"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	GameOver      bool           `json:"game_over"`
	Outcome       engine.Outcome `json:"outcome"`
	Message       string         `json:"message,omitempty"`
	PossibleMoves []string       `json:"possible_moves,omitempty"`
	Danger        string         `json:"danger,omitempty"`
}

// StepInfo is a compact record for each turn played in a bulk call
type StepInfo struct {
	Idx          int             `json:"idx"`
	Dir          string          `json:"dir"`
	From         engine.Position `json:"from"`
	To           engine.Position `json:"to"`
	Moved        bool            `json:"moved"`
	HealthBefore int             `json:"health_before"`
	HealthAfter  int             `json:"health_after"`
	Alerted      int             `json:"alerted"`
	Outcome      engine.Outcome  `json:"outcome"`
}

// Event types emitted by the service
const (
	EventMove    = "move"
	EventBlocked = "blocked"
	EventInvalid = "invalid"
	EventAlert   = "alert"
	EventHit     = "hit"
	EventVictory = "victory"
	EventDefeat  = "defeat"
	EventReset   = "reset"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename      string `json:"filename,omitempty"`
	ConfigID      string `json:"config_id"` // The identifier to use for session creation
	Name          string `json:"name"`      // Display name
	Description   string `json:"description"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	DragonCount   int    `json:"dragon_count"`
	SmellRadius   int    `json:"smell_radius"`
	InitialHealth int    `json:"initial_health"`
	BuiltIn       bool   `json:"built_in"`
}

// PlayerInfo is the public view of an account
type PlayerInfo struct {
	Username  string    `json:"username"`
	GamesWon  int       `json:"games_won"`
	GamesLost int       `json:"games_lost"`
	WinRatio  float64   `json:"win_ratio"`
	CreatedAt time.Time `json:"created_at"`
}

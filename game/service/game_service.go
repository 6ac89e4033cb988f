package service

import (
	"context"
	"time"

	"github.com/wricardo/dragons-dungeon/game/engine"
	"github.com/wricardo/dragons-dungeon/game/players"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName, player string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error

	// Players
	RegisterPlayer(ctx context.Context, username, password, repeat string) (*PlayerInfo, error)
	Login(ctx context.Context, username, password string) (*PlayerInfo, error)
	Leaderboard(ctx context.Context) ([]players.Standing, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig, player string) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig, player string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// PlayerRegistry keeps accounts and their results. *players.Registry
// satisfies it.
type PlayerRegistry interface {
	Register(username, password, repeat string) (*players.Player, error)
	Login(username, password string) (*players.Player, error)
	Exists(username string) bool
	RecordResult(username string, outcome engine.Outcome) (*players.Player, error)
	Leaderboard() ([]players.Standing, error)
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	Player         string
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// Recorded is set once the finished game has been added to the
	// player's statistics. Reset clears it.
	Recorded bool
}

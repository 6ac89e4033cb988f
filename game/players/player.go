package players

import (
	"errors"
	"time"
)

var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrWrongPassword    = errors.New("wrong password")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidUsername  = errors.New("invalid username")
)

// Player is a registered account with its game statistics
type Player struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Salt         string    `json:"salt"`
	GamesWon     int       `json:"games_won"`
	GamesLost    int       `json:"games_lost"`
	WinRatio     float64   `json:"win_ratio"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GamesPlayed is the number of finished games
func (p *Player) GamesPlayed() int {
	return p.GamesWon + p.GamesLost
}

// clone returns a copy so stores never hand out their own records
func (p *Player) clone() *Player {
	c := *p
	return &c
}

// Standing is one leaderboard row
type Standing struct {
	Rank      int     `json:"rank"`
	Username  string  `json:"username"`
	GamesWon  int     `json:"games_won"`
	GamesLost int     `json:"games_lost"`
	WinRatio  float64 `json:"win_ratio"`
}

// Store persists players
type Store interface {
	// Create adds a new player, failing with ErrUsernameTaken on duplicates
	Create(player *Player) error
	// Get finds a player by username, failing with ErrPlayerNotFound
	Get(username string) (*Player, error)
	// Update overwrites an existing player
	Update(player *Player) error
	List() ([]*Player, error)
	Close() error
}

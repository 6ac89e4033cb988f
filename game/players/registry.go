package players

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/dragons-dungeon/game/engine"
)

// Registry manages accounts and their win/loss statistics
type Registry struct {
	store Store
	mu    sync.Mutex
	now   func() time.Time
}

// NewRegistry creates a registry backed by store
func NewRegistry(store Store) *Registry {
	return &Registry{store: store, now: time.Now}
}

// NormalizeUsername trims and lower-cases a username
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register creates a new account. repeat must match password.
func (r *Registry) Register(username, password, repeat string) (*Player, error) {
	username = NormalizeUsername(username)
	if username == "" || strings.ContainsAny(username, " \t\r\n") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}
	if password != repeat {
		return nil, ErrPasswordMismatch
	}

	salt, err := newSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	now := r.now().UTC()
	player := &Player{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hashPassword(salt, password),
		Salt:         salt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Create(player); err != nil {
		return nil, err
	}
	return player, nil
}

// Login checks the credentials of an existing account
func (r *Registry) Login(username, password string) (*Player, error) {
	player, err := r.store.Get(NormalizeUsername(username))
	if err != nil {
		return nil, err
	}

	want := []byte(player.PasswordHash)
	got := []byte(hashPassword(player.Salt, password))
	if subtle.ConstantTimeCompare(want, got) != 1 {
		return nil, ErrWrongPassword
	}
	return player, nil
}

// Exists reports whether username is registered
func (r *Registry) Exists(username string) bool {
	_, err := r.store.Get(NormalizeUsername(username))
	return err == nil
}

// RecordResult adds a finished game to the player's statistics
func (r *Registry) RecordResult(username string, outcome engine.Outcome) (*Player, error) {
	if !outcome.Terminal() {
		return nil, fmt.Errorf("cannot record unfinished game (%s)", outcome)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	player, err := r.store.Get(NormalizeUsername(username))
	if err != nil {
		return nil, err
	}

	if outcome == engine.Win {
		player.GamesWon++
	} else {
		player.GamesLost++
	}
	player.WinRatio = float64(player.GamesWon) / float64(player.GamesPlayed()) * 100
	player.UpdatedAt = r.now().UTC()

	if err := r.store.Update(player); err != nil {
		return nil, err
	}
	return player, nil
}

// Leaderboard returns all players ordered by win ratio, lowest first, ties
// broken by username
func (r *Registry) Leaderboard() ([]Standing, error) {
	all, err := r.store.List()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].WinRatio != all[j].WinRatio {
			return all[i].WinRatio < all[j].WinRatio
		}
		return all[i].Username < all[j].Username
	})

	standings := make([]Standing, 0, len(all))
	for i, p := range all {
		standings = append(standings, Standing{
			Rank:      i + 1,
			Username:  p.Username,
			GamesWon:  p.GamesWon,
			GamesLost: p.GamesLost,
			WinRatio:  p.WinRatio,
		})
	}
	return standings, nil
}

// Close closes the underlying store
func (r *Registry) Close() error {
	return r.store.Close()
}

func newSalt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashPassword(salt, password string) string {
	sum := sha256.Sum256([]byte(salt + ":" + password))
	return hex.EncodeToString(sum[:])
}

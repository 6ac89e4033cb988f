package players

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for duplicate keys
const uniqueViolation = "23505"

// PostgresStore handles player persistence using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to PostgreSQL and prepares the schema
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema initializes the database schema
func (ps *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS dungeon_players (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		salt TEXT NOT NULL,
		games_won INTEGER NOT NULL DEFAULT 0,
		games_lost INTEGER NOT NULL DEFAULT 0,
		win_ratio DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := ps.db.Exec(schema)
	return err
}

// Create inserts a new player
func (ps *PostgresStore) Create(player *Player) error {
	query := `
	INSERT INTO dungeon_players (id, username, password_hash, salt, games_won, games_lost, win_ratio, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := ps.db.Exec(query,
		player.ID, player.Username, player.PasswordHash, player.Salt,
		player.GamesWon, player.GamesLost, player.WinRatio,
		player.CreatedAt, player.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrUsernameTaken, player.Username)
		}
		return fmt.Errorf("failed to create player: %w", err)
	}

	return nil
}

// Get loads a player by username
func (ps *PostgresStore) Get(username string) (*Player, error) {
	query := `SELECT id, username, password_hash, salt, games_won, games_lost, win_ratio, created_at, updated_at FROM dungeon_players WHERE username = $1`

	var player Player
	err := ps.db.QueryRow(query, username).Scan(
		&player.ID, &player.Username, &player.PasswordHash, &player.Salt,
		&player.GamesWon, &player.GamesLost, &player.WinRatio,
		&player.CreatedAt, &player.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, username)
		}
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	return &player, nil
}

// Update writes the statistics of an existing player
func (ps *PostgresStore) Update(player *Player) error {
	query := `
	UPDATE dungeon_players
	SET password_hash = $2, salt = $3, games_won = $4, games_lost = $5, win_ratio = $6, updated_at = $7
	WHERE username = $1
	`

	res, err := ps.db.Exec(query,
		player.Username, player.PasswordHash, player.Salt,
		player.GamesWon, player.GamesLost, player.WinRatio, player.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, player.Username)
	}

	return nil
}

// List returns every player ordered by username
func (ps *PostgresStore) List() ([]*Player, error) {
	query := `SELECT id, username, password_hash, salt, games_won, games_lost, win_ratio, created_at, updated_at FROM dungeon_players ORDER BY username`

	rows, err := ps.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*Player
	for rows.Next() {
		var player Player
		if err := rows.Scan(
			&player.ID, &player.Username, &player.PasswordHash, &player.Salt,
			&player.GamesWon, &player.GamesLost, &player.WinRatio,
			&player.CreatedAt, &player.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, &player)
	}

	return players, rows.Err()
}

// Close closes the database connection
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

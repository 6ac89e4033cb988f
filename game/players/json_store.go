package players

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// JSONStore handles player persistence using a local JSON file
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *JSONData
}

// JSONData represents the structure of the JSON database
type JSONData struct {
	Players map[string]*Player `json:"players"`
}

// NewJSONStore opens the JSON database at filePath, creating it if needed
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data: &JSONData{
			Players: make(map[string]*Player),
		},
	}

	// Load existing data if file exists
	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	} else {
		if dir := filepath.Dir(filePath); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create JSON store directory: %w", err)
			}
		}
		if err := store.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %w", err)
		}
	}

	return store, nil
}

// loadFromFile loads data from the JSON file
func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	if js.data.Players == nil {
		js.data.Players = make(map[string]*Player)
	}
	return nil
}

// saveToFile saves data to the JSON file. Callers hold the write lock.
func (js *JSONStore) saveToFile() error {
	data, err := json.MarshalIndent(js.data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(js.filePath, data, 0644)
}

// Create adds a new player
func (js *JSONStore) Create(player *Player) error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	if _, exists := js.data.Players[player.Username]; exists {
		return fmt.Errorf("%w: %s", ErrUsernameTaken, player.Username)
	}
	js.data.Players[player.Username] = player.clone()

	return js.saveToFile()
}

// Get loads a player by username
func (js *JSONStore) Get(username string) (*Player, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	player, exists := js.data.Players[username]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, username)
	}

	return player.clone(), nil
}

// Update overwrites an existing player
func (js *JSONStore) Update(player *Player) error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	if _, exists := js.data.Players[player.Username]; !exists {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, player.Username)
	}
	js.data.Players[player.Username] = player.clone()

	return js.saveToFile()
}

// List returns every player ordered by username
func (js *JSONStore) List() ([]*Player, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	players := make([]*Player, 0, len(js.data.Players))
	for _, p := range js.data.Players {
		players = append(players, p.clone())
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Username < players[j].Username })

	return players, nil
}

// Close closes the store (no-op for JSON store)
func (js *JSONStore) Close() error {
	return nil
}

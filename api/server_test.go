package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/wricardo/dragons-dungeon/game/engine"
	"github.com/wricardo/dragons-dungeon/game/players"
	"github.com/wricardo/dragons-dungeon/game/service"
	"github.com/wricardo/dragons-dungeon/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName, player string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	MoveFunc     func(ctx context.Context, sessionID, direction string, reset bool) (*service.MoveResult, error)
	BulkMoveFunc func(ctx context.Context, sessionID string, moves []string, reset bool) (*service.BulkMoveResult, error)
	ResetFunc    func(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameStateFunc   func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error

	// Players
	RegisterPlayerFunc func(ctx context.Context, username, password, repeat string) (*service.PlayerInfo, error)
	LoginFunc          func(ctx context.Context, username, password string) (*service.PlayerInfo, error)
	LeaderboardFunc    func(ctx context.Context) ([]players.Standing, error)
}

func (m *MockGameService) CreateSession(ctx context.Context, configName, player string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName, player)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: configName,
		Player:     player,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "test-config",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) Move(ctx context.Context, sessionID, direction string, reset bool) (*service.MoveResult, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, sessionID, direction, reset)
	}
	return &service.MoveResult{
		Success:   true,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*service.BulkMoveResult, error) {
	if m.BulkMoveFunc != nil {
		return m.BulkMoveFunc(ctx, sessionID, moves, reset)
	}
	return &service.BulkMoveResult{
		Success:   true,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetMoveHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetMoveHistoryFunc != nil {
		return m.GetMoveHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Moves:      []engine.MoveHistoryEntry{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return &engine.GameConfig{
		Name:        configName,
		Description: "Test config",
	}, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

func (m *MockGameService) RegisterPlayer(ctx context.Context, username, password, repeat string) (*service.PlayerInfo, error) {
	if m.RegisterPlayerFunc != nil {
		return m.RegisterPlayerFunc(ctx, username, password, repeat)
	}
	return &service.PlayerInfo{Username: username}, nil
}

func (m *MockGameService) Login(ctx context.Context, username, password string) (*service.PlayerInfo, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return &service.PlayerInfo{Username: username}, nil
}

func (m *MockGameService) Leaderboard(ctx context.Context) ([]players.Standing, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(ctx)
	}
	return []players.Standing{}, nil
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockGameService) (*Server, *websocket.Hub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := websocket.NewHub()
	go hub.Run(ctx)
	return NewServer(mockService, hub), hub
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(t *testing.T, mockService *MockGameService, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	server, _ := setupTestServer(t, mockService)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default config",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName, player string) (*service.SessionInfo, error) {
					return &service.SessionInfo{ID: "a1b2", ConfigName: "normal", CreatedAt: time.Now()}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "a1b2" {
					t.Errorf("Expected session ID a1b2, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session for a player",
			requestBody: map[string]string{"config_id": "hard", "player": "knight"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName, player string) (*service.SessionInfo, error) {
					if configName != "hard" || player != "knight" {
						t.Errorf("Unexpected arguments %q %q", configName, player)
					}
					return &service.SessionInfo{ID: "c3d4", ConfigName: configName, Player: player}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.Player != "knight" {
					t.Errorf("Expected player knight, got %s", resp.Player)
				}
			},
		},
		{
			name:        "Unknown player",
			requestBody: map[string]string{"player": "ghost"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName, player string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: ghost", players.ErrPlayerNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Unknown config",
			requestBody: map[string]string{"config_id": "volcano"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName, player string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: 'volcano'", service.ErrUnknownConfig)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "Handle service error",
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName, player string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			w := serve(t, mockService, makeRequest("POST", "/api/sessions", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", LastAccessedAt: now.Add(-time.Hour)},
				{ID: "new", LastAccessedAt: now},
				{ID: "mid", LastAccessedAt: now.Add(-time.Minute)},
			}, nil
		},
	}

	t.Run("default order is most recently accessed first", func(t *testing.T) {
		w := serve(t, mockService, makeRequest("GET", "/api/sessions", nil))
		var resp struct {
			Count    int                    `json:"count"`
			Total    int                    `json:"total"`
			Sessions []*service.SessionInfo `json:"sessions"`
		}
		parseResponse(t, w, &resp)
		if resp.Count != 3 || resp.Sessions[0].ID != "new" || resp.Sessions[2].ID != "old" {
			t.Errorf("Unexpected listing %+v", resp)
		}
	})

	t.Run("limit and ascending order", func(t *testing.T) {
		w := serve(t, mockService, makeRequest("GET", "/api/sessions?order=asc&limit=2", nil))
		var resp struct {
			Count    int                    `json:"count"`
			Total    int                    `json:"total"`
			Sessions []*service.SessionInfo `json:"sessions"`
		}
		parseResponse(t, w, &resp)
		if resp.Count != 2 || resp.Total != 3 || resp.Sessions[0].ID != "old" {
			t.Errorf("Unexpected listing %+v", resp)
		}
	})

	t.Run("service error", func(t *testing.T) {
		failing := &MockGameService{
			ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
				return nil, fmt.Errorf("boom")
			},
		}
		w := serve(t, failing, makeRequest("GET", "/api/sessions", nil))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
	})
}

func TestGetAndDeleteSession(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "a1b2" {
				return nil, fmt.Errorf("session not found")
			}
			return &service.SessionInfo{ID: sessionID}, nil
		},
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID != "a1b2" {
				return fmt.Errorf("session not found")
			}
			return nil
		},
	}

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/api/sessions/a1b2", http.StatusOK},
		{"GET", "/api/sessions/zzzz", http.StatusNotFound},
		{"DELETE", "/api/sessions/a1b2", http.StatusOK},
		{"DELETE", "/api/sessions/zzzz", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(t, mockService, makeRequest(tt.method, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}

// Game Operation Tests

func TestMove(t *testing.T) {
	t.Run("passes direction and reset", func(t *testing.T) {
		mockService := &MockGameService{
			MoveFunc: func(ctx context.Context, sessionID, direction string, reset bool) (*service.MoveResult, error) {
				if sessionID != "a1b2" || direction != "up" || !reset {
					t.Errorf("Unexpected arguments %q %q %v", sessionID, direction, reset)
				}
				turn := engine.TurnResult{Applied: true, Direction: engine.Up, Moved: true, Health: 3, Outcome: engine.Ongoing}
				return &service.MoveResult{Success: true, Turn: turn, GameState: &engine.GameState{Health: 3}}, nil
			},
		}

		w := serve(t, mockService, makeRequest("POST", "/api/sessions/a1b2/move", map[string]interface{}{"direction": "up", "reset": true}))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		var resp service.MoveResult
		parseResponse(t, w, &resp)
		if !resp.Success || resp.Turn.Direction != engine.Up {
			t.Errorf("Unexpected result %+v", resp)
		}
	})

	t.Run("bad body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/sessions/a1b2/move", strings.NewReader("{"))
		w := serve(t, &MockGameService{}, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		mockService := &MockGameService{
			MoveFunc: func(ctx context.Context, sessionID, direction string, reset bool) (*service.MoveResult, error) {
				return nil, fmt.Errorf("session not found")
			},
		}
		w := serve(t, mockService, makeRequest("POST", "/api/sessions/none/move", map[string]string{"direction": "up"}))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestBulkMove(t *testing.T) {
	mockService := &MockGameService{
		BulkMoveFunc: func(ctx context.Context, sessionID string, moves []string, reset bool) (*service.BulkMoveResult, error) {
			if len(moves) != 3 {
				t.Errorf("Expected 3 moves, got %v", moves)
			}
			return &service.BulkMoveResult{
				RequestedMoves: 3,
				MovesExecuted:  1,
				StopReasonCode: "victory",
				GameState:      &engine.GameState{Outcome: engine.Win},
				Outcome:        engine.Win,
			}, nil
		},
	}

	w := serve(t, mockService, makeRequest("POST", "/api/sessions/a1b2/bulk-move", map[string]interface{}{"moves": []string{"up", "up", "left"}}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp service.BulkMoveResult
	parseResponse(t, w, &resp)
	if resp.StopReasonCode != "victory" || resp.MovesExecuted != 1 {
		t.Errorf("Unexpected result %+v", resp)
	}
}

func TestResetAndState(t *testing.T) {
	mockService := &MockGameService{
		ResetFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			return &engine.GameState{Health: 3, Outcome: engine.Ongoing}, nil
		},
		GetGameStateFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			return &engine.GameState{Health: 2, Turn: 7}, nil
		},
	}

	w := serve(t, mockService, makeRequest("POST", "/api/sessions/a1b2/reset", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var reset struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	parseResponse(t, w, &reset)
	if reset.State == nil || reset.State.Health != 3 {
		t.Errorf("Unexpected reset response %+v", reset)
	}

	w = serve(t, mockService, makeRequest("GET", "/api/sessions/a1b2/state", nil))
	var state engine.GameState
	parseResponse(t, w, &state)
	if state.Turn != 7 {
		t.Errorf("Expected turn 7, got %d", state.Turn)
	}
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  service.HistoryOptions
	}{
		{"defaults", "", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
		{"explicit", "?page=2&limit=5&order=asc", service.HistoryOptions{Page: 2, Limit: 5, Order: "asc"}},
		{"garbage falls back", "?page=-1&limit=x&order=sideways", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.HistoryOptions
			mockService := &MockGameService{
				GetMoveHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					got = opts
					return &service.HistoryResponse{Moves: []engine.MoveHistoryEntry{}}, nil
				},
			}
			w := serve(t, mockService, makeRequest("GET", "/api/sessions/a1b2/history"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", w.Code)
			}
			if got != tt.want {
				t.Errorf("Expected options %+v, got %+v", tt.want, got)
			}
		})
	}
}

// Configuration Tests

func TestConfigs(t *testing.T) {
	var saved string
	mockService := &MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{{ConfigID: "easy", DragonCount: 2, BuiltIn: true}}, nil
		},
		LoadConfigFunc: func(ctx context.Context, configName string) (*engine.GameConfig, error) {
			if configName != "hard" {
				return nil, fmt.Errorf("configuration not found")
			}
			return &engine.GameConfig{Name: "hard", DragonCount: 4}, nil
		},
		SaveConfigFunc: func(ctx context.Context, configName string, config *engine.GameConfig) error {
			if config.Width < engine.MinGridSize {
				return fmt.Errorf("%w: width too small", engine.ErrInvalidConfig)
			}
			saved = configName
			return nil
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/api/configs", nil))
	var list []*service.ConfigInfo
	parseResponse(t, w, &list)
	if len(list) != 1 || list[0].DragonCount != 2 {
		t.Errorf("Unexpected config list %+v", list)
	}

	w = serve(t, mockService, makeRequest("GET", "/api/configs/hard.yaml", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for hard.yaml, got %d", w.Code)
	}
	w = serve(t, mockService, makeRequest("GET", "/api/configs/lava", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for lava, got %d", w.Code)
	}

	w = serve(t, mockService, makeRequest("POST", "/api/configs", map[string]interface{}{"name": "cave", "width": 9, "height": 9}))
	if w.Code != http.StatusCreated || saved != "cave" {
		t.Errorf("Expected cave to be saved, got %d (%q)", w.Code, saved)
	}
	w = serve(t, mockService, makeRequest("POST", "/api/configs", map[string]interface{}{"name": "tiny", "width": 3}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an invalid config, got %d", w.Code)
	}
	w = serve(t, mockService, makeRequest("POST", "/api/configs", map[string]interface{}{"width": 9}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a name, got %d", w.Code)
	}
}

// Player Tests

func TestPlayers(t *testing.T) {
	mockService := &MockGameService{
		RegisterPlayerFunc: func(ctx context.Context, username, password, repeat string) (*service.PlayerInfo, error) {
			switch {
			case username == "taken":
				return nil, players.ErrUsernameTaken
			case password != repeat:
				return nil, players.ErrPasswordMismatch
			}
			return &service.PlayerInfo{Username: username}, nil
		},
		LoginFunc: func(ctx context.Context, username, password string) (*service.PlayerInfo, error) {
			if password != "sword" {
				return nil, players.ErrWrongPassword
			}
			return &service.PlayerInfo{Username: username, GamesWon: 2}, nil
		},
		LeaderboardFunc: func(ctx context.Context) ([]players.Standing, error) {
			return []players.Standing{
				{Rank: 1, Username: "bob", WinRatio: 0},
				{Rank: 2, Username: "amy", WinRatio: 50},
			}, nil
		},
	}

	tests := []struct {
		name string
		path string
		body credentials
		want int
	}{
		{"register", "/api/players", credentials{"knight", "sword", "sword"}, http.StatusCreated},
		{"register taken", "/api/players", credentials{"taken", "a", "a"}, http.StatusConflict},
		{"register mismatch", "/api/players", credentials{"mage", "a", "b"}, http.StatusBadRequest},
		{"login", "/api/players/login", credentials{Username: "knight", Password: "sword"}, http.StatusOK},
		{"login wrong password", "/api/players/login", credentials{Username: "knight", Password: "axe"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, mockService, makeRequest("POST", tt.path, tt.body))
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d (%s)", tt.want, w.Code, w.Body.String())
			}
		})
	}

	t.Run("leaderboard", func(t *testing.T) {
		w := serve(t, mockService, makeRequest("GET", "/api/leaderboard", nil))
		var resp struct {
			Count     int                `json:"count"`
			Standings []players.Standing `json:"standings"`
		}
		parseResponse(t, w, &resp)
		if resp.Count != 2 || resp.Standings[0].Username != "bob" {
			t.Errorf("Unexpected leaderboard %+v", resp)
		}
	})

	t.Run("accounts disabled", func(t *testing.T) {
		disabled := &MockGameService{
			LeaderboardFunc: func(ctx context.Context) ([]players.Standing, error) {
				return nil, service.ErrPlayersDisabled
			},
		}
		w := serve(t, disabled, makeRequest("GET", "/api/leaderboard", nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d", w.Code)
		}
	})
}

func TestUnifiedSessions(t *testing.T) {
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "a", ConfigName: "easy", GameState: &engine.GameState{Outcome: engine.Win}},
				{ID: "b", ConfigName: "hard", GameState: &engine.GameState{Outcome: engine.Loss}},
				{ID: "c", ConfigName: "easy", GameState: &engine.GameState{Outcome: engine.Ongoing}},
			}, nil
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/api/sessions/unified?configName=easy", nil))
	var resp struct {
		Count    int                    `json:"count"`
		Outcomes map[engine.Outcome]int `json:"outcomes"`
	}
	parseResponse(t, w, &resp)
	if resp.Count != 2 {
		t.Errorf("Expected 2 easy sessions, got %d", resp.Count)
	}
	if resp.Outcomes[engine.Win] != 1 || resp.Outcomes[engine.Loss] != 0 || resp.Outcomes[engine.Ongoing] != 1 {
		t.Errorf("Unexpected outcome counts %+v", resp.Outcomes)
	}
}

func TestHealth(t *testing.T) {
	w := serve(t, &MockGameService{}, makeRequest("GET", "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestWebSocketRequiresSession(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return nil, fmt.Errorf("session not found")
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/ws", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without session, got %d", w.Code)
	}
	w = serve(t, mockService, makeRequest("GET", "/ws?session=zzzz", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", w.Code)
	}
}

func TestMoveIsBroadcast(t *testing.T) {
	mockService := &MockGameService{
		MoveFunc: func(ctx context.Context, sessionID, direction string, reset bool) (*service.MoveResult, error) {
			turn := engine.TurnResult{Applied: true, Direction: engine.Left, Moved: true, Turn: 1}
			return &service.MoveResult{Success: true, Turn: turn, GameState: &engine.GameState{Turn: 1}}, nil
		},
	}
	server, hub := setupTestServer(t, mockService)
	ts := httptest.NewServer(server)
	defer ts.Close()

	conn, _, err := gorillaws.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws?session=a1b2", nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount("a1b2") == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	body, _ := json.Marshal(map[string]string{"direction": "left"})
	resp, err := http.Post(ts.URL+"/api/sessions/a1b2/move", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Move request failed: %v", err)
	}
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read broadcast: %v", err)
	}
	var message websocket.Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to decode broadcast: %v", err)
	}
	if message.Event != websocket.EventTurn || message.Turn == nil || message.Turn.Direction != engine.Left {
		t.Errorf("Unexpected broadcast %+v", message)
	}
}

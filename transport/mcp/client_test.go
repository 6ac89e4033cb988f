package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/dragons-dungeon/api"
	"github.com/wricardo/dragons-dungeon/game/config"
	"github.com/wricardo/dragons-dungeon/game/engine"
	"github.com/wricardo/dragons-dungeon/game/players"
	"github.com/wricardo/dragons-dungeon/game/service"
	"github.com/wricardo/dragons-dungeon/game/session"
)

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content, got none")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

// testState is a 9x9 dungeon with the player at the bottom center
func testState() *engine.GameState {
	return &engine.GameState{
		Width:      9,
		Height:     9,
		PlayerPos:  engine.Position{X: 4, Y: 7},
		StartPos:   engine.Position{X: 4, Y: 7},
		ExitPos:    engine.Position{X: 1, Y: 1},
		Dragons:    []engine.Position{{X: 7, Y: 1}, {X: 5, Y: 7}},
		Health:     2,
		MaxHealth:  3,
		Outcome:    engine.Ongoing,
		ConfigName: "Normal",
		Turn:       4,
		TotalMoves: 4,
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]string{"echo": body["ping"]})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]string
	if err := client.apiCall(context.Background(), http.MethodPost, "/api", map[string]string{"ping": "pong"}, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["echo"] != "pong" {
		t.Errorf("Expected echo pong, got %v", response)
	}
}

func TestClient_apiCall_Errors(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1")
		if err := client.apiCall(context.Background(), http.MethodGet, "/api", nil, nil); err == nil {
			t.Error("Expected error for unreachable server")
		}
	})

	t.Run("error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), http.MethodGet, "/api", nil, nil)
		if err == nil || err.Error() != "session not found" {
			t.Errorf("Expected server error message, got %v", err)
		}
	})

	t.Run("plain status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), http.MethodGet, "/api", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "API error") {
			t.Errorf("Expected API error, got %v", err)
		}
	})
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["config_id"] != "hard" || body["player"] != "knight" {
			t.Errorf("Unexpected request body: %v", body)
		}

		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:         "ab12",
			ConfigName: "Hard",
			Player:     "knight",
			GameState:  testState(),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), callRequest("create_session", map[string]interface{}{
		"config_id": "hard",
		"player":    "knight",
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Created session: ab12", "Config: Hard", "Player: knight", "Health: 2/3"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_MissingArguments(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	ctx := context.Background()

	// Arguments that are not an object must not panic
	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: "move", Arguments: "oops"}}

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"get_session":   client.handleGetSession,
		"game_state":    client.handleGameState,
		"move":          client.handleMove,
		"bulk_move":     client.handleBulkMove,
		"reset_game":    client.handleReset,
		"move_history":  client.handleMoveHistory,
		"describe_cell": client.handleDescribeCell,
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := handler(ctx, req)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !result.IsError {
				t.Error("Expected a tool error result")
			}
		})
	}
}

func TestIntArg(t *testing.T) {
	args := map[string]interface{}{"f": float64(3), "i": 4, "s": "5", "bad": "x"}

	tests := []struct {
		key  string
		want int
		ok   bool
	}{
		{"f", 3, true},
		{"i", 4, true},
		{"s", 5, true},
		{"bad", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		got, ok := intArg(args, tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("intArg(%q) = %d, %v; want %d, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatGameState(t *testing.T) {
	text := formatGameState(testState())

	for _, want := range []string{
		"Position: (4,7)",
		"Health: 2/3",
		"Turn: 4",
		"Door: (1,1)",
		"#E......#", // far dragon at (7,1) stays hidden
		"#...@D..#", // near dragon at (5,7) is visible
		"#########",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in state, got:\n%s", want, text)
		}
	}
	if strings.Contains(text, "VICTORY") || strings.Contains(text, "GAME OVER") {
		t.Error("Ongoing game should not show a final banner")
	}
}

func TestFormatGameState_Final(t *testing.T) {
	won := testState()
	won.GameOver, won.Victory, won.Outcome = true, true, engine.Win
	won.Message = "YAY! YOU WON :)"
	text := formatGameState(won)
	if !strings.Contains(text, "🎉 VICTORY!") || !strings.Contains(text, "Message: YAY! YOU WON :)") {
		t.Errorf("Expected victory banner, got:\n%s", text)
	}
	// Every dragon is revealed once the game ends
	if !strings.Contains(text, "#E.....D#") {
		t.Errorf("Expected far dragon revealed, got:\n%s", text)
	}

	lost := testState()
	lost.GameOver, lost.Outcome = true, engine.Loss
	if !strings.Contains(formatGameState(lost), "💀 GAME OVER") {
		t.Error("Expected game over banner")
	}

	if formatGameState(nil) != "No game state available" {
		t.Error("Expected placeholder for nil state")
	}

	broken := testState()
	broken.PlayerPos = engine.Position{X: 0, Y: 0}
	if !strings.Contains(formatGameState(broken), "board unavailable") {
		t.Error("Expected board error for player on a wall")
	}
}

func TestFormatMoveResult(t *testing.T) {
	tests := []struct {
		name string
		turn engine.TurnResult
		want []string
	}{
		{
			name: "moved and hit",
			turn: engine.TurnResult{
				Applied: true, Direction: engine.Up, Moved: true,
				From: engine.Position{X: 4, Y: 8}, PlayerPos: engine.Position{X: 4, Y: 7},
				Health: 2, HealthLost: 1, Alerted: []engine.Position{{X: 5, Y: 7}},
			},
			want: []string{"✓ Move successful", "Step: up (4,8)→(4,7) health=2 (-1) alerted=1"},
		},
		{
			name: "blocked",
			turn: engine.TurnResult{Applied: true, Direction: engine.Down, Health: 2},
			want: []string{"Blocked by a wall"},
		},
		{
			name: "invalid",
			turn: engine.TurnResult{Health: 2},
			want: []string{"✗ Move not applied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := formatMoveResult(&service.MoveResult{
				Turn:          tt.turn,
				GameState:     testState(),
				Events:        []service.GameEvent{{Type: service.EventHit, Message: "A dragon burned you!"}},
				PossibleMoves: []string{"up", "left"},
				Danger:        "critical",
			})
			want := append(tt.want, "- hit: A dragon burned you!", "Danger: critical", "Possible moves: up,left")
			for _, w := range want {
				if !strings.Contains(text, w) {
					t.Errorf("Expected %q in result, got:\n%s", w, text)
				}
			}
		})
	}
}

func TestFormatBulkMoveResult(t *testing.T) {
	result := &service.BulkMoveResult{
		MovesExecuted:  2,
		RequestedMoves: 3,
		StoppedReason:  "invalid move: jump",
		StopReasonCode: "invalid_move",
		StoppedOnMove:  3,
		StartHealth:    3,
		EndHealth:      2,
		Steps: []service.StepInfo{
			{Idx: 1, Dir: "up", From: engine.Position{X: 4, Y: 8}, To: engine.Position{X: 4, Y: 7}, Moved: true, HealthBefore: 3, HealthAfter: 2, Alerted: 1},
			{Idx: 2, Dir: "left", From: engine.Position{X: 4, Y: 7}, To: engine.Position{X: 4, Y: 7}, HealthBefore: 2, HealthAfter: 2},
		},
		GameState: testState(),
	}

	text := formatBulkMoveResult("ab12", result)
	for _, want := range []string{
		"Session: ab12 • Config: Normal",
		"Executed 2/3 moves",
		"Stopped on move 3 (invalid_move): invalid move: jump",
		"Health: 3 → 2",
		"1. up (4,8)→(4,7) health=2 ✓ hit(-1) alerted=1",
		"2. left (4,7)→(4,7) health=2 ✗",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got:\n%s", want, text)
		}
	}
}

func TestFormatHistory(t *testing.T) {
	text := formatHistory(&service.HistoryResponse{
		Moves: []engine.MoveHistoryEntry{
			{Action: "up", MoveNumber: 2, Success: true, Health: 0, Outcome: engine.Loss, Alerted: 1},
			{Action: "left", MoveNumber: 1, Success: false, Health: 3},
		},
		TotalMoves: 2, Page: 1, PageSize: 20, TotalPages: 1,
	})

	for _, want := range []string{"Page 1/1", "2. up ✓", "loss", "alerted=1", "1. left ✗"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in history, got:\n%s", want, text)
		}
	}

	if !strings.Contains(formatHistory(&service.HistoryResponse{Page: 1}), "no moves yet") {
		t.Error("Expected empty history placeholder")
	}
}

func TestFormatLeaderboard(t *testing.T) {
	if formatLeaderboard(nil) != "No players registered yet." {
		t.Error("Expected empty leaderboard placeholder")
	}

	text := formatLeaderboard([]players.Standing{
		{Rank: 1, Username: "bob", GamesLost: 1},
		{Rank: 2, Username: "amy", GamesWon: 1, WinRatio: 100},
	})
	if !strings.Contains(text, "bob") || !strings.Contains(text, "100.0%") {
		t.Errorf("Unexpected leaderboard:\n%s", text)
	}
	if strings.Index(text, "bob") > strings.Index(text, "amy") {
		t.Error("Expected ranking order to be kept")
	}
}

func TestDescribeCell(t *testing.T) {
	state := testState()

	tests := []struct {
		name string
		pos  engine.Position
		want string
	}{
		{"wall", engine.Position{X: 0, Y: 3}, "Type: Wall"},
		{"door", engine.Position{X: 1, Y: 1}, "Type: Door"},
		{"player", engine.Position{X: 4, Y: 7}, "Type: Player"},
		{"visible dragon", engine.Position{X: 5, Y: 7}, "Type: Dragon"},
		{"hidden dragon", engine.Position{X: 7, Y: 1}, "Type: Floor"},
		{"floor", engine.Position{X: 2, Y: 2}, "Passable: true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := describeCell(state, tt.pos)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !strings.Contains(text, tt.want) {
				t.Errorf("Expected %q, got:\n%s", tt.want, text)
			}
		})
	}

	if _, err := describeCell(state, engine.Position{X: 9, Y: 0}); err == nil {
		t.Error("Expected out of bounds error")
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callRequest("game_instructions", nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{
		"Dungeon & Dragons - Complete Instructions",
		"GAME OBJECTIVE:",
		"GAME MECHANICS:",
		"VICTORY:",
		"DEFEAT:",
		"GRID LEGEND:",
		"DIFFICULTY:",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in instructions", want)
		}
	}
}

// newAPIServer runs the real REST stack with the built-in presets
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager("")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	svc := service.NewGameService(session.NewManager(), configs, nil)
	server := httptest.NewServer(api.NewServer(svc, nil))
	t.Cleanup(server.Close)
	return server
}

func TestClient_Integration(t *testing.T) {
	server := newAPIServer(t)
	client := NewClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var created service.SessionInfo
	if err := client.apiCall(ctx, http.MethodPost, "/api/sessions", map[string]string{"config_id": "normal"}, &created); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	id := created.ID

	result, err := client.handleGameState(ctx, callRequest("game_state", map[string]interface{}{"session_id": strings.ToUpper(id)}))
	if err != nil {
		t.Fatal(err)
	}
	if text := resultText(t, result); !strings.Contains(text, "Health: 3/3") || !strings.Contains(text, "Position: (8,15)") {
		t.Errorf("Unexpected state:\n%s", text)
	}

	// Up from the start is always floor
	result, err = client.handleMove(ctx, callRequest("move", map[string]interface{}{"session_id": id, "direction": "up", "intent": "leave the start"}))
	if err != nil {
		t.Fatal(err)
	}
	if text := resultText(t, result); !strings.Contains(text, "Step: up (8,15)→(8,14)") {
		t.Errorf("Unexpected move result:\n%s", text)
	}

	result, err = client.handleBulkMove(ctx, callRequest("bulk_move", map[string]interface{}{"session_id": id, "moves": "down, dance", "reset": true}))
	if err != nil {
		t.Fatal(err)
	}
	if text := resultText(t, result); !strings.Contains(text, "(invalid_move)") && !strings.Contains(text, "defeat") {
		t.Errorf("Expected bulk move to stop, got:\n%s", text)
	}

	result, err = client.handleMoveHistory(ctx, callRequest("move_history", map[string]interface{}{"session_id": id, "order": "asc"}))
	if err != nil {
		t.Fatal(err)
	}
	if text := resultText(t, result); !strings.Contains(text, "1. up") {
		t.Errorf("Expected first move in history, got:\n%s", text)
	}

	result, err = client.handleListConfigs(ctx, callRequest("list_configs", nil))
	if err != nil {
		t.Fatal(err)
	}
	if text := resultText(t, result); !strings.Contains(text, "Dragons: 3, Smell: 5, Health: 3") {
		t.Errorf("Expected normal preset in configs, got:\n%s", text)
	}

	// No registry configured
	result, err = client.handleLeaderboard(ctx, callRequest("leaderboard", nil))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("Expected leaderboard error without a player registry")
	}

	result, err = client.handleGameState(ctx, callRequest("game_state", map[string]interface{}{"session_id": "zzzz"}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("Expected error for unknown session")
	}
}

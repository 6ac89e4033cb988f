package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/dragons-dungeon/game/engine"
	"github.com/wricardo/dragons-dungeon/game/service"
)

// Client talks to the game's REST API
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateSession starts a game with the named config
func (c *Client) CreateSession(ctx context.Context, configID string) (*service.SessionInfo, error) {
	var info service.SessionInfo
	body := map[string]string{"config_id": configID}
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &info, nil
}

// State fetches the current game state
func (c *Client) State(ctx context.Context, sessionID string) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+sessionID+"/state", nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

// BulkMove plays several turns in one request
func (c *Client) BulkMove(ctx context.Context, sessionID string, moves []string) (*service.BulkMoveResult, error) {
	var result service.BulkMoveResult
	body := map[string]interface{}{"moves": moves}
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+sessionID+"/bulk-move", body, &result); err != nil {
		return nil, fmt.Errorf("bulk move: %w", err)
	}
	return &result, nil
}

// DeleteSession frees a finished game on the server
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/sessions/"+sessionID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s - %s", resp.Status, strings.TrimSpace(string(data)))
	}
	if result == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, result)
}

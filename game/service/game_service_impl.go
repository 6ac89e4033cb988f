package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/dragons-dungeon/game/engine"
	"github.com/wricardo/dragons-dungeon/game/players"
)

var (
	// ErrPlayersDisabled is returned by account operations when the service
	// runs without a player registry
	ErrPlayersDisabled = errors.New("player accounts are disabled")

	ErrUnknownConfig = errors.New("config not found")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	players  PlayerRegistry
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance. registry may be nil,
// in which case only anonymous sessions are available.
func NewGameService(sessions SessionManager, configs ConfigManager, registry PlayerRegistry) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		players:  registry,
	}
}

// CreateSession creates a new game session. A non-empty player binds the
// session to that account so the result is recorded when the game ends.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName, player string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if player != "" {
		if s.players == nil {
			return nil, ErrPlayersDisabled
		}
		player = players.NormalizeUsername(player)
		if !s.players.Exists(player) {
			return nil, fmt.Errorf("%w: %s", players.ErrPlayerNotFound, player)
		}
	}

	// Load configuration
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrUnknownConfig, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrUnknownConfig, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config, player)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	info := s.sessionInfo(session)
	info.ConfigName = configID
	return info, nil
}

func (s *gameServiceImpl) sessionInfo(session *Session) *SessionInfo {
	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		Player:         session.Player,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState().Clone(),
		GameConfig:     session.Config,
	}
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move plays a single turn for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	var events []GameEvent
	if reset {
		events = append(events, s.resetSession(sess))
	}

	turn := sess.Engine.Move(direction)
	events = append(events, turnEvents(turn)...)
	s.recordResult(sess)

	state := sess.Engine.GetState().Clone()
	return &MoveResult{
		Success:       turn.Applied,
		Turn:          turn,
		GameState:     state,
		Message:       turn.Message,
		Events:        events,
		PossibleMoves: sess.Engine.GetPossibleMoves(),
		Danger:        riskCode(engine.AnalyzeDanger(state, sess.Config.SmellRadius)),
	}, nil
}

// BulkMove plays several turns. It stops at the first unknown command or once
// the game has ended; blocked moves still count as turns.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		result.Events = append(result.Events, s.resetSession(sess))
	}

	state := sess.Engine.GetState()
	result.StartPos = state.PlayerPos
	result.StartHealth = state.Health

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		if sess.Engine.IsGameOver() {
			result.Success = false
			result.StoppedReason = "Game is already over"
			result.StopReasonCode = "game_over"
			result.StoppedOnMove = i + 1
			break
		}

		healthBefore := sess.Engine.GetHealth()
		turn := sess.Engine.Move(move)
		result.Events = append(result.Events, turnEvents(turn)...)

		if !turn.Applied {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("Unknown command %q", move)
			result.StopReasonCode = "invalid_move"
			result.StoppedOnMove = i + 1
			break
		}

		result.MovesExecuted++
		result.Steps = append(result.Steps, StepInfo{
			Idx:          i + 1,
			Dir:          string(turn.Direction),
			From:         turn.From,
			To:           turn.PlayerPos,
			Moved:        turn.Moved,
			HealthBefore: healthBefore,
			HealthAfter:  turn.Health,
			Alerted:      len(turn.Alerted),
			Outcome:      turn.Outcome,
		})

		switch turn.Outcome {
		case engine.Win:
			result.StoppedReason = "Reached the exit"
			result.StopReasonCode = "victory"
			result.StoppedOnMove = i + 1
		case engine.Loss:
			result.StoppedReason = "Out of health"
			result.StopReasonCode = "defeat"
			result.StoppedOnMove = i + 1
		}
		if turn.Outcome.Terminal() {
			break
		}
	}

	s.recordResult(sess)

	state = sess.Engine.GetState().Clone()
	result.GameState = state
	result.EndPos = state.PlayerPos
	result.EndHealth = state.Health
	result.GameOver = state.GameOver
	result.Outcome = state.Outcome
	result.Message = state.Message
	result.PossibleMoves = sess.Engine.GetPossibleMoves()
	result.Danger = riskCode(engine.AnalyzeDanger(state, sess.Config.SmellRadius))

	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	s.resetSession(sess)
	return sess.Engine.GetState().Clone(), nil
}

func (s *gameServiceImpl) resetSession(sess *Session) GameEvent {
	state := sess.Engine.Reset()
	sess.Recorded = false
	return GameEvent{
		Type:      EventReset,
		Message:   "Game reset to initial state",
		Timestamp: time.Now(),
		Position:  state.PlayerPos,
	}
}

// recordResult adds a finished game to the player's statistics once.
// Failures are logged; the game result itself stands.
func (s *gameServiceImpl) recordResult(sess *Session) {
	if sess.Player == "" || sess.Recorded || s.players == nil {
		return
	}
	outcome := sess.Engine.GetState().Outcome
	if !outcome.Terminal() {
		return
	}
	sess.Recorded = true
	if _, err := s.players.RecordResult(sess.Player, outcome); err != nil {
		log.Printf("Warning: failed to record %s for %s in session %s: %v", outcome, sess.Player, sess.ID, err)
	}
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState().Clone(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// RegisterPlayer creates an account
func (s *gameServiceImpl) RegisterPlayer(ctx context.Context, username, password, repeat string) (*PlayerInfo, error) {
	if s.players == nil {
		return nil, ErrPlayersDisabled
	}
	p, err := s.players.Register(username, password, repeat)
	if err != nil {
		return nil, err
	}
	return playerInfo(p), nil
}

// Login checks credentials
func (s *gameServiceImpl) Login(ctx context.Context, username, password string) (*PlayerInfo, error) {
	if s.players == nil {
		return nil, ErrPlayersDisabled
	}
	p, err := s.players.Login(username, password)
	if err != nil {
		return nil, err
	}
	return playerInfo(p), nil
}

// Leaderboard returns every player ranked by win ratio
func (s *gameServiceImpl) Leaderboard(ctx context.Context) ([]players.Standing, error) {
	if s.players == nil {
		return nil, ErrPlayersDisabled
	}
	return s.players.Leaderboard()
}

func playerInfo(p *players.Player) *PlayerInfo {
	return &PlayerInfo{
		Username:  p.Username,
		GamesWon:  p.GamesWon,
		GamesLost: p.GamesLost,
		WinRatio:  p.WinRatio,
		CreatedAt: p.CreatedAt,
	}
}

// turnEvents generates events from a turn
func turnEvents(turn engine.TurnResult) []GameEvent {
	now := time.Now()
	event := func(kind, msg string) GameEvent {
		return GameEvent{Type: kind, Message: msg, Timestamp: now, Position: turn.PlayerPos}
	}

	if !turn.Applied {
		return []GameEvent{event(EventInvalid, turn.Message)}
	}

	var events []GameEvent
	if turn.Moved {
		events = append(events, event(EventMove, fmt.Sprintf("Moved %s to (%d,%d)", turn.Direction, turn.PlayerPos.X, turn.PlayerPos.Y)))
	} else {
		events = append(events, event(EventBlocked, fmt.Sprintf("Blocked moving %s", turn.Direction)))
	}
	if len(turn.Alerted) > 0 {
		events = append(events, event(EventAlert, fmt.Sprintf("%d dragon(s) picked up your scent", len(turn.Alerted))))
	}
	if turn.HealthLost > 0 {
		events = append(events, event(EventHit, fmt.Sprintf("Lost %d health, %d left", turn.HealthLost, turn.Health)))
	}
	switch turn.Outcome {
	case engine.Win:
		events = append(events, event(EventVictory, turn.Message))
	case engine.Loss:
		events = append(events, event(EventDefeat, turn.Message))
	}
	return events
}

// riskCode maps a danger description to a short machine code
func riskCode(text string) string {
	prefix, _, found := strings.Cut(text, ":")
	if !found {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(prefix))
}

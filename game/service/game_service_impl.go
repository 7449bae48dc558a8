package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/minesweeper/game/engine"
	"github.com/wricardo/minesweeper/logging"
)

// customConfigID is reported for sessions built from an explicit size
const customConfigID = "custom"

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	metrics  *Metrics
	mu       sync.RWMutex
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithMetrics makes the service record into m
func WithMetrics(m *Metrics) Option {
	return func(s *gameServiceImpl) {
		s.metrics = m
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	return s
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

// resolveConfig picks the board configuration for a new session
func (s *gameServiceImpl) resolveConfig(opts SessionOptions) (*engine.GameConfig, string, error) {
	if opts.Size > 0 {
		config := engine.CustomConfig(opts.Size, opts.MineCount, opts.Seed)
		if err := engine.ValidateGameConfig(config); err != nil {
			return nil, "", err
		}
		return config, customConfigID, nil
	}

	var config *engine.GameConfig
	configID := opts.ConfigName
	if configID != "" {
		var err error
		config, err = s.configs.LoadConfig(configID)
		if err != nil {
			// Provide helpful error message with available options
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				var configIDs []string
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, "", fmt.Errorf("config '%s' unavailable (available configs: %v): %w", configID, configIDs, err)
			}
			return nil, "", fmt.Errorf("config '%s' unavailable, use /api/configs to list configurations: %w", configID, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.getConfigID(config.Name)
	}

	// Pin the layout without touching the shared preset
	if opts.Seed != 0 {
		pinned := *config
		pinned.Seed = opts.Seed
		config = &pinned
	}
	return config, configID, nil
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, opts SessionOptions) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config, configID, err := s.resolveConfig(opts)
	if err != nil {
		return nil, err
	}

	// Let session manager generate the ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.ConfigID = configID

	s.metrics.SessionsCreated.Inc()
	logging.WithSession(session.ID).WithFields(logrus.Fields{
		"config": configID,
		"size":   config.Size,
		"mines":  config.MineCount,
	}).Info("Session created")

	return s.sessionInfo(session), nil
}

func (s *gameServiceImpl) sessionInfo(session *Session) *SessionInfo {
	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     session.ConfigID, // Return the config_id, not the display name
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		View:           session.Engine.View(),
		Config:         configInfo(session.ConfigID, session.Config),
	}
}

func configInfo(id string, config *engine.GameConfig) *ConfigInfo {
	return &ConfigInfo{
		ConfigID:       id,
		Name:           config.Name,
		Description:    config.Description,
		Size:           config.Size,
		MineCount:      config.MineCount,
		FirstClickSafe: config.FirstClickSafe,
		FixedLayout:    len(config.Layout) > 0,
	}
}

// getSession looks up a session and marks it as accessed. Callers hold s.mu.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if session.ConfigID == "" {
		session.ConfigID = s.getConfigID(session.Config.Name)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return session, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
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

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// checkFlagProtection refuses a reveal on a flagged cell when the config asks for it
func checkFlagProtection(sess *Session, row, col int) error {
	if !sess.Config.ProtectFlags {
		return nil
	}
	state := sess.Engine.GetState()
	if state.Flags.Has(engine.Coord{Row: row, Col: col}) && state.Grid.InBounds(row, col) &&
		!state.Grid[row][col].IsRevealed() {
		return fmt.Errorf("%w: (%d,%d)", ErrFlagProtected, row, col)
	}
	return nil
}

// Reveal opens a cell for a session
func (s *gameServiceImpl) Reveal(ctx context.Context, sessionID string, row, col int) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := checkFlagProtection(sess, row, col); err != nil {
		return nil, err
	}

	prev := sess.Engine.Outcome()
	result, err := sess.Engine.Reveal(row, col)
	if err != nil {
		return nil, err
	}
	s.metrics.observeReveal(result, prev)

	view := sess.Engine.View()
	return &MoveResult{
		Success:  !result.Detonated,
		View:     view,
		Message:  view.Message,
		Revealed: result.Revealed,
		Events:   revealEvents(engine.Coord{Row: row, Col: col}, result, prev),
	}, nil
}

// ToggleFlag places or removes a flag for a session
func (s *gameServiceImpl) ToggleFlag(ctx context.Context, sessionID string, row, col int) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	flagged, err := sess.Engine.ToggleFlag(row, col)
	if err != nil {
		return nil, err
	}

	at := engine.Coord{Row: row, Col: col}
	event := GameEvent{
		Type:      EventUnflag,
		Message:   fmt.Sprintf("Flag removed from (%d,%d)", row, col),
		Timestamp: time.Now(),
		Coord:     &at,
	}
	if flagged {
		event.Type = EventFlag
		event.Message = fmt.Sprintf("Flag placed on (%d,%d)", row, col)
	}
	s.metrics.Flags.WithLabelValues(event.Type).Inc()

	view := sess.Engine.View()
	return &MoveResult{
		Success: true,
		View:    view,
		Message: view.Message,
		Flagged: flagged,
		Events:  []GameEvent{event},
	}, nil
}

// BulkReveal executes several reveals in order, stopping at the first one that
// ends the game or fails
func (s *gameServiceImpl) BulkReveal(ctx context.Context, sessionID string, coords []engine.Coord) (*BulkRevealResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkRevealResult{
		RequestedReveals: len(coords),
		Events:           make([]GameEvent, 0),
		Success:          true,
	}

	// Limit reveals to prevent abuse
	if len(coords) > engine.MaxBulkReveals {
		result.Truncated = true
		result.Limit = engine.MaxBulkReveals
		coords = coords[:engine.MaxBulkReveals]
	}

	for i, c := range coords {
		if sess.Engine.IsGameOver() {
			result.StoppedReason = "game is already over"
			result.StopReasonCode = StopGameOver
			result.StoppedOnReveal = i + 1
			break
		}

		if err := checkFlagProtection(sess, c.Row, c.Col); err != nil {
			result.Success = false
			result.StoppedReason = err.Error()
			result.StopReasonCode = StopFlagProtected
			result.StoppedOnReveal = i + 1
			break
		}

		prev := sess.Engine.Outcome()
		reveal, err := sess.Engine.Reveal(c.Row, c.Col)
		if err != nil {
			result.Success = false
			result.StoppedReason = err.Error()
			result.StopReasonCode = StopInvalidCoordinate
			result.StoppedOnReveal = i + 1
			break
		}
		s.metrics.observeReveal(reveal, prev)

		result.RevealsExecuted++
		result.CellsRevealed += len(reveal.Revealed)
		result.Steps = append(result.Steps, RevealStep{
			Idx:           i,
			Coord:         c,
			CellsRevealed: len(reveal.Revealed),
			Outcome:       reveal.Outcome,
			Detonated:     reveal.Detonated,
		})
		result.Events = append(result.Events, revealEvents(c, reveal, prev)...)

		if reveal.Detonated {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("mine detonated at (%d,%d)", c.Row, c.Col)
			result.StopReasonCode = StopDetonated
			result.StoppedOnReveal = i + 1
			break
		}
		if reveal.Outcome == engine.Win {
			if i < len(coords)-1 {
				result.StoppedReason = "board cleared"
				result.StopReasonCode = StopVictory
				result.StoppedOnReveal = i + 1
			}
			break
		}
	}

	view := sess.Engine.View()
	result.View = view
	result.GameOver = view.GameOver
	result.Message = view.Message

	return result, nil
}

// Reset starts a new game in the session
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Engine.Reset()
	s.metrics.Resets.Inc()
	return sess.Engine.View(), nil
}

// GetGameState retrieves the player view of the current game
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.View(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
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

	// Get the slice of moves
	moves := []engine.MoveHistoryEntry{}
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		// Normal chronological order
		moves = append(moves, history[start:end]...)
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

// revealEvents describes what a single reveal changed
func revealEvents(at engine.Coord, result engine.RevealResult, prev engine.Outcome) []GameEvent {
	now := time.Now()
	var events []GameEvent

	switch n := len(result.Revealed); {
	case result.Detonated:
		events = append(events, GameEvent{
			Type:      EventLoss,
			Message:   fmt.Sprintf("Mine detonated at (%d,%d)", at.Row, at.Col),
			Timestamp: now,
			Coord:     &at,
		})
		return events
	case n == 1:
		events = append(events, GameEvent{
			Type:      EventReveal,
			Message:   fmt.Sprintf("Revealed (%d,%d)", at.Row, at.Col),
			Timestamp: now,
			Coord:     &at,
		})
	case n > 1:
		events = append(events, GameEvent{
			Type:      EventCascade,
			Message:   fmt.Sprintf("Cascade from (%d,%d) opened %d cells", at.Row, at.Col, n),
			Timestamp: now,
			Coord:     &at,
		})
	}

	if prev == engine.InProgress && result.Outcome == engine.Win {
		events = append(events, GameEvent{
			Type:      EventWin,
			Message:   "Every safe cell is open",
			Timestamp: now,
		})
	}
	return events
}

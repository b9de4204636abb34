package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/routefinder/route/engine"
	"github.com/wricardo/mcp-training/routefinder/route/grid"
)

// routeServiceImpl implements the RouteService interface
type routeServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.Mutex
}

// NewRouteService creates a new route service instance
func NewRouteService(sessions SessionManager, configs ConfigManager) RouteService {
	return &routeServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given layout name, used for consistent API responses
func (s *routeServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *routeServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		BoardState:     sess.Engine.GetState(),
		LayoutConfig:   sess.Engine.GetConfig(),
	}
}

// session looks up a session and marks it accessed
func (s *routeServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// CreateSession creates a new board session
func (s *routeServiceImpl) CreateSession(ctx context.Context, configID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.LayoutConfig
	var err error
	if configID != "" {
		config, err = s.configs.LoadConfig(configID)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configID, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configID)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configID, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let the session manager generate a 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if configID == "" {
		configID = s.getConfigID(config.Name)
	}
	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *routeServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, s.getConfigID(sess.Engine.GetConfig().Name)), nil
}

// ListSessions returns all active sessions
func (s *routeServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Engine.GetConfig().Name)))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *routeServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// Select applies a left click to the board
func (s *routeServiceImpl) Select(ctx context.Context, sessionID string, cell grid.Cell) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	kind, err := sess.Engine.Select(cell)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.GetState()
	result := &ActionResult{
		Success:    true,
		BoardState: state,
		Message:    state.Message,
		Selected:   kind,
	}

	switch kind {
	case engine.SelectedStart:
		result.Events = append(result.Events, newEvent(EventStartSelected, state.Message, &cell))
	case engine.SelectedEnd:
		result.Events = append(result.Events, newEvent(EventEndSelected, state.Message, &cell))
	case engine.SelectedPath:
		result.Success = state.PathFound != nil && *state.PathFound
		result.Events = append(result.Events, pathEvent(state))
	}
	return result, nil
}

// Toggle applies a right click to the board
func (s *routeServiceImpl) Toggle(ctx context.Context, sessionID string, cell grid.Cell) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	prevStart, prevEnd := sess.Engine.Endpoints()
	blocked, err := sess.Engine.Toggle(cell)
	if err != nil {
		return nil, err
	}
	start, end := sess.Engine.Endpoints()

	state := sess.Engine.GetState()
	result := &ActionResult{
		Success:    true,
		BoardState: state,
		Message:    state.Message,
		Blocked:    &blocked,
	}

	if blocked {
		result.Events = append(result.Events, newEvent(EventBlocked, fmt.Sprintf("Obstacle placed at %s", cell), &cell))
	} else {
		result.Events = append(result.Events, newEvent(EventOpened, fmt.Sprintf("Obstacle removed at %s", cell), &cell))
	}
	if prevStart != nil && start == nil {
		result.Events = append(result.Events, newEvent(EventEndpointLost, "Start cleared by obstacle", &cell))
	}
	if prevEnd != nil && end == nil {
		result.Events = append(result.Events, newEvent(EventEndpointLost, "End cleared by obstacle", &cell))
	}
	return result, nil
}

// SetEndpoints selects start and/or end directly
func (s *routeServiceImpl) SetEndpoints(ctx context.Context, sessionID string, start, end *grid.Cell) (*ActionResult, error) {
	if start == nil && end == nil {
		return nil, ErrNoEndpoints
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Engine.SetEndpoints(start, end); err != nil {
		return nil, err
	}

	result := &ActionResult{Success: true}
	if start != nil {
		result.Events = append(result.Events, newEvent(EventStartSelected, fmt.Sprintf("Start set to %s", *start), start))
	}
	if end != nil {
		result.Events = append(result.Events, newEvent(EventEndSelected, fmt.Sprintf("End set to %s", *end), end))
	}

	result.BoardState = sess.Engine.GetState()
	result.Message = result.BoardState.Message
	return result, nil
}

// FindPath searches between the selected endpoints, honoring ctx
func (s *routeServiceImpl) FindPath(ctx context.Context, sessionID string) (*PathResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	res, err := sess.Engine.FindPathContext(ctx)
	if err != nil {
		return nil, err
	}

	start, end := sess.Engine.Endpoints()
	state := sess.Engine.GetState()
	path := res.Path
	if path == nil {
		path = []grid.Cell{}
	}
	return &PathResult{
		Found:      res.Found,
		Steps:      res.Steps(),
		Path:       path,
		Expanded:   res.Expanded,
		Start:      *start,
		End:        *end,
		Message:    state.Message,
		BoardState: state,
	}, nil
}

// ClearSelection drops both endpoints and the path
func (s *routeServiceImpl) ClearSelection(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Engine.ClearSelection()
	return sess.Engine.GetState(), nil
}

// Reset restores a session's board to its initial layout
func (s *routeServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.Reset(), nil
}

// GetBoardState retrieves the current board state
func (s *routeServiceImpl) GetBoardState(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetHistory returns paginated action history
func (s *routeServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultHistoryLimit
	}
	if opts.Limit > MaxHistoryLimit {
		opts.Limit = MaxHistoryLimit
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	actions := []engine.ActionEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				actions = append(actions, history[i])
			}
		} else {
			actions = append(actions, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Actions:      actions,
		TotalActions: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// DescribeCell reports what occupies one cell
func (s *routeServiceImpl) DescribeCell(ctx context.Context, sessionID string, cell grid.Cell) (*engine.CellInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.DescribeCell(cell)
}

// ListConfigs returns available layout configurations
func (s *routeServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific layout configuration
func (s *routeServiceImpl) LoadConfig(ctx context.Context, configID string) (*engine.LayoutConfig, error) {
	return s.configs.LoadConfig(configID)
}

// SaveConfig saves a layout configuration to disk
func (s *routeServiceImpl) SaveConfig(ctx context.Context, configID string, config *engine.LayoutConfig) error {
	return s.configs.SaveConfig(configID, config)
}

func newEvent(eventType, message string, cell *grid.Cell) BoardEvent {
	var c *grid.Cell
	if cell != nil {
		cp := *cell
		c = &cp
	}
	return BoardEvent{
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
		Cell:      c,
	}
}

func pathEvent(state *engine.BoardState) BoardEvent {
	if state.PathFound != nil && *state.PathFound {
		return newEvent(EventPathFound, state.Message, state.End)
	}
	return newEvent(EventNoPath, state.Message, state.End)
}

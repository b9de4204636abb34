package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/routefinder/route/engine"
	"github.com/wricardo/mcp-training/routefinder/route/grid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrNoEndpoints     = errors.New("at least one of start or end is required")
)

// RouteService defines all board operations
type RouteService interface {
	// Session Management
	CreateSession(ctx context.Context, configID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Board Operations
	Select(ctx context.Context, sessionID string, cell grid.Cell) (*ActionResult, error)
	Toggle(ctx context.Context, sessionID string, cell grid.Cell) (*ActionResult, error)
	SetEndpoints(ctx context.Context, sessionID string, start, end *grid.Cell) (*ActionResult, error)
	FindPath(ctx context.Context, sessionID string) (*PathResult, error)
	ClearSelection(ctx context.Context, sessionID string) (*engine.BoardState, error)
	Reset(ctx context.Context, sessionID string) (*engine.BoardState, error)

	// Board State
	GetBoardState(ctx context.Context, sessionID string) (*engine.BoardState, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	DescribeCell(ctx context.Context, sessionID string, cell grid.Cell) (*engine.CellInfo, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configID string) (*engine.LayoutConfig, error)
	SaveConfig(ctx context.Context, configID string, config *engine.LayoutConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.LayoutConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.LayoutConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles layout configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.LayoutConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.LayoutConfig
	SaveConfig(name string, config *engine.LayoutConfig) error
}

// Session represents an active board session
type Session struct {
	ID             string
	Engine         *engine.BoardEngine
	Config         *engine.LayoutConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

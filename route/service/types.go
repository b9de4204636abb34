package service

import (
	"time"

	"github.com/wricardo/mcp-training/routefinder/route/engine"
	"github.com/wricardo/mcp-training/routefinder/route/grid"
)

// Event types reported in ActionResult.Events
const (
	EventStartSelected = "start_selected"
	EventEndSelected   = "end_selected"
	EventPathFound     = "path_found"
	EventNoPath        = "no_path"
	EventBlocked       = "blocked"
	EventOpened        = "opened"
	EventEndpointLost  = "endpoint_cleared"
)

// History paging limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// SessionInfo provides information about a board session
type SessionInfo struct {
	ID             string               `json:"id"`
	ConfigName     string               `json:"config_name"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	BoardState     *engine.BoardState   `json:"board_state"`
	LayoutConfig   *engine.LayoutConfig `json:"layout_config"`
}

// ActionResult contains the result of a click or toggle
type ActionResult struct {
	Success    bool               `json:"success"`
	BoardState *engine.BoardState `json:"board_state"`
	Message    string             `json:"message"`
	Events     []BoardEvent       `json:"events,omitempty"`
	Selected   engine.SelectKind  `json:"selected,omitempty"`
	Blocked    *bool              `json:"blocked,omitempty"` // toggle only
}

// PathResult contains the outcome of a search
type PathResult struct {
	Found      bool               `json:"found"`
	Steps      int                `json:"steps"`
	Path       []grid.Cell        `json:"path"`
	Expanded   int                `json:"expanded"`
	Start      grid.Cell          `json:"start"`
	End        grid.Cell          `json:"end"`
	Message    string             `json:"message"`
	BoardState *engine.BoardState `json:"board_state"`
}

// BoardEvent represents something that happened on the board
type BoardEvent struct {
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
	Cell      *grid.Cell `json:"cell,omitempty"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated action history
type HistoryResponse struct {
	Actions      []engine.ActionEntry `json:"actions"`
	TotalActions int                  `json:"total_actions"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	TotalPages   int                  `json:"total_pages"`
	HasNext      bool                 `json:"has_next"`
	HasPrevious  bool                 `json:"has_previous"`
}

// ConfigInfo provides information about a layout configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Obstacles   int    `json:"obstacles"`
}

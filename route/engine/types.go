package engine

import "github.com/wricardo/mcp-training/routefinder/route/grid"

const (
	// Layout characters
	OpenChar    = '.'
	BlockedChar = '#'

	// Render-only characters
	StartChar = 'S'
	EndChar   = 'E'
	PathChar  = '*'

	// Validation constants
	MinGridSize = 1
	MaxGridSize = 100
)

// Action names recorded in the history
const (
	ActionSelect    = "select"
	ActionSetStart  = "set_start"
	ActionSetEnd    = "set_end"
	ActionToggle    = "toggle"
	ActionFindPath  = "find_path"
	ActionClear     = "clear"
	ActionReset     = "reset"
	ActionSetConfig = "set_config"
)

// SelectKind reports what a Select call did
type SelectKind string

const (
	SelectedStart SelectKind = "start"
	SelectedEnd   SelectKind = "end"
	SelectedPath  SelectKind = "path"
)

// LayoutConfig represents a board layout loaded from JSON
type LayoutConfig struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Layout      []string    `json:"layout,omitempty"`    // rows of '.' (open) and '#' (blocked)
	Obstacles   []grid.Cell `json:"obstacles,omitempty"` // extra blocked cells
	Start       *grid.Cell  `json:"start,omitempty"`
	End         *grid.Cell  `json:"end,omitempty"`
}

// BoardState is a JSON snapshot of a board
type BoardState struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Blocked    []grid.Cell `json:"blocked"`
	Start      *grid.Cell  `json:"start,omitempty"`
	End        *grid.Cell  `json:"end,omitempty"`
	Path       []grid.Cell `json:"path,omitempty"`
	PathFound  *bool       `json:"path_found,omitempty"` // nil until a search has run
	Expanded   int         `json:"expanded,omitempty"`
	Message    string      `json:"message"`
	ConfigName string      `json:"config_name"`

	History      []ActionEntry `json:"history"`
	TotalActions int           `json:"total_actions"`

	// Computed helper view: '.' open, '#' blocked, 'S' start, 'E' end, '*' path
	Rows []string `json:"rows,omitempty"`
}

// ActionEntry represents a single action in the board history
type ActionEntry struct {
	Action    string     `json:"action"`
	Cell      *grid.Cell `json:"cell,omitempty"`
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Timestamp int64      `json:"timestamp"`
	Number    int        `json:"number"`
}

// CellInfo describes a single cell
type CellInfo struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Char    string `json:"char"`
	Blocked bool   `json:"blocked"`
	IsStart bool   `json:"is_start"`
	IsEnd   bool   `json:"is_end"`
	OnPath  bool   `json:"on_path"`
}

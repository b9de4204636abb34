package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/routefinder/route/grid"
	"github.com/wricardo/mcp-training/routefinder/route/pathfind"
)

// ErrEndpointsNotSet is returned when a search is requested before both
// endpoints are selected.
var ErrEndpointsNotSet = errors.New("start and end must both be selected")

// Engine provides the main interface for board operations
type Engine interface {
	// Board state
	GetState() *BoardState
	GetGrid() *grid.Grid
	Endpoints() (start, end *grid.Cell)
	Reset() *BoardState

	// Interaction
	Select(cell grid.Cell) (SelectKind, error)
	SetStart(cell grid.Cell) error
	SetEnd(cell grid.Cell) error
	SetEndpoints(start, end *grid.Cell) error
	Toggle(cell grid.Cell) (bool, error)
	ClearSelection()

	// Search
	FindPath() (pathfind.Result, error)
	FindPathContext(ctx context.Context) (pathfind.Result, error)

	// Configuration
	GetConfig() *LayoutConfig
	SetConfig(config *LayoutConfig) error

	// History
	GetHistory() []ActionEntry
	GetLastAction() *ActionEntry

	// Inspection
	DescribeCell(cell grid.Cell) (*CellInfo, error)
}

// BoardEngine implements the Engine interface
type BoardEngine struct {
	config *LayoutConfig
	grid   *grid.Grid

	start *grid.Cell
	end   *grid.Cell

	path      []grid.Cell
	pathFound *bool
	expanded  int
	message   string

	history      []ActionEntry
	totalActions int
}

// NewEngine creates a new board engine with the provided layout
func NewEngine(config *LayoutConfig) (*BoardEngine, error) {
	if err := ValidateLayoutConfig(config); err != nil {
		return nil, err
	}

	e := &BoardEngine{
		config:  config,
		history: []ActionEntry{},
	}
	if err := e.init(); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineWithDefaults creates a new board engine with the built-in layout
func NewEngineWithDefaults() *BoardEngine {
	e, err := NewEngine(DefaultLayout())
	if err != nil {
		// DefaultLayout is static and always valid
		panic(err)
	}
	return e
}

// init rebuilds the grid and selection from the config
func (e *BoardEngine) init() error {
	g, err := BuildGrid(e.config)
	if err != nil {
		return err
	}
	e.grid = g
	e.start = copyCell(e.config.Start)
	e.end = copyCell(e.config.End)
	e.clearPath()
	e.message = fmt.Sprintf("Board %q ready: click a cell to choose the start", e.config.Name)
	if e.start != nil && e.end != nil {
		e.message = fmt.Sprintf("Board %q ready: start %s, end %s", e.config.Name, *e.start, *e.end)
	}
	return nil
}

// GetState returns a snapshot of the board
func (e *BoardEngine) GetState() *BoardState {
	history := make([]ActionEntry, len(e.history))
	copy(history, e.history)

	state := &BoardState{
		Width:        e.grid.Width(),
		Height:       e.grid.Height(),
		Blocked:      e.grid.BlockedCells(),
		Start:        copyCell(e.start),
		End:          copyCell(e.end),
		Expanded:     e.expanded,
		Message:      e.message,
		ConfigName:   e.config.Name,
		History:      history,
		TotalActions: e.totalActions,
		Rows:         e.Render(),
	}
	if e.path != nil {
		state.Path = make([]grid.Cell, len(e.path))
		copy(state.Path, e.path)
	}
	if e.pathFound != nil {
		found := *e.pathFound
		state.PathFound = &found
	}
	return state
}

// GetGrid returns the live obstacle grid. Callers must not retain it across
// board mutations.
func (e *BoardEngine) GetGrid() *grid.Grid {
	return e.grid
}

// Endpoints returns copies of the selected start and end
func (e *BoardEngine) Endpoints() (*grid.Cell, *grid.Cell) {
	return copyCell(e.start), copyCell(e.end)
}

// Reset restores the layout's obstacles and presets. History is kept.
func (e *BoardEngine) Reset() *BoardState {
	if err := e.init(); err != nil {
		// config was validated when it was set
		panic(err)
	}
	e.message = "Board reset to initial layout"
	e.addHistory(ActionReset, nil, true)
	return e.GetState()
}

// Select applies a click: the first selects the start, the second the end,
// and any further click runs the search between them. Clicks on blocked
// cells are ignored and reported with pathfind.ErrBlockedEndpoint.
func (e *BoardEngine) Select(cell grid.Cell) (SelectKind, error) {
	blocked, err := e.grid.IsBlocked(cell)
	if err != nil {
		e.message = fmt.Sprintf("Cell %s is outside the %dx%d board", cell, e.grid.Width(), e.grid.Height())
		e.addHistory(ActionSelect, &cell, false)
		return "", err
	}
	if blocked {
		e.message = fmt.Sprintf("Cell %s is blocked", cell)
		e.addHistory(ActionSelect, &cell, false)
		return "", fmt.Errorf("%w: %s", pathfind.ErrBlockedEndpoint, cell)
	}

	switch {
	case e.start == nil:
		e.start = &cell
		e.clearPath()
		e.message = fmt.Sprintf("Start set to %s", cell)
		e.addHistory(ActionSelect, &cell, true)
		return SelectedStart, nil

	case e.end == nil:
		e.end = &cell
		e.clearPath()
		e.message = fmt.Sprintf("End set to %s", cell)
		e.addHistory(ActionSelect, &cell, true)
		return SelectedEnd, nil
	}

	if _, err := e.FindPath(); err != nil {
		return "", err
	}
	return SelectedPath, nil
}

// SetStart selects the start cell directly
func (e *BoardEngine) SetStart(cell grid.Cell) error {
	if err := e.checkEndpoint(ActionSetStart, cell); err != nil {
		return err
	}
	e.start = &cell
	e.clearPath()
	e.message = fmt.Sprintf("Start set to %s", cell)
	e.addHistory(ActionSetStart, &cell, true)
	return nil
}

// SetEnd selects the end cell directly
func (e *BoardEngine) SetEnd(cell grid.Cell) error {
	if err := e.checkEndpoint(ActionSetEnd, cell); err != nil {
		return err
	}
	e.end = &cell
	e.clearPath()
	e.message = fmt.Sprintf("End set to %s", cell)
	e.addHistory(ActionSetEnd, &cell, true)
	return nil
}

// SetEndpoints sets start and/or end. Both candidates are checked before
// either is applied, so a rejected call leaves the selection unchanged.
func (e *BoardEngine) SetEndpoints(start, end *grid.Cell) error {
	if start != nil {
		if err := e.checkEndpoint(ActionSetStart, *start); err != nil {
			return err
		}
	}
	if end != nil {
		if err := e.checkEndpoint(ActionSetEnd, *end); err != nil {
			return err
		}
	}

	if start != nil {
		if err := e.SetStart(*start); err != nil {
			return err
		}
	}
	if end != nil {
		return e.SetEnd(*end)
	}
	return nil
}

// Toggle flips the obstacle at cell and reports whether it is now blocked.
// Blocking a selected endpoint deselects it, and any displayed path is
// dropped because it may no longer be valid.
func (e *BoardEngine) Toggle(cell grid.Cell) (bool, error) {
	if err := e.grid.ToggleBlocked(cell); err != nil {
		e.message = fmt.Sprintf("Cell %s is outside the %dx%d board", cell, e.grid.Width(), e.grid.Height())
		e.addHistory(ActionToggle, &cell, false)
		return false, err
	}

	blocked, _ := e.grid.IsBlocked(cell)
	e.clearPath()

	if blocked {
		e.message = fmt.Sprintf("Obstacle placed at %s", cell)
		if e.start != nil && *e.start == cell {
			e.start = nil
			e.message += " (start cleared)"
		}
		if e.end != nil && *e.end == cell {
			e.end = nil
			e.message += " (end cleared)"
		}
	} else {
		e.message = fmt.Sprintf("Obstacle removed at %s", cell)
	}

	e.addHistory(ActionToggle, &cell, true)
	return blocked, nil
}

// ClearSelection drops start, end and the displayed path
func (e *BoardEngine) ClearSelection() {
	e.start = nil
	e.end = nil
	e.clearPath()
	e.message = "Selection cleared"
	e.addHistory(ActionClear, nil, true)
}

// FindPath runs the search between the selected endpoints
func (e *BoardEngine) FindPath() (pathfind.Result, error) {
	return e.FindPathContext(context.Background())
}

// FindPathContext runs the search on a snapshot of the grid in its own
// goroutine. If ctx ends first the result is discarded and the board is
// left untouched.
func (e *BoardEngine) FindPathContext(ctx context.Context) (pathfind.Result, error) {
	if e.start == nil || e.end == nil {
		e.message = "Select both a start and an end first"
		e.addHistory(ActionFindPath, nil, false)
		return pathfind.Result{}, ErrEndpointsNotSet
	}
	start, end := *e.start, *e.end

	type outcome struct {
		result pathfind.Result
		err    error
	}
	done := make(chan outcome, 1)
	snapshot := e.grid.Clone()
	go func() {
		res, err := pathfind.FindPath(snapshot, start, end)
		done <- outcome{result: res, err: err}
	}()

	var out outcome
	select {
	case <-ctx.Done():
		return pathfind.Result{}, ctx.Err()
	case out = <-done:
	}

	if out.err != nil {
		e.message = fmt.Sprintf("Search failed: %v", out.err)
		e.addHistory(ActionFindPath, &end, false)
		return pathfind.Result{}, out.err
	}

	e.recordResult(out.result)
	if out.result.Found {
		e.message = fmt.Sprintf("Path found: %d steps from %s to %s", out.result.Steps(), start, end)
	} else {
		e.message = "No path found"
	}
	e.addHistory(ActionFindPath, &end, out.result.Found)
	return out.result, nil
}

// GetConfig returns the current layout configuration
func (e *BoardEngine) GetConfig() *LayoutConfig {
	return e.config
}

// SetConfig switches to a new layout and resets the board
func (e *BoardEngine) SetConfig(config *LayoutConfig) error {
	if err := ValidateLayoutConfig(config); err != nil {
		return err
	}

	e.config = config
	if err := e.init(); err != nil {
		return err
	}
	e.addHistory(ActionSetConfig, nil, true)
	return nil
}

// GetHistory returns the complete action history
func (e *BoardEngine) GetHistory() []ActionEntry {
	return e.history
}

// GetLastAction returns the last action, or nil if there is none
func (e *BoardEngine) GetLastAction() *ActionEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// DescribeCell returns detailed information about one cell
func (e *BoardEngine) DescribeCell(cell grid.Cell) (*CellInfo, error) {
	blocked, err := e.grid.IsBlocked(cell)
	if err != nil {
		return nil, err
	}

	info := &CellInfo{
		X:       cell.X,
		Y:       cell.Y,
		Blocked: blocked,
		IsStart: e.start != nil && *e.start == cell,
		IsEnd:   e.end != nil && *e.end == cell,
	}
	for _, c := range e.path {
		if c == cell {
			info.OnPath = true
			break
		}
	}
	info.Char = string(e.charAt(cell))
	return info, nil
}

// checkEndpoint rejects out-of-bounds and blocked endpoint candidates
func (e *BoardEngine) checkEndpoint(action string, cell grid.Cell) error {
	blocked, err := e.grid.IsBlocked(cell)
	if err != nil {
		e.message = fmt.Sprintf("Cell %s is outside the %dx%d board", cell, e.grid.Width(), e.grid.Height())
		e.addHistory(action, &cell, false)
		return err
	}
	if blocked {
		e.message = fmt.Sprintf("Cell %s is blocked", cell)
		e.addHistory(action, &cell, false)
		return fmt.Errorf("%w: %s", pathfind.ErrBlockedEndpoint, cell)
	}
	return nil
}

func (e *BoardEngine) recordResult(res pathfind.Result) {
	found := res.Found
	e.pathFound = &found
	e.expanded = res.Expanded
	e.path = nil
	if res.Found {
		e.path = make([]grid.Cell, len(res.Path))
		copy(e.path, res.Path)
	}
}

func (e *BoardEngine) clearPath() {
	e.path = nil
	e.pathFound = nil
	e.expanded = 0
}

// addHistory appends an action to the board history
func (e *BoardEngine) addHistory(action string, cell *grid.Cell, success bool) {
	e.totalActions++
	e.history = append(e.history, ActionEntry{
		Action:    action,
		Cell:      copyCell(cell),
		Success:   success,
		Message:   e.message,
		Timestamp: time.Now().Unix(),
		Number:    e.totalActions,
	})
}

func copyCell(c *grid.Cell) *grid.Cell {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

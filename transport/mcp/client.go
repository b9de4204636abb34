package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/routefinder/route/engine"
	"github.com/wricardo/mcp-training/routefinder/route/grid"
	"github.com/wricardo/mcp-training/routefinder/route/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Grid Route Finder",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Grid Route Finder - MCP Interface

This is a thin client that proxies all requests to the REST API server.

OBJECTIVE:
Pick a start and an end cell on a grid with obstacles and find the shortest
4-connected route between them (A* search, Manhattan heuristic).

AVAILABLE TOOLS:
- create_session: Create a board from a layout
- list_sessions / get_session: Inspect sessions
- board_state: ASCII board ('.' open, '#' blocked, 'S' start, 'E' end, '*' path)
- select_cell: Click a cell (first click = start, second = end, third = search)
- toggle_obstacle: Flip a cell between open and blocked
- set_endpoints: Set start and/or end directly
- find_path: Search between the selected endpoints
- clear_selection: Forget start, end and path
- reset_board: Restore the initial layout
- action_history: Past actions, paged
- list_configs: Available layouts
- describe_cell: Details about one cell
- instructions: Full rules`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func coordinateProperties() map[string]interface{} {
	return map[string]interface{}{
		"session_id": sessionProperty(),
		"x": map[string]interface{}{
			"type":        "integer",
			"description": "Column, 0-based from the left",
		},
		"y": map[string]interface{}{
			"type":        "integer",
			"description": "Row, 0-based from the top",
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new board session with optional layout selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Layout to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active board sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Board operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Get the current board as ASCII art",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleBoardState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_cell",
		Description: "Click a cell: the first click picks the start, the second the end, the third runs the search. Blocked cells are rejected.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: coordinateProperties(),
			Required:   []string{"session_id", "x", "y"},
		},
	}, c.handleSelectCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "toggle_obstacle",
		Description: "Flip a cell between open and blocked. Clears the current path.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: coordinateProperties(),
			Required:   []string{"session_id", "x", "y"},
		},
	}, c.handleToggleObstacle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_endpoints",
		Description: "Set the start and/or end cell directly",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"start_x":    map[string]interface{}{"type": "integer", "description": "Start column"},
				"start_y":    map[string]interface{}{"type": "integer", "description": "Start row"},
				"end_x":      map[string]interface{}{"type": "integer", "description": "End column"},
				"end_y":      map[string]interface{}{"type": "integer", "description": "End row"},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSetEndpoints)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "find_path",
		Description: "Find the shortest path between the selected start and end",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleFindPath)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "clear_selection",
		Description: "Clear start, end and path without touching obstacles",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleClearSelection)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_board",
		Description: "Restore the initial layout and presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleResetBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "action_history",
		Description: "Get the action history with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Entries per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "asc or desc (default desc)",
					"enum":        []string{"asc", "desc"},
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleActionHistory)

	// Information
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board layouts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe a single cell (open/blocked, start/end, on path)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: coordinateProperties(),
			Required:   []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "instructions",
		Description: "Get the board rules and legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg reads an integer argument; JSON numbers arrive as float64
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}

func cellArg(args map[string]interface{}, xKey, yKey string) (*grid.Cell, error) {
	x, okX := intArg(args, xKey)
	y, okY := intArg(args, yKey)
	switch {
	case okX && okY:
		return &grid.Cell{X: x, Y: y}, nil
	case okX || okY:
		return nil, fmt.Errorf("both %s and %s are required", xKey, yKey)
	default:
		return nil, nil
	}
}

func sessionArg(args map[string]interface{}) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return sessionID, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatBoardState(session.BoardState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := sessionArg(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := sessionArg(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.BoardState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoardState(&state)), nil
}

func (c *Client) cellAction(ctx context.Context, request mcp.CallToolRequest, suffix string) (*service.ActionResult, error) {
	args := request.GetArguments()
	sessionID, err := sessionArg(args)
	if err != nil {
		return nil, err
	}
	cell, err := cellArg(args, "x", "y")
	if err != nil {
		return nil, err
	}
	if cell == nil {
		return nil, fmt.Errorf("x and y are required")
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, suffix), cell, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) handleSelectCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := c.cellAction(ctx, request, "/select")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatActionResult(result)), nil
}

func (c *Client) handleToggleObstacle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := c.cellAction(ctx, request, "/toggle")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatActionResult(result)), nil
}

func (c *Client) handleSetEndpoints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, err := sessionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start, err := cellArg(args, "start_x", "start_y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := cellArg(args, "end_x", "end_y")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]*grid.Cell{"start": start, "end": end}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/endpoints"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleFindPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := sessionArg(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.PathResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/path"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPathResult(&result)), nil
}

func (c *Client) handleClearSelection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := sessionArg(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.BoardState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/clear"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoardState(&state)), nil
}

func (c *Client) handleResetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := sessionArg(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string             `json:"message"`
		State   *engine.BoardState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatBoardState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleActionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, err := sessionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order, _ := args["order"].(string); order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Grid: %dx%d, Obstacles: %d\n\n",
			config.ConfigID, config.Name, config.Description, config.Width, config.Height, config.Obstacles)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, err := sessionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cell, err := cellArg(args, "x", "y")
	if err != nil || cell == nil {
		return mcp.NewToolResultError("x and y are required"), nil
	}

	var info engine.CellInfo
	path := sessionPath(sessionID, fmt.Sprintf("/cells/%d/%d", cell.X, cell.Y))
	if err := c.apiCall(ctx, "GET", path, nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCellInfo(&info)), nil
}

func (c *Client) handleInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Grid Route Finder - Instructions

OBJECTIVE:
Find the shortest route between two cells on a grid with obstacles.

GRID LEGEND:
  .  open cell
  #  obstacle (cannot be entered)
  S  start
  E  end
  *  path cell

COORDINATES:
x is the column counted from the left, y is the row counted from the top,
both starting at 0. (0,0) is the top-left corner.

MOVEMENT:
Paths move one cell at a time up, down, left or right. There are no
diagonal steps, so every path length is at least the Manhattan distance
|x1-x2| + |y1-y2|.

CLICKING (select_cell):
1. First click picks the start.
2. Second click picks the end.
3. Any further click runs the search between them.
Clicking an obstacle is rejected and changes nothing.

EDITING:
toggle_obstacle flips a cell. Any toggle clears the current path. Turning
the start or end into an obstacle also clears that endpoint.

SEARCH RESULTS:
find_path reports the number of steps (the start cell is not counted) and
how many cells the search expanded. "No path found" means the end cannot be
reached; it is a normal outcome, not an error.

TIPS:
- Use set_endpoints to place start and end in one call.
- clear_selection keeps obstacles; reset_board restores the whole layout.
- describe_cell confirms what a character in the board means.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatBoardState(session.BoardState))
}

func formatEndpoint(c *grid.Cell) string {
	if c == nil {
		return "not set"
	}
	return c.String()
}

func formatBoardState(state *engine.BoardState) string {
	if state == nil {
		return "No board state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Board %dx%d", state.Width, state.Height)
	if state.ConfigName != "" {
		fmt.Fprintf(&b, " (%s)", state.ConfigName)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Start: %s  End: %s  Obstacles: %d\n",
		formatEndpoint(state.Start), formatEndpoint(state.End), len(state.Blocked))

	switch {
	case state.PathFound == nil:
	case *state.PathFound:
		fmt.Fprintf(&b, "Path: %d steps (%d cells expanded)\n", len(state.Path), state.Expanded)
	default:
		fmt.Fprintf(&b, "Path: none (%d cells expanded)\n", state.Expanded)
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}

	if len(state.Rows) > 0 {
		b.WriteString("\n")
		b.WriteString(formatRows(state.Rows))
	}
	return b.String()
}

// formatRows draws the board with column and row indices
func formatRows(rows []string) string {
	var b strings.Builder
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	b.WriteString("    ")
	for x := 0; x < width; x++ {
		fmt.Fprintf(&b, "%d", x%10)
	}
	b.WriteString("\n")
	for y, row := range rows {
		fmt.Fprintf(&b, "%3d %s\n", y, row)
	}
	return b.String()
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ ")
	} else {
		b.WriteString("✗ ")
	}
	b.WriteString(result.Message)
	b.WriteString("\n")

	for _, event := range result.Events {
		fmt.Fprintf(&b, "  [%s] %s\n", event.Type, event.Message)
	}
	b.WriteString("\n")
	b.WriteString(formatBoardState(result.BoardState))
	return b.String()
}

func formatPathResult(result *service.PathResult) string {
	var b strings.Builder
	if result.Found {
		fmt.Fprintf(&b, "✓ Path found from %s to %s: %d steps\n", result.Start, result.End, result.Steps)
		cells := make([]string, 0, len(result.Path))
		for _, c := range result.Path {
			cells = append(cells, c.String())
		}
		if len(cells) > 0 {
			fmt.Fprintf(&b, "Route: %s\n", strings.Join(cells, " → "))
		}
	} else {
		fmt.Fprintf(&b, "✗ No path found from %s to %s\n", result.Start, result.End)
	}
	fmt.Fprintf(&b, "Cells expanded: %d\n\n", result.Expanded)
	b.WriteString(formatBoardState(result.BoardState))
	return b.String()
}

func formatCellInfo(info *engine.CellInfo) string {
	kind := "Open"
	if info.Blocked {
		kind = "Obstacle (impassable)"
	}

	var roles []string
	if info.IsStart {
		roles = append(roles, "start")
	}
	if info.IsEnd {
		roles = append(roles, "end")
	}
	if info.OnPath {
		roles = append(roles, "on path")
	}
	role := "none"
	if len(roles) > 0 {
		role = strings.Join(roles, ", ")
	}

	return fmt.Sprintf(`Cell at position (%d, %d):
━━━━━━━━━━━━━━━━━━━━━━━━
Character: %s
Type: %s
Role: %s`, info.X, info.Y, info.Char, kind, role)
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action History (Page %d/%d), Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalActions)

	for _, action := range history.Actions {
		status := "✓"
		if !action.Success {
			status = "✗"
		}
		cell := ""
		if action.Cell != nil {
			cell = " " + action.Cell.String()
		}
		fmt.Fprintf(&b, "%d. %s%s %s %s\n", action.Number, action.Action, cell, status, action.Message)
	}

	if len(history.Actions) == 0 {
		b.WriteString("(no actions)\n")
	}
	return b.String()
}

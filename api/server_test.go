package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/routefinder/route/engine"
	"github.com/wricardo/mcp-training/routefinder/route/grid"
	"github.com/wricardo/mcp-training/routefinder/route/pathfind"
	"github.com/wricardo/mcp-training/routefinder/route/service"
	"github.com/wricardo/mcp-training/routefinder/transport/websocket"
)

// MockRouteService implements service.RouteService for testing
type MockRouteService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configID string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Board Operations
	SelectFunc         func(ctx context.Context, sessionID string, cell grid.Cell) (*service.ActionResult, error)
	ToggleFunc         func(ctx context.Context, sessionID string, cell grid.Cell) (*service.ActionResult, error)
	SetEndpointsFunc   func(ctx context.Context, sessionID string, start, end *grid.Cell) (*service.ActionResult, error)
	FindPathFunc       func(ctx context.Context, sessionID string) (*service.PathResult, error)
	ClearSelectionFunc func(ctx context.Context, sessionID string) (*engine.BoardState, error)
	ResetFunc          func(ctx context.Context, sessionID string) (*engine.BoardState, error)

	// Board State
	GetBoardStateFunc func(ctx context.Context, sessionID string) (*engine.BoardState, error)
	GetHistoryFunc    func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)
	DescribeCellFunc  func(ctx context.Context, sessionID string, cell grid.Cell) (*engine.CellInfo, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configID string) (*engine.LayoutConfig, error)
	SaveConfigFunc  func(ctx context.Context, configID string, config *engine.LayoutConfig) error
}

// Session Management
func (m *MockRouteService) CreateSession(ctx context.Context, configID string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configID)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: configID,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockRouteService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "test-config",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockRouteService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockRouteService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Board Operations
func (m *MockRouteService) Select(ctx context.Context, sessionID string, cell grid.Cell) (*service.ActionResult, error) {
	if m.SelectFunc != nil {
		return m.SelectFunc(ctx, sessionID, cell)
	}
	return &service.ActionResult{
		Success:    true,
		BoardState: &engine.BoardState{Start: &cell},
		Selected:   engine.SelectedStart,
	}, nil
}

func (m *MockRouteService) Toggle(ctx context.Context, sessionID string, cell grid.Cell) (*service.ActionResult, error) {
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, sessionID, cell)
	}
	blocked := true
	return &service.ActionResult{
		Success:    true,
		BoardState: &engine.BoardState{Blocked: []grid.Cell{cell}},
		Blocked:    &blocked,
	}, nil
}

func (m *MockRouteService) SetEndpoints(ctx context.Context, sessionID string, start, end *grid.Cell) (*service.ActionResult, error) {
	if m.SetEndpointsFunc != nil {
		return m.SetEndpointsFunc(ctx, sessionID, start, end)
	}
	return &service.ActionResult{
		Success:    true,
		BoardState: &engine.BoardState{Start: start, End: end},
	}, nil
}

func (m *MockRouteService) FindPath(ctx context.Context, sessionID string) (*service.PathResult, error) {
	if m.FindPathFunc != nil {
		return m.FindPathFunc(ctx, sessionID)
	}
	return &service.PathResult{
		Found:      true,
		Path:       []grid.Cell{},
		BoardState: &engine.BoardState{},
	}, nil
}

func (m *MockRouteService) ClearSelection(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	if m.ClearSelectionFunc != nil {
		return m.ClearSelectionFunc(ctx, sessionID)
	}
	return &engine.BoardState{Message: "Selection cleared"}, nil
}

func (m *MockRouteService) Reset(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return &engine.BoardState{}, nil
}

// Board State
func (m *MockRouteService) GetBoardState(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	if m.GetBoardStateFunc != nil {
		return m.GetBoardStateFunc(ctx, sessionID)
	}
	return &engine.BoardState{}, nil
}

func (m *MockRouteService) GetHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Actions:    []engine.ActionEntry{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

func (m *MockRouteService) DescribeCell(ctx context.Context, sessionID string, cell grid.Cell) (*engine.CellInfo, error) {
	if m.DescribeCellFunc != nil {
		return m.DescribeCellFunc(ctx, sessionID, cell)
	}
	return &engine.CellInfo{X: cell.X, Y: cell.Y, Char: "."}, nil
}

// Configuration
func (m *MockRouteService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockRouteService) LoadConfig(ctx context.Context, configID string) (*engine.LayoutConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configID)
	}
	return &engine.LayoutConfig{
		Name:        configID,
		Description: "Test config",
		Width:       3,
		Height:      3,
	}, nil
}

func (m *MockRouteService) SaveConfig(ctx context.Context, configID string, config *engine.LayoutConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configID, config)
	}
	return nil
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockRouteService) *Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := websocket.NewHub()
	go hub.Run(ctx)
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func serve(t *testing.T, mockService *MockRouteService, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	server := setupTestServer(t, mockService)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockRouteService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default config",
			requestBody: nil,
			setupMock: func(m *MockRouteService) {
				m.CreateSessionFunc = func(ctx context.Context, configID string) (*service.SessionInfo, error) {
					return &service.SessionInfo{ID: "ab12", ConfigName: "classic", CreatedAt: time.Now()}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "ab12" {
					t.Errorf("Expected session ID ab12, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with specific config",
			requestBody: map[string]string{"config_id": "maze"},
			setupMock: func(m *MockRouteService) {
				m.CreateSessionFunc = func(ctx context.Context, configID string) (*service.SessionInfo, error) {
					if configID != "maze" {
						t.Errorf("Expected config id 'maze', got %s", configID)
					}
					return &service.SessionInfo{ID: "cd34", ConfigName: configID}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "Unknown config",
			requestBody: map[string]string{"config_id": "nope"},
			setupMock: func(m *MockRouteService) {
				m.CreateSessionFunc = func(ctx context.Context, configID string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: %s", service.ErrConfigNotFound, configID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "Handle service error",
			setupMock: func(m *MockRouteService) {
				m.CreateSessionFunc = func(ctx context.Context, configID string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockRouteService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			w := serve(t, mockService, makeRequest("POST", "/api/sessions", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestCreateSession_MalformedBody(t *testing.T) {
	mockService := &MockRouteService{
		CreateSessionFunc: func(ctx context.Context, configID string) (*service.SessionInfo, error) {
			t.Error("CreateSession should not be called for a malformed body")
			return &service.SessionInfo{ID: "ab12"}, nil
		},
	}

	req := httptest.NewRequest("POST", "/api/sessions", strings.NewReader(`{"config_id": "maze"`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(t, mockService, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	// An empty body still falls back to the default layout
	called := false
	mockService.CreateSessionFunc = func(ctx context.Context, configID string) (*service.SessionInfo, error) {
		called = true
		return &service.SessionInfo{ID: "ab12"}, nil
	}
	w = serve(t, mockService, httptest.NewRequest("POST", "/api/sessions", nil))
	if w.Code != http.StatusCreated || !called {
		t.Errorf("Expected empty body to create a session, got status %d", w.Code)
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	mockService := &MockRouteService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-2 * time.Hour)},
				{ID: "new", CreatedAt: now, LastAccessedAt: now},
				{ID: "mid", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now.Add(-time.Hour)},
			}, nil
		},
	}

	tests := []struct {
		name          string
		query         string
		expectedFirst string
		expectedCount int
	}{
		{"Default sort by accessed desc", "", "new", 3},
		{"Created ascending", "?sort=created&order=asc", "old", 3},
		{"With limit", "?limit=2", "new", 2},
		{"Limit larger than total", "?limit=10", "new", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, mockService, makeRequest("GET", "/api/sessions"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			if resp.Count != tt.expectedCount || len(resp.Sessions) != tt.expectedCount {
				t.Errorf("Expected %d sessions, got count=%d len=%d", tt.expectedCount, resp.Count, len(resp.Sessions))
			}
			if resp.Total != 3 {
				t.Errorf("Expected total 3, got %d", resp.Total)
			}
			if resp.Sessions[0].ID != tt.expectedFirst {
				t.Errorf("Expected first session %s, got %s", tt.expectedFirst, resp.Sessions[0].ID)
			}
		})
	}
}

func TestGetSession(t *testing.T) {
	mockService := &MockRouteService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID == "ab12" {
				return &service.SessionInfo{ID: sessionID, ConfigName: "classic"}, nil
			}
			return nil, fmt.Errorf("%w: %s", service.ErrSessionNotFound, sessionID)
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/api/sessions/ab12", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	w = serve(t, mockService, makeRequest("GET", "/api/sessions/zz99", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	deleted := ""
	mockService := &MockRouteService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID != "ab12" {
				return fmt.Errorf("%w: %s", service.ErrSessionNotFound, sessionID)
			}
			deleted = sessionID
			return nil
		},
	}

	w := serve(t, mockService, makeRequest("DELETE", "/api/sessions/ab12", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if deleted != "ab12" {
		t.Errorf("Expected ab12 deleted, got %q", deleted)
	}

	w = serve(t, mockService, makeRequest("DELETE", "/api/sessions/other", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// Board Operation Tests

func TestSelect(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*testing.T, *MockRouteService)
		expectedStatus int
	}{
		{
			name: "Select start",
			body: map[string]int{"x": 1, "y": 2},
			setupMock: func(t *testing.T, m *MockRouteService) {
				m.SelectFunc = func(ctx context.Context, sessionID string, cell grid.Cell) (*service.ActionResult, error) {
					if cell != (grid.Cell{X: 1, Y: 2}) {
						t.Errorf("Expected cell (1,2), got %s", cell)
					}
					return &service.ActionResult{Success: true, Selected: engine.SelectedStart, BoardState: &engine.BoardState{}}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Select triggers path",
			body: map[string]int{"x": 4, "y": 4},
			setupMock: func(t *testing.T, m *MockRouteService) {
				m.SelectFunc = func(ctx context.Context, sessionID string, cell grid.Cell) (*service.ActionResult, error) {
					found := true
					return &service.ActionResult{
						Success:  true,
						Selected: engine.SelectedPath,
						BoardState: &engine.BoardState{
							Start:     &grid.Cell{X: 0, Y: 0},
							End:       &cell,
							Path:      []grid.Cell{{X: 0, Y: 1}},
							PathFound: &found,
						},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing coordinates",
			body:           map[string]int{"x": 1},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid body",
			body:           "not an object",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Blocked cell",
			body: map[string]int{"x": 1, "y": 1},
			setupMock: func(t *testing.T, m *MockRouteService) {
				m.SelectFunc = func(ctx context.Context, sessionID string, cell grid.Cell) (*service.ActionResult, error) {
					return nil, fmt.Errorf("%w: %s", pathfind.ErrBlockedEndpoint, cell)
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Out of bounds",
			body: map[string]int{"x": -1, "y": 0},
			setupMock: func(t *testing.T, m *MockRouteService) {
				m.SelectFunc = func(ctx context.Context, sessionID string, cell grid.Cell) (*service.ActionResult, error) {
					return nil, fmt.Errorf("%w: %s", grid.ErrOutOfBounds, cell)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockRouteService{}
			if tt.setupMock != nil {
				tt.setupMock(t, mockService)
			}

			w := serve(t, mockService, makeRequest("POST", "/api/sessions/ab12/select", tt.body))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestToggle(t *testing.T) {
	mockService := &MockRouteService{}
	w := serve(t, mockService, makeRequest("POST", "/api/sessions/ab12/toggle", map[string]int{"x": 3, "y": 3}))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.ActionResult
	parseResponse(t, w, &resp)
	if resp.Blocked == nil || !*resp.Blocked {
		t.Error("Expected blocked=true in response")
	}

	mockService.ToggleFunc = func(ctx context.Context, sessionID string, cell grid.Cell) (*service.ActionResult, error) {
		return nil, fmt.Errorf("%w: %s", grid.ErrOutOfBounds, cell)
	}
	w = serve(t, mockService, makeRequest("POST", "/api/sessions/ab12/toggle", map[string]int{"x": 30, "y": 3}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestSetEndpoints(t *testing.T) {
	var gotStart, gotEnd *grid.Cell
	mockService := &MockRouteService{
		SetEndpointsFunc: func(ctx context.Context, sessionID string, start, end *grid.Cell) (*service.ActionResult, error) {
			gotStart, gotEnd = start, end
			if start == nil && end == nil {
				return nil, service.ErrNoEndpoints
			}
			return &service.ActionResult{Success: true, BoardState: &engine.BoardState{}}, nil
		},
	}

	body := map[string]interface{}{"start": map[string]int{"x": 0, "y": 0}}
	w := serve(t, mockService, makeRequest("POST", "/api/sessions/ab12/endpoints", body))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if gotStart == nil || *gotStart != (grid.Cell{}) || gotEnd != nil {
		t.Errorf("Unexpected endpoints start=%v end=%v", gotStart, gotEnd)
	}

	w = serve(t, mockService, makeRequest("POST", "/api/sessions/ab12/endpoints", map[string]interface{}{}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 with no endpoints, got %d", w.Code)
	}
}

func TestFindPath(t *testing.T) {
	tests := []struct {
		name           string
		result         *service.PathResult
		err            error
		expectedStatus int
	}{
		{
			name: "Path found",
			result: &service.PathResult{
				Found:      true,
				Steps:      2,
				Path:       []grid.Cell{{X: 1, Y: 0}, {X: 2, Y: 0}},
				End:        grid.Cell{X: 2, Y: 0},
				BoardState: &engine.BoardState{},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "No path",
			result:         &service.PathResult{Found: false, Path: []grid.Cell{}, BoardState: &engine.BoardState{}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Endpoints missing",
			err:            engine.ErrEndpointsNotSet,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Canceled",
			err:            context.Canceled,
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "Unknown session",
			err:            fmt.Errorf("%w: zz", service.ErrSessionNotFound),
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockRouteService{
				FindPathFunc: func(ctx context.Context, sessionID string) (*service.PathResult, error) {
					return tt.result, tt.err
				},
			}

			w := serve(t, mockService, makeRequest("POST", "/api/sessions/ab12/path", nil))
			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.result != nil {
				var resp service.PathResult
				parseResponse(t, w, &resp)
				if resp.Found != tt.result.Found || resp.Steps != tt.result.Steps {
					t.Errorf("Unexpected result %+v", resp)
				}
				if resp.Path == nil {
					t.Error("Path should be an empty array, not null")
				}
			}
		})
	}
}

func TestClearSelection(t *testing.T) {
	w := serve(t, &MockRouteService{}, makeRequest("POST", "/api/sessions/ab12/clear", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var state engine.BoardState
	parseResponse(t, w, &state)
	if state.Message != "Selection cleared" {
		t.Errorf("Unexpected message %q", state.Message)
	}
}

func TestReset(t *testing.T) {
	mockService := &MockRouteService{
		ResetFunc: func(ctx context.Context, sessionID string) (*engine.BoardState, error) {
			return &engine.BoardState{Message: "Board reset to initial layout"}, nil
		},
	}

	w := serve(t, mockService, makeRequest("POST", "/api/sessions/ab12/reset", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Message string             `json:"message"`
		State   *engine.BoardState `json:"state"`
	}
	parseResponse(t, w, &resp)
	if resp.State == nil || resp.State.Message != "Board reset to initial layout" {
		t.Errorf("Unexpected reset response %+v", resp)
	}
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		expectedOpts service.HistoryOptions
	}{
		{"Defaults", "", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
		{"Explicit", "?page=2&limit=5&order=asc", service.HistoryOptions{Page: 2, Limit: 5, Order: "asc"}},
		{"Invalid values ignored", "?page=-1&limit=abc&order=sideways", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.HistoryOptions
			mockService := &MockRouteService{
				GetHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					got = opts
					return &service.HistoryResponse{Actions: []engine.ActionEntry{}}, nil
				},
			}

			w := serve(t, mockService, makeRequest("GET", "/api/sessions/ab12/history"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if got != tt.expectedOpts {
				t.Errorf("Expected options %+v, got %+v", tt.expectedOpts, got)
			}
		})
	}
}

func TestGetBoardState(t *testing.T) {
	mockService := &MockRouteService{
		GetBoardStateFunc: func(ctx context.Context, sessionID string) (*engine.BoardState, error) {
			return &engine.BoardState{Width: 3, Height: 1, Rows: []string{"S*E"}}, nil
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/api/sessions/ab12/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var state engine.BoardState
	parseResponse(t, w, &state)
	if state.Width != 3 || len(state.Rows) != 1 || state.Rows[0] != "S*E" {
		t.Errorf("Unexpected state %+v", state)
	}
}

func TestDescribeCell(t *testing.T) {
	w := serve(t, &MockRouteService{}, makeRequest("GET", "/api/sessions/ab12/cells/2/3", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var info engine.CellInfo
	parseResponse(t, w, &info)
	if info.X != 2 || info.Y != 3 {
		t.Errorf("Expected cell (2,3), got (%d,%d)", info.X, info.Y)
	}

	w = serve(t, &MockRouteService{}, makeRequest("GET", "/api/sessions/ab12/cells/a/3", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for non-numeric x, got %d", w.Code)
	}
}

// Configuration Tests

func TestListConfigs(t *testing.T) {
	mockService := &MockRouteService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{{ConfigID: "classic", Width: 10, Height: 10, Obstacles: 5}}, nil
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/api/configs", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var configs []*service.ConfigInfo
	parseResponse(t, w, &configs)
	if len(configs) != 1 || configs[0].ConfigID != "classic" {
		t.Errorf("Unexpected configs %+v", configs)
	}
}

func TestGetConfig(t *testing.T) {
	var requested string
	mockService := &MockRouteService{
		LoadConfigFunc: func(ctx context.Context, configID string) (*engine.LayoutConfig, error) {
			requested = configID
			if configID == "missing" {
				return nil, fmt.Errorf("%w: %s", service.ErrConfigNotFound, configID)
			}
			return &engine.LayoutConfig{Name: configID, Width: 2, Height: 2}, nil
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/api/configs/classic.json", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if requested != "classic" {
		t.Errorf("Expected .json suffix stripped, got %s", requested)
	}

	w = serve(t, mockService, makeRequest("GET", "/api/configs/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestCreateConfig(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		saveErr        error
		expectedStatus int
	}{
		{
			name:           "Valid config",
			body:           engine.LayoutConfig{Name: "tiny", Width: 2, Height: 2, Layout: []string{"..", ".#"}},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing name",
			body:           engine.LayoutConfig{Width: 2, Height: 2},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid layout",
			body:           engine.LayoutConfig{Name: "bad", Width: 0, Height: 2},
			saveErr:        fmt.Errorf("%w: width must be positive", service.ErrInvalidConfig),
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockRouteService{
				SaveConfigFunc: func(ctx context.Context, configID string, config *engine.LayoutConfig) error {
					return tt.saveErr
				},
			}

			w := serve(t, mockService, makeRequest("POST", "/api/configs", tt.body))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	w := serve(t, &MockRouteService{}, makeRequest("GET", "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", resp)
	}
}

func TestRequestID(t *testing.T) {
	w := serve(t, &MockRouteService{}, makeRequest("GET", "/api/health", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("Expected a generated request ID")
	}

	req := makeRequest("GET", "/api/health", nil)
	req.Header.Set(RequestIDHeader, "given-id")
	w = serve(t, &MockRouteService{}, req)
	if got := w.Header().Get(RequestIDHeader); got != "given-id" {
		t.Errorf("Expected caller request ID to be echoed, got %s", got)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: x", service.ErrSessionNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: x", service.ErrConfigNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: start", pathfind.ErrBlockedEndpoint), http.StatusConflict},
		{engine.ErrEndpointsNotSet, http.StatusConflict},
		{fmt.Errorf("%w: (9,9)", grid.ErrOutOfBounds), http.StatusBadRequest},
		{service.ErrInvalidConfig, http.StatusBadRequest},
		{service.ErrNoEndpoints, http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.status {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.status)
		}
	}
}

func TestWebSocket(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(*MockRouteService)
		expectedStatus int
	}{
		{
			name:           "Missing session parameter",
			queryParams:    "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Invalid session",
			queryParams: "?session=invalid",
			setupMock: func(m *MockRouteService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, service.ErrSessionNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Valid session",
			queryParams:    "?session=ab12",
			expectedStatus: http.StatusSwitchingProtocols,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockRouteService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/ws"+tt.queryParams, nil)

			if tt.expectedStatus == http.StatusSwitchingProtocols {
				req.Header.Set("Upgrade", "websocket")
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
				req.Header.Set("Sec-WebSocket-Version", "13")
			}

			server.handleWebSocket(w, req)

			// httptest.ResponseRecorder does not implement http.Hijacker, so a
			// 500 means the upgrade was attempted
			if tt.expectedStatus == http.StatusSwitchingProtocols && w.Code == http.StatusInternalServerError {
				return
			}

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

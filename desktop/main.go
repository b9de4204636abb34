package main

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	headerHeight = 60
	footerHeight = 30
	screenWidth  = 800
	screenHeight = 720
	pathAnimStep = 40 * time.Millisecond // delay between revealed path cells
)

var baseURL = "http://localhost:8080"

// Cell is a board coordinate
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BoardState mirrors the server's board snapshot
type BoardState struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Blocked      []Cell `json:"blocked"`
	Start        *Cell  `json:"start,omitempty"`
	End          *Cell  `json:"end,omitempty"`
	Path         []Cell `json:"path,omitempty"`
	PathFound    *bool  `json:"path_found,omitempty"`
	Expanded     int    `json:"expanded,omitempty"`
	Message      string `json:"message"`
	ConfigName   string `json:"config_name"`
	TotalActions int    `json:"total_actions"`
}

// WSMessage is the hub's push envelope
type WSMessage struct {
	SessionID  string      `json:"session_id"`
	Event      string      `json:"event,omitempty"`
	BoardState *BoardState `json:"board_state,omitempty"`
}

// Board is the desktop client for one session
type Board struct {
	sessionID string
	wsConn    *websocket.Conn

	mu        sync.RWMutex
	state     *BoardState
	blocked   map[Cell]bool
	onPath    map[Cell]int // path cell -> index along the path
	pathShown time.Time    // when the current path arrived
	status    string
}

// NewBoard attaches to sessionID, or creates a session with configID when
// sessionID is empty.
func NewBoard(sessionID, configID string) (*Board, error) {
	b := &Board{sessionID: sessionID}

	if sessionID == "" {
		if err := b.createSession(configID); err != nil {
			return nil, err
		}
	}

	if err := b.connectWebSocket(); err != nil {
		log.Printf("Failed to connect WebSocket for %s: %v (falling back to polling)", b.sessionID, err)
	} else {
		go b.listenWebSocket()
	}

	if err := b.fetchState(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Board) createSession(configID string) error {
	payload := "{}"
	if configID != "" {
		payload = fmt.Sprintf(`{"config_id":%q}`, configID)
	}

	resp, err := http.Post(baseURL+"/api/sessions", "application/json", strings.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("create session: %s (body: %s)", resp.Status, string(body))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse session response: %v (body: %s)", err, string(body))
	}

	b.sessionID = result.ID
	log.Printf("Created new session: %s (config: %s)", b.sessionID, configID)
	return nil
}

func (b *Board) connectWebSocket() error {
	base, err := url.Parse(baseURL)
	if err != nil {
		return err
	}

	scheme := "ws"
	if base.Scheme == "https" {
		scheme = "wss"
	}
	wsURL := url.URL{Scheme: scheme, Host: base.Host, Path: "/ws"}
	q := wsURL.Query()
	q.Set("session", b.sessionID)
	wsURL.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return err
	}

	b.wsConn = conn
	log.Printf("WebSocket connected for session %s", b.sessionID)
	return nil
}

func (b *Board) listenWebSocket() {
	defer b.wsConn.Close()

	for {
		_, message, err := b.wsConn.ReadMessage()
		if err != nil {
			log.Printf("WebSocket read error for %s: %v", b.sessionID, err)
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("WebSocket JSON parse error: %v", err)
			continue
		}
		if msg.BoardState == nil {
			continue
		}
		b.setState(msg.BoardState)
	}
}

func (b *Board) fetchState() error {
	resp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s/state", baseURL, url.PathEscape(b.sessionID)))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch state: %s (body: %s)", resp.Status, string(body))
	}

	var state BoardState
	if err := json.Unmarshal(body, &state); err != nil {
		return fmt.Errorf("failed to parse JSON: %v (body: %s)", err, string(body))
	}
	b.setState(&state)
	return nil
}

func (b *Board) setState(state *BoardState) {
	blocked := make(map[Cell]bool, len(state.Blocked))
	for _, c := range state.Blocked {
		blocked[c] = true
	}
	onPath := make(map[Cell]int, len(state.Path))
	for i, c := range state.Path {
		onPath[c] = i
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Restart the reveal only when a new path arrives
	if len(state.Path) > 0 && (b.state == nil || len(b.state.Path) != len(state.Path)) {
		b.pathShown = time.Now()
	}
	b.state = state
	b.blocked = blocked
	b.onPath = onPath
	b.status = state.Message
}

// post sends an action and refreshes the state. Errors from the server are
// shown in the footer.
func (b *Board) post(action string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.setStatus(err.Error())
		return
	}

	u := fmt.Sprintf("%s/api/sessions/%s/%s", baseURL, url.PathEscape(b.sessionID), action)
	resp, err := http.Post(u, "application/json", strings.NewReader(string(data)))
	if err != nil {
		b.setStatus(err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		body, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			b.setStatus(apiErr.Error)
		} else {
			b.setStatus(resp.Status)
		}
		return
	}

	if b.wsConn == nil {
		if err := b.fetchState(); err != nil {
			b.setStatus(err.Error())
		}
	}
}

func (b *Board) setStatus(msg string) {
	b.mu.Lock()
	b.status = msg
	b.mu.Unlock()
}

// cellSize fits the board into the drawing area.
func (b *Board) cellSize() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.state == nil || b.state.Width == 0 || b.state.Height == 0 {
		return 0
	}
	w := screenWidth / b.state.Width
	h := (screenHeight - headerHeight - footerHeight) / b.state.Height
	if h < w {
		return h
	}
	return w
}

// cellAt maps a screen position to a board cell.
func (b *Board) cellAt(px, py int) (Cell, bool) {
	size := b.cellSize()
	if size == 0 || py < headerHeight {
		return Cell{}, false
	}
	c := Cell{X: px / size, Y: (py - headerHeight) / size}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if c.X >= b.state.Width || c.Y >= b.state.Height {
		return Cell{}, false
	}
	return c, true
}

// Update handles input
func (b *Board) Update() error {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if c, ok := b.cellAt(ebiten.CursorPosition()); ok {
			go b.post("select", c)
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if c, ok := b.cellAt(ebiten.CursorPosition()); ok {
			go b.post("toggle", c)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		go b.post("path", struct{}{})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		go b.post("clear", struct{}{})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		go b.post("reset", struct{}{})
	}
	return nil
}

// Draw renders the board
func (b *Board) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})

	size := b.cellSize()

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.state == nil {
		ebitenutil.DebugPrint(screen, "Loading...")
		return
	}
	s := b.state

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("=== GRID ROUTE FINDER === %s (%dx%d)", s.ConfigName, s.Width, s.Height), 10, 8)
	ebitenutil.DebugPrintAt(screen, summary(s), 10, 26)

	revealed := len(s.Path)
	if !b.pathShown.IsZero() {
		revealed = int(time.Since(b.pathShown)/pathAnimStep) + 1
	}

	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			c := Cell{X: x, Y: y}
			idx, on := b.onPath[c]
			clr := cellColor(c, s, b.blocked[c], on && idx < revealed)
			ebitenutil.DrawRect(screen,
				float64(x*size)+1, float64(headerHeight+y*size)+1,
				float64(size)-2, float64(size)-2, clr)
		}
	}

	ebitenutil.DebugPrintAt(screen, b.status, 10, screenHeight-footerHeight-16)
	ebitenutil.DebugPrintAt(screen, "LMB: Select | RMB: Toggle obstacle | ENTER: Search | C: Clear | R: Reset", 10, screenHeight-20)
}

func summary(s *BoardState) string {
	line := fmt.Sprintf("Start: %s  End: %s  Obstacles: %d  Actions: %d",
		cellLabel(s.Start), cellLabel(s.End), len(s.Blocked), s.TotalActions)
	if s.PathFound != nil {
		if *s.PathFound {
			line += fmt.Sprintf("  Path: %d steps (%d expanded)", len(s.Path)-1, s.Expanded)
		} else {
			line += "  NO PATH"
		}
	}
	return line
}

func cellLabel(c *Cell) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// cellColor returns the fill for a cell. Endpoints win over the path.
func cellColor(c Cell, s *BoardState, blocked, onPath bool) color.Color {
	switch {
	case s.Start != nil && *s.Start == c:
		return color.RGBA{0, 200, 0, 255} // Green for start
	case s.End != nil && *s.End == c:
		return color.RGBA{255, 0, 0, 255} // Red for end
	case blocked:
		return color.RGBA{100, 50, 0, 255} // Brown for obstacles
	case onPath:
		return color.RGBA{255, 165, 0, 255} // Orange for the path
	default:
		return color.RGBA{128, 128, 128, 255} // Gray for open cells
	}
}

// Layout returns the screen size
func (b *Board) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	if v := os.Getenv("ROUTEFINDER_URL"); v != "" {
		baseURL = strings.TrimSuffix(v, "/")
	}

	// Usage: desktop [session-id]
	sessionID := ""
	if len(os.Args) > 1 {
		sessionID = os.Args[1]
	}

	board, err := NewBoard(sessionID, os.Getenv("ROUTEFINDER_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Grid Route Finder - Desktop Client")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(board); err != nil {
		log.Fatal(err)
	}
}

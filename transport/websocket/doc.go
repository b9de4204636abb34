// Package websocket pushes live board updates to connected clients.
//
// Architecture:
//
// A central Hub owns every connection. Its Run loop handles register,
// unregister and broadcast requests; each client gets a read pump (which
// only answers pings and detects disconnects) and a write pump.
//
// Message Protocol:
//
// Clients connect to /ws?session=<id> and receive one JSON object per
// frame after every board change:
//
//	{"session_id": "ab12", "event": "toggle", "request_id": "...", "board_state": {...}}
//
// Events are state_update, select, toggle, path, reset and clear. The
// request_id matches the X-Request-ID of the HTTP call that caused the
// change. Messages sent by clients are ignored.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, sessionID)
//	hub.BroadcastToSession(sessionID, websocket.EventToggle, requestID, state)
//
// Clients that cannot keep up with their queue are disconnected. Cancelling
// the context passed to Run closes every connection.
package websocket

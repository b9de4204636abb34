// Package api provides HTTP REST API handlers for the route finder.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Board Operations:
//   - GET /api/sessions/{id}/state - Current board state
//   - POST /api/sessions/{id}/select - Click a cell ({"x": 0, "y": 0})
//   - POST /api/sessions/{id}/toggle - Flip a cell between open and blocked
//   - POST /api/sessions/{id}/endpoints - Set start and/or end directly
//   - POST /api/sessions/{id}/path - Search between the selected endpoints
//   - POST /api/sessions/{id}/clear - Clear start, end and path
//   - POST /api/sessions/{id}/reset - Restore the initial layout
//   - GET /api/sessions/{id}/history - Paged action history (page, limit, order)
//   - GET /api/sessions/{id}/cells/{x}/{y} - Describe one cell
//
// Configuration:
//   - GET /api/configs - List layouts
//   - POST /api/configs - Save a layout
//   - GET /api/configs/{name} - Get a layout
//
// Other:
//   - GET /api/health - Liveness check
//   - GET /ws?session={id} - WebSocket upgrade for live board updates
//
// Every response carries an X-Request-ID header. Mutations broadcast the new
// board state to the session's WebSocket clients tagged with the same ID.
//
// Error Handling:
//
// Errors are returned as {"error": "message"}. Out of bounds cells, invalid
// layouts and malformed bodies map to 400, blocked endpoints and searches
// without both endpoints to 409, unknown sessions or layouts to 404, and
// cancelled searches to 503.
package api

// Package mcp exposes the route finder to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes a REST request against
// the api package and the JSON response is rendered as text, including an
// ASCII board with row and column indices.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - board_state: ASCII board and selection summary
//   - select_cell: click a cell (start, end, then search)
//   - toggle_obstacle: flip a cell between open and blocked
//   - set_endpoints: set start and/or end directly
//   - find_path: search between the selected endpoints
//   - clear_selection, reset_board: undo selection or the whole board
//   - action_history: paged history of actions
//   - list_configs, describe_cell, instructions: reference information
//
// Failures are reported as tool errors (IsError set) with the REST error
// message, never as protocol errors.
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp on the main server, handled with HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp

// Package service provides the business logic layer for the route finder.
//
// The service package implements:
//   - Multi-session board management
//   - Click handling (select start, select end, search) and obstacle toggles
//   - Cancellable path searches
//   - Paged action history
//
// Core Interfaces:
//
// RouteService is the main service interface used by every transport.
// SessionManager stores sessions; ConfigManager loads layouts.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and
// the board engine. Each session owns an independent engine, and the
// service serializes access to them with a single mutex since engines are
// not safe for concurrent use.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	routeService := service.NewRouteService(sessionMgr, configMgr)
//
//	info, err := routeService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	routeService.Select(ctx, info.ID, grid.Cell{X: 0, Y: 0})
//	routeService.Select(ctx, info.ID, grid.Cell{X: 9, Y: 9})
//	result, err := routeService.FindPath(ctx, info.ID)
//
// Errors:
//
// Lookup failures wrap ErrSessionNotFound or ErrConfigNotFound. Board
// errors from the grid, pathfind and engine packages are returned as is so
// callers can match them with errors.Is.
package service

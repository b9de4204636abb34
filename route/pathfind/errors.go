package pathfind

import "errors"

var (
	// ErrBlockedEndpoint indicates the start or end cell is itself an obstacle.
	ErrBlockedEndpoint = errors.New("pathfind: endpoint is blocked")
	// ErrNilGrid indicates FindPath was called without a grid.
	ErrNilGrid = errors.New("pathfind: grid is nil")
)

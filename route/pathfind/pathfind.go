package pathfind

import (
	"container/heap"
	"fmt"

	"github.com/wricardo/mcp-training/routefinder/route/grid"
)

// Result contains the outcome of a search
type Result struct {
	// Path runs from the first step after start through end. Empty when
	// start == end, nil when not found.
	Path     []grid.Cell `json:"path"`
	Found    bool        `json:"found"`
	Cost     int         `json:"cost"`
	Expanded int         `json:"expanded"`
	// Visited holds the expansion order, only populated with WithTrace.
	Visited []grid.Cell `json:"visited,omitempty"`
}

// Steps returns the number of moves in the path
func (r Result) Steps() int {
	return len(r.Path)
}

type options struct {
	trace bool
}

// Option modifies a search
type Option func(*options)

// WithTrace records every expanded cell in Result.Visited.
func WithTrace() Option {
	return func(o *options) { o.trace = true }
}

// Heuristic is the Manhattan distance, admissible and consistent for
// unit-cost 4-directional movement.
func Heuristic(from, to grid.Cell) int {
	return grid.Manhattan(from, to)
}

// FindPath computes a shortest path from start to end on g using A*.
func FindPath(g *grid.Grid, start, end grid.Cell, opts ...Option) (Result, error) {
	if g == nil {
		return Result{}, ErrNilGrid
	}

	searchOptions := options{}
	for _, opt := range opts {
		opt(&searchOptions)
	}

	if err := checkEndpoint(g, "start", start); err != nil {
		return Result{}, err
	}
	if err := checkEndpoint(g, "end", end); err != nil {
		return Result{}, err
	}

	if start == end {
		return Result{Path: []grid.Cell{}, Found: true}, nil
	}

	open := &frontier{}
	heap.Init(open)
	heap.Push(open, frontierItem{cell: start, cost: 0, priority: Heuristic(start, end)})

	cameFrom := make(map[grid.Cell]grid.Cell)
	costSoFar := map[grid.Cell]int{start: 0}

	result := Result{}

	for open.Len() > 0 {
		current := heap.Pop(open).(frontierItem)

		// A cheaper entry for this cell was already expanded.
		if current.cost > costSoFar[current.cell] {
			continue
		}

		result.Expanded++
		if searchOptions.trace {
			result.Visited = append(result.Visited, current.cell)
		}

		if current.cell == end {
			result.Path = reconstructPath(cameFrom, start, end)
			result.Found = true
			result.Cost = current.cost
			return result, nil
		}

		for _, d := range grid.Directions {
			neighbor := current.cell.Add(d.X, d.Y)
			if !g.Walkable(neighbor) {
				continue
			}

			tentative := current.cost + 1
			if known, seen := costSoFar[neighbor]; !seen || tentative < known {
				costSoFar[neighbor] = tentative
				cameFrom[neighbor] = current.cell
				heap.Push(open, frontierItem{
					cell:     neighbor,
					cost:     tentative,
					priority: tentative + Heuristic(neighbor, end),
				})
			}
		}
	}

	return result, nil
}

// checkEndpoint validates a start or end cell against the grid
func checkEndpoint(g *grid.Grid, role string, c grid.Cell) error {
	blocked, err := g.IsBlocked(c)
	if err != nil {
		return fmt.Errorf("%s: %w", role, err)
	}
	if blocked {
		return fmt.Errorf("%w: %s %s", ErrBlockedEndpoint, role, c)
	}
	return nil
}

// reconstructPath walks cameFrom back from end and returns the steps after
// start in forward order.
func reconstructPath(cameFrom map[grid.Cell]grid.Cell, start, end grid.Cell) []grid.Cell {
	path := []grid.Cell{}
	for current := end; current != start; {
		path = append(path, current)
		previous, ok := cameFrom[current]
		if !ok {
			break
		}
		current = previous
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

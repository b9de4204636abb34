// Package pathfind computes shortest 4-directional paths on a grid.Grid.
//
// FindPath runs A* with the Manhattan heuristic and unit step cost. The
// heuristic is consistent for this movement model, so the first time the
// goal is popped from the frontier its cost is optimal.
//
// Every call is self-contained: the frontier, the best-cost map and the
// predecessor map live only for the duration of the call. The grid is read,
// never written.
//
// Results:
//
// A Result with Found set carries the path from the first step after start
// through end inclusive. Start itself is never part of the path, so a query
// with start == end yields an empty, found path. An unreachable end is not an
// error; it is a Result with Found == false.
//
// Errors are reserved for caller mistakes: ErrOutOfBounds (wrapped from the
// grid package) and ErrBlockedEndpoint.
package pathfind

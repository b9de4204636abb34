// Package engine holds the interactive board: an obstacle grid, the
// selected start and end cells, the last search result and an action
// history.
//
// A click on an open cell selects the start, a second click selects the
// end, and every click after that runs the search between them. Toggling
// an obstacle always drops the displayed path. Reset restores the layout
// the board was created from.
//
// A BoardEngine is not safe for concurrent use; callers serialize access
// (see the service package).
package engine

package engine

import (
	"strings"

	"github.com/wricardo/mcp-training/routefinder/route/grid"
)

// Render draws the board as one string per row. Endpoints take precedence
// over the path, which takes precedence over open cells.
func (e *BoardEngine) Render() []string {
	onPath := make(map[grid.Cell]bool, len(e.path))
	for _, c := range e.path {
		onPath[c] = true
	}

	rows := make([]string, e.grid.Height())
	var b strings.Builder
	for y := 0; y < e.grid.Height(); y++ {
		b.Reset()
		for x := 0; x < e.grid.Width(); x++ {
			b.WriteRune(e.cellChar(grid.Cell{X: x, Y: y}, onPath))
		}
		rows[y] = b.String()
	}
	return rows
}

func (e *BoardEngine) charAt(c grid.Cell) rune {
	onPath := make(map[grid.Cell]bool, len(e.path))
	for _, p := range e.path {
		onPath[p] = true
	}
	return e.cellChar(c, onPath)
}

func (e *BoardEngine) cellChar(c grid.Cell, onPath map[grid.Cell]bool) rune {
	switch {
	case e.start != nil && *e.start == c:
		return StartChar
	case e.end != nil && *e.end == c:
		return EndChar
	case !e.grid.Walkable(c):
		return BlockedChar
	case onPath[c]:
		return PathChar
	default:
		return OpenChar
	}
}

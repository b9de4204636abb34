// Package grid provides the obstacle model used by the route finder.
//
// A Grid is a fixed-size W×H board where every cell is either open or
// blocked. Dimensions never change after construction; the only mutation is
// ToggleBlocked, which flips a single cell.
//
// Coordinates:
//
// Cells are addressed by (X, Y) with 0 ≤ X < Width and 0 ≤ Y < Height. Any
// coordinate outside that range is rejected with ErrOutOfBounds rather than
// clamped.
//
// Concurrency:
//
// Grid is not safe for concurrent use. Callers that share a grid between
// goroutines must serialize access themselves, or hand a Clone to the reader.
//
// Usage:
//
//	g, err := grid.New(10, 10, []grid.Cell{{X: 5, Y: 5}})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	blocked, _ := g.IsBlocked(grid.Cell{X: 5, Y: 5}) // true
//	_ = g.ToggleBlocked(grid.Cell{X: 5, Y: 5})       // now open
package grid

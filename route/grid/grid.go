package grid

import "fmt"

// Cell represents x,y coordinates on the grid
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String renders the cell as "(x,y)"
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns the cell offset by dx, dy
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Directions lists the 4 axis-aligned steps in neighbor expansion order:
// +y, +x, -y, -x.
var Directions = [4]Cell{
	{0, 1},
	{1, 0},
	{0, -1},
	{-1, 0},
}

// Grid is a W×H obstacle map stored row-major (index y*W+x).
type Grid struct {
	width   int
	height  int
	blocked []bool
}

// New creates a grid of the given size with the initial blocked cells set.
// Listing the same cell twice blocks it once.
func New(width, height int, blocked []Cell) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, width, height)
	}

	g := &Grid{
		width:   width,
		height:  height,
		blocked: make([]bool, width*height),
	}

	for _, c := range blocked {
		if err := g.check(c); err != nil {
			return nil, err
		}
		g.blocked[g.index(c)] = true
	}

	return g, nil
}

// Width returns the number of columns
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows
func (g *Grid) Height() int {
	return g.height
}

// InBounds reports whether c lies inside the grid
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// IsBlocked reports whether c holds an obstacle
func (g *Grid) IsBlocked(c Cell) (bool, error) {
	if err := g.check(c); err != nil {
		return false, err
	}
	return g.blocked[g.index(c)], nil
}

// ToggleBlocked flips the obstacle flag of c. The grid does not know about
// start or end selections; protecting them is up to the caller.
func (g *Grid) ToggleBlocked(c Cell) error {
	if err := g.check(c); err != nil {
		return err
	}
	i := g.index(c)
	g.blocked[i] = !g.blocked[i]
	return nil
}

// Walkable reports whether c is in bounds and open
func (g *Grid) Walkable(c Cell) bool {
	return g.InBounds(c) && !g.blocked[g.index(c)]
}

// Neighbors returns the walkable 4-neighbors of c in Directions order
func (g *Grid) Neighbors(c Cell) []Cell {
	result := make([]Cell, 0, len(Directions))
	for _, d := range Directions {
		n := c.Add(d.X, d.Y)
		if g.Walkable(n) {
			result = append(result, n)
		}
	}
	return result
}

// BlockedCells returns every blocked cell in row-major order
func (g *Grid) BlockedCells() []Cell {
	cells := make([]Cell, 0)
	for i, b := range g.blocked {
		if b {
			cells = append(cells, Cell{X: i % g.width, Y: i / g.width})
		}
	}
	return cells
}

// CountBlocked returns the number of blocked cells
func (g *Grid) CountBlocked() int {
	count := 0
	for _, b := range g.blocked {
		if b {
			count++
		}
	}
	return count
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	blocked := make([]bool, len(g.blocked))
	copy(blocked, g.blocked)
	return &Grid{
		width:   g.width,
		height:  g.height,
		blocked: blocked,
	}
}

func (g *Grid) index(c Cell) int {
	return c.Y*g.width + c.X
}

func (g *Grid) check(c Cell) error {
	if !g.InBounds(c) {
		return fmt.Errorf("%w: %s outside %dx%d", ErrOutOfBounds, c, g.width, g.height)
	}
	return nil
}

// Manhattan returns |a.x-b.x| + |a.y-b.y|
func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

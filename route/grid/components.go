package grid

// Components finds all 4-connected regions of open cells.
// Each component lists its cells in BFS discovery order; components are
// ordered by their first cell in row-major order.
//
// Time:   O(W·H).
// Memory: O(W·H) for visited flags and output.
func (g *Grid) Components() [][]Cell {
	seen := make([]bool, len(g.blocked))
	var comps [][]Cell

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			origin := Cell{X: x, Y: y}
			i0 := g.index(origin)
			if g.blocked[i0] || seen[i0] {
				continue
			}

			queue := []Cell{origin}
			seen[i0] = true
			for qi := 0; qi < len(queue); qi++ {
				for _, n := range g.Neighbors(queue[qi]) {
					ni := g.index(n)
					if !seen[ni] {
						seen[ni] = true
						queue = append(queue, n)
					}
				}
			}
			comps = append(comps, queue)
		}
	}
	return comps
}

// Connected reports whether a and b are both walkable and lie in the same
// 4-connected region.
func (g *Grid) Connected(a, b Cell) bool {
	if !g.Walkable(a) || !g.Walkable(b) {
		return false
	}
	seen := map[Cell]bool{a: true}
	queue := []Cell{a}
	for qi := 0; qi < len(queue); qi++ {
		if queue[qi] == b {
			return true
		}
		for _, n := range g.Neighbors(queue[qi]) {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}

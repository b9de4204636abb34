package pathfind

import "github.com/wricardo/mcp-training/routefinder/route/grid"

// frontierItem is one (priority, cell) entry. A cell may be pushed several
// times; entries whose cost exceeds the best known cost are stale.
type frontierItem struct {
	cell     grid.Cell
	cost     int
	priority int
}

// frontier is a min-heap ordered by priority, then cell x, then cell y.
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority < f[j].priority
	}
	if f[i].cell.X != f[j].cell.X {
		return f[i].cell.X < f[j].cell.X
	}
	return f[i].cell.Y < f[j].cell.Y
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) {
	*f = append(*f, x.(frontierItem))
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

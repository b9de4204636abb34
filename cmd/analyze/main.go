// Command analyze prints quick, human-readable statistics about layout files
// in the project's configs directory. It summarizes dimensions, obstacle
// density, open regions, and whether the preset endpoints can reach each
// other, then runs a search between them.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/mcp-training/routefinder/route/engine"
	"github.com/wricardo/mcp-training/routefinder/route/grid"
	"github.com/wricardo/mcp-training/routefinder/route/pathfind"
)

// LayoutAnalysis holds the statistics computed for one layout.
type LayoutAnalysis struct {
	Name             string
	Width, Height    int
	Blocked          int
	Open             int
	Regions          int
	LargestRegion    int
	Start, End       *grid.Cell
	PresetsConnected bool
	// Open cells outside the start's region
	Unreachable int
	Path        *pathfind.Result
}

// Density returns the blocked share of the board in percent.
func (a *LayoutAnalysis) Density() float64 {
	total := a.Width * a.Height
	if total == 0 {
		return 0
	}
	return float64(a.Blocked) * 100 / float64(total)
}

func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		matches, _ := filepath.Glob(filepath.Join("configs", "*.json"))
		files = matches
	}
	sort.Strings(files)

	if len(files) == 0 {
		fmt.Println("No layout files found")
		os.Exit(1)
	}

	for _, configFile := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(configFile))
		analyzeConfig(configFile)
	}
}

func analyzeConfig(path string) {
	layout, err := engine.LoadLayoutConfig(path)
	if err != nil {
		fmt.Printf("Error loading layout: %v\n", err)
		return
	}

	analysis, err := analyzeLayout(layout)
	if err != nil {
		fmt.Printf("Error building grid: %v\n", err)
		return
	}

	printAnalysis(analysis)
}

func analyzeLayout(layout *engine.LayoutConfig) (*LayoutAnalysis, error) {
	g, err := engine.BuildGrid(layout)
	if err != nil {
		return nil, err
	}

	a := &LayoutAnalysis{
		Name:    layout.Name,
		Width:   g.Width(),
		Height:  g.Height(),
		Blocked: g.CountBlocked(),
		Start:   layout.Start,
		End:     layout.End,
	}
	a.Open = a.Width*a.Height - a.Blocked

	components := g.Components()
	a.Regions = len(components)
	for _, comp := range components {
		if len(comp) > a.LargestRegion {
			a.LargestRegion = len(comp)
		}
	}

	if a.Start == nil {
		return a, nil
	}

	for _, comp := range components {
		if containsCell(comp, *a.Start) {
			a.Unreachable = a.Open - len(comp)
			break
		}
	}

	if a.End != nil {
		a.PresetsConnected = g.Connected(*a.Start, *a.End)
		result, err := pathfind.FindPath(g, *a.Start, *a.End)
		if err != nil {
			return nil, err
		}
		a.Path = &result
	}
	return a, nil
}

func containsCell(cells []grid.Cell, c grid.Cell) bool {
	for _, cell := range cells {
		if cell == c {
			return true
		}
	}
	return false
}

func printAnalysis(a *LayoutAnalysis) {
	fmt.Printf("Name: %s\n", a.Name)
	fmt.Printf("Grid Size: %d x %d\n", a.Width, a.Height)
	fmt.Printf("Blocked: %d (%.1f%%), Open: %d\n", a.Blocked, a.Density(), a.Open)
	fmt.Printf("Open Regions: %d (largest: %d cells)\n", a.Regions, a.LargestRegion)

	if a.Start == nil {
		fmt.Println("No start preset; skipping reachability checks")
		return
	}

	if a.Unreachable > 0 {
		fmt.Printf("⚠️  WARNING: %d open cells are unreachable from start %s\n", a.Unreachable, *a.Start)
	} else {
		fmt.Printf("✅ Every open cell is reachable from start %s\n", *a.Start)
	}

	if a.End == nil {
		return
	}

	if !a.PresetsConnected {
		fmt.Printf("⚠️  CRITICAL: end %s is unreachable from start %s\n", *a.End, *a.Start)
		return
	}

	detour := a.Path.Steps() - grid.Manhattan(*a.Start, *a.End)
	fmt.Printf("✅ Shortest path %s -> %s: %d steps (%d over Manhattan), %d cells expanded\n",
		*a.Start, *a.End, a.Path.Steps(), detour, a.Path.Expanded)
}

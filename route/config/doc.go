// Package config loads board layouts for the route finder.
//
// Layouts are JSON files in a config directory, one per file, named by
// their config ID (classic.json is the "classic" layout). Each file gives
// the board size and its obstacles, either as rows of '.' and '#' or as a
// list of cells, plus optional start and end presets:
//
//	{
//	  "name": "corridor",
//	  "description": "Two rooms joined by one gap",
//	  "width": 7,
//	  "height": 3,
//	  "layout": ["...#...", "...#...", "......."],
//	  "start": {"x": 0, "y": 0},
//	  "end": {"x": 6, "y": 0}
//	}
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	layout, err := manager.LoadConfig("corridor")
//	def := manager.GetDefault()
//	infos, err := manager.ListConfigs()
//
// The default layout is classic.json when present, otherwise the first
// valid file in the directory, otherwise the built-in 10x10 board.
package config

package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/routefinder/route/grid"
)

// ValidateLayoutConfig validates a layout configuration for correctness
func ValidateLayoutConfig(config *LayoutConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate dimensions
	if config.Width < MinGridSize || config.Width > MaxGridSize {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Width)
	}
	if config.Height < MinGridSize || config.Height > MaxGridSize {
		return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Height)
	}

	// Validate layout rows when present
	if len(config.Layout) > 0 {
		if len(config.Layout) != config.Height {
			return fmt.Errorf("config validation: layout must have %d rows to match height, got %d",
				config.Height, len(config.Layout))
		}
		for i, row := range config.Layout {
			if len(row) != config.Width {
				return fmt.Errorf("config validation: row %d must have %d characters to match width, got %d",
					i+1, config.Width, len(row))
			}
			for j, char := range row {
				if char != OpenChar && char != BlockedChar {
					return fmt.Errorf("config validation: invalid character '%c' at row %d, col %d", char, i+1, j+1)
				}
			}
		}
	}

	// Validate obstacles and presets against the built grid
	g, err := BuildGrid(config)
	if err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	for _, preset := range []struct {
		role string
		cell *grid.Cell
	}{{"start", config.Start}, {"end", config.End}} {
		if preset.cell == nil {
			continue
		}
		blocked, err := g.IsBlocked(*preset.cell)
		if err != nil {
			return fmt.Errorf("config validation: %s: %w", preset.role, err)
		}
		if blocked {
			return fmt.Errorf("config validation: %s %s is blocked", preset.role, *preset.cell)
		}
	}

	return nil
}

// BuildGrid materializes the obstacle grid described by a layout
func BuildGrid(config *LayoutConfig) (*grid.Grid, error) {
	var blocked []grid.Cell
	for y, row := range config.Layout {
		for x, char := range row {
			if char == BlockedChar {
				blocked = append(blocked, grid.Cell{X: x, Y: y})
			}
		}
	}
	blocked = append(blocked, config.Obstacles...)

	return grid.New(config.Width, config.Height, blocked)
}

// DefaultLayout returns the built-in 10x10 board with five pillars
func DefaultLayout() *LayoutConfig {
	return &LayoutConfig{
		Name:        "classic",
		Description: "10x10 board with five pillars",
		Width:       10,
		Height:      10,
		Obstacles: []grid.Cell{
			{X: 2, Y: 3},
			{X: 4, Y: 5},
			{X: 6, Y: 7},
			{X: 1, Y: 8},
			{X: 7, Y: 2},
		},
	}
}

// LoadLayoutConfig loads a layout configuration from a JSON file
func LoadLayoutConfig(filename string) (*LayoutConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config LayoutConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(configPath), err)
	}

	if err := ValidateLayoutConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/minesweeper/game/engine"
)

// High mine densities make boards mostly guesswork
const denseBoardThreshold = 0.5

// ValidationResult captures the outcome of validating a single preset file.
// Notes are informational and never make a file invalid.
type ValidationResult struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
	Notes  []string `json:"notes,omitempty"`
}

// Validate checks every preset file in the config directory without touching
// the cache. Results are sorted by file name; a missing directory yields none.
func (m *Manager) Validate() ([]ValidationResult, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var results []ValidationResult
	for _, entry := range entries {
		if entry.IsDir() || !isConfigExt(filepath.Ext(entry.Name())) {
			continue
		}
		results = append(results, validateFile(filepath.Join(m.configDir, entry.Name())))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].File < results[j].File
	})
	return results, nil
}

func validateFile(path string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(path),
		Valid: true,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	config, err := decodeConfig(data, filepath.Ext(path))
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	cells := config.Size * config.Size
	if config.MineCount == cells {
		result.Notes = append(result.Notes, "every cell is a mine; the game is won before the first click")
	} else if density := float64(config.MineCount) / float64(cells); density > denseBoardThreshold {
		result.Notes = append(result.Notes, fmt.Sprintf("mine density %.0f%% is above %.0f%%", density*100, denseBoardThreshold*100))
	}

	if len(config.Layout) > 0 {
		if config.Seed != 0 && !config.AutoOpen {
			result.Notes = append(result.Notes, "seed has no effect on a fixed layout without auto_open")
		}
		// Layout already parsed cleanly in decodeConfig
		grid, _ := engine.ParseLayout(config.Layout)
		result.Notes = append(result.Notes, fmt.Sprintf("fixed layout: %d openings, 3BV %d", engine.Openings(grid), engine.BBBV(grid)))
	}

	return result
}

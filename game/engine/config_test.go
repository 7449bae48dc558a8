package engine

import (
	"errors"
	"strings"
	"testing"
)

func createValidConfig() *GameConfig {
	return &GameConfig{
		Name:           "Test Config",
		Description:    "A valid test configuration",
		Size:           5,
		MineCount:      3,
		FirstClickSafe: true,
	}
}

func TestValidateGameConfig_ValidConfig(t *testing.T) {
	if err := ValidateGameConfig(createValidConfig()); err != nil {
		t.Errorf("Expected valid config to pass validation, got: %v", err)
	}
}

func TestValidateGameConfig_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *GameConfig)
		contains string
	}{
		{"missing name", func(c *GameConfig) { c.Name = "" }, "name is required"},
		{"missing description", func(c *GameConfig) { c.Description = "" }, "description is required"},
		{"zero size", func(c *GameConfig) { c.Size = 0 }, "size must be between"},
		{"oversized", func(c *GameConfig) { c.Size = MaxGridSize + 1 }, "size must be between"},
		{"negative mines", func(c *GameConfig) { c.MineCount = -1 }, "mine_count must be between"},
		{"too many mines", func(c *GameConfig) { c.MineCount = 26 }, "mine_count must be between"},
		{"layout row count", func(c *GameConfig) { c.Layout = []string{"....."} }, "layout must have 5 rows"},
		{"layout mine mismatch", func(c *GameConfig) {
			c.Layout = []string{"*....", ".....", ".....", ".....", "....."}
		}, "layout has 1 mines"},
		{"layout bad char", func(c *GameConfig) {
			c.Layout = []string{"*..?.", ".....", ".....", ".....", "....."}
		}, "invalid layout character"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := createValidConfig()
			test.mutate(config)

			err := ValidateGameConfig(config)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("Expected ErrInvalidConfiguration, got %v", err)
			}
			if !strings.Contains(err.Error(), test.contains) {
				t.Errorf("Expected error containing %q, got: %v", test.contains, err)
			}
		})
	}

	if err := ValidateGameConfig(nil); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration for nil config, got %v", err)
	}
}

func TestValidateGameConfig_FullBoardAllowed(t *testing.T) {
	config := createValidConfig()
	config.MineCount = 25
	if err := ValidateGameConfig(config); err != nil {
		t.Errorf("Expected a fully mined board to be valid, got %v", err)
	}
}

func TestDefaultConfigs(t *testing.T) {
	expected := map[string]struct {
		size  int
		mines int
	}{
		"beginner":     {9, 10},
		"intermediate": {16, 40},
		"expert":       {24, 99},
	}

	configs := DefaultConfigs()
	if len(configs) != len(expected) {
		t.Fatalf("Expected %d presets, got %d", len(expected), len(configs))
	}
	for id, want := range expected {
		config, ok := configs[id]
		if !ok {
			t.Errorf("Missing preset %s", id)
			continue
		}
		if config.Size != want.size || config.MineCount != want.mines {
			t.Errorf("%s: expected %dx%d/%d, got %dx%d/%d", id, want.size, want.size, want.mines,
				config.Size, config.Size, config.MineCount)
		}
		if !config.FirstClickSafe {
			t.Errorf("%s: expected first click safety", id)
		}
		if err := ValidateGameConfig(config); err != nil {
			t.Errorf("%s: preset failed validation: %v", id, err)
		}
	}
}

func TestCustomConfig(t *testing.T) {
	config := CustomConfig(30, 120, 9)
	if err := ValidateGameConfig(config); err != nil {
		t.Fatalf("Expected custom config to validate, got %v", err)
	}
	if config.Name != "custom-30x30-120" {
		t.Errorf("Unexpected name %q", config.Name)
	}
	if config.Seed != 9 {
		t.Errorf("Expected seed 9, got %d", config.Seed)
	}
}

func TestInitGameStateFromConfig(t *testing.T) {
	config := createValidConfig()
	state, err := InitGameStateFromConfig(config, 11)
	if err != nil {
		t.Fatalf("Failed to init state: %v", err)
	}

	if state.Grid.Size() != 5 {
		t.Errorf("Expected 5x5 grid, got %d", state.Grid.Size())
	}
	if CountMines(state.Grid) != 3 {
		t.Errorf("Expected 3 mines, got %d", CountMines(state.Grid))
	}
	if state.Started {
		t.Error("Expected fresh state not to be started")
	}
	if state.Seed != 11 || state.ConfigName != config.Name {
		t.Errorf("Unexpected seed/config name: %d / %s", state.Seed, state.ConfigName)
	}
	if !strings.Contains(state.Message, "first reveal is always safe") {
		t.Errorf("Expected welcome message to mention first click safety, got %q", state.Message)
	}

	again, err := InitGameStateFromConfig(config, 11)
	if err != nil {
		t.Fatalf("Failed to init state: %v", err)
	}
	if !equalGrids(state.Grid, again.Grid) {
		t.Error("Expected the same seed to produce the same board")
	}
}

func TestInitGameStateFromConfig_Layout(t *testing.T) {
	config := createValidConfig()
	config.Layout = []string{
		"*....",
		".....",
		"..*..",
		".....",
		"....*",
	}

	state, err := InitGameStateFromConfig(config, 99)
	if err != nil {
		t.Fatalf("Failed to init state: %v", err)
	}
	for _, c := range []Coord{{Row: 0, Col: 0}, {Row: 2, Col: 2}, {Row: 4, Col: 4}} {
		if state.Grid.At(c).State != Mined {
			t.Errorf("Expected mine at %v", c)
		}
	}
}

func TestInitGameStateFromConfig_AutoOpen(t *testing.T) {
	config := createValidConfig()
	config.AutoOpen = true

	for seed := uint64(1); seed <= 20; seed++ {
		state, err := InitGameStateFromConfig(config, seed)
		if err != nil {
			t.Fatalf("Failed to init state: %v", err)
		}
		if !state.Started {
			t.Error("Expected auto-opened game to be started")
		}
		if state.Outcome() == Loss {
			t.Fatalf("Seed %d: auto open detonated a mine", seed)
		}
		if CountCells(state.Grid, Revealed) == 0 {
			t.Errorf("Seed %d: expected at least one revealed cell", seed)
		}
		if len(state.MoveHistory) != 1 || state.MoveHistory[0].Action != ActionAutoOpen {
			t.Errorf("Seed %d: expected a single auto_open history entry, got %+v", seed, state.MoveHistory)
		}
	}
}

func TestInitGameStateFromConfig_Invalid(t *testing.T) {
	config := createValidConfig()
	config.Size = 0
	if _, err := InitGameStateFromConfig(config, 1); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}
}

func equalGrids(a, b Grid) bool {
	if a.Size() != b.Size() {
		return false
	}
	for r := range a {
		for c := range a[r] {
			if a[r][c] != b[r][c] {
				return false
			}
		}
	}
	return true
}

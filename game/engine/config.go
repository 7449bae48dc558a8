package engine

import (
	"fmt"
	"strings"
)

// GameConfig represents a board preset loaded from JSON or YAML
type GameConfig struct {
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description" yaml:"description"`
	Size           int      `json:"size" yaml:"size"`
	MineCount      int      `json:"mine_count" yaml:"mine_count"`
	FirstClickSafe bool     `json:"first_click_safe" yaml:"first_click_safe"`
	AutoOpen       bool     `json:"auto_open,omitempty" yaml:"auto_open,omitempty"`
	ProtectFlags   bool     `json:"protect_flags,omitempty" yaml:"protect_flags,omitempty"`
	Seed           uint64   `json:"seed,omitempty" yaml:"seed,omitempty"`
	Layout         []string `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfiguration)
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfiguration)
	}
	if config.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidConfiguration)
	}

	// Validate grid size
	if config.Size < MinGridSize || config.Size > MaxGridSize {
		return fmt.Errorf("%w: size must be between %d and %d, got %d",
			ErrInvalidConfiguration, MinGridSize, MaxGridSize, config.Size)
	}

	// Validate mine count
	if config.MineCount < 0 || config.MineCount > config.Size*config.Size {
		return fmt.Errorf("%w: mine_count must be between 0 and %d, got %d",
			ErrInvalidConfiguration, config.Size*config.Size, config.MineCount)
	}

	// Validate fixed layout
	if len(config.Layout) > 0 {
		if len(config.Layout) != config.Size {
			return fmt.Errorf("%w: layout must have %d rows to match size, got %d",
				ErrInvalidConfiguration, config.Size, len(config.Layout))
		}
		grid, err := ParseLayout(config.Layout)
		if err != nil {
			return err
		}
		if mines := CountMines(grid); mines != config.MineCount {
			return fmt.Errorf("%w: layout has %d mines but mine_count is %d",
				ErrInvalidConfiguration, mines, config.MineCount)
		}
	}

	return nil
}

// DefaultConfigs returns the built-in presets, keyed by config ID
func DefaultConfigs() map[string]*GameConfig {
	return map[string]*GameConfig{
		"beginner": {
			Name:           "Beginner",
			Description:    "9x9 board with 10 mines",
			Size:           9,
			MineCount:      10,
			FirstClickSafe: true,
		},
		"intermediate": {
			Name:           "Intermediate",
			Description:    "16x16 board with 40 mines",
			Size:           16,
			MineCount:      40,
			FirstClickSafe: true,
		},
		"expert": {
			Name:           "Expert",
			Description:    "24x24 board with 99 mines",
			Size:           24,
			MineCount:      99,
			FirstClickSafe: true,
		},
	}
}

// CustomConfig builds an ad-hoc config for an arbitrary board
func CustomConfig(size, mineCount int, seed uint64) *GameConfig {
	return &GameConfig{
		Name:           fmt.Sprintf("custom-%dx%d-%d", size, size, mineCount),
		Description:    fmt.Sprintf("Custom %dx%d board with %d mines", size, size, mineCount),
		Size:           size,
		MineCount:      mineCount,
		FirstClickSafe: true,
		Seed:           seed,
	}
}

// InitGameStateFromConfig creates a new game state for the configuration using seed
func InitGameStateFromConfig(config *GameConfig, seed uint64) (*GameState, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	r := newRand(seed)

	var grid Grid
	var err error
	if len(config.Layout) > 0 {
		grid, err = ParseLayout(config.Layout)
	} else {
		grid, err = generate(config.Size, config.MineCount, r)
	}
	if err != nil {
		return nil, err
	}

	state := &GameState{
		Grid:              grid,
		Flags:             NewFlagSet(),
		Seed:              seed,
		Message:           welcomeMessage(config),
		ConfigName:        config.Name,
		MoveHistory:       []MoveHistoryEntry{},
		CurrentMoves:      []MoveHistoryEntry{},
		CurrentMovesCount: 0,
	}

	// Open a random cell on the player's behalf; it can never detonate
	if config.AutoOpen {
		at := Coord{Row: r.IntN(config.Size), Col: r.IntN(config.Size)}
		result, err := Reveal(state.Grid, state.Flags, at.Row, at.Col, true)
		if err != nil {
			return nil, err
		}
		state.Started = true
		state.AddMoveToHistory(ActionAutoOpen, at, len(result.Revealed), result.Outcome)
	}

	return state, nil
}

func welcomeMessage(config *GameConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %dx%d board, %d mines.", config.Name, config.Size, config.Size, config.MineCount)
	if config.FirstClickSafe {
		b.WriteString(" Your first reveal is always safe.")
	}
	return b.String()
}

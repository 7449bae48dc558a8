package engine

import (
	"errors"
	"fmt"
)

var (
	ErrGameOver       = errors.New("game is over")
	ErrTooManyReveals = errors.New("too many reveals in one request")
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	Outcome() Outcome
	IsGameOver() bool
	IsVictory() bool
	RemainingMines() int

	// Player actions
	Reveal(row, col int) (RevealResult, error)
	ToggleFlag(row, col int) (bool, error)
	BulkReveal(coords []Coord) ([]RevealResult, error)

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Rendering
	BoardView(revealAll bool) []string
	View() *GameView
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *GameConfig
}

// NewEngine creates a new game engine with the provided configuration.
// A zero config seed draws a fresh random board.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	state, err := InitGameStateFromConfig(config, boardSeed(config))
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		config: config,
		state:  state,
	}, nil
}

func boardSeed(config *GameConfig) uint64 {
	if config != nil && config.Seed != 0 {
		return config.Seed
	}
	return NewSeed()
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Grid.Size() != e.config.Size {
		return fmt.Errorf("%w: state grid is %dx%d, config expects %dx%d",
			ErrInvalidConfiguration, state.Grid.Size(), state.Grid.Size(), e.config.Size, e.config.Size)
	}
	if state.Flags == nil {
		state.Flags = NewFlagSet()
	}
	e.state = state
	return nil
}

// Reset starts a new game with the same configuration. The board is only
// repeated when the config pins a seed or a layout.
func (e *GameEngine) Reset() *GameState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	state, err := InitGameStateFromConfig(e.config, boardSeed(e.config))
	if err != nil {
		e.state.Message = fmt.Sprintf("Reset failed: %v", err)
		return e.state
	}
	e.state = state

	// Restore cumulative history and totals; an auto-open move starts the new segment
	base := len(prevHistory)
	for i := range e.state.CurrentMoves {
		e.state.CurrentMoves[i].MoveNumber = prevTotal + i + 1
	}
	e.state.MoveHistory = append(prevHistory[:base:base], e.state.CurrentMoves...)
	e.state.TotalMoves = prevTotal + e.state.CurrentMovesCount

	return e.state
}

// Outcome returns the current result, derived from the grid on every call
func (e *GameEngine) Outcome() Outcome {
	return e.state.Outcome()
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.Outcome() != InProgress
}

// IsVictory returns whether the player has won
func (e *GameEngine) IsVictory() bool {
	return e.Outcome() == Win
}

// RemainingMines returns the mine count minus placed flags. It may go negative.
func (e *GameEngine) RemainingMines() int {
	return CountMines(e.state.Grid) - e.state.Flags.Len()
}

// Reveal opens a cell. The first reveal of a first-click-safe game never detonates.
func (e *GameEngine) Reveal(row, col int) (RevealResult, error) {
	if e.IsGameOver() {
		return RevealResult{}, ErrGameOver
	}

	forced := e.config.FirstClickSafe && !e.state.Started
	result, err := Reveal(e.state.Grid, e.state.Flags, row, col, forced)
	if err != nil {
		return RevealResult{}, err
	}

	e.state.Started = true
	e.state.AddMoveToHistory(ActionReveal, Coord{Row: row, Col: col}, len(result.Revealed), result.Outcome)
	e.state.Message = revealMessage(result)

	return result, nil
}

// ToggleFlag flips the flag on a cell and reports whether it is now flagged
func (e *GameEngine) ToggleFlag(row, col int) (bool, error) {
	if e.IsGameOver() {
		return false, ErrGameOver
	}

	flagged, err := ToggleFlag(e.state.Grid, e.state.Flags, row, col)
	if err != nil {
		return false, err
	}

	action := ActionUnflag
	e.state.Message = fmt.Sprintf("Removed flag at (%d,%d).", row, col)
	if flagged {
		action = ActionFlag
		e.state.Message = fmt.Sprintf("Flagged (%d,%d). %d mines left unflagged.", row, col, e.RemainingMines())
	}
	e.state.AddMoveToHistory(action, Coord{Row: row, Col: col}, 0, e.Outcome())

	return flagged, nil
}

// BulkReveal executes multiple reveals in sequence and stops once the game ends.
// An invalid coordinate aborts the batch; reveals made before it are kept.
func (e *GameEngine) BulkReveal(coords []Coord) ([]RevealResult, error) {
	if len(coords) > MaxBulkReveals {
		return nil, fmt.Errorf("%w: %d requested, maximum is %d", ErrTooManyReveals, len(coords), MaxBulkReveals)
	}

	results := make([]RevealResult, 0, len(coords))
	for _, c := range coords {
		// Stop if game is over
		if e.IsGameOver() {
			break
		}

		result, err := e.Reveal(c.Row, c.Col)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// BoardView renders the board, exposing mines only when revealAll is set
func (e *GameEngine) BoardView(revealAll bool) []string {
	return e.state.BoardView(revealAll)
}

// View returns the player-facing snapshot of the game
func (e *GameEngine) View() *GameView {
	return e.state.View()
}

func revealMessage(result RevealResult) string {
	switch {
	case result.Detonated:
		return "BOOM! You revealed a mine. Game over."
	case result.Outcome == Win:
		return "Board cleared. You win!"
	case len(result.Revealed) == 0:
		return "That cell is already revealed."
	case len(result.Revealed) == 1:
		return "Revealed 1 cell."
	default:
		return fmt.Sprintf("Revealed %d cells.", len(result.Revealed))
	}
}

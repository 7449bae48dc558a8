// Package engine provides the core board logic for the minesweeper game.
//
// The engine package implements the game mechanics including:
//   - Seeded mine placement with an exact mine count
//   - Adjacent mine counting
//   - Reveal with iterative cascade through zero-count regions
//   - Flag toggling and outcome derivation
//   - Configuration validation and board analysis (openings, 3BV)
//
// Core Types:
//
// Grid is a square [][]Cell indexed as grid[row][col]. Each Cell is Hidden,
// Mined, Revealed (with its neighbour count) or RevealedMine. FlagSet holds the
// player's flags and is kept apart from the grid: a flag only stops the cascade
// from opening a cell. The package-level functions Generate, CountAdjacentMines,
// Reveal, ToggleFlag and ComputeOutcome operate on an explicit Grid and FlagSet
// and hold no other state.
//
// The Engine interface wraps one game for collaborators, implemented by
// GameEngine. It adds first-click safety, move history and the player view.
// GameEngine is not safe for concurrent use; callers serialise access.
//
// Usage:
//
//	grid, err := engine.Generate(9, 10, seed)
//	if err != nil {
//		log.Fatal(err)
//	}
//	flags := engine.NewFlagSet()
//	result, err := engine.Reveal(grid, flags, 4, 4, false)
//
//	// Or through the stateful wrapper
//	gameEngine, err := engine.NewEngine(engine.DefaultConfigs()["beginner"])
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err = gameEngine.Reveal(4, 4)
//
// Game Rules:
//
// The game is lost as soon as a mine is revealed and won once every cell that
// is not a mine has been revealed. Flags play no part in either outcome.
package engine

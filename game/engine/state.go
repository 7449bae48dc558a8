package engine

import (
	"strconv"
	"strings"
	"time"
)

// AddMoveToHistory adds a move to the game's move history
func (gs *GameState) AddMoveToHistory(action string, at Coord, cellsRevealed int, outcome Outcome) {
	entry := MoveHistoryEntry{
		Action:        action,
		Coord:         at,
		CellsRevealed: cellsRevealed,
		Outcome:       outcome,
		Timestamp:     time.Now().Unix(),
		MoveNumber:    gs.TotalMoves + 1,
	}
	// Append to cumulative history (never cleared by reset) and increment total
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++

	// Append to current segment history and increment its counter
	gs.CurrentMoves = append(gs.CurrentMoves, entry)
	gs.CurrentMovesCount++
}

// Outcome derives the current result from the grid
func (gs *GameState) Outcome() Outcome {
	return ComputeOutcome(gs.Grid)
}

// BoardView renders the grid one string per row. Unrevealed mines are shown as
// 'x' only when revealAll is set; otherwise they look like any hidden cell.
func (gs *GameState) BoardView(revealAll bool) []string {
	rows := make([]string, len(gs.Grid))
	var b strings.Builder
	for r, row := range gs.Grid {
		b.Reset()
		for c, cell := range row {
			b.WriteByte(cellSymbol(cell, gs.Flags.Has(Coord{Row: r, Col: c}), revealAll))
		}
		rows[r] = b.String()
	}
	return rows
}

func cellSymbol(cell Cell, flagged, revealAll bool) byte {
	switch cell.State {
	case Revealed:
		if cell.Count == 0 {
			return '.'
		}
		return strconv.Itoa(cell.Count)[0]
	case RevealedMine:
		return '*'
	}

	switch {
	case flagged:
		return 'F'
	case revealAll && cell.State == Mined:
		return 'x'
	default:
		return '#'
	}
}

// View builds the player-facing snapshot. Mine positions are exposed once the game ends.
func (gs *GameState) View() *GameView {
	outcome := gs.Outcome()
	gameOver := outcome != InProgress
	mines := CountMines(gs.Grid)

	return &GameView{
		ConfigName:        gs.ConfigName,
		Size:              gs.Grid.Size(),
		MineCount:         mines,
		FlagCount:         gs.Flags.Len(),
		RemainingMines:    mines - gs.Flags.Len(),
		HiddenCount:       CountCells(gs.Grid, Hidden) + CountCells(gs.Grid, Mined),
		Outcome:           outcome,
		GameOver:          gameOver,
		Victory:           outcome == Win,
		Message:           gs.Message,
		Board:             gs.BoardView(gameOver),
		Flags:             gs.Flags.Coords(),
		TotalMoves:        gs.TotalMoves,
		CurrentMovesCount: gs.CurrentMovesCount,
	}
}

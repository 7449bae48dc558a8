package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/zyedidia/generic/mapset"
)

var (
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// seedStream selects the PCG stream used for every seeded board
const seedStream = 0x6d696e6573

// neighborOffsets lists the 8 directions around a cell
var neighborOffsets = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

// Grid is a square board indexed as grid[row][col]
type Grid [][]Cell

// Size returns the side length of the grid
func (g Grid) Size() int {
	return len(g)
}

// InBounds reports whether (row, col) lies on the grid
func (g Grid) InBounds(row, col int) bool {
	return row >= 0 && row < len(g) && col >= 0 && col < len(g)
}

// At returns the cell at c. c must be in bounds.
func (g Grid) At(c Coord) Cell {
	return g[c.Row][c.Col]
}

// Clone returns a deep copy of the grid
func (g Grid) Clone() Grid {
	clone := make(Grid, len(g))
	for i, row := range g {
		clone[i] = append([]Cell(nil), row...)
	}
	return clone
}

// around calls fn for every in-bounds neighbour of (row, col)
func (g Grid) around(row, col int, fn func(r, c int)) {
	for _, offset := range neighborOffsets {
		r, c := row+offset[0], col+offset[1]
		if g.InBounds(r, c) {
			fn(r, c)
		}
	}
}

// NewSeed returns a random seed for Generate
func NewSeed() uint64 {
	return rand.Uint64()
}

// newRand creates the deterministic generator for a seed
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seedStream))
}

// Generate creates a size x size grid with exactly mineCount mines placed
// uniformly at random. The same seed always yields the same grid.
func Generate(size, mineCount int, seed uint64) (Grid, error) {
	return generate(size, mineCount, newRand(seed))
}

func generate(size, mineCount int, r *rand.Rand) (Grid, error) {
	if size < MinGridSize {
		return nil, fmt.Errorf("%w: size must be at least %d, got %d", ErrInvalidConfiguration, MinGridSize, size)
	}
	if mineCount < 0 || mineCount > size*size {
		return nil, fmt.Errorf("%w: mine count must be between 0 and %d, got %d", ErrInvalidConfiguration, size*size, mineCount)
	}

	grid := newHiddenGrid(size)

	// Partial Fisher-Yates: the first mineCount slots end up holding a uniform sample.
	candidates := make([]int, size*size)
	for i := range candidates {
		candidates[i] = i
	}
	for i := 0; i < mineCount; i++ {
		j := i + r.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
		idx := candidates[i]
		grid[idx/size][idx%size].State = Mined
	}

	return grid, nil
}

// ParseLayout builds a grid from rows of '*' (mine) and '.' (safe)
func ParseLayout(layout []string) (Grid, error) {
	size := len(layout)
	if size < MinGridSize {
		return nil, fmt.Errorf("%w: layout must have at least %d row", ErrInvalidConfiguration, MinGridSize)
	}

	grid := newHiddenGrid(size)
	for row, line := range layout {
		if len(line) != size {
			return nil, fmt.Errorf("%w: layout row %d must have %d characters, got %d",
				ErrInvalidConfiguration, row, size, len(line))
		}
		for col, char := range line {
			switch char {
			case '*':
				grid[row][col].State = Mined
			case '.':
			default:
				return nil, fmt.Errorf("%w: invalid layout character '%c' at row %d, col %d",
					ErrInvalidConfiguration, char, row, col)
			}
		}
	}

	return grid, nil
}

func newHiddenGrid(size int) Grid {
	grid := make(Grid, size)
	for i := range grid {
		grid[i] = make([]Cell, size)
		for j := range grid[i] {
			grid[i][j] = Cell{State: Hidden}
		}
	}
	return grid
}

// CountAdjacentMines counts the mines among the up-to-8 neighbours of (row, col)
func CountAdjacentMines(grid Grid, row, col int) (int, error) {
	if !grid.InBounds(row, col) {
		return 0, coordinateError(grid, row, col)
	}
	return grid.countAdjacent(row, col), nil
}

func (g Grid) countAdjacent(row, col int) int {
	count := 0
	g.around(row, col, func(r, c int) {
		if g[r][c].IsMine() {
			count++
		}
	})
	return count
}

// Reveal opens (row, col). A live mine detonates unless forceSucceed is set, in
// which case it is opened as a safe cell. Zero cells cascade into hidden,
// unflagged neighbours. Flags never stop the targeted cell itself.
func Reveal(grid Grid, flags *FlagSet, row, col int, forceSucceed bool) (RevealResult, error) {
	if !grid.InBounds(row, col) {
		return RevealResult{}, coordinateError(grid, row, col)
	}

	var result RevealResult
	target := grid[row][col]

	switch {
	case target.IsRevealed():
		// already open
	case target.State == Mined && !forceSucceed:
		grid[row][col].State = RevealedMine
		result.Revealed = []Coord{{Row: row, Col: col}}
		result.Detonated = true
	default:
		result.Revealed = grid.cascade(flags, Coord{Row: row, Col: col})
	}

	result.Outcome = ComputeOutcome(grid)
	return result, nil
}

// cascade reveals start and floods through zero cells using an explicit stack.
// Every cell is pushed at most once.
func (g Grid) cascade(flags *FlagSet, start Coord) []Coord {
	visited := mapset.New[Coord]()
	visited.Put(start)
	stack := []Coord{start}
	var opened []Coord

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		count := g.countAdjacent(c.Row, c.Col)
		g[c.Row][c.Col] = Cell{State: Revealed, Count: count}
		opened = append(opened, c)

		if count > 0 {
			continue
		}
		g.around(c.Row, c.Col, func(r, col int) {
			next := Coord{Row: r, Col: col}
			if visited.Has(next) || g[r][col].State != Hidden || flags.Has(next) {
				return
			}
			visited.Put(next)
			stack = append(stack, next)
		})
	}

	return opened
}

// ToggleFlag flips the flag on (row, col) and reports whether it is now flagged
func ToggleFlag(grid Grid, flags *FlagSet, row, col int) (bool, error) {
	if flags == nil {
		return false, fmt.Errorf("%w: flag set is nil", ErrInvalidConfiguration)
	}
	if !grid.InBounds(row, col) {
		return false, coordinateError(grid, row, col)
	}
	return flags.Toggle(Coord{Row: row, Col: col}), nil
}

// ComputeOutcome derives the game result from the grid alone
func ComputeOutcome(grid Grid) Outcome {
	hidden := false
	for _, row := range grid {
		for _, cell := range row {
			switch cell.State {
			case RevealedMine:
				return Loss
			case Hidden:
				hidden = true
			}
		}
	}
	if hidden {
		return InProgress
	}
	return Win
}

func coordinateError(grid Grid, row, col int) error {
	return fmt.Errorf("%w: (%d,%d) is outside the %dx%d board", ErrInvalidCoordinate, row, col, len(grid), len(grid))
}

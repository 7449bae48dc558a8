package engine

// CountCells counts the cells of a specific state in the grid
func CountCells(grid Grid, state CellState) int {
	count := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell.State == state {
				count++
			}
		}
	}
	return count
}

// CountMines counts every mine on the grid, detonated or not
func CountMines(grid Grid) int {
	return CountCells(grid, Mined) + CountCells(grid, RevealedMine)
}

// MineDensity returns the fraction of cells holding a mine
func MineDensity(grid Grid) float64 {
	total := grid.Size() * grid.Size()
	if total == 0 {
		return 0
	}
	return float64(CountMines(grid)) / float64(total)
}

// Openings counts the connected regions of zero-count safe cells. Each one is
// cleared by a single click.
func Openings(grid Grid) int {
	openings, _, _ := grid.markOpenings()
	return openings
}

// BBBV returns the board's 3BV: the minimum number of left clicks needed to
// clear it without flags. Every opening costs one click, plus one for every
// numbered cell not on the border of an opening.
func BBBV(grid Grid) int {
	clicks, counts, seen := grid.markOpenings()
	for r := range grid {
		for c := range grid[r] {
			if !seen[r][c] && counts[r][c] > 0 {
				clicks++
			}
		}
	}
	return clicks
}

// markOpenings floods every opening and returns how many there were, along with
// the adjacency table and the cells they cover
func (g Grid) markOpenings() (int, [][]int, [][]bool) {
	counts := adjacencyTable(g)
	seen := newSeenTable(g.Size())
	openings := 0

	for r := range g {
		for c := range g[r] {
			if seen[r][c] || counts[r][c] != 0 {
				continue
			}
			openings++
			g.flood(counts, seen, r, c)
		}
	}
	return openings, counts, seen
}

// adjacencyTable holds the neighbour count of every safe cell and -1 for mines
func adjacencyTable(grid Grid) [][]int {
	counts := make([][]int, grid.Size())
	for r := range grid {
		counts[r] = make([]int, grid.Size())
		for c := range grid[r] {
			if grid[r][c].IsMine() {
				counts[r][c] = -1
				continue
			}
			counts[r][c] = grid.countAdjacent(r, c)
		}
	}
	return counts
}

func newSeenTable(size int) [][]bool {
	seen := make([][]bool, size)
	for i := range seen {
		seen[i] = make([]bool, size)
	}
	return seen
}

// flood marks the opening containing (row, col) and its numbered border as seen
func (g Grid) flood(counts [][]int, seen [][]bool, row, col int) {
	seen[row][col] = true
	stack := []Coord{{Row: row, Col: col}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if counts[cur.Row][cur.Col] != 0 {
			continue
		}
		g.around(cur.Row, cur.Col, func(r, c int) {
			if seen[r][c] || counts[r][c] < 0 {
				return
			}
			seen[r][c] = true
			stack = append(stack, Coord{Row: r, Col: c})
		})
	}
}

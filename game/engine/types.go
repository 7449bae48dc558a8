package engine

// CellState represents the reveal state of a grid cell
type CellState string

const (
	Mined        CellState = "mined"
	Hidden       CellState = "hidden"
	Revealed     CellState = "revealed"
	RevealedMine CellState = "revealed_mine"

	// Validation constants
	MinGridSize         = 1
	MaxGridSize         = 500
	MaxBulkReveals      = 50
	WebSocketBufferSize = 256
)

// Outcome is the derived result of a game
type Outcome string

const (
	InProgress Outcome = "in_progress"
	Win        Outcome = "win"
	Loss       Outcome = "loss"
)

// History actions
const (
	ActionReveal   = "reveal"
	ActionFlag     = "flag"
	ActionUnflag   = "unflag"
	ActionAutoOpen = "auto_open"
)

// Cell represents a single grid cell. Count is only meaningful once the cell is Revealed.
type Cell struct {
	State CellState `json:"state"`
	Count int       `json:"count,omitempty"`
}

// IsMine reports whether the cell holds a mine, revealed or not
func (c Cell) IsMine() bool {
	return c.State == Mined || c.State == RevealedMine
}

// IsRevealed reports whether the cell has reached a terminal state
func (c Cell) IsRevealed() bool {
	return c.State == Revealed || c.State == RevealedMine
}

// Coord is a (row, col) position on the board
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// RevealResult describes the effect of a single reveal call
type RevealResult struct {
	Outcome   Outcome `json:"outcome"`
	Revealed  []Coord `json:"revealed"`
	Detonated bool    `json:"detonated,omitempty"`
}

// GameState represents the complete state of one game
type GameState struct {
	Grid       Grid     `json:"grid"`
	Flags      *FlagSet `json:"flags"`
	Seed       uint64   `json:"seed"`
	Started    bool     `json:"started"`
	Message    string   `json:"message"`
	ConfigName string   `json:"config_name"`

	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// MoveHistoryEntry represents a single player action in the game history
type MoveHistoryEntry struct {
	Action        string  `json:"action"`
	Coord         Coord   `json:"coord"`
	CellsRevealed int     `json:"cells_revealed"`
	Outcome       Outcome `json:"outcome"`
	Timestamp     int64   `json:"timestamp"`
	MoveNumber    int     `json:"move_number"`
}

// GameView is the player-facing rendering of a game. Unrevealed mines are only
// exposed once the game is over.
type GameView struct {
	ConfigName        string   `json:"config_name"`
	Size              int      `json:"size"`
	MineCount         int      `json:"mine_count"`
	FlagCount         int      `json:"flag_count"`
	RemainingMines    int      `json:"remaining_mines"`
	HiddenCount       int      `json:"hidden_count"`
	Outcome           Outcome  `json:"outcome"`
	GameOver          bool     `json:"game_over"`
	Victory           bool     `json:"victory"`
	Message           string   `json:"message"`
	Board             []string `json:"board"`
	Flags             []Coord  `json:"flags"`
	TotalMoves        int      `json:"total_moves"`
	CurrentMovesCount int      `json:"current_moves_count"`
}

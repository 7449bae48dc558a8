package service

import (
	"time"

	"github.com/wricardo/minesweeper/game/engine"
)

// Event types emitted by game operations
const (
	EventReveal  = "reveal"
	EventCascade = "cascade"
	EventFlag    = "flag"
	EventUnflag  = "unflag"
	EventWin     = "win"
	EventLoss    = "loss"
	EventReset   = "reset"
)

// Stop reason codes for bulk reveals
const (
	StopGameOver          = "game_over"
	StopVictory           = "victory"
	StopDetonated         = "detonated"
	StopInvalidCoordinate = "invalid_coordinate"
	StopFlagProtected     = "flag_protected"
)

// SessionOptions selects the board for a new session. A positive Size builds a
// custom board and ignores ConfigName; a non-zero Seed pins the layout.
type SessionOptions struct {
	ConfigName string `json:"config_name,omitempty"`
	Size       int    `json:"size,omitempty"`
	MineCount  int    `json:"mine_count,omitempty"`
	Seed       uint64 `json:"seed,omitempty"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string           `json:"id"`
	ConfigName     string           `json:"config_name"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	View           *engine.GameView `json:"game_state"`
	Config         *ConfigInfo      `json:"config"`
}

// MoveResult contains the result of a reveal or flag operation
type MoveResult struct {
	Success  bool             `json:"success"`
	View     *engine.GameView `json:"game_state"`
	Message  string           `json:"message"`
	Revealed []engine.Coord   `json:"revealed,omitempty"`
	Flagged  bool             `json:"flagged,omitempty"`
	Events   []GameEvent      `json:"events,omitempty"`
}

// BulkRevealResult contains the result of multiple reveals
type BulkRevealResult struct {
	// Summary
	RequestedReveals int              `json:"requested_reveals"`
	RevealsExecuted  int              `json:"reveals_executed"`
	CellsRevealed    int              `json:"cells_revealed"`
	Success          bool             `json:"success"`
	View             *engine.GameView `json:"game_state"`
	Events           []GameEvent      `json:"events"`
	StoppedReason    string           `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode   string           `json:"stop_reason_code,omitempty"` // Machine-friendly code: game_over|victory|detonated|invalid_coordinate|flag_protected
	StoppedOnReveal  int              `json:"stopped_on_reveal,omitempty"` // 1-based index of the reveal that caused stop
	Truncated        bool             `json:"truncated,omitempty"`
	Limit            int              `json:"limit,omitempty"`

	// Per-reveal compact trace (only for this call)
	Steps []RevealStep `json:"steps,omitempty"`

	// Final status aids
	GameOver bool   `json:"game_over"`
	Message  string `json:"message,omitempty"`
}

// RevealStep is a compact record for each executed reveal in the bulk call
type RevealStep struct {
	Idx           int            `json:"idx"`
	Coord         engine.Coord   `json:"coord"`
	CellsRevealed int            `json:"cells_revealed"`
	Outcome       engine.Outcome `json:"outcome"`
	Detonated     bool           `json:"detonated,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string        `json:"type"` // "reveal", "cascade", "flag", "unflag", "win", "loss", "reset"
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Coord     *engine.Coord `json:"coord,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration. It never carries
// the layout or seed, so it is safe to show players.
type ConfigInfo struct {
	Filename       string `json:"filename,omitempty"`
	ConfigID       string `json:"config_id"` // The identifier to use for session creation
	Name           string `json:"name"`      // Display name
	Description    string `json:"description"`
	Size           int    `json:"size"`
	MineCount      int    `json:"mine_count"`
	FirstClickSafe bool   `json:"first_click_safe"`
	FixedLayout    bool   `json:"fixed_layout,omitempty"`
	Source         string `json:"source,omitempty"` // "file" or "builtin"
}

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/minesweeper/game/engine"
	"github.com/wricardo/minesweeper/game/service"
	"github.com/wricardo/minesweeper/logging"
)

var log = logging.WithComponent("mcp")

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Minesweeper",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Minesweeper - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Reveal every cell that does not hide a mine. Revealing a mine ends the game.

AVAILABLE TOOLS:
- create_session: Create a new game (preset or custom size)
- list_sessions / get_session: Inspect sessions
- game_state: Current board for a session
- reveal: Reveal one cell - requires intent explanation
- toggle_flag: Flag or unflag a suspected mine
- bulk_reveal: Reveal several cells in order (max 50)
- reset_game: Start a fresh board with the same preset
- move_history: View past moves
- list_configs: List available presets
- game_instructions: Rules and board legend
- describe_cell: Explain what a single board character means

Coordinates are zero-based (row, col) with (0,0) in the top-left corner.

NOTE: The 'intent' parameter on reveal/bulk_reveal serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func coordProperties() (map[string]interface{}, map[string]interface{}) {
	row := map[string]interface{}{
		"type":        "integer",
		"description": "Row index (0-based, top to bottom)",
	}
	col := map[string]interface{}{
		"type":        "integer",
		"description": "Column index (0-based, left to right)",
	}
	return row, col
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	row, col := coordProperties()

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session from a preset, or a custom board when size is given",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use (optional, see list_configs)",
				},
				"size": map[string]interface{}{
					"type":        "integer",
					"description": "Board side length for a custom game (optional)",
				},
				"mine_count": map[string]interface{}{
					"type":        "integer",
					"description": "Mines on a custom board (optional)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Seed to reproduce a board layout (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board and counters",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reveal",
		Description: "Reveal a single cell. Empty cells open their neighbours automatically.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"row":        row,
				"col":        col,
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why this cell is safe (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleReveal)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "toggle_flag",
		Description: "Place or remove a flag on a hidden cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"row":        row,
				"col":        col,
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleToggleFlag)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_reveal",
		Description: fmt.Sprintf("Reveal several cells in order. Stops at the first mine, invalid coordinate or end of game. At most %d cells per call.", engine.MaxBulkReveals),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"coords": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"row": row,
							"col": col,
						},
						"required": []string{"row", "col"},
					},
					"description": "Cells to reveal, in order",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this batch (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "coords"},
		},
	}, c.handleBulkReveal)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start a new board with the session's preset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get game rules and the board legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Explain the character shown at a board position. Only reports what the player can already see.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"row":        row,
				"col":        col,
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// HTTPHandler answers single JSON-RPC messages posted to /mcp.
func (c *Client) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)
		if response == nil {
			// Notifications carry no reply
			w.WriteHeader(http.StatusAccepted)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.WithError(err).Error("Failed to encode MCP response")
		}
	}
}

// Helper methods for API calls
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil {
			if msg, ok := errResp["error"]; ok {
				return fmt.Errorf("%s", msg)
			}
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

func coordArgs(args map[string]interface{}) (engine.Coord, error) {
	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	if !okRow || !okCol {
		return engine.Coord{}, fmt.Errorf("row and col are required")
	}
	return engine.Coord{Row: row, Col: col}, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	body := map[string]interface{}{}
	if configID, _ := args["config_id"].(string); configID != "" {
		body["config_id"] = configID
	}
	if size, ok := intArg(args, "size"); ok {
		body["size"] = size
	}
	if mines, ok := intArg(args, "mine_count"); ok {
		body["mine_count"] = mines
	}
	if seed, ok := intArg(args, "seed"); ok && seed > 0 {
		body["seed"] = seed
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatGameView(session.View))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, http.MethodGet, "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		outcome := engine.InProgress
		if s.View != nil {
			outcome = s.View.Outcome
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Outcome: %s, Created: %s)\n",
			s.ID, s.ConfigName, outcome, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var view engine.GameView
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, "/state"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameView(&view)), nil
}

// logIntent records the caller's stated reasoning at debug level
func logIntent(tool, sessionID string, args map[string]interface{}) {
	intent, _ := args["intent"].(string)
	if intent == "" {
		return
	}
	log.WithFields(logrus.Fields{
		"tool":    tool,
		"session": sessionID,
		"intent":  intent,
	}).Debug("Move intent")
}

func (c *Client) handleReveal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)

	at, err := coordArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logIntent("reveal", sessionID, args)

	var result service.MoveResult
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/reveal"), at, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleToggleFlag(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)

	at, err := coordArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/flag"), at, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkReveal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	coordsRaw, _ := args["coords"].([]interface{})

	logIntent("bulk_reveal", sessionID, args)

	coords := make([]engine.Coord, 0, len(coordsRaw))
	for i, raw := range coordsRaw {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("coords[%d] must be an object with row and col", i)), nil
		}
		at, err := coordArgs(entry)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("coords[%d]: %v", i, err)), nil
		}
		coords = append(coords, at)
	}

	body := map[string]interface{}{
		"coords": coords,
	}

	var result service.BulkRevealResult
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/bulk-reveal"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkRevealResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var response struct {
		Message string           `json:"message"`
		State   *engine.GameView `json:"state"`
	}
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameView(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order, _ := args["order"].(string); order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, http.MethodGet, "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Board: %dx%d, Mines: %d\n\n",
			config.ConfigID, config.Name, config.Description, config.Size, config.Size, config.MineCount)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`💣 Minesweeper - Instructions

GAME OBJECTIVE:
Reveal every safe cell on the square board. The game is lost as soon as a mine is revealed.

BOARD LEGEND:
• # - Hidden cell
• F - Flagged cell (your marker for a suspected mine)
• . - Revealed cell with no neighbouring mines
• 1-8 - Revealed cell and the number of mines among its 8 neighbours
• * - The mine that was revealed (game lost)
• x - A mine shown after the game ended

RULES:
• Coordinates are (row, col), zero-based, (0,0) is the top-left corner
• Revealing a '.' cell opens its whole empty region and the numbered border around it
• Flags never reveal anything; they only mark cells. Flagged cells cannot be revealed until unflagged
• Remaining mines = mine count minus flags placed (it can go negative)
• The first reveal on a preset with first-click safety never hits a mine

BULK REVEAL:
• bulk_reveal takes up to %d cells and applies them in order
• It stops at the first mine, the first invalid coordinate, a flagged cell, or victory

STRATEGY:
• A number equal to its count of hidden neighbours means all of them are mines
• A number whose mines are all flagged means its other hidden neighbours are safe
• Use describe_cell when unsure what a character means

Good luck! 🚩`, engine.MaxBulkReveals)

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)

	at, err := coordArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var view engine.GameView
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, "/state"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	size := len(view.Board)
	if at.Row < 0 || at.Row >= size || at.Col < 0 || at.Col >= len(view.Board[at.Row]) {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Board is %dx%d (0-%d for row and col)",
			at.Row, at.Col, size, size, size-1)), nil
	}

	// Only the player view is consulted, so hidden mines stay hidden.
	char := view.Board[at.Row][at.Col]
	result := fmt.Sprintf(`Cell at (%d, %d):
━━━━━━━━━━━━━━━━━━━━━━━━
Character: %c
Meaning: %s
Revealable: %v`,
		at.Row, at.Col, char, describeSymbol(char), char == '#')

	return mcp.NewToolResultText(result), nil
}

func describeSymbol(char byte) string {
	switch {
	case char == '#':
		return "Hidden cell - not yet revealed"
	case char == 'F':
		return "Flagged cell - toggle the flag off before revealing"
	case char == '.':
		return "Revealed, no neighbouring mines"
	case char >= '1' && char <= '8':
		return fmt.Sprintf("Revealed, %c neighbouring mine(s)", char)
	case char == '*':
		return "The mine that ended the game"
	case char == 'x':
		return "Mine revealed after the game ended"
	default:
		return "Unknown symbol"
	}
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameView(session.View))
}

func formatGameView(view *engine.GameView) string {
	if view == nil {
		return "No game state available"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Board: %dx%d | Mines: %d | Flags: %d | Remaining: %d | Hidden: %d | Moves: %d\n\n",
		view.Size, view.Size, view.MineCount, view.FlagCount, view.RemainingMines, view.HiddenCount, view.TotalMoves)

	// Column header keeps coordinates readable on larger boards
	b.WriteString("    ")
	for col := 0; col < view.Size; col++ {
		fmt.Fprintf(&b, "%d", col%10)
	}
	b.WriteString("\n")
	for row, line := range view.Board {
		fmt.Fprintf(&b, "%3d %s\n", row, line)
	}

	if view.GameOver {
		if view.Victory {
			b.WriteString("\n🎉 VICTORY!")
		} else {
			b.WriteString("\n💥 GAME OVER")
		}
	}

	if view.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", view.Message)
	}

	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder

	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Move failed\n")
	}

	if len(result.Revealed) > 0 {
		fmt.Fprintf(&b, "Cells revealed: %d\n", len(result.Revealed))
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameView(result.View))
	return b.String()
}

func formatBulkRevealResult(sessionID string, result *service.BulkRevealResult) string {
	var b strings.Builder

	configName := ""
	if result.View != nil {
		configName = result.View.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s\n", sessionID, configName)

	fmt.Fprintf(&b, "Executed %d/%d reveals, %d cells opened\n",
		result.RevealsExecuted, result.RequestedReveals, result.CellsRevealed)
	if result.Truncated {
		fmt.Fprintf(&b, "Request truncated to %d reveals\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped at reveal %d: %s\n", result.StoppedOnReveal, result.StoppedReason)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			b.WriteString(formatStepLine(s))
		}
	}

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameView(result.View))
	return b.String()
}

// formatStepLine renders a single compact step line
func formatStepLine(s service.RevealStep) string {
	status := "✓"
	if s.Detonated {
		status = "💥"
	}
	return fmt.Sprintf("%d. (%d,%d) cells=%d outcome=%s %s\n",
		s.Idx, s.Coord.Row, s.Coord.Col, s.CellsRevealed, s.Outcome, status)
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d, Total: %d moves):\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		fmt.Fprintf(&b, "#%d: %s (%d,%d) cells=%d outcome=%s\n",
			move.MoveNumber, move.Action, move.Coord.Row, move.Coord.Col, move.CellsRevealed, move.Outcome)
	}

	if history.HasNext {
		b.WriteString("\n(More moves available on next page)")
	}

	return b.String()
}

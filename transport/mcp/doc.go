// Package mcp exposes the minesweeper REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes one or two HTTP
// requests against the REST API, and the JSON response is rendered as text
// for the agent. No game state lives in this package.
//
// MCP Tools:
//   - create_session: New game from a preset or a custom size/mine_count/seed
//   - list_sessions, get_session: Inspect sessions
//   - game_state: Current board with counters
//   - reveal: Reveal one cell (row, col)
//   - toggle_flag: Flag or unflag one cell
//   - bulk_reveal: Reveal up to 50 cells in order
//   - reset_game: Fresh board with the same preset
//   - move_history: Paginated history
//   - list_configs: Available presets
//   - game_instructions: Rules and legend
//   - describe_cell: Meaning of the character at a position
//
// describe_cell reads the player view only, so it cannot reveal where
// hidden mines are.
//
// Transport Modes:
//
//	// Stdio mode
//	client := mcp.NewClient("http://127.0.0.1:8080")
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	router.Handle("/mcp", client.HTTPHandler())
package mcp

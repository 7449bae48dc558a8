// Package api provides HTTP REST API handlers for the minesweeper server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id"} or {"size", "mine_count", "seed"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Sessions plus outcome tallies (?sessionIds=a,b or ?configName=x)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Player view of the board
//   - POST /api/sessions/{id}/reveal - Reveal {"row", "col"}
//   - POST /api/sessions/{id}/flag - Toggle a flag on {"row", "col"}
//   - POST /api/sessions/{id}/bulk-reveal - Reveal {"coords": [{"row", "col"}, ...]} in order
//   - POST /api/sessions/{id}/reset - Start a new game with the same preset
//   - GET /api/sessions/{id}/history - Move history (?page&limit&order)
//
// Configuration:
//   - GET /api/configs - List presets
//   - POST /api/configs - Save a preset
//   - GET /api/configs/{name} - Get a preset; fixed layouts and seeds are withheld
//
// Operations:
//   - GET /ws?session={id} - WebSocket stream of state_update messages
//   - GET /health - Liveness probe
//   - GET /metrics - Prometheus metrics
//
// Error Handling:
//
// Errors are returned as JSON: {"error": "message"}. Unknown sessions and
// presets map to 404, bad coordinates and invalid presets to 400, moves on a
// finished game or a protected flag to 409, anything else to 500.
//
// Boards in responses use one character per cell: '#' hidden, 'F' flagged,
// '.' empty, '1'-'8' neighbour counts, '*' the detonated mine. Once the game is
// over the remaining mines show as 'x'.
package api

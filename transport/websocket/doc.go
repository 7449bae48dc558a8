// Package websocket pushes live board updates to browsers watching a session.
//
// A single Hub tracks clients per session ID. Clients connect with
// /ws?session=<id> and only receive; the server sends a state_update message
// carrying the player view after every reveal, flag or reset. Unrevealed mines
// are never part of that view while the game is in progress.
//
// Message Protocol:
//
//	{"session_id": "a1b2c3d4", "event": "state_update", "game_state": {...}}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Each connection runs a read pump and a write pump goroutine. A client that
// falls behind by more than its send buffer is dropped.
package websocket

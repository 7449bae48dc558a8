// Package service provides the business logic layer for the minesweeper server.
//
// The service package implements:
//   - Multi-session game management
//   - Preset and custom board selection
//   - Reveal, flag and bulk reveal processing
//   - Move history pagination
//   - Prometheus counters for gameplay
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages board preset loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine; the service serialises
// every call, so engines never see concurrent access. Results carry the
// player view, which hides mines until the game ends.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithMetrics(service.NewMetrics(prometheus.DefaultRegisterer)))
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, service.SessionOptions{ConfigName: "beginner"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Open a cell
//	result, err := gameService.Reveal(ctx, sessionInfo.ID, 4, 4)
//
// Bulk reveals run in order and stop at the first reveal that ends the game or
// fails. StopReasonCode tells the caller why a batch stopped early.
package service

// Package session provides in-memory session management for the minesweeper server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Short unique session ID generation
//   - Session lifecycle management and expiry
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine.GameEngine along with metadata like
// creation time and last access time.
//
// Session Identifiers:
//
// Generated IDs are the first 8 hex characters of a random UUID. Lookups are
// case-insensitive. Sessions live only as long as the process.
package session

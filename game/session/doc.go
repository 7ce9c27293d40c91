// Package session provides session management for the memory game server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session expiry
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session it stores has its own engine, rule set and timers.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand and are unique within a
// manager. Callers may also choose their own IDs. Lookups are case-insensitive.
//
// Timers:
//
// The manager hands its clock.Clock to every session it creates, so a test can
// drive all deal and resolve delays with one manual clock. Deleting or expiring
// a session cancels its pending timers.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal().Err(err).Msg("create session")
//	}
//
//	// Remove sessions idle for more than an hour
//	removed := manager.CleanupExpiredSessions(time.Hour)
//
// Sessions live in memory only and are lost on restart.
package session

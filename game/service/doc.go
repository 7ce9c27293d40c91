// Package service provides the business logic layer for the memory game server.
//
// The service package implements:
//   - Multi-session game management
//   - The per-session runtime that owns timers
//   - Flip history tracking
//   - Change notification for push transports
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages rule set loading and validation.
// Notifier receives every state change, including those caused by timers.
//
// Session Runtime:
//
// The engine is a pure transition function: each action returns the next
// state and the timers it wants. Session applies those transitions under a
// mutex, schedules the requested timers on a clock.Clock and cancels every
// pending timer when an action supersedes the current deck (new difficulty,
// reset, back to menu). A timer that already started when it was cancelled
// finds its handle gone and does nothing.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, service.WithNotifier(hub))
//
//	info, err := gameService.CreateSession(ctx, "")
//	if err != nil {
//		log.Fatal().Err(err).Msg("create session")
//	}
//
//	gameService.SelectDifficulty(ctx, info.ID, "easy")
//	result, err := gameService.SelectCard(ctx, info.ID, 0)
package service

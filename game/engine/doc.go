// Package engine provides the core game logic for the Memory Match game.
//
// The engine package implements the game mechanics including:
//   - Difficulty levels and their pair counts (easy 6, medium 8, hard 12)
//   - Uniform Fisher-Yates dealing from an icon palette
//   - Flip, match and resolve transitions with an input lock
//   - Win detection and render views
//   - Configuration validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. State is an immutable snapshot of one session;
// every action returns a Transition carrying the next State and the Timers
// the caller must schedule. A Timer only applies to a State of the same
// Epoch, so timers left over from a superseded deck are inert.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	state := gameEngine.Initial()
//	tr := gameEngine.SelectDifficulty(state, engine.Easy)
//	// schedule tr.Timers, then later:
//	state = gameEngine.Fire(tr.State, tr.Timers[0]).State
//	state = gameEngine.SelectCard(state, 0).State
//
// Game Rules:
//
// The deck holds every icon of the chosen difficulty twice, face down. The
// player flips two cards per turn; equal icons stay revealed, unequal ones
// are hidden again after the resolve delay. The board is locked for the
// whole resolve delay in both cases. The game is won when every card is
// matched; the click counter is the only score.
package engine

// Package mcp exposes the memory game to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes one request against a
// running REST API server, and the JSON answer is rendered as text an agent
// can read.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - select_difficulty, flip_card, reset_game, back_to_menu
//   - game_state, flip_history
//   - list_difficulties, list_configs, game_instructions
//
// Board Rendering:
//
// game_state prints the cards in rows of the difficulty's column hint:
//
//	 0:(🍕)   1:??     2:[🚀]
//	 3:??     4:(🍕)   5:??
//
// "??" is face down, [x] is selected and (x) is matched.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp

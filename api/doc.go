// Package api provides the HTTP REST API of the memory game server.
//
// Endpoints:
//
// Session Management:
//   - POST   /api/sessions              - Create session {"config_id": "space"}; {"session_id": "x"} resumes or creates x
//   - GET    /api/sessions              - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}         - Get session
//   - DELETE /api/sessions/{id}         - Delete session and cancel its timers
//
// Game Operations:
//   - GET  /api/sessions/{id}/state      - Current game view
//   - POST /api/sessions/{id}/difficulty - Deal a deck {"difficulty": "easy|medium|hard"}
//   - POST /api/sessions/{id}/flip       - Flip a card {"index": 3}
//   - POST /api/sessions/{id}/reset      - Redeal at the current difficulty
//   - POST /api/sessions/{id}/menu       - Back to the difficulty menu
//   - GET  /api/sessions/{id}/history    - Flip history (?page=1&limit=20&order=desc)
//   - GET  /api/difficulties             - Pair counts and grid hints
//
// Configuration:
//   - GET  /api/configs        - List rule sets
//   - POST /api/configs        - Save a rule set as JSON
//   - GET  /api/configs/{name} - Get one rule set
//
// Other:
//   - GET /health
//   - GET /ws?session={id} - WebSocket event stream
//
// Actions answer 200 with an action result even when the game ignores them:
//
//	{"accepted": false, "event": "ignored", "game_state": {...}, "message": "..."}
//
// Errors are JSON objects with an "error" field. Unknown sessions and rule
// sets answer 404, bad difficulties and invalid rule sets 400, anything
// else 500.
//
// Every request carries an X-Request-Id and is logged by the zerolog access
// log at debug level.
package api

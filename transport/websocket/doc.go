// Package websocket pushes memory game events to browser clients.
//
// The package uses a hub-and-spoke model: a central Hub owns every
// connection from a single event loop, and each client runs a read pump and
// a write pump goroutine.
//
// Message Protocol:
//
// The server only writes. Each message is one JSON frame:
//
//	{"session_id": "a1b2", "event": "mismatched", "game_state": {...}}
//
// The first frame after connecting has event "snapshot" and carries the
// current view. After that every change event of the session follows,
// including the ones produced by the deal and resolve timers. Incoming
// frames are ignored; clients act through the REST API.
//
// Session Integration:
//
// Clients connect with ?session=<id>. The Hub implements service.Notifier,
// so registering it with the game service is enough to stream events:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//	gameService.AddNotifier(hub)
package websocket

// Package websocket pushes live game updates to browser and bot clients.
//
// A central Hub owns every connection. Each client subscribes to exactly one
// game by passing its id as a query parameter (/ws?game=ab12) and then only
// listens: all actions go through the REST API, which calls BroadcastAction
// after each successful action.
//
// Outgoing messages are JSON:
//
//	{
//	  "game_id": "ab12",
//	  "event": "state_update" | "game_over" | "game_deleted",
//	  "action": "roll",
//	  "state": { ...engine.GameState... },
//	  "events": [ ...service.GameEvent... ]
//	}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("game"))
//	})
//
// The client maps are only touched by the Run goroutine. Broadcasts are
// queued on a buffered channel and dropped when the buffer is full, so a
// slow hub never stalls a request handler.
package websocket

// Package api serves the property game over HTTP.
//
// Endpoints:
//
// Games:
//   - POST   /api/games                      - Create a game {"config_id", "players", "max_rounds"}
//   - GET    /api/games?sort=&order=&limit=  - List games
//   - GET    /api/games/{id}                 - Session info
//   - DELETE /api/games/{id}                 - Delete a game
//   - GET    /api/games/{id}/state           - Board, players and turn state
//   - GET    /api/games/{id}/winner          - Final standings (409 while running)
//   - GET    /api/games/{id}/ledger          - Transactions, ?page=&limit=&order=&type=&player=
//   - GET    /api/games/{id}/ledger.parquet  - Transactions as a Parquet file
//
// Turn actions (POST, no body):
//   - /api/games/{id}/roll, /buy, /rent, /jail/pay, /end-turn, /bankrupt
//
// Field actions (POST {"field_id": 6, "action": "..."}):
//   - /api/games/{id}/houses   - action "build" or "sell"
//   - /api/games/{id}/hotels   - action "build" or "sell"
//   - /api/games/{id}/mortgage - action "mortgage" or "lift"
//
// Boards:
//   - GET  /api/configs        - List board definitions
//   - POST /api/configs        - Validate and store a board definition
//   - GET  /api/configs/{name} - One board definition
//
// Other:
//   - GET /ws?game={id} - WebSocket event stream
//   - GET /health       - Liveness
//   - GET /metrics      - Prometheus metrics (with WithMetrics)
//
// WithCORS answers browser preflight requests for the listed origins.
//
// Every successful action answers with a service.ActionResult and is pushed
// to the websocket clients watching the game (/ws?game={id}).
//
// Errors are JSON with the HTTP status repeated in code:
//
//	{
//	  "error": "houses number: \"Red B\" does not own every red field",
//	  "code": 409
//	}
//
// Unknown games and boards are 404, malformed input is 400 and moves the
// rules forbid right now are 409.
package api

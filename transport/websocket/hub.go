package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/service"
	"github.com/wricardo/mcp-training/propertygame/logger"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	broadcastBuffer = 256
)

// Event names sent to clients.
const (
	EventStateUpdate = "state_update"
	EventGameOver    = "game_over"
	EventGameDeleted = "game_deleted"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is one update pushed to the clients watching a game.
type Message struct {
	GameID string              `json:"game_id"`
	Event  string              `json:"event"`
	Action string              `json:"action,omitempty"`
	State  *engine.GameState   `json:"state,omitempty"`
	Events []service.GameEvent `json:"events,omitempty"`
	Data   interface{}         `json:"data,omitempty"`
}

// Client represents a WebSocket client
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	gameID string
}

type countRequest struct {
	gameID string
	reply  chan int
}

// Hub maintains the set of active clients and broadcasts messages. All
// access to the client maps happens on the Run goroutine.
type Hub struct {
	// Registered clients by game ID
	games map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	count      chan countRequest
	done       chan struct{}
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		games:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan countRequest),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop and returns when ctx is done, closing
// every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for _, clients := range h.games {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case req := <-h.count:
			req.reply <- len(h.games[req.gameID])
		}
	}
}

// ServeWS upgrades the request and subscribes the connection to gameID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, gameID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warnw("websocket upgrade failed", "game", gameID, "error", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		gameID: gameID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// ClientCount returns the number of clients watching gameID. A stopped hub
// has no clients.
func (h *Hub) ClientCount(gameID string) int {
	reply := make(chan int, 1)
	select {
	case h.count <- countRequest{gameID: gameID, reply: reply}:
	case <-h.done:
		return 0
	}
	select {
	case n := <-reply:
		return n
	case <-h.done:
		return 0
	}
}

// BroadcastAction sends the outcome of a player action to every client
// watching the game.
func (h *Hub) BroadcastAction(gameID, action string, res *service.ActionResult) {
	event := EventStateUpdate
	if res.GameOver {
		event = EventGameOver
	}
	h.enqueue(&Message{
		GameID: gameID,
		Event:  event,
		Action: action,
		State:  res.GameState,
		Events: res.Events,
	})
}

// BroadcastEvent sends a custom event to all clients of a game
func (h *Hub) BroadcastEvent(gameID string, event string, data interface{}) {
	h.enqueue(&Message{
		GameID: gameID,
		Event:  event,
		Data:   data,
	})
}

// enqueue never blocks a request handler; a full buffer drops the update.
func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		logger.Log.Warnw("websocket broadcast buffer full, dropping update", "game", message.GameID, "event", message.Event)
	}
}

// registerClient adds a client to a game
func (h *Hub) registerClient(client *Client) {
	if h.games[client.gameID] == nil {
		h.games[client.gameID] = make(map[*Client]bool)
	}
	h.games[client.gameID][client] = true

	logger.Log.Debugw("websocket client registered", "game", client.gameID, "clients", len(h.games[client.gameID]))
}

// unregisterClient removes a client from a game
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.games[client.gameID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			if len(clients) == 0 {
				delete(h.games, client.gameID)
			}

			logger.Log.Debugw("websocket client unregistered", "game", client.gameID, "clients", len(clients))
		}
	}
}

// broadcastMessage sends a message to all clients of a game
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Log.Errorw("failed to marshal websocket message", "game", message.GameID, "error", err)
		return
	}

	for client := range h.games[message.GameID] {
		select {
		case client.send <- data:
		default:
			h.unregisterClient(client)
		}
	}
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Clients only listen; anything they send keeps the connection alive.
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Debugw("websocket read error", "game", c.gameID, "error", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

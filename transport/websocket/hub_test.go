package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/service"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.games == nil {
		t.Error("Hub games map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels are not initialized")
	}
}

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	client1 := &Client{hub: hub, gameID: "g1", send: make(chan []byte, 256)}
	client2 := &Client{hub: hub, gameID: "g1", send: make(chan []byte, 256)}

	hub.registerClient(client1)
	hub.registerClient(client2)
	if len(hub.games["g1"]) != 2 {
		t.Errorf("Expected 2 clients in game, got %d", len(hub.games["g1"]))
	}

	hub.unregisterClient(client1)
	if len(hub.games["g1"]) != 1 || !hub.games["g1"][client2] {
		t.Error("Expected only client2 to remain")
	}
	if _, ok := <-client1.send; ok {
		t.Error("Expected client1 send channel to be closed")
	}

	hub.unregisterClient(client2)
	if _, exists := hub.games["g1"]; exists {
		t.Error("Game should have been cleaned up after last client unregistered")
	}

	// Unregistering twice is a no-op.
	hub.unregisterClient(client2)
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	watching := &Client{hub: hub, gameID: "g1", send: make(chan []byte, 256)}
	other := &Client{hub: hub, gameID: "g2", send: make(chan []byte, 256)}
	hub.registerClient(watching)
	hub.registerClient(other)

	hub.broadcastMessage(&Message{GameID: "g1", Event: EventStateUpdate, State: &engine.GameState{Round: 3}})

	select {
	case data := <-watching.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.GameID != "g1" {
			t.Errorf("Expected game g1, got %s", message.GameID)
		}
		if message.State == nil || message.State.Round != 3 {
			t.Error("GameState not correctly transmitted")
		}
	default:
		t.Error("Expected a message for the watching client")
	}

	select {
	case <-other.send:
		t.Error("Client of another game should not receive the message")
	default:
	}
}

func TestHubBroadcastAction(t *testing.T) {
	tests := []struct {
		name     string
		gameOver bool
		want     string
	}{
		{"ongoing", false, EventStateUpdate},
		{"finished", true, EventGameOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub()
			res := &service.ActionResult{
				Success:   true,
				GameOver:  tt.gameOver,
				Events:    []service.GameEvent{{Type: service.EventRoll, Message: "Ann rolled 3 and 4"}},
				GameState: &engine.GameState{},
			}
			hub.BroadcastAction("g1", "roll", res)

			select {
			case message := <-hub.broadcast:
				if message.Event != tt.want {
					t.Errorf("Expected event %s, got %s", tt.want, message.Event)
				}
				if message.Action != "roll" || len(message.Events) != 1 {
					t.Errorf("Unexpected message: %+v", message)
				}
			default:
				t.Error("Expected a queued broadcast")
			}
		})
	}
}

func TestHubBroadcastDropsWhenFull(t *testing.T) {
	hub := NewHub()
	for i := 0; i < broadcastBuffer+10; i++ {
		hub.BroadcastEvent("g1", "tick", i)
	}
	if len(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected %d queued messages, got %d", broadcastBuffer, len(hub.broadcast))
	}
}

func dial(t *testing.T, hub *Hub, gameID string) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("game"))
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?game=" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, hub *Hub, gameID string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount(gameID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients for %s, got %d", want, gameID, hub.ClientCount(gameID))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWebSocketLifecycle(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn := dial(t, hub, "ws-test")
	waitForClients(t, hub, "ws-test", 1)

	conn.Close()
	waitForClients(t, hub, "ws-test", 0)
}

func TestWebSocketReceivesActions(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn := dial(t, hub, "msg-test")
	defer conn.Close()
	waitForClients(t, hub, "msg-test", 1)

	hub.BroadcastAction("msg-test", "buy", &service.ActionResult{
		Success:   true,
		Events:    []service.GameEvent{{Type: service.EventPurchase, Amount: 60}},
		GameState: &engine.GameState{TotalMoves: 7},
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if message.GameID != "msg-test" || message.Action != "buy" {
		t.Errorf("Unexpected message header: %+v", message)
	}
	if message.State == nil || message.State.TotalMoves != 7 {
		t.Error("GameState not correctly received")
	}
	if len(message.Events) != 1 || message.Events[0].Amount != 60 {
		t.Errorf("Expected one purchase event, got %+v", message.Events)
	}
}

func TestHubStopClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	conn := dial(t, hub, "stop-test")
	defer conn.Close()
	waitForClients(t, hub, "stop-test", 1)

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Hub did not stop")
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected the connection to be closed")
	}
}

func TestHubClientCountAfterStop(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	counted := make(chan int, 1)
	go func() {
		counted <- hub.ClientCount("stopped-game")
	}()

	select {
	case n := <-counted:
		if n != 0 {
			t.Errorf("Expected 0 clients on a stopped hub, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("ClientCount blocked after the hub stopped")
	}
}

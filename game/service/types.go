package service

import (
	"time"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
)

// Event types carried by GameEvent.
const (
	EventRoll         = "roll"
	EventMove         = "move"
	EventStartBonus   = "start_bonus"
	EventJail         = "jail"
	EventJailFine     = "jail_fine"
	EventChance       = "chance"
	EventTax          = "tax"
	EventRentDue      = "rent_due"
	EventRentPaid     = "rent_paid"
	EventPurchase     = "purchase"
	EventBuildHouse   = "build_house"
	EventSellHouse    = "sell_house"
	EventBuildHotel   = "build_hotel"
	EventSellHotel    = "sell_hotel"
	EventMortgage     = "mortgage"
	EventLiftMortgage = "lift_mortgage"
	EventEndTurn      = "end_turn"
	EventBankruptcy   = "bankruptcy"
	EventGameOver     = "game_over"
)

// TurnState tracks what the current player has done this turn.
type TurnState struct {
	Rolled      bool `json:"rolled"`
	RentPending bool `json:"rent_pending"`
	RentAmount  int  `json:"rent_amount,omitempty"`
	RentOwner   int  `json:"rent_owner,omitempty"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	ConfigName     string            `json:"config_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	Players        []string          `json:"players"`
	GameOver       bool              `json:"game_over"`
	Turn           TurnState         `json:"turn"`
	GameState      *engine.GameState `json:"game_state"`
}

// GameView is the state of one game as seen by clients.
type GameView struct {
	SessionID     string            `json:"session_id"`
	CurrentPlayer string            `json:"current_player"`
	Turn          TurnState         `json:"turn"`
	GameOver      bool              `json:"game_over"`
	Result        *GameResult       `json:"result,omitempty"`
	State         *engine.GameState `json:"state"`
}

// ActionResult contains the outcome of one player action.
type ActionResult struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Events    []GameEvent         `json:"events,omitempty"`
	Move      *engine.MoveResult  `json:"move,omitempty"`
	Effect    *engine.FieldEffect `json:"effect,omitempty"`
	Turn      TurnState           `json:"turn"`
	GameOver  bool                `json:"game_over"`
	GameState *engine.GameState   `json:"game_state"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  int       `json:"player_id"`
	FieldID   *int      `json:"field_id,omitempty"`
	Amount    int       `json:"amount,omitempty"`
}

// Standing is one player's final position.
type Standing struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Money    int    `json:"money"`
	Fortune  int    `json:"fortune"`
	Bankrupt bool   `json:"bankrupt"`
	// NetFlow is the money received minus the money paid over the game.
	NetFlow  int    `json:"net_flow"`
}

// GameResult is recorded once when a game ends.
type GameResult struct {
	SessionID  string     `json:"session_id"`
	ConfigName string     `json:"config_name"`
	Winner     Standing   `json:"winner"`
	Standings  []Standing `json:"standings"`
	Rounds     int        `json:"rounds"`
	TotalMoves int        `json:"total_moves"`
	FinishedAt time.Time  `json:"finished_at"`
}

// ConfigInfo provides information about a board definition
type ConfigInfo struct {
	Filename      string `json:"filename"`
	ConfigID      string `json:"config_id"` // The identifier to use for session creation
	Name          string `json:"name"`      // Display name
	Description   string `json:"description"`
	Fields        int    `json:"fields"`
	Properties    int    `json:"properties"`
	StartingMoney int    `json:"starting_money"`
	MaxRounds     int    `json:"max_rounds"`
}

package service

import (
	"context"
	"errors"
	"io"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/ledger"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyRolled     = errors.New("dice already rolled this turn")
	ErrNotRolled         = errors.New("dice not rolled yet")
	ErrRentPending       = errors.New("rent must be paid first")
	ErrNoRentDue         = errors.New("no rent due")
	ErrGameNotOver       = errors.New("game is not over")
	ErrInvalidPlayers    = errors.New("invalid players")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, players []string, maxRounds int) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Turn
	RollDice(ctx context.Context, sessionID string) (*ActionResult, error)
	BuyProperty(ctx context.Context, sessionID string) (*ActionResult, error)
	PayRent(ctx context.Context, sessionID string) (*ActionResult, error)
	PayJailFine(ctx context.Context, sessionID string) (*ActionResult, error)
	EndTurn(ctx context.Context, sessionID string) (*ActionResult, error)
	DeclareBankruptcy(ctx context.Context, sessionID string) (*ActionResult, error)

	// Development and mortgages
	BuildHouse(ctx context.Context, sessionID string, fieldID int) (*ActionResult, error)
	SellHouse(ctx context.Context, sessionID string, fieldID int) (*ActionResult, error)
	BuildHotel(ctx context.Context, sessionID string, fieldID int) (*ActionResult, error)
	SellHotel(ctx context.Context, sessionID string, fieldID int) (*ActionResult, error)
	Mortgage(ctx context.Context, sessionID string, fieldID int) (*ActionResult, error)
	LiftMortgage(ctx context.Context, sessionID string, fieldID int) (*ActionResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*GameView, error)
	GetWinner(ctx context.Context, sessionID string) (*GameResult, error)
	GetLedger(ctx context.Context, sessionID string, opts ledger.PageOptions) (*ledger.Page, error)
	ExportLedger(ctx context.Context, sessionID string, w io.Writer) error

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	GetConfig(ctx context.Context, configName string) (*engine.BoardConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, opts CreateOptions) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles board definition loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.BoardConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.BoardConfig
	SaveConfig(name string, config *engine.BoardConfig) error
}

// ResultRecorder stores the outcome of finished games.
type ResultRecorder interface {
	RecordResult(ctx context.Context, result *GameResult) error
}

package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/ledger"
)

// CreateOptions describe a new game.
type CreateOptions struct {
	ConfigName string
	Config     *engine.BoardConfig
	Players    []string
	MaxRounds  int         // zero keeps the board's rule
	Dice       engine.Dice // nil uses random dice
}

// Session represents an active game. All fields below mu are guarded by it;
// callers take it with Lock before touching Game, Ledger or Turn.
type Session struct {
	ID         string
	ConfigName string
	Config     *engine.BoardConfig

	mu             sync.Mutex
	Game           *engine.Game
	Ledger         *ledger.Ledger
	Turn           TurnState
	Result         *GameResult
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Touch sets the last access time.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.LastAccessedAt = now
	s.mu.Unlock()
}

func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastAccessedAt
}

// NewSession builds a prepared game with the given players.
func NewSession(id string, opts CreateOptions) (*Session, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("%w: nil board config", engine.ErrInvalidConfig)
	}
	if len(opts.Players) < engine.MinPlayers || len(opts.Players) > engine.MaxPlayers {
		return nil, fmt.Errorf("%w: need %d to %d players, got %d", ErrInvalidPlayers, engine.MinPlayers, engine.MaxPlayers, len(opts.Players))
	}
	if opts.MaxRounds < 0 {
		return nil, fmt.Errorf("%w: max rounds %d", engine.ErrInvalidConfig, opts.MaxRounds)
	}

	game, err := engine.NewGameFromConfig(opts.Config, gameOptions(opts.MaxRounds, opts.Dice)...)
	if err != nil {
		return nil, err
	}
	for _, name := range opts.Players {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty player name", ErrInvalidPlayers)
		}
		if _, err := game.AddPlayer(name); err != nil {
			return nil, err
		}
	}
	if err := game.PrepareGame(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:             id,
		ConfigName:     opts.ConfigName,
		Config:         opts.Config,
		Game:           game,
		Ledger:         ledger.New(id),
		CreatedAt:      now,
		LastAccessedAt: now,
	}, nil
}

func gameOptions(maxRounds int, dice engine.Dice) []engine.Option {
	var opts []engine.Option
	if maxRounds > 0 {
		opts = append(opts, engine.WithMaxRounds(maxRounds))
	}
	if dice != nil {
		opts = append(opts, engine.WithDice(dice))
	}
	return opts
}

// Snapshot is the persisted form of a session.
type Snapshot struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	Config         *engine.BoardConfig `json:"config"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *engine.GameState   `json:"game_state"`
	Turn           TurnState           `json:"turn"`
	Result         *GameResult         `json:"result,omitempty"`
	Ledger         []ledger.Entry      `json:"ledger"`
}

// Snapshot copies the session's state under its lock.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() *Snapshot {
	return &Snapshot{
		ID:             s.ID,
		ConfigName:     s.ConfigName,
		Config:         s.Config,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt,
		GameState:      s.Game.State(),
		Turn:           s.Turn,
		Result:         s.Result,
		Ledger:         s.Ledger.Entries(),
	}
}

// RestoreSession rebuilds a session from a snapshot.
func RestoreSession(snap *Snapshot, dice engine.Dice) (*Session, error) {
	if snap == nil || snap.Config == nil || snap.GameState == nil {
		return nil, fmt.Errorf("%w: incomplete session snapshot", engine.ErrInvalidState)
	}
	board, err := engine.NewBoardFromConfig(snap.Config)
	if err != nil {
		return nil, err
	}
	game, err := engine.RestoreGame(board, snap.GameState, gameOptions(0, dice)...)
	if err != nil {
		return nil, err
	}
	l := ledger.New(snap.ID)
	l.Restore(snap.Ledger)

	return &Session{
		ID:             snap.ID,
		ConfigName:     snap.ConfigName,
		Config:         snap.Config,
		Game:           game,
		Ledger:         l,
		Turn:           snap.Turn,
		Result:         snap.Result,
		CreatedAt:      snap.CreatedAt,
		LastAccessedAt: snap.LastAccessedAt,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/ledger"
	"github.com/wricardo/mcp-training/propertygame/logger"
	"github.com/wricardo/mcp-training/propertygame/monitor"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	metrics  *monitor.Metrics
	recorder ResultRecorder
	dice     func() engine.Dice
}

// Option configures the game service.
type Option func(*gameServiceImpl)

func WithMetrics(m *monitor.Metrics) Option {
	return func(s *gameServiceImpl) { s.metrics = m }
}

// WithResultRecorder stores every finished game through r.
func WithResultRecorder(r ResultRecorder) Option {
	return func(s *gameServiceImpl) { s.recorder = r }
}

// WithDiceFactory supplies the dice for each new game and for games the
// session manager restores from storage.
func WithDiceFactory(f func() engine.Dice) Option {
	return func(s *gameServiceImpl) { s.dice = f }
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	if r, ok := sessions.(diceRestorer); ok && s.dice != nil {
		r.SetDiceFactory(s.dice)
	}
	return s
}

// diceRestorer is a session manager that can hand dice to the games it
// restores from storage.
type diceRestorer interface {
	SetDiceFactory(f func() engine.Dice)
}

// getConfigID returns the config_id for a given board name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession starts a new game on the named board
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, players []string, maxRounds int) (*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var config *engine.BoardConfig
	if configName != "" {
		var err error
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		if config == nil {
			return nil, fmt.Errorf("%w: no default board", engine.ErrInvalidConfig)
		}
		configName = s.getConfigID(config.Name)
	}

	opts := CreateOptions{
		ConfigName: configName,
		Config:     config,
		Players:    players,
		MaxRounds:  maxRounds,
	}
	if s.dice != nil {
		opts.Dice = s.dice()
	}

	sess, err := s.sessions.Create("", opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.metrics.SetActiveSessions(len(s.sessions.List()))
	logger.Log.Infow("session created", "session", sess.ID, "config", configName, "players", len(players))

	sess.Lock()
	defer sess.Unlock()
	return sessionInfo(sess), nil
}

func sessionInfo(sess *Session) *SessionInfo {
	players := sess.Game.Players()
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name())
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigName,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Players:        names,
		GameOver:       sess.Game.IsWin(),
		Turn:           sess.Turn,
		GameState:      sess.Game.State(),
	}
}

// getSession looks a session up and marks it as accessed.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		sess.Lock()
		result = append(result, sessionInfo(sess))
		sess.Unlock()
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.metrics.SetActiveSessions(len(s.sessions.List()))
	return nil
}

// act runs fn on the locked session, then records a finished game and
// persists the session.
func (s *gameServiceImpl) act(ctx context.Context, sessionID, action string, fn func(sess *Session, res *ActionResult) error) (*ActionResult, error) {
	started := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sess, err := s.getSession(sessionID)
	if err != nil {
		s.metrics.ObserveAction(action, err, started)
		return nil, err
	}

	res := &ActionResult{Events: []GameEvent{}}
	var finished *GameResult

	sess.Lock()
	if sess.Game.IsWin() {
		err = engine.ErrGameOver
	} else {
		err = fn(sess, res)
	}
	if err == nil {
		finished = s.finishLocked(sess, res)
		res.Success = true
		res.Turn = sess.Turn
		res.GameOver = sess.Game.IsWin()
		res.GameState = sess.Game.State()
	}
	sess.Unlock()

	s.metrics.ObserveAction(action, err, started)
	if err != nil {
		return nil, err
	}

	if finished != nil && s.recorder != nil {
		if err := s.recorder.RecordResult(ctx, finished); err != nil {
			logger.Log.Warnw("failed to record game result", "session", sessionID, "error", err)
		}
	}
	if err := s.sessions.Save(sessionID); err != nil {
		logger.Log.Warnw("failed to persist session", "session", sessionID, "action", action, "error", err)
	}
	return res, nil
}

// transfer writes a ledger entry and counts the money moved.
func (s *gameServiceImpl) transfer(sess *Session, kind ledger.EntryType, from, to, fieldID, amount int, note string) {
	if amount <= 0 && kind != ledger.EntryBankruptcy {
		return
	}
	sess.Ledger.Record(sess.Game.RoundNum(), kind, from, to, fieldID, amount, note)
	s.metrics.AddTransfer(string(kind), amount)
}

func emit(res *ActionResult, typ string, playerID int, fieldID *int, amount int, msg string) {
	res.Events = append(res.Events, GameEvent{
		Type:      typ,
		Message:   msg,
		Timestamp: time.Now(),
		PlayerID:  playerID,
		FieldID:   fieldID,
		Amount:    amount,
	})
	res.Message = msg
}

func fieldRef(id int) *int {
	return &id
}

// RollDice rolls and moves the current player, then resolves the field
// landed on. Landing on another player's field leaves rent pending.
func (s *gameServiceImpl) RollDice(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, "roll", func(sess *Session, res *ActionResult) error {
		if sess.Turn.Rolled {
			return ErrAlreadyRolled
		}
		g := sess.Game
		p := g.CurrentPlayer()

		if _, err := g.DiceRoll(); err != nil {
			return err
		}
		move, err := g.MovePawnNumberOfDots()
		if err != nil {
			return err
		}
		sess.Turn.Rolled = true
		res.Move = &move
		emit(res, EventRoll, p.ID(), nil, move.Roll.Sum(),
			fmt.Sprintf("%s rolled %d and %d", p.Name(), move.Roll.First, move.Roll.Second))

		if move.JailFinePaid > 0 {
			s.transfer(sess, ledger.EntryJailFine, p.ID(), ledger.Bank, move.From, move.JailFinePaid, "third failed attempt")
			emit(res, EventJailFine, p.ID(), fieldRef(move.From), move.JailFinePaid,
				fmt.Sprintf("%s paid the %d jail fine", p.Name(), move.JailFinePaid))
		} else if move.LeftJail {
			emit(res, EventJail, p.ID(), fieldRef(move.From), 0, fmt.Sprintf("%s rolled doubles and leaves jail", p.Name()))
		}
		if move.StayedInJail {
			emit(res, EventJail, p.ID(), fieldRef(move.From), 0,
				fmt.Sprintf("%s stays in jail (attempt %d)", p.Name(), p.JailAttempts()))
			return nil
		}

		field := g.CurrentField()
		emit(res, EventMove, p.ID(), fieldRef(field.ID()), 0, fmt.Sprintf("%s moved to %s", p.Name(), field.Name()))
		if move.StartBonus > 0 {
			s.transfer(sess, ledger.EntryStartBonus, ledger.Bank, p.ID(), ledger.NoField, move.StartBonus, "")
			emit(res, EventStartBonus, p.ID(), nil, move.StartBonus,
				fmt.Sprintf("%s collected %d for passing start", p.Name(), move.StartBonus))
		}

		effect, err := g.FieldAction()
		if err != nil {
			return err
		}
		s.applyEffect(sess, res, p, effect)

		if amount, owner, due := g.RentDue(); due && amount > 0 {
			sess.Turn.RentPending = true
			sess.Turn.RentAmount = amount
			sess.Turn.RentOwner = owner
			emit(res, EventRentDue, p.ID(), fieldRef(field.ID()), amount,
				fmt.Sprintf("%s owes %d rent for %s", p.Name(), amount, field.Name()))
		}
		return nil
	})
}

func (s *gameServiceImpl) applyEffect(sess *Session, res *ActionResult, p *engine.Player, effect engine.FieldEffect) {
	if effect.Kind == "" {
		return
	}
	res.Effect = &effect
	switch effect.Kind {
	case engine.SpecialChance:
		card := effect.Card
		if card == nil {
			return
		}
		if card.Action == engine.ActionPay {
			s.transfer(sess, ledger.EntryChance, p.ID(), ledger.Bank, effect.FieldID, card.Amount, card.Description)
		} else {
			s.transfer(sess, ledger.EntryChance, ledger.Bank, p.ID(), effect.FieldID, card.Amount, card.Description)
		}
		emit(res, EventChance, p.ID(), fieldRef(effect.FieldID), card.Amount, fmt.Sprintf("%s drew: %s", p.Name(), card.Description))
	case engine.SpecialTax:
		s.transfer(sess, ledger.EntryTax, p.ID(), ledger.Bank, effect.FieldID, effect.Amount, "")
		emit(res, EventTax, p.ID(), fieldRef(effect.FieldID), effect.Amount, fmt.Sprintf("%s paid %d tax", p.Name(), effect.Amount))
	case engine.SpecialGoToJail:
		emit(res, EventJail, p.ID(), fieldRef(sess.Game.Board().JailFieldID()), 0, fmt.Sprintf("%s goes to jail", p.Name()))
	}
}

// BuyProperty buys the field the current player stands on.
func (s *gameServiceImpl) BuyProperty(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, "buy", func(sess *Session, res *ActionResult) error {
		if !sess.Turn.Rolled {
			return ErrNotRolled
		}
		g := sess.Game
		p := g.CurrentPlayer()
		prop, ok := g.CurrentField().(engine.Ownable)
		if !ok {
			return fmt.Errorf("%w: %q", engine.ErrNotForSale, g.CurrentField().Name())
		}
		if _, owned := prop.Owner(); !owned && !g.CanAfford(prop.Price()) {
			return fmt.Errorf("%w: %q costs %d, %s has %d", ErrInsufficientFunds, prop.Name(), prop.Price(), p.Name(), p.Money())
		}
		if err := g.BuyCurrentProperty(); err != nil {
			return err
		}
		s.transfer(sess, ledger.EntryPurchase, p.ID(), ledger.Bank, prop.ID(), prop.Price(), prop.Name())
		emit(res, EventPurchase, p.ID(), fieldRef(prop.ID()), prop.Price(), fmt.Sprintf("%s bought %s for %d", p.Name(), prop.Name(), prop.Price()))
		return nil
	})
}

// PayRent settles pending rent. It fails with ErrInsufficientFunds and
// leaves everything unchanged when the player cannot cover it.
func (s *gameServiceImpl) PayRent(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, "rent", func(sess *Session, res *ActionResult) error {
		if !sess.Turn.RentPending {
			return ErrNoRentDue
		}
		g := sess.Game
		p := g.CurrentPlayer()
		amount, ownerID, due := g.RentDue()
		if !due {
			sess.Turn.RentPending, sess.Turn.RentAmount, sess.Turn.RentOwner = false, 0, 0
			return ErrNoRentDue
		}
		if !g.CanAfford(amount) {
			return fmt.Errorf("%w: rent is %d, %s has %d", ErrInsufficientFunds, amount, p.Name(), p.Money())
		}
		paid, err := g.PayRent()
		if err != nil {
			return err
		}
		field := g.CurrentField()
		s.transfer(sess, ledger.EntryRent, p.ID(), ownerID, field.ID(), paid, field.Name())
		sess.Turn.RentPending, sess.Turn.RentAmount, sess.Turn.RentOwner = false, 0, 0

		owner, _ := g.PlayerByID(ownerID)
		ownerName := fmt.Sprintf("player %d", ownerID)
		if owner != nil {
			ownerName = owner.Name()
		}
		emit(res, EventRentPaid, p.ID(), fieldRef(field.ID()), paid, fmt.Sprintf("%s paid %d rent to %s", p.Name(), paid, ownerName))
		return nil
	})
}

// PayJailFine buys the current player out of jail before rolling.
func (s *gameServiceImpl) PayJailFine(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, "jail_fine", func(sess *Session, res *ActionResult) error {
		if sess.Turn.Rolled {
			return ErrAlreadyRolled
		}
		g := sess.Game
		p := g.CurrentPlayer()
		if err := g.PayJailFine(); err != nil {
			return err
		}
		fine := g.Rules().JailFine
		s.transfer(sess, ledger.EntryJailFine, p.ID(), ledger.Bank, p.Position(), fine, "")
		emit(res, EventJailFine, p.ID(), fieldRef(p.Position()), fine, fmt.Sprintf("%s paid the %d jail fine", p.Name(), fine))
		return nil
	})
}

// EndTurn passes the turn on. The player must have rolled, paid any rent
// and be out of debt.
func (s *gameServiceImpl) EndTurn(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, "end_turn", func(sess *Session, res *ActionResult) error {
		g := sess.Game
		p := g.CurrentPlayer()
		switch {
		case !sess.Turn.Rolled:
			return ErrNotRolled
		case sess.Turn.RentPending:
			return fmt.Errorf("%w: %d owed", ErrRentPending, sess.Turn.RentAmount)
		case p.Money() < 0:
			return fmt.Errorf("%w: %s is %d in debt", ErrInsufficientFunds, p.Name(), -p.Money())
		}
		g.ChangePlayer()
		sess.Turn = TurnState{}
		emit(res, EventEndTurn, p.ID(), nil, 0, fmt.Sprintf("%s ended the turn, %s is next", p.Name(), g.CurrentPlayerName()))
		return nil
	})
}

// DeclareBankruptcy gives everything the current player owns back to the
// bank and passes the turn on.
func (s *gameServiceImpl) DeclareBankruptcy(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, "bankrupt", func(sess *Session, res *ActionResult) error {
		g := sess.Game
		p := g.CurrentPlayer()
		cash := p.Money()
		if err := g.MakeBankrupt(); err != nil {
			return err
		}
		s.transfer(sess, ledger.EntryBankruptcy, p.ID(), ledger.Bank, ledger.NoField, max(cash, 0), "")
		s.metrics.IncBankruptcies()
		emit(res, EventBankruptcy, p.ID(), nil, max(cash, 0), fmt.Sprintf("%s is bankrupt", p.Name()))

		sess.Turn = TurnState{}
		if !g.IsWin() {
			g.ChangePlayer()
		}
		return nil
	})
}

type development struct {
	action string
	event  string
	entry  ledger.EntryType
	apply  func(g *engine.Game, fieldID int) error
	// amount is evaluated before apply; paid reports whether the player pays it.
	amount func(g *engine.Game, fieldID int) int
	paid   bool
}

func streetCost(hotel bool) func(g *engine.Game, fieldID int) int {
	return func(g *engine.Game, fieldID int) int {
		st, err := g.Board().Street(fieldID)
		if err != nil {
			return 0
		}
		if hotel {
			return st.HotelCost()
		}
		return st.HouseCost()
	}
}

func mortgageValue(lift bool) func(g *engine.Game, fieldID int) int {
	return func(g *engine.Game, fieldID int) int {
		prop, err := g.Board().Property(fieldID)
		if err != nil {
			return 0
		}
		if lift {
			return engine.LiftMortgageCost(prop)
		}
		return prop.MortgagePrice()
	}
}

var (
	buildHouse = development{"build_house", EventBuildHouse, ledger.EntryBuildHouse, (*engine.Game).BuildHouse, streetCost(false), true}
	sellHouse  = development{"sell_house", EventSellHouse, ledger.EntrySellHouse, (*engine.Game).SellHouse, streetCost(false), false}
	buildHotel = development{"build_hotel", EventBuildHotel, ledger.EntryBuildHotel, (*engine.Game).BuildHotel, streetCost(true), true}
	sellHotel  = development{"sell_hotel", EventSellHotel, ledger.EntrySellHotel, (*engine.Game).SellHotel, streetCost(true), false}
	mortgage   = development{"mortgage", EventMortgage, ledger.EntryMortgage, (*engine.Game).Mortgage, mortgageValue(false), false}
	liftMort   = development{"lift_mortgage", EventLiftMortgage, ledger.EntryLiftMortgage, (*engine.Game).LiftMortgage, mortgageValue(true), true}
)

func (s *gameServiceImpl) develop(ctx context.Context, sessionID string, fieldID int, d development) (*ActionResult, error) {
	return s.act(ctx, sessionID, d.action, func(sess *Session, res *ActionResult) error {
		g := sess.Game
		p := g.CurrentPlayer()
		amount := d.amount(g, fieldID)
		if err := d.apply(g, fieldID); err != nil {
			return err
		}
		field, err := g.Board().FieldByID(fieldID)
		if err != nil {
			return err
		}
		if d.paid {
			s.transfer(sess, d.entry, p.ID(), ledger.Bank, fieldID, amount, field.Name())
		} else {
			s.transfer(sess, d.entry, ledger.Bank, p.ID(), fieldID, amount, field.Name())
		}
		emit(res, d.event, p.ID(), fieldRef(fieldID), amount, fmt.Sprintf("%s: %s on %s (%d)", p.Name(), d.action, field.Name(), amount))
		return nil
	})
}

func (s *gameServiceImpl) BuildHouse(ctx context.Context, sessionID string, fieldID int) (*ActionResult, error) {
	return s.develop(ctx, sessionID, fieldID, buildHouse)
}

func (s *gameServiceImpl) SellHouse(ctx context.Context, sessionID string, fieldID int) (*ActionResult, error) {
	return s.develop(ctx, sessionID, fieldID, sellHouse)
}

func (s *gameServiceImpl) BuildHotel(ctx context.Context, sessionID string, fieldID int) (*ActionResult, error) {
	return s.develop(ctx, sessionID, fieldID, buildHotel)
}

func (s *gameServiceImpl) SellHotel(ctx context.Context, sessionID string, fieldID int) (*ActionResult, error) {
	return s.develop(ctx, sessionID, fieldID, sellHotel)
}

func (s *gameServiceImpl) Mortgage(ctx context.Context, sessionID string, fieldID int) (*ActionResult, error) {
	return s.develop(ctx, sessionID, fieldID, mortgage)
}

func (s *gameServiceImpl) LiftMortgage(ctx context.Context, sessionID string, fieldID int) (*ActionResult, error) {
	return s.develop(ctx, sessionID, fieldID, liftMort)
}

// finishLocked builds the result the first time the game is over.
func (s *gameServiceImpl) finishLocked(sess *Session, res *ActionResult) *GameResult {
	if sess.Result != nil || !sess.Game.IsWin() {
		return nil
	}
	result := buildResult(sess)
	sess.Result = result
	s.metrics.IncGamesFinished()
	emit(res, EventGameOver, result.Winner.PlayerID, nil, result.Winner.Fortune,
		fmt.Sprintf("Game over: %s wins with %d", result.Winner.Name, result.Winner.Fortune))
	logger.Log.Infow("game finished", "session", sess.ID, "winner", result.Winner.Name, "fortune", result.Winner.Fortune, "rounds", result.Rounds)
	return result
}

func buildResult(sess *Session) *GameResult {
	g := sess.Game
	result := &GameResult{
		SessionID:  sess.ID,
		ConfigName: sess.ConfigName,
		Rounds:     g.RoundNum(),
		TotalMoves: g.TotalMoves(),
		FinishedAt: time.Now(),
	}
	for _, p := range g.Players() {
		st := Standing{PlayerID: p.ID(), Name: p.Name(), Money: p.Money(), Bankrupt: p.IsBankrupt(), NetFlow: sess.Ledger.NetFlow(p.ID())}
		if !p.IsBankrupt() {
			st.Fortune = g.TotalFortune(p)
		}
		result.Standings = append(result.Standings, st)
	}
	if winner, err := g.FindWinner(); err == nil {
		result.Winner = Standing{
			PlayerID: winner.ID(),
			Name:     winner.Name(),
			Money:    winner.Money(),
			Fortune:  g.TotalFortune(winner),
			NetFlow:  sess.Ledger.NetFlow(winner.ID()),
		}
	}
	return result
}

// GetGameState returns the current state of a game
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*GameView, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	return &GameView{
		SessionID:     sess.ID,
		CurrentPlayer: sess.Game.CurrentPlayerName(),
		Turn:          sess.Turn,
		GameOver:      sess.Game.IsWin(),
		Result:        sess.Result,
		State:         sess.Game.State(),
	}, nil
}

// GetWinner returns the result of a finished game.
func (s *gameServiceImpl) GetWinner(ctx context.Context, sessionID string) (*GameResult, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	if !sess.Game.IsWin() {
		return nil, fmt.Errorf("%w: round %d", ErrGameNotOver, sess.Game.RoundNum())
	}
	if sess.Result == nil {
		sess.Result = buildResult(sess)
	}
	return sess.Result, nil
}

// GetLedger returns a page of a game's transactions
func (s *gameServiceImpl) GetLedger(ctx context.Context, sessionID string, opts ledger.PageOptions) (*ledger.Page, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	page := sess.Ledger.Page(opts)
	return &page, nil
}

// ExportLedger writes a game's transactions to w as Parquet.
func (s *gameServiceImpl) ExportLedger(ctx context.Context, sessionID string, w io.Writer) error {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	return ledger.WriteParquet(w, sess.Ledger.Entries())
}

// ListConfigs returns available board definitions
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

func (s *gameServiceImpl) GetConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	return s.configs.LoadConfig(configName)
}

func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	if config == nil {
		return errors.New("config is nil")
	}
	return s.configs.SaveConfig(configName, config)
}

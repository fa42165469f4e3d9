package driver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/service"
	"github.com/wricardo/mcp-training/propertygame/logger"
)

const (
	// DefaultTurnLimit stops games on boards without a round cap.
	DefaultTurnLimit = 10000
	maxStepsPerTurn  = 64
)

var ErrTurnLimit = errors.New("turn limit reached")

// Driver plays a game session turn by turn, asking a Decider for every
// choice and reporting events to an output writer.
type Driver struct {
	svc       service.GameService
	sessionID string
	fallback  Decider
	deciders  map[string]Decider
	out       io.Writer
	turnLimit int
}

type Option func(*Driver)

// WithPlayerDecider lets the named player use d instead of the default.
func WithPlayerDecider(name string, d Decider) Option {
	return func(dr *Driver) { dr.deciders[name] = d }
}

func WithOutput(w io.Writer) Option {
	return func(dr *Driver) { dr.out = w }
}

func WithTurnLimit(n int) Option {
	return func(dr *Driver) { dr.turnLimit = n }
}

func New(svc service.GameService, sessionID string, fallback Decider, opts ...Option) *Driver {
	d := &Driver{
		svc:       svc,
		sessionID: sessionID,
		fallback:  fallback,
		deciders:  make(map[string]Decider),
		out:       io.Discard,
		turnLimit: DefaultTurnLimit,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run plays turns until the game is over and returns the result.
func (d *Driver) Run(ctx context.Context) (*service.GameResult, error) {
	for turns := 0; ; turns++ {
		if turns >= d.turnLimit {
			return nil, fmt.Errorf("%w: %d turns", ErrTurnLimit, turns)
		}
		over, err := d.PlayTurn(ctx)
		if err != nil {
			return nil, err
		}
		if over {
			break
		}
	}
	result, err := d.svc.GetWinner(ctx, d.sessionID)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(d.out, "Game over after %d rounds. Winner: %s with a fortune of %d\n",
		result.Rounds, result.Winner.Name, result.Winner.Fortune)
	return result, nil
}

// PlayTurn plays one full turn of the current player and reports whether
// the game is over afterwards.
func (d *Driver) PlayTurn(ctx context.Context) (bool, error) {
	view, err := d.svc.GetGameState(ctx, d.sessionID)
	if err != nil {
		return false, err
	}
	if view.GameOver {
		return true, nil
	}
	decider := d.deciderFor(view.CurrentPlayer)
	player := currentPlayer(view)
	if player == nil {
		return false, fmt.Errorf("%w: no current player", engine.ErrInvalidState)
	}

	if player.InJail && decider.PayJailFine(view) {
		res, err := d.svc.PayJailFine(ctx, d.sessionID)
		if err != nil {
			d.rejected("pay jail fine", err)
		} else {
			d.report(res)
		}
	}

	res, err := d.svc.RollDice(ctx, d.sessionID)
	if err != nil {
		return false, fmt.Errorf("roll: %w", err)
	}
	d.report(res)
	if res.GameOver {
		return true, nil
	}

	if res.Turn.RentPending {
		paid, err := d.settleRent(ctx, decider, res.Turn.RentAmount)
		if err != nil || !paid {
			return d.gameOver(ctx, err)
		}
	}

	view, err = d.svc.GetGameState(ctx, d.sessionID)
	if err != nil {
		return false, err
	}
	if p := currentPlayer(view); p != nil && p.Money < 0 {
		solvent, err := d.raiseCash(ctx, decider, -p.Money)
		if err != nil || !solvent {
			return d.gameOver(ctx, err)
		}
	}

	if err := d.offerPurchase(ctx, decider); err != nil {
		return false, err
	}
	if err := d.develop(ctx, decider); err != nil {
		return false, err
	}

	res, err = d.svc.EndTurn(ctx, d.sessionID)
	if err != nil {
		return false, fmt.Errorf("end turn: %w", err)
	}
	d.report(res)
	return res.GameOver, nil
}

func (d *Driver) deciderFor(name string) Decider {
	if dec, ok := d.deciders[name]; ok {
		return dec
	}
	return d.fallback
}

// settleRent pays pending rent, liquidating first when the player is short.
// It reports false when the player went bankrupt instead.
func (d *Driver) settleRent(ctx context.Context, decider Decider, owed int) (bool, error) {
	for {
		res, payErr := d.svc.PayRent(ctx, d.sessionID)
		if payErr == nil {
			d.report(res)
			return true, nil
		}
		if !errors.Is(payErr, service.ErrInsufficientFunds) {
			return false, fmt.Errorf("pay rent: %w", payErr)
		}
		view, err := d.svc.GetGameState(ctx, d.sessionID)
		if err != nil {
			return false, err
		}
		p := currentPlayer(view)
		if p == nil || owed <= p.Money {
			return false, fmt.Errorf("pay rent: %w", payErr)
		}
		solvent, err := d.raiseCash(ctx, decider, owed-p.Money)
		if err != nil || !solvent {
			return false, err
		}
	}
}

// raiseCash liquidates until the current player has gained short in cash.
// When even full liquidation cannot cover it, or the decider gives up, the
// player is declared bankrupt and false is returned.
func (d *Driver) raiseCash(ctx context.Context, decider Decider, short int) (bool, error) {
	for steps := 0; short > 0; steps++ {
		view, err := d.svc.GetGameState(ctx, d.sessionID)
		if err != nil {
			return false, err
		}
		p := currentPlayer(view)
		if p == nil {
			return false, fmt.Errorf("%w: no current player", engine.ErrInvalidState)
		}
		if steps >= maxStepsPerTurn || liquidationValue(view, p.ID) < short {
			return false, d.bankrupt(ctx)
		}
		step, ok := decider.Liquidate(view, short)
		if !ok {
			return false, d.bankrupt(ctx)
		}
		before := p.Money
		res, err := d.apply(ctx, step)
		if err != nil {
			d.rejected(string(step.Kind), err)
			continue
		}
		d.report(res)
		if after := currentPlayerState(res.GameState); after != nil {
			short -= after.Money - before
		}
	}
	return true, nil
}

func (d *Driver) bankrupt(ctx context.Context) error {
	res, err := d.svc.DeclareBankruptcy(ctx, d.sessionID)
	if err != nil {
		return fmt.Errorf("declare bankruptcy: %w", err)
	}
	d.report(res)
	return nil
}

func (d *Driver) gameOver(ctx context.Context, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	view, err := d.svc.GetGameState(ctx, d.sessionID)
	if err != nil {
		return false, err
	}
	return view.GameOver, nil
}

func (d *Driver) offerPurchase(ctx context.Context, decider Decider) error {
	view, err := d.svc.GetGameState(ctx, d.sessionID)
	if err != nil {
		return err
	}
	p := currentPlayer(view)
	if p == nil || p.InJail || p.Position >= len(view.State.Fields) {
		return nil
	}
	field := view.State.Fields[p.Position]
	if field.Price == 0 || field.Owner != nil || p.Money < field.Price {
		return nil
	}
	if !decider.BuyProperty(view, field) {
		return nil
	}
	res, err := d.svc.BuyProperty(ctx, d.sessionID)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientFunds) || errors.Is(err, engine.ErrNotForSale) {
			d.rejected("buy", err)
			return nil
		}
		return fmt.Errorf("buy: %w", err)
	}
	d.report(res)
	return nil
}

func (d *Driver) develop(ctx context.Context, decider Decider) error {
	for steps := 0; steps < maxStepsPerTurn; steps++ {
		view, err := d.svc.GetGameState(ctx, d.sessionID)
		if err != nil {
			return err
		}
		step, ok := decider.NextDevelopment(view)
		if !ok {
			return nil
		}
		res, err := d.apply(ctx, step)
		if err != nil {
			if isRuleError(err) {
				d.rejected(string(step.Kind), err)
				continue
			}
			return err
		}
		d.report(res)
	}
	return nil
}

func (d *Driver) apply(ctx context.Context, step Step) (*service.ActionResult, error) {
	switch step.Kind {
	case StepBuildHouse:
		return d.svc.BuildHouse(ctx, d.sessionID, step.FieldID)
	case StepBuildHotel:
		return d.svc.BuildHotel(ctx, d.sessionID, step.FieldID)
	case StepSellHouse:
		return d.svc.SellHouse(ctx, d.sessionID, step.FieldID)
	case StepSellHotel:
		return d.svc.SellHotel(ctx, d.sessionID, step.FieldID)
	case StepMortgage:
		return d.svc.Mortgage(ctx, d.sessionID, step.FieldID)
	case StepLiftMortgage:
		return d.svc.LiftMortgage(ctx, d.sessionID, step.FieldID)
	default:
		return nil, fmt.Errorf("unknown step %q", step.Kind)
	}
}

func (d *Driver) report(res *service.ActionResult) {
	for _, ev := range res.Events {
		fmt.Fprintln(d.out, ev.Message)
	}
}

func (d *Driver) rejected(action string, err error) {
	fmt.Fprintf(d.out, "%s rejected: %v\n", action, err)
	logger.Log.Debugw("action rejected", "session", d.sessionID, "action", action, "error", err)
}

// isRuleError reports whether err is a recoverable rule violation the
// player can be re-asked about.
func isRuleError(err error) bool {
	return errors.Is(err, engine.ErrHousesNum) ||
		errors.Is(err, engine.ErrMortgage) ||
		errors.Is(err, service.ErrInsufficientFunds)
}

func currentPlayerState(state *engine.GameState) *engine.PlayerState {
	if state == nil {
		return nil
	}
	return currentPlayer(&service.GameView{State: state})
}

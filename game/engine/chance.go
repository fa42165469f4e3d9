package engine

import "fmt"

// ChanceAction is what a chance card does to the drawing player's balance.
type ChanceAction string

const (
	ActionPay  ChanceAction = "pay"
	ActionEarn ChanceAction = "earn"
)

// ChanceCard is one card of the board's cyclic deck.
type ChanceCard struct {
	ID          int          `json:"id"`
	Description string       `json:"description"`
	Action      ChanceAction `json:"action"`
	Amount      int          `json:"amount"`
}

func (c ChanceCard) Validate() error {
	if c.Action != ActionPay && c.Action != ActionEarn {
		return fmt.Errorf("%w: card %d has action %q", ErrChanceAction, c.ID, c.Action)
	}
	if c.Amount < 0 {
		return fmt.Errorf("%w: card %d amount %d", ErrInvalidAmount, c.ID, c.Amount)
	}
	return nil
}

// Apply changes p's balance by the card amount.
func (c ChanceCard) Apply(p *Player) error {
	switch c.Action {
	case ActionPay:
		return p.SpendMoney(c.Amount)
	case ActionEarn:
		return p.EarnMoney(c.Amount)
	default:
		return fmt.Errorf("%w: card %d has action %q", ErrChanceAction, c.ID, c.Action)
	}
}

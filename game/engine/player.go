package engine

import (
	"fmt"
	"sort"
)

const (
	MinDiceSum = 2
	MaxDiceSum = 12
)

// Player holds one participant's money, position and owned field ids.
// Ownership is stored on both sides; Game keeps the owned set and each
// field's owner id in agreement.
type Player struct {
	id           int
	name         string
	money        int
	position     int
	diceSum      int
	owned        map[int]struct{}
	inJail       bool
	jailAttempts int
	bankrupt     bool
	passedStart  bool
}

func NewPlayer(id int, name string, money int) *Player {
	return &Player{
		id:    id,
		name:  name,
		money: money,
		owned: make(map[int]struct{}),
	}
}

func (p *Player) ID() int            { return p.id }
func (p *Player) Name() string       { return p.name }
func (p *Player) Money() int         { return p.money }
func (p *Player) Position() int      { return p.position }
func (p *Player) DiceRollSum() int   { return p.diceSum }
func (p *Player) IsInJail() bool     { return p.inJail }
func (p *Player) JailAttempts() int  { return p.jailAttempts }
func (p *Player) IsBankrupt() bool   { return p.bankrupt }
func (p *Player) PassedStart() bool  { return p.passedStart }
func (p *Player) PropertyCount() int { return len(p.owned) }

// CanAfford reports whether the balance covers amount.
func (p *Player) CanAfford(amount int) bool {
	return p.money >= amount
}

// Owns reports whether fieldID is in the player's owned set.
func (p *Player) Owns(fieldID int) bool {
	_, ok := p.owned[fieldID]
	return ok
}

// OwnedFieldIDs returns the owned field ids in ascending order.
func (p *Player) OwnedFieldIDs() []int {
	ids := make([]int, 0, len(p.owned))
	for id := range p.owned {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (p *Player) EarnMoney(amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: earn %d", ErrInvalidAmount, amount)
	}
	p.money += amount
	return nil
}

// SpendMoney deducts amount. The balance may go negative; resolving the
// debt is up to the caller.
func (p *Player) SpendMoney(amount int) error {
	if amount < 0 {
		return fmt.Errorf("%w: spend %d", ErrInvalidAmount, amount)
	}
	p.money -= amount
	return nil
}

func (p *Player) SetDiceRollSum(sum int) error {
	if sum < MinDiceSum || sum > MaxDiceSum {
		return fmt.Errorf("%w: %d", ErrDiceSum, sum)
	}
	p.diceSum = sum
	return nil
}

// MovePawn advances by the last dice sum on a board of boardSize fields.
// PassedStart is true only when this move wrapped past or onto field 0.
func (p *Player) MovePawn(boardSize int) {
	maxIndex := boardSize - 1
	p.passedStart = p.diceSum > maxIndex-p.position
	p.position = (p.position + p.diceSum) % boardSize
}

func (p *Player) SetPosition(position, boardSize int) error {
	if position < 0 || position >= boardSize {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrPosition, position, boardSize)
	}
	p.position = position
	return nil
}

func (p *Player) AddProperty(fieldID int) error {
	if p.Owns(fieldID) {
		return fmt.Errorf("%w: player %q already owns field %d", ErrFieldID, p.name, fieldID)
	}
	p.owned[fieldID] = struct{}{}
	return nil
}

func (p *Player) RemoveProperty(fieldID int) error {
	if !p.Owns(fieldID) {
		return fmt.Errorf("%w: player %q does not own field %d", ErrFieldID, p.name, fieldID)
	}
	delete(p.owned, fieldID)
	return nil
}

// PutInJail moves the pawn straight to jailFieldID without passing start.
func (p *Player) PutInJail(jailFieldID int) error {
	if p.inJail {
		return fmt.Errorf("%w: player %q is already in jail", ErrJail, p.name)
	}
	p.inJail = true
	p.jailAttempts = 0
	p.position = jailFieldID
	p.passedStart = false
	return nil
}

func (p *Player) GetOutOfJail() error {
	if !p.inJail {
		return fmt.Errorf("%w: player %q is not in jail", ErrJail, p.name)
	}
	p.inJail = false
	p.jailAttempts = 0
	return nil
}

func (p *Player) markBankrupt() {
	p.owned = make(map[int]struct{})
	p.money = 0
	p.inJail = false
	p.jailAttempts = 0
	p.bankrupt = true
}

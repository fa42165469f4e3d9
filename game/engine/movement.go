package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Dice is the external randomness source for rolls.
type Dice interface {
	Roll() DiceRoll
}

// RandomDice rolls two independent uniform values in [1, DiceFaces].
type RandomDice struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomDice seeds the dice; a zero seed uses the current time.
func NewRandomDice(seed int64) *RandomDice {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomDice{rng: rand.New(rand.NewSource(seed))}
}

func (d *RandomDice) Roll() DiceRoll {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DiceRoll{
		First:  d.rng.Intn(DiceFaces) + 1,
		Second: d.rng.Intn(DiceFaces) + 1,
	}
}

// SequenceDice replays a fixed list of rolls, cycling when exhausted.
type SequenceDice struct {
	rolls []DiceRoll
	next  int
}

func NewSequenceDice(rolls ...DiceRoll) *SequenceDice {
	return &SequenceDice{rolls: rolls}
}

func (d *SequenceDice) Roll() DiceRoll {
	if len(d.rolls) == 0 {
		return DiceRoll{First: 1, Second: 2}
	}
	r := d.rolls[d.next]
	d.next = (d.next + 1) % len(d.rolls)
	return r
}

// DiceRoll rolls for the current player and remembers the result.
func (g *Game) DiceRoll() (DiceRoll, error) {
	if _, err := g.checkTurn(); err != nil {
		return DiceRoll{}, err
	}
	roll := g.dice.Roll()
	if err := validateRoll(roll); err != nil {
		return DiceRoll{}, err
	}
	g.lastRoll = roll
	return roll, nil
}

// SetDiceRoll injects a roll produced outside the engine.
func (g *Game) SetDiceRoll(roll DiceRoll) error {
	if _, err := g.checkTurn(); err != nil {
		return err
	}
	if err := validateRoll(roll); err != nil {
		return err
	}
	g.lastRoll = roll
	return nil
}

func (g *Game) LastRoll() DiceRoll {
	return g.lastRoll
}

// MovePawnNumberOfDots applies the last roll to the current player. A jailed
// player leaves on doubles; otherwise the attempt is counted and, once the
// allowed attempts are used up, the fine is charged and the pawn moves.
func (g *Game) MovePawnNumberOfDots() (MoveResult, error) {
	p, err := g.checkTurn()
	if err != nil {
		return MoveResult{}, err
	}
	roll := g.lastRoll
	if err := validateRoll(roll); err != nil {
		return MoveResult{}, err
	}

	result := MoveResult{PlayerID: p.id, Roll: roll, From: p.position, To: p.position}

	if p.inJail {
		if roll.IsDouble() {
			result.LeftJail = true
		} else {
			p.jailAttempts++
			if p.jailAttempts < g.rules.MaxJailAttempts {
				result.StayedInJail = true
				return result, nil
			}
			if err := p.SpendMoney(g.rules.JailFine); err != nil {
				return result, err
			}
			result.LeftJail = true
			result.JailFinePaid = g.rules.JailFine
		}
		if err := p.GetOutOfJail(); err != nil {
			return result, err
		}
	}

	if err := p.SetDiceRollSum(roll.Sum()); err != nil {
		return result, err
	}
	p.MovePawn(g.board.Size())
	result.Moved = true
	result.To = p.position
	result.PassedStart = p.passedStart

	if p.passedStart && g.rules.StartBonus > 0 {
		if err := p.EarnMoney(g.rules.StartBonus); err != nil {
			return result, err
		}
		result.StartBonus = g.rules.StartBonus
	}
	return result, nil
}

// PayJailFine releases the current player from jail for the fine.
func (g *Game) PayJailFine() error {
	p, err := g.checkTurn()
	if err != nil {
		return err
	}
	if !p.inJail {
		return fmt.Errorf("%w: player %q is not in jail", ErrJail, p.name)
	}
	if !p.CanAfford(g.rules.JailFine) {
		return fmt.Errorf("%w: %q cannot afford the %d fine", ErrJail, p.name, g.rules.JailFine)
	}
	if err := p.GetOutOfJail(); err != nil {
		return err
	}
	return p.SpendMoney(g.rules.JailFine)
}

// SendToJail jails the current player on the board's jail field.
func (g *Game) SendToJail() error {
	p, err := g.checkTurn()
	if err != nil {
		return err
	}
	if g.board.JailFieldID() == NoJail {
		return fmt.Errorf("%w: board has no jail", ErrJail)
	}
	return p.PutInJail(g.board.JailFieldID())
}

func validateRoll(r DiceRoll) error {
	if r.First < 1 || r.First > DiceFaces || r.Second < 1 || r.Second > DiceFaces {
		return fmt.Errorf("%w: roll %d+%d", ErrDiceSum, r.First, r.Second)
	}
	return nil
}

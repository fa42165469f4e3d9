package driver

import (
	"sort"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/service"
)

// StepKind names one development or liquidation action.
type StepKind string

const (
	StepBuildHouse   StepKind = "build_house"
	StepBuildHotel   StepKind = "build_hotel"
	StepSellHouse    StepKind = "sell_house"
	StepSellHotel    StepKind = "sell_hotel"
	StepMortgage     StepKind = "mortgage"
	StepLiftMortgage StepKind = "lift_mortgage"
)

// Step is a single action on one of the current player's fields.
type Step struct {
	Kind    StepKind
	FieldID int
}

// Decider makes the choices a player has during a turn. Every method gets a
// fresh view of the game.
type Decider interface {
	// PayJailFine is asked before rolling while the player is in jail.
	PayJailFine(view *service.GameView) bool
	// BuyProperty is asked when the player stands on an unowned field they
	// can afford.
	BuyProperty(view *service.GameView, field engine.FieldState) bool
	// NextDevelopment returns the next build or lift step, false to stop.
	NextDevelopment(view *service.GameView) (Step, bool)
	// Liquidate returns the next step that raises cash toward owed, false
	// to give up and declare bankruptcy.
	Liquidate(view *service.GameView, owed int) (Step, bool)
}

// AutoDecider is a greedy policy: buy whatever is affordable, develop
// complete colour sets while keeping a cash reserve, and liquidate hotels,
// houses then mortgages when short.
type AutoDecider struct {
	// Reserve is the cash kept back when buying and building.
	Reserve int
}

func NewAutoDecider(reserve int) *AutoDecider {
	return &AutoDecider{Reserve: reserve}
}

func (d *AutoDecider) PayJailFine(view *service.GameView) bool {
	p := currentPlayer(view)
	return p != nil && p.Money-view.State.Rules.JailFine >= d.Reserve
}

func (d *AutoDecider) BuyProperty(view *service.GameView, field engine.FieldState) bool {
	p := currentPlayer(view)
	return p != nil && p.Money-field.Price >= d.Reserve
}

func (d *AutoDecider) NextDevelopment(view *service.GameView) (Step, bool) {
	p := currentPlayer(view)
	if p == nil {
		return Step{}, false
	}
	owned := ownedFields(view, p.ID)

	for _, f := range owned {
		if f.Mortgaged && p.Money-liftCost(f) >= d.Reserve {
			return Step{Kind: StepLiftMortgage, FieldID: f.ID}, true
		}
	}

	for _, group := range completeSets(view, p.ID) {
		lowest := group[0]
		for _, f := range group[1:] {
			if level(f) < level(lowest) {
				lowest = f
			}
		}
		switch {
		case lowest.Hotel:
			continue
		case lowest.Houses < engine.MaxHousesPerStreet:
			if p.Money-lowest.HouseCost >= d.Reserve {
				return Step{Kind: StepBuildHouse, FieldID: lowest.ID}, true
			}
		default:
			if p.Money-lowest.HotelCost >= d.Reserve {
				return Step{Kind: StepBuildHotel, FieldID: lowest.ID}, true
			}
		}
	}
	return Step{}, false
}

func (d *AutoDecider) Liquidate(view *service.GameView, owed int) (Step, bool) {
	p := currentPlayer(view)
	if p == nil {
		return Step{}, false
	}
	return liquidationStep(view, p.ID)
}

// liquidationStep picks the next sale that keeps building even: hotels
// first, then houses from the most developed street, then mortgages.
func liquidationStep(view *service.GameView, playerID int) (Step, bool) {
	owned := ownedFields(view, playerID)

	var top *engine.FieldState
	for i := range owned {
		f := &owned[i]
		if f.Kind != engine.KindStreet || level(*f) == 0 {
			continue
		}
		if top == nil || level(*f) > level(*top) {
			top = f
		}
	}
	if top != nil {
		if top.Hotel {
			return Step{Kind: StepSellHotel, FieldID: top.ID}, true
		}
		return Step{Kind: StepSellHouse, FieldID: top.ID}, true
	}

	for _, f := range owned {
		if !f.Mortgaged {
			return Step{Kind: StepMortgage, FieldID: f.ID}, true
		}
	}
	return Step{}, false
}

// liquidationValue is the cash a player could still raise by selling every
// building and mortgaging every field.
func liquidationValue(view *service.GameView, playerID int) int {
	total := 0
	for _, f := range ownedFields(view, playerID) {
		if f.Mortgaged {
			continue
		}
		total += f.MortgagePrice
		if f.Hotel {
			total += f.HotelCost + engine.MaxHousesPerStreet*f.HouseCost
		} else {
			total += f.Houses * f.HouseCost
		}
	}
	return total
}

func currentPlayer(view *service.GameView) *engine.PlayerState {
	if view == nil || view.State == nil {
		return nil
	}
	idx := view.State.CurrentPlayer
	if idx < 0 || idx >= len(view.State.Players) {
		return nil
	}
	return &view.State.Players[idx]
}

func ownedFields(view *service.GameView, playerID int) []engine.FieldState {
	var out []engine.FieldState
	for _, f := range view.State.Fields {
		if f.Owner != nil && *f.Owner == playerID {
			out = append(out, f)
		}
	}
	return out
}

// completeSets returns the street groups wholly owned by playerID with no
// mortgaged member, ordered by colour name.
func completeSets(view *service.GameView, playerID int) [][]engine.FieldState {
	groups := make(map[string][]engine.FieldState)
	for _, f := range view.State.Fields {
		if f.Colour != "" {
			groups[f.Colour] = append(groups[f.Colour], f)
		}
	}
	colours := make([]string, 0, len(groups))
	for c := range groups {
		colours = append(colours, c)
	}
	sort.Strings(colours)

	var sets [][]engine.FieldState
	for _, c := range colours {
		group := groups[c]
		complete := true
		for _, f := range group {
			if f.Kind != engine.KindStreet || f.Owner == nil || *f.Owner != playerID || f.Mortgaged {
				complete = false
				break
			}
		}
		if complete {
			sets = append(sets, group)
		}
	}
	return sets
}

func level(f engine.FieldState) int {
	if f.Hotel {
		return engine.MaxHousesPerStreet + 1
	}
	return f.Houses
}

func liftCost(f engine.FieldState) int {
	m := f.MortgagePrice
	return m + (m+engine.MortgageRatio-1)/engine.MortgageRatio
}

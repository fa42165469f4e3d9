package engine

import "fmt"

// OwnsAllOfColour reports whether the current player owns every field of
// prop's colour group.
func (g *Game) OwnsAllOfColour(prop Ownable) bool {
	p := g.CurrentPlayer()
	if p == nil {
		return false
	}
	size := g.board.MaxNumberOfSameColour(prop.Colour())
	if size == 0 {
		return false
	}
	owned := 0
	for _, id := range p.OwnedFieldIDs() {
		other, err := g.board.Property(id)
		if err != nil {
			continue
		}
		if other.Colour() == prop.Colour() {
			owned++
		}
	}
	return owned == size
}

// siblings returns the other streets in s's colour group.
func (g *Game) siblings(s *Street) []*Street {
	group, err := g.board.FieldsOfColour(s.Colour())
	if err != nil {
		return nil
	}
	var out []*Street
	for _, f := range group {
		if other, ok := f.(*Street); ok && other.ID() != s.ID() {
			out = append(out, other)
		}
	}
	return out
}

// HousesBuildEvenly reports whether s may take another house: no sibling in
// its colour group may have fewer houses. A sibling hotel counts as four.
func (g *Game) HousesBuildEvenly(s *Street) bool {
	for _, sib := range g.siblings(s) {
		if sib.hotel && !s.hotel {
			return false
		}
		if sib.level() < s.level() {
			return false
		}
	}
	return true
}

// HotelsBuildEvenly reports whether every sibling has four houses or a hotel.
func (g *Game) HotelsBuildEvenly(s *Street) bool {
	for _, sib := range g.siblings(s) {
		if sib.houses != MaxHousesPerStreet && !sib.hotel {
			return false
		}
	}
	return true
}

// sellsEvenly reports whether s is at the top development tier of its group.
func (g *Game) sellsEvenly(s *Street) bool {
	for _, sib := range g.siblings(s) {
		if sib.level() > s.level() {
			return false
		}
	}
	return true
}

// ownedStreet resolves fieldID to a street owned by the current player.
func (g *Game) ownedStreet(fieldID int) (*Player, *Street, error) {
	p, err := g.checkTurn()
	if err != nil {
		return nil, nil, err
	}
	s, err := g.board.Street(fieldID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrHousesNum, err)
	}
	if owner, owned := s.Owner(); !owned || owner != p.id {
		return nil, nil, fmt.Errorf("%w: %w: %q", ErrHousesNum, ErrOwnership, s.Name())
	}
	return p, s, nil
}

// canDevelop holds the checks shared by house and hotel building.
func (g *Game) canDevelop(p *Player, s *Street, cost int) error {
	if s.IsMortgaged() {
		return fmt.Errorf("%w: %q is mortgaged", ErrHousesNum, s.Name())
	}
	if !g.OwnsAllOfColour(s) {
		return fmt.Errorf("%w: %q does not own every %s field", ErrHousesNum, p.name, s.Colour())
	}
	if !p.CanAfford(cost) {
		return fmt.Errorf("%w: %q cannot afford %d", ErrHousesNum, p.name, cost)
	}
	return nil
}

func (g *Game) BuildHouse(fieldID int) error {
	p, s, err := g.ownedStreet(fieldID)
	if err != nil {
		return err
	}
	if err := g.canDevelop(p, s, s.houseCost); err != nil {
		return err
	}
	if !g.HousesBuildEvenly(s) {
		return fmt.Errorf("%w: houses on %s must be built evenly", ErrHousesNum, s.Colour())
	}
	if err := s.AddHouse(); err != nil {
		return err
	}
	return p.SpendMoney(s.houseCost)
}

func (g *Game) BuildHotel(fieldID int) error {
	p, s, err := g.ownedStreet(fieldID)
	if err != nil {
		return err
	}
	if err := g.canDevelop(p, s, s.hotelCost); err != nil {
		return err
	}
	if !g.HotelsBuildEvenly(s) {
		return fmt.Errorf("%w: every %s street needs %d houses first", ErrHousesNum, s.Colour(), MaxHousesPerStreet)
	}
	if err := s.AddHotel(); err != nil {
		return err
	}
	return p.SpendMoney(s.hotelCost)
}

// SellHouse removes one house and refunds its cost.
func (g *Game) SellHouse(fieldID int) error {
	p, s, err := g.ownedStreet(fieldID)
	if err != nil {
		return err
	}
	if s.hotel {
		return fmt.Errorf("%w: sell the hotel on %q first", ErrHousesNum, s.Name())
	}
	if !g.sellsEvenly(s) {
		return fmt.Errorf("%w: houses on %s must be sold evenly", ErrHousesNum, s.Colour())
	}
	if err := s.RemoveHouse(); err != nil {
		return err
	}
	return p.EarnMoney(s.houseCost)
}

// SellHotel turns the hotel back into four houses and refunds its cost.
func (g *Game) SellHotel(fieldID int) error {
	p, s, err := g.ownedStreet(fieldID)
	if err != nil {
		return err
	}
	if !g.sellsEvenly(s) {
		return fmt.Errorf("%w: hotels on %s must be sold evenly", ErrHousesNum, s.Colour())
	}
	if err := s.RemoveHotel(); err != nil {
		return err
	}
	return p.EarnMoney(s.hotelCost)
}

// ownedProperty resolves fieldID to a field owned by the current player.
func (g *Game) ownedProperty(fieldID int) (*Player, Ownable, error) {
	p, err := g.checkTurn()
	if err != nil {
		return nil, nil, err
	}
	prop, err := g.board.Property(fieldID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMortgage, err)
	}
	if owner, owned := prop.Owner(); !owned || owner != p.id {
		return nil, nil, fmt.Errorf("%w: %w: %q", ErrMortgage, ErrOwnership, prop.Name())
	}
	return p, prop, nil
}

// Mortgage pledges an undeveloped field to the bank for its mortgage value.
func (g *Game) Mortgage(fieldID int) error {
	p, prop, err := g.ownedProperty(fieldID)
	if err != nil {
		return err
	}
	if s, ok := prop.(*Street); ok && s.IsHouseToSell() {
		return fmt.Errorf("%w: %q still has buildings", ErrMortgage, s.Name())
	}
	if err := prop.DoMortgage(); err != nil {
		return err
	}
	return p.EarnMoney(prop.MortgagePrice())
}

// LiftMortgage buys a field back for LiftMortgageCost.
func (g *Game) LiftMortgage(fieldID int) error {
	p, prop, err := g.ownedProperty(fieldID)
	if err != nil {
		return err
	}
	if !prop.IsMortgaged() {
		return fmt.Errorf("%w: %q is not mortgaged", ErrMortgage, prop.Name())
	}
	cost := LiftMortgageCost(prop)
	if !p.CanAfford(cost) {
		return fmt.Errorf("%w: %q cannot afford %d", ErrMortgage, p.name, cost)
	}
	if err := prop.LiftMortgage(); err != nil {
		return err
	}
	return p.SpendMoney(cost)
}

// LiftMortgageCost is the mortgage value plus ten percent, rounded up.
func LiftMortgageCost(prop Ownable) int {
	m := prop.MortgagePrice()
	return m + (m+MortgageRatio-1)/MortgageRatio
}

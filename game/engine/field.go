package engine

import "fmt"

// FieldKind tags the concrete variant behind a Field.
type FieldKind string

const (
	KindPlain    FieldKind = "plain"
	KindProperty FieldKind = "property"
	KindStreet   FieldKind = "street"
	KindSpecial  FieldKind = "special"
)

// SpecialKind identifies what happens on a non-ownable field.
type SpecialKind string

const (
	SpecialStart       SpecialKind = "start"
	SpecialJail        SpecialKind = "jail"
	SpecialFreeParking SpecialKind = "free_parking"
	SpecialChance      SpecialKind = "chance"
	SpecialTax         SpecialKind = "tax"
	SpecialGoToJail    SpecialKind = "go_to_jail"
)

const (
	MaxHousesPerStreet = 4
	hotelLevel         = MaxHousesPerStreet + 1
)

// Field is a single board position. The set of implementations is closed:
// *PlainField, *Property, *Street and *SpecialField.
type Field interface {
	ID() int
	Name() string
	Kind() FieldKind
	field()
}

// Ownable is implemented by *Property and *Street.
type Ownable interface {
	Field
	Colour() string
	Price() int
	MortgagePrice() int
	BaseRent() int
	CurrentRent() int
	Owner() (playerID int, owned bool)
	IsMortgaged() bool
	SetOwner(playerID int)
	DoMortgage() error
	LiftMortgage() error
	ReturnToBank()
	TotalValue() int
}

// PlainField is a field with identity only.
type PlainField struct {
	id   int
	name string
}

func NewPlainField(id int, name string) *PlainField {
	return &PlainField{id: id, name: name}
}

func (f *PlainField) ID() int         { return f.id }
func (f *PlainField) Name() string    { return f.name }
func (f *PlainField) Kind() FieldKind { return KindPlain }
func (f *PlainField) field()          {}

// SpecialField is a non-ownable field such as start, jail or a tax square.
// Amount is only meaningful for SpecialTax.
type SpecialField struct {
	id     int
	name   string
	kind   SpecialKind
	amount int
}

func NewSpecialField(id int, name string, kind SpecialKind, amount int) *SpecialField {
	return &SpecialField{id: id, name: name, kind: kind, amount: amount}
}

func (f *SpecialField) ID() int                  { return f.id }
func (f *SpecialField) Name() string             { return f.name }
func (f *SpecialField) Kind() FieldKind          { return KindSpecial }
func (f *SpecialField) SpecialKind() SpecialKind { return f.kind }
func (f *SpecialField) Amount() int              { return f.amount }
func (f *SpecialField) field()                   {}

// Property is an ownable field without development.
type Property struct {
	id            int
	name          string
	colour        string
	price         int
	mortgagePrice int
	baseRent      int
	currentRent   int
	ownerID       int
	owned         bool
	mortgaged     bool
}

func NewProperty(id int, name, colour string, price, mortgagePrice, baseRent int) *Property {
	return &Property{
		id:            id,
		name:          name,
		colour:        colour,
		price:         price,
		mortgagePrice: mortgagePrice,
		baseRent:      baseRent,
		currentRent:   baseRent,
	}
}

func (p *Property) ID() int            { return p.id }
func (p *Property) Name() string       { return p.name }
func (p *Property) Kind() FieldKind    { return KindProperty }
func (p *Property) Colour() string     { return p.colour }
func (p *Property) Price() int         { return p.price }
func (p *Property) MortgagePrice() int { return p.mortgagePrice }
func (p *Property) BaseRent() int      { return p.baseRent }
func (p *Property) CurrentRent() int   { return p.currentRent }
func (p *Property) IsMortgaged() bool  { return p.mortgaged }
func (p *Property) field()             {}

// Owner returns the owning player's id, or false when the bank holds the field.
func (p *Property) Owner() (int, bool) {
	return p.ownerID, p.owned
}

// SetOwner overwrites the owner. Purchase legality is checked by Game.
func (p *Property) SetOwner(playerID int) {
	p.ownerID = playerID
	p.owned = true
}

func (p *Property) clearOwner() {
	p.ownerID = 0
	p.owned = false
}

func (p *Property) DoMortgage() error {
	if err := p.setMortgaged(true); err != nil {
		return err
	}
	p.updateRent()
	return nil
}

func (p *Property) LiftMortgage() error {
	if err := p.setMortgaged(false); err != nil {
		return err
	}
	p.updateRent()
	return nil
}

// ReturnToBank clears ownership and any mortgage.
func (p *Property) ReturnToBank() {
	p.clearOwner()
	p.mortgaged = false
	p.updateRent()
}

// TotalValue is the liquidation value used for fortune accounting.
func (p *Property) TotalValue() int {
	if p.mortgaged {
		return 0
	}
	return p.price / 2
}

func (p *Property) setMortgaged(mortgaged bool) error {
	if p.mortgaged == mortgaged {
		if mortgaged {
			return fmt.Errorf("%w: %q is already mortgaged", ErrMortgage, p.name)
		}
		return fmt.Errorf("%w: %q is not mortgaged", ErrMortgage, p.name)
	}
	p.mortgaged = mortgaged
	return nil
}

func (p *Property) updateRent() {
	if p.mortgaged {
		p.currentRent = 0
		return
	}
	p.currentRent = p.baseRent
}

// RentTable holds a street's rent per development tier.
type RentTable struct {
	Houses [MaxHousesPerStreet]int `json:"house_rents"`
	Hotel  int                     `json:"hotel_rent"`
}

// Street is a property that can be developed with houses and a hotel.
// A hotel replaces the four houses it was built on.
type Street struct {
	Property
	rents     RentTable
	houseCost int
	hotelCost int
	houses    int
	hotel     bool
}

func NewStreet(id int, name, colour string, price, mortgagePrice, baseRent int, rents RentTable, houseCost, hotelCost int) *Street {
	return &Street{
		Property:  *NewProperty(id, name, colour, price, mortgagePrice, baseRent),
		rents:     rents,
		houseCost: houseCost,
		hotelCost: hotelCost,
	}
}

func (s *Street) Kind() FieldKind  { return KindStreet }
func (s *Street) Rents() RentTable { return s.rents }
func (s *Street) HouseCost() int   { return s.houseCost }
func (s *Street) HotelCost() int   { return s.hotelCost }
func (s *Street) Houses() int      { return s.houses }
func (s *Street) HasHotel() bool   { return s.hotel }

// IsHouseToSell reports whether the street carries any development.
func (s *Street) IsHouseToSell() bool {
	return s.houses > 0 || s.hotel
}

// level orders development tiers; a hotel ranks above four houses.
func (s *Street) level() int {
	if s.hotel {
		return hotelLevel
	}
	return s.houses
}

func (s *Street) DoMortgage() error {
	if err := s.setMortgaged(true); err != nil {
		return err
	}
	s.updateRent()
	return nil
}

func (s *Street) LiftMortgage() error {
	if err := s.setMortgaged(false); err != nil {
		return err
	}
	s.updateRent()
	return nil
}

// ReturnToBank clears ownership, mortgage and all development.
func (s *Street) ReturnToBank() {
	s.clearOwner()
	s.mortgaged = false
	s.houses = 0
	s.hotel = false
	s.updateRent()
}

func (s *Street) TotalValue() int {
	if s.mortgaged {
		return 0
	}
	value := s.price/2 + s.houses*s.houseCost
	if s.hotel {
		value += s.hotelCost
	}
	return value
}

func (s *Street) AddHouse() error {
	if s.hotel {
		return fmt.Errorf("%w: %q already has a hotel", ErrHousesNum, s.name)
	}
	if s.houses >= MaxHousesPerStreet {
		return fmt.Errorf("%w: %q already has %d houses", ErrHousesNum, s.name, MaxHousesPerStreet)
	}
	s.houses++
	s.updateRent()
	return nil
}

func (s *Street) RemoveHouse() error {
	if s.houses == 0 {
		return fmt.Errorf("%w: %q has no houses", ErrHousesNum, s.name)
	}
	s.houses--
	s.updateRent()
	return nil
}

func (s *Street) AddHotel() error {
	if s.hotel {
		return fmt.Errorf("%w: %q already has a hotel", ErrHousesNum, s.name)
	}
	if s.houses != MaxHousesPerStreet {
		return fmt.Errorf("%w: %q needs %d houses before a hotel, has %d", ErrHousesNum, s.name, MaxHousesPerStreet, s.houses)
	}
	s.hotel = true
	s.houses = 0
	s.updateRent()
	return nil
}

// RemoveHotel turns the hotel back into four houses.
func (s *Street) RemoveHotel() error {
	if !s.hotel {
		return fmt.Errorf("%w: %q has no hotel", ErrHousesNum, s.name)
	}
	s.hotel = false
	s.houses = MaxHousesPerStreet
	s.updateRent()
	return nil
}

// updateRent applies mortgage, hotel, houses, base rent in that priority.
func (s *Street) updateRent() {
	switch {
	case s.mortgaged:
		s.currentRent = 0
	case s.hotel:
		s.currentRent = s.rents.Hotel
	case s.houses > 0:
		s.currentRent = s.rents.Houses[s.houses-1]
	default:
		s.currentRent = s.baseRent
	}
}

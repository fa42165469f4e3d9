package engine

const (
	DefaultStartingMoney   = 1500
	DefaultStartBonus      = 200
	DefaultJailFine        = 50
	DefaultMaxRounds       = 20
	DefaultMaxJailAttempts = 3

	// Validation constants
	MinPlayers    = 1
	MaxPlayers    = 8
	MaxBoardSize  = 100
	DiceFaces     = 6
	MortgageRatio = 10 // lifting costs mortgage value plus 1/MortgageRatio
)

// Rules are the numeric house rules a game is played with.
type Rules struct {
	StartingMoney   int `json:"starting_money"`
	StartBonus      int `json:"start_bonus"`
	JailFine        int `json:"jail_fine"`
	MaxRounds       int `json:"max_rounds"`
	MaxJailAttempts int `json:"max_jail_attempts"`
}

// DefaultRules returns the rules used when a board config leaves them unset.
func DefaultRules() Rules {
	return Rules{
		StartingMoney:   DefaultStartingMoney,
		StartBonus:      DefaultStartBonus,
		JailFine:        DefaultJailFine,
		MaxRounds:       DefaultMaxRounds,
		MaxJailAttempts: DefaultMaxJailAttempts,
	}
}

// BoardConfig is the JSON form of a board definition.
type BoardConfig struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Rules       *Rules               `json:"rules,omitempty"`
	Colours     map[string]int       `json:"colours"`
	Properties  []PropertyConfig     `json:"properties"`
	Specials    []SpecialFieldConfig `json:"specials"`
	ChanceCards []ChanceCard         `json:"chance_cards"`
}

// PropertyConfig describes an ownable field. Street is set for developable
// fields.
type PropertyConfig struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	Colour   string        `json:"colour"`
	Price    int           `json:"price"`
	Mortgage int           `json:"mortgage"`
	Rent     int           `json:"rent"`
	Street   *StreetConfig `json:"street,omitempty"`
}

type StreetConfig struct {
	HouseRents [MaxHousesPerStreet]int `json:"house_rents"`
	HotelRent  int                     `json:"hotel_rent"`
	HouseCost  int                     `json:"house_cost"`
	HotelCost  int                     `json:"hotel_cost"`
}

type SpecialFieldConfig struct {
	ID     int         `json:"id"`
	Name   string      `json:"name"`
	Kind   SpecialKind `json:"kind"`
	Amount int         `json:"amount,omitempty"`
}

// DiceRoll is the pair of values from one roll.
type DiceRoll struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

func (r DiceRoll) Sum() int {
	return r.First + r.Second
}

func (r DiceRoll) IsDouble() bool {
	return r.First != 0 && r.First == r.Second
}

// MoveResult describes what MovePawnNumberOfDots did.
type MoveResult struct {
	PlayerID     int      `json:"player_id"`
	Roll         DiceRoll `json:"roll"`
	From         int      `json:"from"`
	To           int      `json:"to"`
	Moved        bool     `json:"moved"`
	PassedStart  bool     `json:"passed_start"`
	StartBonus   int      `json:"start_bonus,omitempty"`
	StayedInJail bool     `json:"stayed_in_jail,omitempty"`
	LeftJail     bool     `json:"left_jail,omitempty"`
	JailFinePaid int      `json:"jail_fine_paid,omitempty"`
}

// FieldEffect describes the outcome of resolving a special field.
type FieldEffect struct {
	FieldID int         `json:"field_id"`
	Kind    SpecialKind `json:"kind,omitempty"`
	Card    *ChanceCard `json:"card,omitempty"`
	Amount  int         `json:"amount,omitempty"`
	Jailed  bool        `json:"jailed,omitempty"`
}

package engine

import "fmt"

// GameState is a serializable snapshot of a Game. Field entries carry both
// description data for presentation and the dynamic state restored on load.
type GameState struct {
	Players       []PlayerState `json:"players"`
	Fields        []FieldState  `json:"fields"`
	CurrentPlayer int           `json:"current_player"`
	LastRoll      DiceRoll      `json:"last_roll"`
	TotalMoves    int           `json:"total_moves"`
	Round         int           `json:"round"`
	Rules         Rules         `json:"rules"`
	ChanceCursor  int           `json:"chance_cursor"`
	NextPlayerID  int           `json:"next_player_id"`
	Prepared      bool          `json:"prepared"`
	Win           bool          `json:"win"`
}

type PlayerState struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Money        int    `json:"money"`
	Position     int    `json:"position"`
	DiceSum      int    `json:"dice_sum"`
	OwnedFields  []int  `json:"owned_fields"`
	InJail       bool   `json:"in_jail"`
	JailAttempts int    `json:"jail_attempts"`
	Bankrupt     bool   `json:"bankrupt"`
	PassedStart  bool   `json:"passed_start"`
	Fortune      int    `json:"fortune"`
}

type FieldState struct {
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	Kind          FieldKind   `json:"kind"`
	SpecialKind   SpecialKind `json:"special_kind,omitempty"`
	Amount        int         `json:"amount,omitempty"`
	Colour        string      `json:"colour,omitempty"`
	Price         int         `json:"price,omitempty"`
	MortgagePrice int         `json:"mortgage_price,omitempty"`
	BaseRent      int         `json:"base_rent,omitempty"`
	CurrentRent   int         `json:"current_rent,omitempty"`
	Owner         *int        `json:"owner,omitempty"`
	Mortgaged     bool        `json:"mortgaged,omitempty"`
	Houses        int         `json:"houses,omitempty"`
	Hotel         bool        `json:"hotel,omitempty"`
	HouseCost     int         `json:"house_cost,omitempty"`
	HotelCost     int         `json:"hotel_cost,omitempty"`
}

// DescribeField returns the presentation data of f without mutating it.
func DescribeField(f Field) FieldState {
	fs := FieldState{ID: f.ID(), Name: f.Name(), Kind: f.Kind()}
	switch v := f.(type) {
	case *SpecialField:
		fs.SpecialKind = v.SpecialKind()
		fs.Amount = v.Amount()
	case *Street:
		describeOwnable(&fs, v)
		fs.Houses = v.houses
		fs.Hotel = v.hotel
		fs.HouseCost = v.houseCost
		fs.HotelCost = v.hotelCost
	case *Property:
		describeOwnable(&fs, v)
	}
	return fs
}

func describeOwnable(fs *FieldState, prop Ownable) {
	fs.Colour = prop.Colour()
	fs.Price = prop.Price()
	fs.MortgagePrice = prop.MortgagePrice()
	fs.BaseRent = prop.BaseRent()
	fs.CurrentRent = prop.CurrentRent()
	fs.Mortgaged = prop.IsMortgaged()
	if owner, owned := prop.Owner(); owned {
		fs.Owner = &owner
	}
}

func (g *Game) describePlayer(p *Player) PlayerState {
	return PlayerState{
		ID:           p.id,
		Name:         p.name,
		Money:        p.money,
		Position:     p.position,
		DiceSum:      p.diceSum,
		OwnedFields:  p.OwnedFieldIDs(),
		InJail:       p.inJail,
		JailAttempts: p.jailAttempts,
		Bankrupt:     p.bankrupt,
		PassedStart:  p.passedStart,
		Fortune:      g.TotalFortune(p),
	}
}

// State returns a snapshot of the game. It does not mutate the game.
func (g *Game) State() *GameState {
	state := &GameState{
		Players:       make([]PlayerState, 0, len(g.players)),
		Fields:        make([]FieldState, 0, g.board.Size()),
		CurrentPlayer: g.current,
		LastRoll:      g.lastRoll,
		TotalMoves:    g.totalMoves,
		Round:         g.rounds,
		Rules:         g.rules,
		ChanceCursor:  g.board.ChanceCursor(),
		NextPlayerID:  g.nextPlayerID,
		Prepared:      g.prepared,
		Win:           g.win,
	}
	for _, p := range g.players {
		state.Players = append(state.Players, g.describePlayer(p))
	}
	for _, f := range g.board.fields {
		state.Fields = append(state.Fields, DescribeField(f))
	}
	return state
}

// RestoreGame rebuilds a game on a freshly loaded board from a snapshot.
// The board must come from the same definition the snapshot was taken on.
func RestoreGame(board *Board, state *GameState, opts ...Option) (*Game, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: nil state", ErrInvalidState)
	}
	opts = append([]Option{WithRules(state.Rules)}, opts...)
	g, err := NewGame(board, opts...)
	if err != nil {
		return nil, err
	}
	if len(state.Fields) != board.Size() {
		return nil, fmt.Errorf("%w: snapshot has %d fields, board has %d", ErrInvalidState, len(state.Fields), board.Size())
	}
	if len(state.Players) > 0 && (state.CurrentPlayer < 0 || state.CurrentPlayer >= len(state.Players)) {
		return nil, fmt.Errorf("%w: current player %d", ErrInvalidState, state.CurrentPlayer)
	}

	for _, ps := range state.Players {
		if err := board.positionValid(ps.Position); err != nil {
			return nil, err
		}
		p := NewPlayer(ps.ID, ps.Name, ps.Money)
		p.position = ps.Position
		p.diceSum = ps.DiceSum
		p.inJail = ps.InJail
		p.jailAttempts = ps.JailAttempts
		p.bankrupt = ps.Bankrupt
		p.passedStart = ps.PassedStart
		for _, id := range ps.OwnedFields {
			if err := p.AddProperty(id); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
			}
		}
		g.players = append(g.players, p)
	}

	for _, fs := range state.Fields {
		f, err := board.FieldByID(fs.ID)
		if err != nil {
			return nil, err
		}
		if f.Kind() != fs.Kind {
			return nil, fmt.Errorf("%w: field %d is %s, snapshot says %s", ErrInvalidState, fs.ID, f.Kind(), fs.Kind)
		}
		if err := g.restoreField(f, fs); err != nil {
			return nil, err
		}
	}
	if err := g.checkOwnership(); err != nil {
		return nil, err
	}
	if err := board.setChanceCursor(state.ChanceCursor); err != nil {
		return nil, err
	}

	g.current = state.CurrentPlayer
	g.lastRoll = state.LastRoll
	g.totalMoves = state.TotalMoves
	g.rounds = state.Round
	g.nextPlayerID = state.NextPlayerID
	g.prepared = state.Prepared
	g.win = state.Win
	return g, nil
}

func (g *Game) restoreField(f Field, fs FieldState) error {
	var prop *Property
	switch v := f.(type) {
	case *Street:
		if fs.Houses < 0 || fs.Houses > MaxHousesPerStreet || (fs.Hotel && fs.Houses != 0) {
			return fmt.Errorf("%w: street %d has %d houses, hotel %t", ErrInvalidState, fs.ID, fs.Houses, fs.Hotel)
		}
		v.houses = fs.Houses
		v.hotel = fs.Hotel
		prop = &v.Property
		defer v.updateRent()
	case *Property:
		prop = v
		defer v.updateRent()
	default:
		return nil
	}
	prop.clearOwner()
	if fs.Owner != nil {
		prop.SetOwner(*fs.Owner)
	}
	prop.mortgaged = fs.Mortgaged
	return nil
}

// checkOwnership verifies that field owners and owned-id sets agree.
func (g *Game) checkOwnership() error {
	byID := make(map[int]*Player, len(g.players))
	for _, p := range g.players {
		byID[p.id] = p
	}
	for _, prop := range g.board.Properties() {
		owner, owned := prop.Owner()
		if !owned {
			continue
		}
		p, ok := byID[owner]
		if !ok || !p.Owns(prop.ID()) {
			return fmt.Errorf("%w: field %d owner %d does not list it", ErrInvalidState, prop.ID(), owner)
		}
	}
	for _, p := range g.players {
		for _, id := range p.OwnedFieldIDs() {
			prop, err := g.board.Property(id)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidState, err)
			}
			if owner, owned := prop.Owner(); !owned || owner != p.id {
				return fmt.Errorf("%w: player %d lists field %d it does not own", ErrInvalidState, p.id, id)
			}
		}
	}
	return nil
}

func (b *Board) positionValid(position int) error {
	if position < 0 || position >= len(b.fields) {
		return fmt.Errorf("%w: position %d", ErrInvalidState, position)
	}
	return nil
}

package engine

import "fmt"

// Engine is the set of operations a turn driver needs.
type Engine interface {
	// Setup
	AddPlayer(name string) (*Player, error)
	PrepareGame() error

	// Turn
	DiceRoll() (DiceRoll, error)
	MovePawnNumberOfDots() (MoveResult, error)
	CurrentField() Field
	FieldAction() (FieldEffect, error)
	BuyCurrentProperty() error
	RentDue() (amount int, ownerID int, due bool)
	PayRent() (int, error)
	ChanceFieldAction() (ChanceCard, error)
	PayJailFine() error
	ChangePlayer()

	// Development and mortgages
	BuildHouse(fieldID int) error
	SellHouse(fieldID int) error
	BuildHotel(fieldID int) error
	SellHotel(fieldID int) error
	Mortgage(fieldID int) error
	LiftMortgage(fieldID int) error

	// Outcome
	MakeBankrupt() error
	IsWin() bool
	FindWinner() (*Player, error)

	// Views
	Board() *Board
	Rules() Rules
	Players() []*Player
	CurrentPlayer() *Player
	CurrentPlayerName() string
	CanAfford(amount int) bool
	TotalFortune(p *Player) int
	RoundNum() int
	State() *GameState
}

// Game is the rule state machine. It is the only type that mutates more
// than one entity per operation and is not safe for concurrent use.
type Game struct {
	board        *Board
	rules        Rules
	dice         Dice
	players      []*Player
	nextPlayerID int
	current      int
	lastRoll     DiceRoll
	totalMoves   int
	rounds       int
	prepared     bool
	win          bool
}

// Option configures a Game.
type Option func(*Game)

func WithRules(rules Rules) Option {
	return func(g *Game) { g.rules = rules }
}

func WithDice(dice Dice) Option {
	return func(g *Game) { g.dice = dice }
}

// WithMaxRounds overrides only the round cap. Zero disables the cap.
func WithMaxRounds(rounds int) Option {
	return func(g *Game) { g.rules.MaxRounds = rounds }
}

// NewGame creates a game on board. Dice default to a time-seeded RandomDice.
func NewGame(board *Board, opts ...Option) (*Game, error) {
	if board == nil {
		return nil, fmt.Errorf("%w: nil board", ErrInvalidConfig)
	}
	g := &Game{
		board: board,
		rules: DefaultRules(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.dice == nil {
		g.dice = NewRandomDice(0)
	}
	if err := validateRules(g.rules); err != nil {
		return nil, err
	}
	return g, nil
}

var _ Engine = (*Game)(nil)

// AddPlayer registers a player before the game is prepared.
func (g *Game) AddPlayer(name string) (*Player, error) {
	if g.prepared {
		return nil, ErrGameStarted
	}
	if len(g.players) >= MaxPlayers {
		return nil, fmt.Errorf("%w: at most %d players", ErrInvalidConfig, MaxPlayers)
	}
	p := NewPlayer(g.nextPlayerID, name, g.rules.StartingMoney)
	g.nextPlayerID++
	g.players = append(g.players, p)
	return p, nil
}

// PrepareGame puts every player on field 0 with the starting balance.
func (g *Game) PrepareGame() error {
	if g.prepared {
		return ErrGameStarted
	}
	if len(g.players) == 0 {
		return ErrNoPlayers
	}
	for _, p := range g.players {
		p.position = 0
		p.money = g.rules.StartingMoney
	}
	g.current = 0
	g.prepared = true
	return nil
}

func (g *Game) IsPrepared() bool { return g.prepared }
func (g *Game) Board() *Board    { return g.board }
func (g *Game) Rules() Rules     { return g.rules }
func (g *Game) TotalMoves() int  { return g.totalMoves }

// Players returns the players in turn order.
func (g *Game) Players() []*Player {
	return append([]*Player(nil), g.players...)
}

func (g *Game) PlayerByID(id int) (*Player, error) {
	for _, p := range g.players {
		if p.id == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: no player with id %d", ErrInvalidState, id)
}

func (g *Game) CurrentPlayer() *Player {
	if len(g.players) == 0 {
		return nil
	}
	return g.players[g.current]
}

func (g *Game) CurrentPlayerName() string {
	if p := g.CurrentPlayer(); p != nil {
		return p.name
	}
	return ""
}

// CurrentField is the field under the current player's pawn.
func (g *Game) CurrentField() Field {
	p := g.CurrentPlayer()
	if p == nil {
		return nil
	}
	f, err := g.board.FieldByID(p.position)
	if err != nil {
		panic(fmt.Sprintf("engine: player %q on unknown field: %v", p.name, err))
	}
	return f
}

func (g *Game) CanAfford(amount int) bool {
	p := g.CurrentPlayer()
	return p != nil && p.CanAfford(amount)
}

// ActivePlayers returns the players that are not bankrupt.
func (g *Game) ActivePlayers() []*Player {
	var active []*Player
	for _, p := range g.players {
		if !p.bankrupt {
			active = append(active, p)
		}
	}
	return active
}

// checkTurn guards every action the current player takes.
func (g *Game) checkTurn() (*Player, error) {
	if !g.prepared {
		return nil, ErrGameNotPrepared
	}
	if g.win {
		return nil, ErrGameOver
	}
	p := g.CurrentPlayer()
	if p.bankrupt {
		return nil, fmt.Errorf("%w: %q", ErrBankrupt, p.name)
	}
	return p, nil
}

// BuyCurrentProperty transfers the current field from the bank to the
// current player. Affordability is the caller's concern.
func (g *Game) BuyCurrentProperty() error {
	p, err := g.checkTurn()
	if err != nil {
		return err
	}
	prop, ok := g.CurrentField().(Ownable)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotForSale, g.CurrentField().Name())
	}
	if owner, owned := prop.Owner(); owned {
		return fmt.Errorf("%w: %q is owned by player %d", ErrNotForSale, prop.Name(), owner)
	}
	if err := p.AddProperty(prop.ID()); err != nil {
		return err
	}
	if err := p.SpendMoney(prop.Price()); err != nil {
		_ = p.RemoveProperty(prop.ID())
		return err
	}
	prop.SetOwner(p.id)
	return nil
}

// RentDue reports the rent the current player owes for the current field.
func (g *Game) RentDue() (int, int, bool) {
	p := g.CurrentPlayer()
	if p == nil {
		return 0, 0, false
	}
	prop, ok := g.CurrentField().(Ownable)
	if !ok {
		return 0, 0, false
	}
	owner, owned := prop.Owner()
	if !owned || owner == p.id {
		return 0, 0, false
	}
	return prop.CurrentRent(), owner, true
}

// PayRent moves the current field's rent from the current player to its
// owner and returns the amount. It does not check affordability.
func (g *Game) PayRent() (int, error) {
	p, err := g.checkTurn()
	if err != nil {
		return 0, err
	}
	prop, ok := g.CurrentField().(Ownable)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotOwnable, g.CurrentField().Name())
	}
	ownerID, owned := prop.Owner()
	if !owned {
		return 0, fmt.Errorf("%w: %q", ErrNotOwned, prop.Name())
	}
	if ownerID == p.id {
		return 0, fmt.Errorf("%w: %q owns %q", ErrSelfRent, p.name, prop.Name())
	}
	owner, err := g.PlayerByID(ownerID)
	if err != nil {
		return 0, err
	}
	rent := prop.CurrentRent()
	if err := p.SpendMoney(rent); err != nil {
		return 0, err
	}
	if err := owner.EarnMoney(rent); err != nil {
		return 0, err
	}
	return rent, nil
}

// ChanceFieldAction draws the next card and applies it to the current player.
func (g *Game) ChanceFieldAction() (ChanceCard, error) {
	p, err := g.checkTurn()
	if err != nil {
		return ChanceCard{}, err
	}
	card, err := g.board.NewChanceCard()
	if err != nil {
		return ChanceCard{}, err
	}
	if err := card.Apply(p); err != nil {
		return ChanceCard{}, err
	}
	return card, nil
}

// FieldAction resolves the mandatory effect of the special field the current
// player stands on. Ownable and plain fields have no effect here.
func (g *Game) FieldAction() (FieldEffect, error) {
	p, err := g.checkTurn()
	if err != nil {
		return FieldEffect{}, err
	}
	field := g.CurrentField()
	effect := FieldEffect{FieldID: field.ID()}

	special, ok := field.(*SpecialField)
	if !ok {
		return effect, nil
	}
	effect.Kind = special.SpecialKind()

	switch special.SpecialKind() {
	case SpecialChance:
		card, err := g.ChanceFieldAction()
		if err != nil {
			return effect, err
		}
		effect.Card = &card
		effect.Amount = card.Amount
	case SpecialTax:
		if err := p.SpendMoney(special.Amount()); err != nil {
			return effect, err
		}
		effect.Amount = special.Amount()
	case SpecialGoToJail:
		if err := p.PutInJail(g.board.JailFieldID()); err != nil {
			return effect, err
		}
		effect.Jailed = true
	}
	return effect, nil
}

// ChangePlayer hands the turn to the next non-bankrupt player and counts one
// move. A round completes each time the turn wraps past the end of the list.
func (g *Game) ChangePlayer() {
	n := len(g.players)
	for step := 1; step <= n; step++ {
		next := (g.current + step) % n
		if g.players[next].bankrupt {
			continue
		}
		if next <= g.current {
			g.rounds++
		}
		g.current = next
		g.totalMoves++
		return
	}
}

// RoundNum is the number of completed rounds.
func (g *Game) RoundNum() int {
	return g.rounds
}

// IsWin latches the terminal flag once the round cap is reached or at most
// one player remains solvent.
func (g *Game) IsWin() bool {
	if g.win {
		return true
	}
	if g.rules.MaxRounds > 0 && g.rounds >= g.rules.MaxRounds {
		g.win = true
	}
	if len(g.ActivePlayers()) <= 1 {
		g.win = true
	}
	return g.win
}

// FindWinner returns the solvent player with the largest total fortune.
// On a tie the player earlier in turn order wins.
func (g *Game) FindWinner() (*Player, error) {
	var winner *Player
	best := 0
	for _, p := range g.players {
		if p.bankrupt {
			continue
		}
		fortune := g.TotalFortune(p)
		if winner == nil || fortune > best {
			winner = p
			best = fortune
		}
	}
	if winner == nil {
		return nil, ErrNoPlayers
	}
	return winner, nil
}

// TotalFortune is cash plus the liquidation value of every owned field.
func (g *Game) TotalFortune(p *Player) int {
	total := p.money
	for _, id := range p.OwnedFieldIDs() {
		prop, err := g.board.Property(id)
		if err != nil {
			continue
		}
		total += prop.TotalValue()
	}
	return total
}

// MakeBankrupt surrenders everything the current player owns to the bank.
func (g *Game) MakeBankrupt() error {
	if !g.prepared {
		return ErrGameNotPrepared
	}
	p := g.CurrentPlayer()
	if p.bankrupt {
		return fmt.Errorf("%w: %q", ErrBankrupt, p.name)
	}
	for _, id := range p.OwnedFieldIDs() {
		prop, err := g.board.Property(id)
		if err != nil {
			return err
		}
		prop.ReturnToBank()
	}
	p.markBankrupt()
	return nil
}

func validateRules(r Rules) error {
	if r.StartingMoney < 0 || r.StartBonus < 0 || r.JailFine < 0 || r.MaxRounds < 0 || r.MaxJailAttempts < 0 {
		return fmt.Errorf("%w: rules must not be negative: %+v", ErrInvalidConfig, r)
	}
	return nil
}

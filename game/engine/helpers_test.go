package engine

import "testing"

// createTestConfig returns a ten-field board:
//
//	0 start, 1-2 brown streets, 3 chance, 4 station, 5 jail,
//	6-7 blue streets, 8 tax, 9 go to jail
func createTestConfig() *BoardConfig {
	brown := &StreetConfig{HouseRents: [4]int{10, 30, 90, 160}, HotelRent: 250, HouseCost: 50, HotelCost: 50}
	blue := &StreetConfig{HouseRents: [4]int{30, 90, 270, 400}, HotelRent: 550, HouseCost: 50, HotelCost: 50}
	return &BoardConfig{
		Name:        "test",
		Description: "Test board",
		Rules: &Rules{
			StartingMoney:   1500,
			StartBonus:      200,
			JailFine:        50,
			MaxRounds:       5,
			MaxJailAttempts: 3,
		},
		Colours: map[string]int{"brown": 2, "station": 1, "blue": 2},
		Properties: []PropertyConfig{
			{ID: 1, Name: "Old Kent Road", Colour: "brown", Price: 60, Mortgage: 30, Rent: 2, Street: brown},
			{ID: 2, Name: "Whitechapel Road", Colour: "brown", Price: 60, Mortgage: 30, Rent: 4, Street: brown},
			{ID: 4, Name: "Kings Cross", Colour: "station", Price: 200, Mortgage: 100, Rent: 25},
			{ID: 6, Name: "Angel Islington", Colour: "blue", Price: 100, Mortgage: 50, Rent: 6, Street: blue},
			{ID: 7, Name: "Euston Road", Colour: "blue", Price: 100, Mortgage: 50, Rent: 6, Street: blue},
		},
		Specials: []SpecialFieldConfig{
			{ID: 0, Name: "Start", Kind: SpecialStart},
			{ID: 3, Name: "Chance", Kind: SpecialChance},
			{ID: 5, Name: "Jail", Kind: SpecialJail},
			{ID: 8, Name: "Income Tax", Kind: SpecialTax, Amount: 100},
			{ID: 9, Name: "Go To Jail", Kind: SpecialGoToJail},
		},
		ChanceCards: []ChanceCard{
			{ID: 0, Description: "Bank error in your favour", Action: ActionEarn, Amount: 20},
			{ID: 1, Description: "Speeding fine", Action: ActionPay, Amount: 50},
		},
	}
}

// newTestGame builds a prepared game with the named players.
func newTestGame(t *testing.T, names ...string) *Game {
	t.Helper()
	game, err := NewGameFromConfig(createTestConfig(), WithDice(NewSequenceDice(DiceRoll{First: 1, Second: 2})))
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	for _, name := range names {
		if _, err := game.AddPlayer(name); err != nil {
			t.Fatalf("Failed to add player %s: %v", name, err)
		}
	}
	if err := game.PrepareGame(); err != nil {
		t.Fatalf("Failed to prepare game: %v", err)
	}
	return game
}

// moveTo places the current player on fieldID.
func moveTo(t *testing.T, game *Game, fieldID int) {
	t.Helper()
	if err := game.CurrentPlayer().SetPosition(fieldID, game.Board().Size()); err != nil {
		t.Fatalf("Failed to move to %d: %v", fieldID, err)
	}
}

// buy gives the current player fieldID through a normal purchase.
func buy(t *testing.T, game *Game, fieldID int) {
	t.Helper()
	moveTo(t, game, fieldID)
	if err := game.BuyCurrentProperty(); err != nil {
		t.Fatalf("Failed to buy field %d: %v", fieldID, err)
	}
}

func mustStreet(t *testing.T, game *Game, id int) *Street {
	t.Helper()
	s, err := game.Board().Street(id)
	if err != nil {
		t.Fatalf("Field %d is not a street: %v", id, err)
	}
	return s
}

// checkOwnership fails the test when owner ids and owned sets disagree.
func checkOwnership(t *testing.T, game *Game) {
	t.Helper()
	if err := game.checkOwnership(); err != nil {
		t.Errorf("Ownership invariant broken: %v", err)
	}
}

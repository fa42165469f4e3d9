// Package engine provides the rules of a multi-player property-trading board
// game.
//
// The engine package implements:
//   - The field model: plain fields, ownable properties, developable streets
//     and special fields (start, jail, chance, tax, go to jail)
//   - Player finances, position, owned fields and jail/bankruptcy flags
//   - The board with colour groups and a cyclic chance deck
//   - The Game state machine: turns, dice, movement, purchases, rent,
//     even development, mortgages, bankruptcy and win detection
//   - Board definition loading and validation
//
// Core Types:
//
// The Engine interface is the contract a turn driver uses, implemented by
// Game. Field is a closed set of variants (*PlainField, *Property, *Street,
// *SpecialField); Ownable covers the two that can be bought. Ownership is
// index based: a property stores its owner's player id and each Player keeps
// the set of field ids it owns. Game keeps both sides in agreement.
//
// Usage:
//
//	config, err := engine.LoadBoardConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game, err := engine.NewGameFromConfig(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//	game.AddPlayer("alice")
//	game.AddPlayer("bob")
//	game.PrepareGame()
//
//	game.DiceRoll()
//	game.MovePawnNumberOfDots()
//	if rent, _, due := game.RentDue(); due && game.CanAfford(rent) {
//		game.PayRent()
//	}
//	game.ChangePlayer()
//
// Rent:
//
// PayRent never checks affordability. A driver checks RentDue against
// CanAfford, lets the player sell or mortgage until the rent is covered and
// only then calls PayRent, or calls MakeBankrupt when liquidation cannot
// cover the debt.
//
// The engine performs no I/O during play and is not safe for concurrent use;
// servers serialize calls per game.
package engine

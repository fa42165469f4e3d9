package engine

import "errors"

// Rule violations. Every error returned by the engine wraps one of these so
// callers can branch with errors.Is.
var (
	// ErrHousesNum covers every rejected development action: house or hotel
	// limits, uneven building, missing colour set, mortgaged street, funds.
	ErrHousesNum = errors.New("illegal development")
	// ErrMortgage covers double mortgages, mortgaging developed fields,
	// lifting an unmortgaged field and lifting without funds.
	ErrMortgage = errors.New("illegal mortgage operation")
	// ErrFieldID is returned when a player's owned-field set would become
	// inconsistent (duplicate add, removal of a field not owned).
	ErrFieldID    = errors.New("field id error")
	ErrJail       = errors.New("jail error")
	ErrColour     = errors.New("unknown colour")
	ErrSelfRent   = errors.New("player cannot pay rent to themselves")
	ErrNotOwned   = errors.New("field has no owner")
	ErrOwnership  = errors.New("field is not owned by the current player")
	ErrNotForSale = errors.New("field cannot be bought")

	ErrUnknownField     = errors.New("unknown field id")
	ErrNotOwnable       = errors.New("field is not a property")
	ErrNotStreet        = errors.New("field is not a street")
	ErrInvalidAmount    = errors.New("amount must not be negative")
	ErrDiceSum          = errors.New("dice sum out of range")
	ErrPosition         = errors.New("position out of range")
	ErrChanceAction     = errors.New("unknown chance card action")
	ErrEmptyDeck        = errors.New("chance deck is empty")
	ErrDuplicateFieldID = errors.New("duplicate field id")
	ErrDuplicateCardID  = errors.New("duplicate chance card id")
	ErrInvalidConfig    = errors.New("invalid board config")

	ErrGameStarted     = errors.New("game already prepared")
	ErrGameNotPrepared = errors.New("game not prepared")
	ErrGameOver        = errors.New("game is over")
	ErrNoPlayers       = errors.New("game has no players")
	ErrBankrupt        = errors.New("player is bankrupt")
	ErrInvalidState    = errors.New("invalid game state")
)

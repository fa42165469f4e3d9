package engine

import (
	"fmt"
	"sort"
)

// NoJail is returned by Board.JailFieldID when the board has no jail.
const NoJail = -1

// Board is the fixed ring of fields plus the chance deck. Field ids equal
// board positions.
type Board struct {
	fields      []Field
	colours     map[string]int
	deck        []ChanceCard
	cursor      int
	jailFieldID int
}

// NewBoard builds a board from already-parsed fields, the colour group sizes
// and the chance deck. Field ids must be unique and cover 0..len(fields)-1.
func NewBoard(fields []Field, colours map[string]int, cards []ChanceCard) (*Board, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: board has no fields", ErrInvalidConfig)
	}

	ordered := make([]Field, len(fields))
	seen := make(map[int]bool, len(fields))
	for _, f := range fields {
		if f == nil {
			return nil, fmt.Errorf("%w: nil field", ErrInvalidConfig)
		}
		if seen[f.ID()] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateFieldID, f.ID())
		}
		seen[f.ID()] = true
		if f.ID() < 0 || f.ID() >= len(fields) {
			return nil, fmt.Errorf("%w: field id %d outside 0..%d", ErrInvalidConfig, f.ID(), len(fields)-1)
		}
		ordered[f.ID()] = f
	}

	counted := make(map[string]int)
	jailID := NoJail
	hasGoToJail := false
	chanceID := -1
	for _, f := range ordered {
		switch v := f.(type) {
		case Ownable:
			if _, ok := colours[v.Colour()]; !ok {
				return nil, fmt.Errorf("%w: %q on field %d", ErrColour, v.Colour(), v.ID())
			}
			counted[v.Colour()]++
		case *SpecialField:
			switch v.SpecialKind() {
			case SpecialJail:
				if jailID == NoJail {
					jailID = v.ID()
				}
			case SpecialGoToJail:
				hasGoToJail = true
			case SpecialChance:
				if chanceID < 0 {
					chanceID = v.ID()
				}
			}
		}
	}
	for colour, n := range colours {
		if counted[colour] != n {
			return nil, fmt.Errorf("%w: colour %q declares %d fields, board has %d", ErrInvalidConfig, colour, n, counted[colour])
		}
	}
	if hasGoToJail && jailID == NoJail {
		return nil, fmt.Errorf("%w: go-to-jail field without a jail", ErrInvalidConfig)
	}
	if chanceID >= 0 && len(cards) == 0 {
		return nil, fmt.Errorf("%w: chance field %d without chance cards", ErrInvalidConfig, chanceID)
	}

	seenCards := make(map[int]bool, len(cards))
	for _, c := range cards {
		if seenCards[c.ID] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateCardID, c.ID)
		}
		seenCards[c.ID] = true
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}

	colourCopy := make(map[string]int, len(colours))
	for k, v := range colours {
		colourCopy[k] = v
	}

	return &Board{
		fields:      ordered,
		colours:     colourCopy,
		deck:        append([]ChanceCard(nil), cards...),
		jailFieldID: jailID,
	}, nil
}

// Size returns the number of fields on the board.
func (b *Board) Size() int {
	return len(b.fields)
}

// Fields returns the fields ordered by position.
func (b *Board) Fields() []Field {
	return append([]Field(nil), b.fields...)
}

func (b *Board) JailFieldID() int {
	return b.jailFieldID
}

func (b *Board) FieldByID(id int) (Field, error) {
	if id < 0 || id >= len(b.fields) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownField, id)
	}
	return b.fields[id], nil
}

// Property returns the ownable field with the given id.
func (b *Board) Property(id int) (Ownable, error) {
	f, err := b.FieldByID(id)
	if err != nil {
		return nil, err
	}
	prop, ok := f.(Ownable)
	if !ok {
		return nil, fmt.Errorf("%w: %d (%s)", ErrNotOwnable, id, f.Name())
	}
	return prop, nil
}

func (b *Board) Street(id int) (*Street, error) {
	f, err := b.FieldByID(id)
	if err != nil {
		return nil, err
	}
	s, ok := f.(*Street)
	if !ok {
		return nil, fmt.Errorf("%w: %d (%s)", ErrNotStreet, id, f.Name())
	}
	return s, nil
}

// FieldsOwner returns the owner id of an ownable field.
func (b *Board) FieldsOwner(id int) (int, bool, error) {
	prop, err := b.Property(id)
	if err != nil {
		return 0, false, err
	}
	owner, owned := prop.Owner()
	return owner, owned, nil
}

// Properties returns every ownable field ordered by position.
func (b *Board) Properties() []Ownable {
	var props []Ownable
	for _, f := range b.fields {
		if prop, ok := f.(Ownable); ok {
			props = append(props, prop)
		}
	}
	return props
}

// MaxNumberOfSameColour is the registered size of a colour group; zero for
// colours that were never configured.
func (b *Board) MaxNumberOfSameColour(colour string) int {
	return b.colours[colour]
}

// Colours returns the configured colour names sorted.
func (b *Board) Colours() []string {
	names := make([]string, 0, len(b.colours))
	for c := range b.colours {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

func (b *Board) FieldsOfColour(colour string) ([]Ownable, error) {
	var group []Ownable
	for _, f := range b.fields {
		if prop, ok := f.(Ownable); ok && prop.Colour() == colour {
			group = append(group, prop)
		}
	}
	if len(group) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrColour, colour)
	}
	return group, nil
}

// NewChanceCard returns the card under the cursor and advances it, wrapping
// to the first card after the last.
func (b *Board) NewChanceCard() (ChanceCard, error) {
	if len(b.deck) == 0 {
		return ChanceCard{}, ErrEmptyDeck
	}
	card := b.deck[b.cursor]
	b.cursor = (b.cursor + 1) % len(b.deck)
	return card, nil
}

func (b *Board) ChanceCards() []ChanceCard {
	return append([]ChanceCard(nil), b.deck...)
}

func (b *Board) ChanceCursor() int {
	return b.cursor
}

func (b *Board) setChanceCursor(cursor int) error {
	if len(b.deck) == 0 {
		if cursor != 0 {
			return fmt.Errorf("%w: chance cursor %d on empty deck", ErrInvalidState, cursor)
		}
		return nil
	}
	if cursor < 0 || cursor >= len(b.deck) {
		return fmt.Errorf("%w: chance cursor %d", ErrInvalidState, cursor)
	}
	b.cursor = cursor
	return nil
}

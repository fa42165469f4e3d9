package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateBoardConfig checks a board definition before a board is built
// from it. Every error wraps ErrInvalidConfig or a more specific sentinel.
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}

	total := len(config.Properties) + len(config.Specials)
	if total == 0 || total > MaxBoardSize {
		return fmt.Errorf("%w: board must have between 1 and %d fields, got %d", ErrInvalidConfig, MaxBoardSize, total)
	}

	if config.Rules != nil {
		if err := validateRules(*config.Rules); err != nil {
			return err
		}
	}

	ids := make(map[int]bool, total)
	claim := func(id int) error {
		if ids[id] {
			return fmt.Errorf("%w: %d", ErrDuplicateFieldID, id)
		}
		if id < 0 || id >= total {
			return fmt.Errorf("%w: field id %d outside 0..%d", ErrInvalidConfig, id, total-1)
		}
		ids[id] = true
		return nil
	}

	for _, colour := range sortedKeys(config.Colours) {
		if config.Colours[colour] <= 0 {
			return fmt.Errorf("%w: colour %q must have a positive size", ErrInvalidConfig, colour)
		}
	}

	for _, p := range config.Properties {
		if err := claim(p.ID); err != nil {
			return err
		}
		if p.Name == "" {
			return fmt.Errorf("%w: property %d has no name", ErrInvalidConfig, p.ID)
		}
		if _, ok := config.Colours[p.Colour]; !ok {
			return fmt.Errorf("%w: %q on property %d", ErrColour, p.Colour, p.ID)
		}
		if p.Price < 0 || p.Mortgage < 0 || p.Rent < 0 {
			return fmt.Errorf("%w: property %d has a negative price, mortgage or rent", ErrInvalidConfig, p.ID)
		}
		if s := p.Street; s != nil {
			if s.HouseCost < 0 || s.HotelCost < 0 || s.HotelRent < 0 {
				return fmt.Errorf("%w: street %d has negative costs", ErrInvalidConfig, p.ID)
			}
			for i, rent := range s.HouseRents {
				if rent < 0 {
					return fmt.Errorf("%w: street %d rent for %d houses is negative", ErrInvalidConfig, p.ID, i+1)
				}
			}
		}
	}

	chance := -1
	for _, s := range config.Specials {
		if err := claim(s.ID); err != nil {
			return err
		}
		if s.Kind == SpecialChance && chance < 0 {
			chance = s.ID
		}
		switch s.Kind {
		case SpecialStart, SpecialJail, SpecialFreeParking, SpecialChance, SpecialTax, SpecialGoToJail:
		default:
			return fmt.Errorf("%w: special field %d has unknown kind %q", ErrInvalidConfig, s.ID, s.Kind)
		}
		if s.Amount < 0 {
			return fmt.Errorf("%w: special field %d amount %d", ErrInvalidAmount, s.ID, s.Amount)
		}
	}

	cards := make(map[int]bool, len(config.ChanceCards))
	for _, c := range config.ChanceCards {
		if cards[c.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateCardID, c.ID)
		}
		cards[c.ID] = true
		if err := c.Validate(); err != nil {
			return err
		}
	}
	if chance >= 0 && len(config.ChanceCards) == 0 {
		return fmt.Errorf("%w: chance field %d without chance cards", ErrInvalidConfig, chance)
	}

	return nil
}

// RulesFromConfig returns the config's rules, or DefaultRules when unset.
func RulesFromConfig(config *BoardConfig) Rules {
	if config == nil || config.Rules == nil {
		return DefaultRules()
	}
	return *config.Rules
}

// NewBoardFromConfig validates config and builds a board from it.
func NewBoardFromConfig(config *BoardConfig) (*Board, error) {
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}

	fields := make([]Field, 0, len(config.Properties)+len(config.Specials))
	for _, p := range config.Properties {
		if s := p.Street; s != nil {
			rents := RentTable{Houses: s.HouseRents, Hotel: s.HotelRent}
			fields = append(fields, NewStreet(p.ID, p.Name, p.Colour, p.Price, p.Mortgage, p.Rent, rents, s.HouseCost, s.HotelCost))
			continue
		}
		fields = append(fields, NewProperty(p.ID, p.Name, p.Colour, p.Price, p.Mortgage, p.Rent))
	}
	for _, s := range config.Specials {
		fields = append(fields, NewSpecialField(s.ID, s.Name, s.Kind, s.Amount))
	}

	return NewBoard(fields, config.Colours, config.ChanceCards)
}

// NewGameFromConfig builds a board from config and starts a game on it with
// the config's rules. Later options override those rules.
func NewGameFromConfig(config *BoardConfig, opts ...Option) (*Game, error) {
	board, err := NewBoardFromConfig(config)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithRules(RulesFromConfig(config))}, opts...)
	return NewGame(board, opts...)
}

// LoadBoardConfig loads and validates a board definition from a JSON file.
func LoadBoardConfig(filename string) (*BoardConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseBoardConfig(data)
}

// ParseBoardConfig decodes and validates a JSON board definition.
func ParseBoardConfig(data []byte) (*BoardConfig, error) {
	var config BoardConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := ValidateBoardConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadBoardConfigByName loads configs/<name>.json, honouring CONFIG_DIR.
func LoadBoardConfigByName(name string) (*BoardConfig, error) {
	if !strings.HasSuffix(name, ".json") {
		name = name + ".json"
	}
	dir := "configs"
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		dir = configDir
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", name)
	}
	config, err := LoadBoardConfig(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", name, err)
	}
	return config, nil
}

// Package validate checks board definition files before they are served.
//
// Hard errors come from building the board the way a game would. On top of
// that it reports warnings for boards that load but play badly (an unpriced
// street or a hotel that earns less than four houses) and a short economic
// summary of each board.
package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	// Info holds the summary lines of a valid board.
	Info []string
}

// File loads and validates one board definition.
func File(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.BoardConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	Board(&config, &result)
	return result
}

// Board validates an already decoded definition into result.
func Board(config *engine.BoardConfig, result *ValidationResult) {
	if _, err := engine.NewBoardFromConfig(config); err != nil {
		result.fail("%v", err)
		return
	}

	checkLayout(config, result)
	checkStreets(config, result)
	result.Info = Summary(config)
}

// Dir validates every *.json file in dir, sorted by name.
func Dir(dir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, File(file))
	}
	return results, nil
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func checkLayout(config *engine.BoardConfig, result *ValidationResult) {
	startAtZero := false
	for _, s := range config.Specials {
		if s.Kind != engine.SpecialStart {
			continue
		}
		if s.ID == 0 {
			startAtZero = true
		} else {
			result.warn("Start field %q is at %d; players begin on field 0", s.Name, s.ID)
		}
	}
	if !startAtZero {
		result.warn("Field 0 is not a start field")
	}

	rules := engine.RulesFromConfig(config)
	cheapest := 0
	for _, p := range config.Properties {
		if p.Price > 0 && (cheapest == 0 || p.Price < cheapest) {
			cheapest = p.Price
		}
	}
	if cheapest > 0 && rules.StartingMoney < cheapest {
		result.warn("Starting money %d cannot buy the cheapest field (%d)", rules.StartingMoney, cheapest)
	}
}

func checkStreets(config *engine.BoardConfig, result *ValidationResult) {
	for _, p := range config.Properties {
		if p.Price == 0 {
			result.warn("%q has no price and can never be bought", p.Name)
		}
		if p.Mortgage > p.Price {
			result.warn("%q mortgages for %d, more than its price %d", p.Name, p.Mortgage, p.Price)
		}

		s := p.Street
		if s == nil {
			continue
		}
		if s.HouseCost == 0 || s.HotelCost == 0 {
			result.warn("Street %q has free buildings (house %d, hotel %d)", p.Name, s.HouseCost, s.HotelCost)
		}
		prev := p.Rent
		for i, rent := range s.HouseRents {
			if rent < prev {
				result.warn("Street %q earns less with %d houses (%d) than with %d (%d)", p.Name, i+1, rent, i, prev)
			}
			prev = rent
		}
		if s.HotelRent < prev {
			result.warn("Street %q earns less with a hotel (%d) than with %d houses (%d)", p.Name, s.HotelRent, engine.MaxHousesPerStreet, prev)
		}
	}
}

// Summary describes the economy of a board: how much it costs to own and
// develop each colour set and what it earns when fully built.
func Summary(config *engine.BoardConfig) []string {
	rules := engine.RulesFromConfig(config)
	lines := []string{
		fmt.Sprintf("Fields: %d (%d ownable, %d special)", len(config.Properties)+len(config.Specials), len(config.Properties), len(config.Specials)),
		fmt.Sprintf("Rules: start money %d, start bonus %d, jail fine %d, %d rounds", rules.StartingMoney, rules.StartBonus, rules.JailFine, rules.MaxRounds),
	}

	type set struct {
		price, build, topRent int
		developable           bool
	}
	sets := make(map[string]*set)
	total := 0
	for _, p := range config.Properties {
		total += p.Price
		st := sets[p.Colour]
		if st == nil {
			st = &set{developable: true}
			sets[p.Colour] = st
		}
		st.price += p.Price
		if s := p.Street; s != nil {
			st.build += engine.MaxHousesPerStreet*s.HouseCost + s.HotelCost
			st.topRent += s.HotelRent
		} else {
			st.developable = false
			st.topRent += p.Rent
		}
	}
	lines = append(lines, fmt.Sprintf("Total property value: %d", total))

	colours := make([]string, 0, len(sets))
	for colour := range sets {
		colours = append(colours, colour)
	}
	sort.Strings(colours)
	for _, colour := range colours {
		st := sets[colour]
		if st.developable {
			lines = append(lines, fmt.Sprintf("Set %s: %d fields, buy %d, hotels %d, top rent %d",
				colour, config.Colours[colour], st.price, st.build, st.topRent))
		} else {
			lines = append(lines, fmt.Sprintf("Set %s: %d fields, buy %d, rent %d",
				colour, config.Colours[colour], st.price, st.topRent))
		}
	}
	return lines
}

// Report prints results and returns whether every file was valid.
func Report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}

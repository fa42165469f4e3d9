package driver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/service"
)

// PromptDecider asks a person on a line-oriented terminal. End of input
// answers every question with the cautious choice.
type PromptDecider struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPromptDecider(in io.Reader, out io.Writer) *PromptDecider {
	return &PromptDecider{in: bufio.NewScanner(in), out: out}
}

func (d *PromptDecider) readLine() (string, bool) {
	if !d.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(d.in.Text()), true
}

func (d *PromptDecider) confirm(format string, args ...any) bool {
	fmt.Fprintf(d.out, format+" [y/N] ", args...)
	line, ok := d.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

func (d *PromptDecider) PayJailFine(view *service.GameView) bool {
	return d.confirm("%s, pay the %d fine to leave jail?", view.CurrentPlayer, view.State.Rules.JailFine)
}

func (d *PromptDecider) BuyProperty(view *service.GameView, field engine.FieldState) bool {
	p := currentPlayer(view)
	return d.confirm("%s, buy %s (%s) for %d? You have %d.", view.CurrentPlayer, field.Name, field.Colour, field.Price, p.Money)
}

const developHelp = `Commands: house <id>, hotel <id>, lift <id>, sell-house <id>, sell-hotel <id>, mortgage <id>, status; empty line to finish`

func (d *PromptDecider) NextDevelopment(view *service.GameView) (Step, bool) {
	for {
		fmt.Fprintf(d.out, "%s, develop? (%s)\n> ", view.CurrentPlayer, developHelp)
		line, ok := d.readLine()
		if !ok || line == "" {
			return Step{}, false
		}
		if line == "status" {
			d.printHoldings(view)
			continue
		}
		step, err := parseStep(line)
		if err != nil {
			fmt.Fprintln(d.out, err)
			continue
		}
		return step, true
	}
}

// Liquidate offers the automatic liquidation order and lets the player
// override it or give up.
func (d *PromptDecider) Liquidate(view *service.GameView, owed int) (Step, bool) {
	p := currentPlayer(view)
	suggested, ok := liquidationStep(view, p.ID)
	if !ok {
		return Step{}, false
	}
	for {
		fmt.Fprintf(d.out, "%s is %d short. Enter to %s field %d, a command, or 'bankrupt'\n> ",
			view.CurrentPlayer, owed, suggested.Kind, suggested.FieldID)
		line, ok := d.readLine()
		if !ok || line == "bankrupt" {
			return Step{}, false
		}
		if line == "" {
			return suggested, true
		}
		if line == "status" {
			d.printHoldings(view)
			continue
		}
		step, err := parseStep(line)
		if err != nil {
			fmt.Fprintln(d.out, err)
			continue
		}
		return step, true
	}
}

func (d *PromptDecider) printHoldings(view *service.GameView) {
	p := currentPlayer(view)
	fmt.Fprintf(d.out, "%s has %d in cash, fortune %d\n", p.Name, p.Money, p.Fortune)
	for _, f := range ownedFields(view, p.ID) {
		state := fmt.Sprintf("rent %d", f.CurrentRent)
		switch {
		case f.Mortgaged:
			state = "mortgaged"
		case f.Hotel:
			state += ", hotel"
		case f.Houses > 0:
			state += fmt.Sprintf(", %d houses", f.Houses)
		}
		fmt.Fprintf(d.out, "  %2d %-24s %-10s %s\n", f.ID, f.Name, f.Colour, state)
	}
}

var stepCommands = map[string]StepKind{
	"house":      StepBuildHouse,
	"hotel":      StepBuildHotel,
	"sell-house": StepSellHouse,
	"sell-hotel": StepSellHotel,
	"mortgage":   StepMortgage,
	"lift":       StepLiftMortgage,
}

func parseStep(line string) (Step, error) {
	parts := strings.Fields(line)
	if len(parts) != 2 {
		return Step{}, fmt.Errorf("expected '<command> <field id>', got %q", line)
	}
	kind, ok := stepCommands[strings.ToLower(parts[0])]
	if !ok {
		return Step{}, fmt.Errorf("unknown command %q", parts[0])
	}
	id, err := strconv.Atoi(parts[1])
	if err != nil {
		return Step{}, fmt.Errorf("invalid field id %q", parts[1])
	}
	return Step{Kind: kind, FieldID: id}, nil
}

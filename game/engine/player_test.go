package engine

import (
	"errors"
	"reflect"
	"testing"
)

func TestPlayerMoney(t *testing.T) {
	p := NewPlayer(0, "alice", 50)

	if err := p.SpendMoney(80); err != nil {
		t.Fatalf("SpendMoney failed: %v", err)
	}
	if p.Money() != -30 {
		t.Errorf("Expected balance -30, got %d", p.Money())
	}
	if err := p.EarnMoney(100); err != nil {
		t.Fatalf("EarnMoney failed: %v", err)
	}
	if p.Money() != 70 {
		t.Errorf("Expected balance 70, got %d", p.Money())
	}

	if err := p.EarnMoney(-1); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
	if err := p.SpendMoney(-1); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
	if p.Money() != 70 {
		t.Errorf("Rejected amounts changed the balance to %d", p.Money())
	}

	if !p.CanAfford(70) || p.CanAfford(71) {
		t.Errorf("CanAfford disagrees with balance 70")
	}
}

func TestMovePawn(t *testing.T) {
	tests := []struct {
		name        string
		start       int
		sum         int
		wantPos     int
		passedStart bool
	}{
		{"simple move", 0, 3, 3, false},
		{"to last field", 5, 4, 9, false},
		{"land on start", 7, 3, 0, true},
		{"wrap past start", 8, 5, 3, true},
		{"max roll from start", 0, 12, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(0, "alice", 0)
			if err := p.SetPosition(tt.start, 10); err != nil {
				t.Fatalf("SetPosition failed: %v", err)
			}
			if err := p.SetDiceRollSum(tt.sum); err != nil {
				t.Fatalf("SetDiceRollSum failed: %v", err)
			}
			p.MovePawn(10)
			if p.Position() != tt.wantPos {
				t.Errorf("Expected position %d, got %d", tt.wantPos, p.Position())
			}
			if p.PassedStart() != tt.passedStart {
				t.Errorf("Expected passedStart %t, got %t", tt.passedStart, p.PassedStart())
			}
		})
	}

	t.Run("flag resets on the next move", func(t *testing.T) {
		p := NewPlayer(0, "alice", 0)
		_ = p.SetPosition(7, 10)
		_ = p.SetDiceRollSum(3)
		p.MovePawn(10)
		p.MovePawn(10)
		if p.PassedStart() {
			t.Error("Expected passedStart to reset")
		}
	})
}

func TestPlayerValidation(t *testing.T) {
	p := NewPlayer(0, "alice", 0)
	if err := p.SetDiceRollSum(1); !errors.Is(err, ErrDiceSum) {
		t.Errorf("Expected ErrDiceSum for 1, got %v", err)
	}
	if err := p.SetDiceRollSum(13); !errors.Is(err, ErrDiceSum) {
		t.Errorf("Expected ErrDiceSum for 13, got %v", err)
	}
	if err := p.SetPosition(10, 10); !errors.Is(err, ErrPosition) {
		t.Errorf("Expected ErrPosition, got %v", err)
	}
	if err := p.SetPosition(-1, 10); !errors.Is(err, ErrPosition) {
		t.Errorf("Expected ErrPosition, got %v", err)
	}
}

func TestPlayerProperties(t *testing.T) {
	p := NewPlayer(0, "alice", 0)
	for _, id := range []int{7, 1, 4} {
		if err := p.AddProperty(id); err != nil {
			t.Fatalf("AddProperty(%d) failed: %v", id, err)
		}
	}
	if err := p.AddProperty(4); !errors.Is(err, ErrFieldID) {
		t.Errorf("Expected ErrFieldID on duplicate add, got %v", err)
	}
	if got := p.OwnedFieldIDs(); !reflect.DeepEqual(got, []int{1, 4, 7}) {
		t.Errorf("Expected [1 4 7], got %v", got)
	}
	if err := p.RemoveProperty(4); err != nil {
		t.Fatalf("RemoveProperty failed: %v", err)
	}
	if err := p.RemoveProperty(4); !errors.Is(err, ErrFieldID) {
		t.Errorf("Expected ErrFieldID removing an absent field, got %v", err)
	}
	if p.PropertyCount() != 2 {
		t.Errorf("Expected 2 properties, got %d", p.PropertyCount())
	}
}

func TestPlayerJail(t *testing.T) {
	p := NewPlayer(0, "alice", 0)
	_ = p.SetPosition(2, 10)

	if err := p.GetOutOfJail(); !errors.Is(err, ErrJail) {
		t.Errorf("Expected ErrJail leaving jail while free, got %v", err)
	}
	if err := p.PutInJail(5); err != nil {
		t.Fatalf("PutInJail failed: %v", err)
	}
	if !p.IsInJail() || p.Position() != 5 {
		t.Errorf("Expected jailed on 5, got jailed=%t pos=%d", p.IsInJail(), p.Position())
	}
	if err := p.PutInJail(5); !errors.Is(err, ErrJail) {
		t.Errorf("Expected ErrJail on redundant jailing, got %v", err)
	}
	if err := p.GetOutOfJail(); err != nil {
		t.Fatalf("GetOutOfJail failed: %v", err)
	}
	if p.IsInJail() {
		t.Error("Expected player to be free")
	}
}

func TestChanceCardApply(t *testing.T) {
	p := NewPlayer(0, "alice", 50)

	pay := ChanceCard{ID: 0, Description: "Fine", Action: ActionPay, Amount: 30}
	if err := pay.Apply(p); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if p.Money() != 20 {
		t.Errorf("Expected 20 after paying 30, got %d", p.Money())
	}

	earn := ChanceCard{ID: 1, Description: "Dividend", Action: ActionEarn, Amount: 50}
	if err := earn.Apply(p); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if p.Money() != 70 {
		t.Errorf("Expected 70 after earning 50, got %d", p.Money())
	}

	bad := ChanceCard{ID: 2, Action: "teleport", Amount: 10}
	if err := bad.Apply(p); !errors.Is(err, ErrChanceAction) {
		t.Errorf("Expected ErrChanceAction, got %v", err)
	}
	if p.Money() != 70 {
		t.Errorf("Unknown action changed the balance to %d", p.Money())
	}
}

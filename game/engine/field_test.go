package engine

import (
	"errors"
	"testing"
)

func newTestStreet() *Street {
	rents := RentTable{Houses: [4]int{150, 450, 900, 1150}, Hotel: 1400}
	return NewStreet(1, "Mayfair", "navy", 400, 200, 100, rents, 200, 200)
}

func TestStreetRentTiers(t *testing.T) {
	s := newTestStreet()
	if s.CurrentRent() != 100 {
		t.Errorf("Expected base rent 100, got %d", s.CurrentRent())
	}

	expected := []int{150, 450, 900, 1150}
	for i, want := range expected {
		if err := s.AddHouse(); err != nil {
			t.Fatalf("AddHouse %d failed: %v", i+1, err)
		}
		if s.CurrentRent() != want {
			t.Errorf("Expected rent %d with %d houses, got %d", want, i+1, s.CurrentRent())
		}
	}

	if err := s.AddHotel(); err != nil {
		t.Fatalf("AddHotel failed: %v", err)
	}
	if s.CurrentRent() != 1400 {
		t.Errorf("Expected hotel rent 1400, got %d", s.CurrentRent())
	}
	if s.Houses() != 0 || !s.HasHotel() {
		t.Errorf("Expected 0 houses and a hotel, got %d houses, hotel %t", s.Houses(), s.HasHotel())
	}

	if err := s.AddHouse(); !errors.Is(err, ErrHousesNum) {
		t.Errorf("Expected ErrHousesNum adding a house to a hotel street, got %v", err)
	}
	if err := s.AddHotel(); !errors.Is(err, ErrHousesNum) {
		t.Errorf("Expected ErrHousesNum adding a second hotel, got %v", err)
	}
}

func TestStreetHouseLimits(t *testing.T) {
	t.Run("fifth house", func(t *testing.T) {
		s := newTestStreet()
		for i := 0; i < MaxHousesPerStreet; i++ {
			if err := s.AddHouse(); err != nil {
				t.Fatalf("AddHouse failed: %v", err)
			}
		}
		if err := s.AddHouse(); !errors.Is(err, ErrHousesNum) {
			t.Errorf("Expected ErrHousesNum, got %v", err)
		}
		if s.Houses() != MaxHousesPerStreet {
			t.Errorf("Expected %d houses, got %d", MaxHousesPerStreet, s.Houses())
		}
	})

	t.Run("hotel needs four houses", func(t *testing.T) {
		s := newTestStreet()
		_ = s.AddHouse()
		if err := s.AddHotel(); !errors.Is(err, ErrHousesNum) {
			t.Errorf("Expected ErrHousesNum, got %v", err)
		}
	})

	t.Run("nothing to remove", func(t *testing.T) {
		s := newTestStreet()
		if err := s.RemoveHouse(); !errors.Is(err, ErrHousesNum) {
			t.Errorf("Expected ErrHousesNum removing a house, got %v", err)
		}
		if err := s.RemoveHotel(); !errors.Is(err, ErrHousesNum) {
			t.Errorf("Expected ErrHousesNum removing a hotel, got %v", err)
		}
	})

	t.Run("remove hotel restores four houses", func(t *testing.T) {
		s := newTestStreet()
		for i := 0; i < MaxHousesPerStreet; i++ {
			_ = s.AddHouse()
		}
		_ = s.AddHotel()
		if err := s.RemoveHotel(); err != nil {
			t.Fatalf("RemoveHotel failed: %v", err)
		}
		if s.Houses() != 4 || s.HasHotel() || s.CurrentRent() != 1150 {
			t.Errorf("Expected 4 houses, no hotel, rent 1150; got %d, %t, %d", s.Houses(), s.HasHotel(), s.CurrentRent())
		}
	})
}

func TestMortgageRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		houses int
	}{
		{"undeveloped", 0},
		{"two houses", 2},
		{"four houses", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStreet()
			for i := 0; i < tt.houses; i++ {
				_ = s.AddHouse()
			}
			before := s.CurrentRent()

			if err := s.DoMortgage(); err != nil {
				t.Fatalf("DoMortgage failed: %v", err)
			}
			if s.CurrentRent() != 0 {
				t.Errorf("Expected rent 0 while mortgaged, got %d", s.CurrentRent())
			}
			if err := s.DoMortgage(); !errors.Is(err, ErrMortgage) {
				t.Errorf("Expected ErrMortgage on double mortgage, got %v", err)
			}
			if err := s.LiftMortgage(); err != nil {
				t.Fatalf("LiftMortgage failed: %v", err)
			}
			if s.CurrentRent() != before {
				t.Errorf("Expected rent %d after lifting, got %d", before, s.CurrentRent())
			}
			if err := s.LiftMortgage(); !errors.Is(err, ErrMortgage) {
				t.Errorf("Expected ErrMortgage lifting an unmortgaged street, got %v", err)
			}
		})
	}

	t.Run("property", func(t *testing.T) {
		p := NewProperty(4, "Station", "station", 200, 100, 25)
		_ = p.DoMortgage()
		if p.CurrentRent() != 0 {
			t.Errorf("Expected rent 0, got %d", p.CurrentRent())
		}
		_ = p.LiftMortgage()
		if p.CurrentRent() != 25 {
			t.Errorf("Expected rent 25, got %d", p.CurrentRent())
		}
	})
}

func TestReturnToBank(t *testing.T) {
	s := newTestStreet()
	s.SetOwner(3)
	for i := 0; i < 4; i++ {
		_ = s.AddHouse()
	}
	_ = s.AddHotel()
	s.mortgaged = true

	for i := 0; i < 2; i++ {
		s.ReturnToBank()
		if _, owned := s.Owner(); owned {
			t.Errorf("Expected no owner after ReturnToBank #%d", i+1)
		}
		if s.IsMortgaged() || s.Houses() != 0 || s.HasHotel() {
			t.Errorf("Expected clean street after ReturnToBank #%d", i+1)
		}
		if s.CurrentRent() != s.BaseRent() {
			t.Errorf("Expected base rent %d, got %d", s.BaseRent(), s.CurrentRent())
		}
	}
}

func TestTotalValue(t *testing.T) {
	s := newTestStreet()
	if s.TotalValue() != 200 {
		t.Errorf("Expected 200, got %d", s.TotalValue())
	}
	_ = s.AddHouse()
	_ = s.AddHouse()
	if s.TotalValue() != 200+2*200 {
		t.Errorf("Expected 600, got %d", s.TotalValue())
	}
	_ = s.AddHouse()
	_ = s.AddHouse()
	_ = s.AddHotel()
	if s.TotalValue() != 200+200 {
		t.Errorf("Expected 400 with a hotel, got %d", s.TotalValue())
	}

	p := NewProperty(4, "Station", "station", 200, 100, 25)
	_ = p.DoMortgage()
	if p.TotalValue() != 0 {
		t.Errorf("Expected 0 for a mortgaged property, got %d", p.TotalValue())
	}
}

func TestFieldKinds(t *testing.T) {
	fields := []struct {
		field Field
		kind  FieldKind
	}{
		{NewPlainField(0, "Plain"), KindPlain},
		{NewProperty(1, "Station", "station", 200, 100, 25), KindProperty},
		{newTestStreet(), KindStreet},
		{NewSpecialField(3, "Jail", SpecialJail, 0), KindSpecial},
	}
	for _, tt := range fields {
		if tt.field.Kind() != tt.kind {
			t.Errorf("Expected %s for %s, got %s", tt.kind, tt.field.Name(), tt.field.Kind())
		}
	}

	var _ Ownable = newTestStreet()
	var _ Ownable = NewProperty(1, "Station", "station", 200, 100, 25)
}

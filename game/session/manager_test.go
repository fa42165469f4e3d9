package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/service"
)

// createTestConfig is a 6 field board: 0 start, 1 chance, 2 Red Lane,
// 3 jail, 4 Red Square, 5 tax.
func createTestConfig() *engine.BoardConfig {
	red := &engine.StreetConfig{HouseRents: [4]int{10, 30, 90, 160}, HotelRent: 250, HouseCost: 50, HotelCost: 50}
	return &engine.BoardConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		Colours:     map[string]int{"red": 2},
		Properties: []engine.PropertyConfig{
			{ID: 2, Name: "Red Lane", Colour: "red", Price: 60, Mortgage: 30, Rent: 2, Street: red},
			{ID: 4, Name: "Red Square", Colour: "red", Price: 80, Mortgage: 40, Rent: 4, Street: red},
		},
		Specials: []engine.SpecialFieldConfig{
			{ID: 0, Name: "Start", Kind: engine.SpecialStart},
			{ID: 1, Name: "Chance", Kind: engine.SpecialChance},
			{ID: 3, Name: "Jail", Kind: engine.SpecialJail},
			{ID: 5, Name: "Tax", Kind: engine.SpecialTax, Amount: 75},
		},
		ChanceCards: []engine.ChanceCard{
			{ID: 0, Description: "Birthday", Action: engine.ActionEarn, Amount: 10},
		},
	}
}

func createOptions(players ...string) service.CreateOptions {
	if len(players) == 0 {
		players = []string{"Ann", "Ben"}
	}
	return service.CreateOptions{
		ConfigName: "test",
		Config:     createTestConfig(),
		Players:    players,
		Dice:       engine.NewSequenceDice(engine.DiceRoll{First: 1, Second: 1}),
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", createOptions())
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Game == nil || !session.Game.IsPrepared() {
			t.Error("Expected a prepared game")
		}
		if session.Ledger == nil {
			t.Error("Expected ledger to be initialized")
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", createOptions())
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %q", session.ID)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", createOptions())
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", createOptions())
		if !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		_, err := manager.Create("../etc", createOptions())
		if !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		opts := createOptions()
		opts.Config.Colours["red"] = 3
		_, err := manager.Create("invalid-test", opts)
		if !errors.Is(err, engine.ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
		if _, err := manager.Get("invalid-test"); err == nil {
			t.Error("Failed creation should not leave a session behind")
		}
	})

	t.Run("no players", func(t *testing.T) {
		opts := createOptions()
		opts.Players = nil
		if _, err := manager.Create("empty", opts); !errors.Is(err, service.ErrInvalidPlayers) {
			t.Errorf("Expected ErrInvalidPlayers, got %v", err)
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("get-test", createOptions())

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Errorf("Expected the created session, got %s", session.ID)
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session != created {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	manager.Create("delete-test", createOptions())

	if err := manager.Delete("DELETE-TEST"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := manager.Get("delete-test"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
	}
	if err := manager.Delete("delete-test"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound deleting twice, got %v", err)
	}
	if err := manager.DeleteFromMemory("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	for _, id := range []string{"a1", "a2", "a3"} {
		if _, err := manager.Create(id, createOptions()); err != nil {
			t.Fatalf("Failed to create %s: %v", id, err)
		}
	}

	if got := len(manager.List()); got != 3 {
		t.Errorf("Expected 3 sessions, got %d", got)
	}
	if manager.Count() != 3 {
		t.Errorf("Expected count 3, got %d", manager.Count())
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	old, _ := manager.Create("old", createOptions())
	manager.Create("fresh", createOptions())

	old.Touch(time.Now().Add(-2 * time.Hour))

	removed := manager.CleanupExpiredSessions(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 removed session, got %d", removed)
	}
	if _, err := manager.Get("old"); err == nil {
		t.Error("Expected old session to be removed")
	}
	if _, err := manager.Get("fresh"); err != nil {
		t.Errorf("Expected fresh session to remain, got %v", err)
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("touch", createOptions())
	before := session.LastAccessed()

	time.Sleep(5 * time.Millisecond)
	if err := manager.UpdateLastAccessed("touch"); err != nil {
		t.Fatalf("UpdateLastAccessed failed: %v", err)
	}
	if !session.LastAccessed().After(before) {
		t.Error("Expected last access time to move forward")
	}
	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := manager.Create("", createOptions())
			if err != nil {
				t.Errorf("Create failed: %v", err)
				return
			}
			manager.Get(session.ID)
			manager.UpdateLastAccessed(session.ID)
			manager.List()
		}()
	}
	wg.Wait()

	if manager.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	s1, _ := manager.Create("iso1", createOptions())
	s2, _ := manager.Create("iso2", createOptions())

	s1.Lock()
	if _, err := s1.Game.DiceRoll(); err != nil {
		t.Fatalf("DiceRoll failed: %v", err)
	}
	if _, err := s1.Game.MovePawnNumberOfDots(); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	s1.Unlock()

	if got := s2.Game.CurrentPlayer().Position(); got != 0 {
		t.Errorf("Expected session 2 to be untouched, got position %d", got)
	}
	if got := s1.Game.CurrentPlayer().Position(); got != 2 {
		t.Errorf("Expected session 1 player on field 2, got %d", got)
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := manager.Create("", createOptions())
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if seen[session.ID] {
			t.Fatalf("Duplicate session ID %s", session.ID)
		}
		seen[session.ID] = true
		if strings.Trim(session.ID, "0123456789abcdef") != "" {
			t.Errorf("Expected hex session ID, got %s", session.ID)
		}
	}
}

func TestManager_Maintain(t *testing.T) {
	persistence, err := NewFilePersistence(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}
	manager := NewManagerWithPersistence(persistence)
	session, _ := manager.Create("idle", createOptions())
	session.Touch(time.Now().Add(-time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		manager.Maintain(ctx, 0, 5*time.Millisecond, time.Minute)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for manager.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if manager.Count() != 0 {
		t.Fatal("Expected idle session to be dropped from memory")
	}
	if !persistence.Exists("idle") {
		t.Error("Expected idle session to stay persisted")
	}
}

package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/ledger"
	"github.com/wricardo/mcp-training/propertygame/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	mu       sync.Mutex
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, opts service.CreateOptions) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	session, err := service.NewSession(id, opts)
	if err != nil {
		return nil, err
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}
	session.Touch(time.Now())
	return nil
}

func (m *MockSessionManager) Save(id string) error {
	if _, err := m.Get(id); err != nil {
		return err
	}
	m.mu.Lock()
	m.saves++
	m.mu.Unlock()
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.BoardConfig
}

func NewMockConfigManager() *MockConfigManager {
	poor := testBoard()
	poor.Name = "poor"
	poor.Rules.StartingMoney = 400

	return &MockConfigManager{
		configs: map[string]*engine.BoardConfig{
			"test":    testBoard(),
			"poor":    poor,
			"default": testBoard(),
		},
	}
}

// testBoard is an 8 field board:
// 0 start, 1 chance, 2 castle, 3 tax, 4 jail, 5 red A, 6 red B, 7 go to jail.
func testBoard() *engine.BoardConfig {
	red := &engine.StreetConfig{HouseRents: [4]int{20, 40, 60, 80}, HotelRent: 100, HouseCost: 50, HotelCost: 50}
	return &engine.BoardConfig{
		Name:        "test",
		Description: "Test board",
		Rules: &engine.Rules{
			StartingMoney:   1500,
			StartBonus:      200,
			JailFine:        50,
			MaxRounds:       10,
			MaxJailAttempts: 3,
		},
		Colours: map[string]int{"gold": 1, "red": 2},
		Properties: []engine.PropertyConfig{
			{ID: 2, Name: "Castle", Colour: "gold", Price: 100, Mortgage: 50, Rent: 500},
			{ID: 5, Name: "Red A", Colour: "red", Price: 60, Mortgage: 30, Rent: 10, Street: red},
			{ID: 6, Name: "Red B", Colour: "red", Price: 60, Mortgage: 30, Rent: 10, Street: red},
		},
		Specials: []engine.SpecialFieldConfig{
			{ID: 0, Name: "Start", Kind: engine.SpecialStart},
			{ID: 1, Name: "Chance", Kind: engine.SpecialChance},
			{ID: 3, Name: "Tax", Kind: engine.SpecialTax, Amount: 100},
			{ID: 4, Name: "Jail", Kind: engine.SpecialJail},
			{ID: 7, Name: "Go To Jail", Kind: engine.SpecialGoToJail},
		},
		ChanceCards: []engine.ChanceCard{
			{ID: 0, Description: "Dividend", Action: engine.ActionEarn, Amount: 20},
			{ID: 1, Description: "Speeding fine", Action: engine.ActionPay, Amount: 50},
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.BoardConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, errors.New("configuration not found")
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:   name + ".json",
			ConfigID:   name,
			Name:       config.Name,
			Properties: len(config.Properties),
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.BoardConfig {
	return m.configs["default"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.BoardConfig) error {
	m.configs[name] = config
	return nil
}

// MockRecorder implements service.ResultRecorder for testing
type MockRecorder struct {
	mu      sync.Mutex
	results []*service.GameResult
}

func (r *MockRecorder) RecordResult(ctx context.Context, result *service.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return nil
}

func roll(first, second int) engine.DiceRoll {
	return engine.DiceRoll{First: first, Second: second}
}

// newService returns a service whose games roll the given sequence.
func newService(t *testing.T, rolls ...engine.DiceRoll) (service.GameService, *MockSessionManager, *MockRecorder) {
	t.Helper()
	sessions := NewMockSessionManager()
	recorder := &MockRecorder{}
	svc := service.NewGameService(sessions, NewMockConfigManager(),
		service.WithResultRecorder(recorder),
		service.WithDiceFactory(func() engine.Dice { return engine.NewSequenceDice(rolls...) }),
	)
	return svc, sessions, recorder
}

func createGame(t *testing.T, svc service.GameService, config string, maxRounds int) string {
	t.Helper()
	info, err := svc.CreateSession(context.Background(), config, []string{"Alice", "Bob"}, maxRounds)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return info.ID
}

func money(t *testing.T, svc service.GameService, id string, player int) int {
	t.Helper()
	view, err := svc.GetGameState(context.Background(), id)
	if err != nil {
		t.Fatalf("GetGameState failed: %v", err)
	}
	return view.State.Players[player].Money
}

func mustAct(t *testing.T, what string, run func() (*service.ActionResult, error)) *service.ActionResult {
	t.Helper()
	res, err := run()
	if err != nil {
		t.Fatalf("%s failed: %v", what, err)
	}
	if !res.Success {
		t.Fatalf("%s was not successful", what)
	}
	return res
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	tests := []struct {
		name       string
		configName string
		players    []string
		maxRounds  int
		wantErr    error
		wantAnyErr bool
	}{
		{name: "create with default config", players: []string{"Alice", "Bob"}},
		{name: "create with specific config", configName: "test", players: []string{"Alice", "Bob", "Carol"}},
		{name: "create with invalid config", configName: "nonexistent", players: []string{"Alice"}, wantAnyErr: true},
		{name: "no players", configName: "test", wantErr: service.ErrInvalidPlayers},
		{name: "blank player name", configName: "test", players: []string{"Alice", " "}, wantErr: service.ErrInvalidPlayers},
		{name: "negative round cap", configName: "test", players: []string{"Alice", "Bob"}, maxRounds: -1, wantErr: engine.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.CreateSession(ctx, tt.configName, tt.players, tt.maxRounds)
			wantErr := tt.wantErr != nil || tt.wantAnyErr
			if (err != nil) != wantErr {
				t.Fatalf("CreateSession() error = %v, wantErr %v", err, wantErr)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if wantErr {
				return
			}
			if len(info.Players) != len(tt.players) {
				t.Errorf("Expected %d players, got %d", len(tt.players), len(info.Players))
			}
			if info.GameState.Players[0].Money != 1500 {
				t.Errorf("Expected starting money 1500, got %d", info.GameState.Players[0].Money)
			}
		})
	}
}

// restoringSessionManager also accepts dice for restored games.
type restoringSessionManager struct {
	*MockSessionManager
	dice func() engine.Dice
}

func (m *restoringSessionManager) SetDiceFactory(f func() engine.Dice) { m.dice = f }

func TestGameService_DiceFactoryReachesSessionManager(t *testing.T) {
	want := engine.DiceRoll{First: 4, Second: 1}
	sessions := &restoringSessionManager{MockSessionManager: NewMockSessionManager()}
	service.NewGameService(sessions, NewMockConfigManager(),
		service.WithDiceFactory(func() engine.Dice { return engine.NewSequenceDice(want) }))

	if sessions.dice == nil {
		t.Fatal("Expected the dice factory to be handed to the session manager")
	}
	if got := sessions.dice().Roll(); got != want {
		t.Errorf("Expected roll %+v, got %+v", want, got)
	}

	plain := &restoringSessionManager{MockSessionManager: NewMockSessionManager()}
	service.NewGameService(plain, NewMockConfigManager())
	if plain.dice != nil {
		t.Error("Expected no dice factory without WithDiceFactory")
	}
}

func TestGameService_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	id := createGame(t, svc, "test", 0)

	sessions, err := svc.ListSessions(ctx)
	if err != nil || len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d (%v)", len(sessions), err)
	}
	if _, err := svc.GetSession(ctx, id); err != nil {
		t.Errorf("GetSession failed: %v", err)
	}
	if err := svc.DeleteSession(ctx, id); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, id); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.RollDice(ctx, id); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameService_TurnPhases(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newService(t, roll(1, 1), roll(1, 1))
	id := createGame(t, svc, "test", 0)

	if _, err := svc.EndTurn(ctx, id); !errors.Is(err, service.ErrNotRolled) {
		t.Errorf("Expected ErrNotRolled, got %v", err)
	}
	if _, err := svc.BuyProperty(ctx, id); !errors.Is(err, service.ErrNotRolled) {
		t.Errorf("Expected ErrNotRolled, got %v", err)
	}

	res := mustAct(t, "roll", func() (*service.ActionResult, error) { return svc.RollDice(ctx, id) })
	if res.Move == nil || res.Move.To != 2 {
		t.Fatalf("Expected move to field 2, got %+v", res.Move)
	}
	if !res.Turn.Rolled {
		t.Error("Expected turn to be marked rolled")
	}
	if _, err := svc.RollDice(ctx, id); !errors.Is(err, service.ErrAlreadyRolled) {
		t.Errorf("Expected ErrAlreadyRolled, got %v", err)
	}
	if _, err := svc.PayRent(ctx, id); !errors.Is(err, service.ErrNoRentDue) {
		t.Errorf("Expected ErrNoRentDue, got %v", err)
	}

	mustAct(t, "buy", func() (*service.ActionResult, error) { return svc.BuyProperty(ctx, id) })
	if got := money(t, svc, id, 0); got != 1400 {
		t.Errorf("Expected Alice to have 1400, got %d", got)
	}
	if _, err := svc.BuyProperty(ctx, id); !errors.Is(err, engine.ErrNotForSale) {
		t.Errorf("Expected ErrNotForSale buying twice, got %v", err)
	}

	res = mustAct(t, "end turn", func() (*service.ActionResult, error) { return svc.EndTurn(ctx, id) })
	if res.Turn.Rolled {
		t.Error("Expected fresh turn state after EndTurn")
	}
	if res.GameState.CurrentPlayer != 1 {
		t.Errorf("Expected Bob to be current, got %d", res.GameState.CurrentPlayer)
	}

	// Bob lands on Alice's castle.
	res = mustAct(t, "roll", func() (*service.ActionResult, error) { return svc.RollDice(ctx, id) })
	if !res.Turn.RentPending || res.Turn.RentAmount != 500 || res.Turn.RentOwner != 0 {
		t.Fatalf("Expected 500 rent pending to player 0, got %+v", res.Turn)
	}
	if _, err := svc.EndTurn(ctx, id); !errors.Is(err, service.ErrRentPending) {
		t.Errorf("Expected ErrRentPending, got %v", err)
	}

	mustAct(t, "rent", func() (*service.ActionResult, error) { return svc.PayRent(ctx, id) })
	if got := money(t, svc, id, 0); got != 1900 {
		t.Errorf("Expected Alice to have 1900, got %d", got)
	}
	if got := money(t, svc, id, 1); got != 1000 {
		t.Errorf("Expected Bob to have 1000, got %d", got)
	}
	mustAct(t, "end turn", func() (*service.ActionResult, error) { return svc.EndTurn(ctx, id) })

	page, err := svc.GetLedger(ctx, id, ledger.PageOptions{})
	if err != nil {
		t.Fatalf("GetLedger failed: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("Expected 2 ledger entries, got %d", page.Total)
	}
	if page.Entries[1].Type != string(ledger.EntryRent) || page.Entries[1].From != 1 || page.Entries[1].To != 0 {
		t.Errorf("Unexpected rent entry: %+v", page.Entries[1])
	}
	if sessions.saves == 0 {
		t.Error("Expected sessions to be saved after actions")
	}
}

func TestGameService_RentShortfallAndBankruptcy(t *testing.T) {
	ctx := context.Background()
	svc, _, recorder := newService(t, roll(1, 1), roll(1, 1))
	id := createGame(t, svc, "poor", 0)

	svc.RollDice(ctx, id)
	mustAct(t, "buy", func() (*service.ActionResult, error) { return svc.BuyProperty(ctx, id) })
	mustAct(t, "end turn", func() (*service.ActionResult, error) { return svc.EndTurn(ctx, id) })
	mustAct(t, "roll", func() (*service.ActionResult, error) { return svc.RollDice(ctx, id) })

	if _, err := svc.PayRent(ctx, id); !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}
	if got := money(t, svc, id, 1); got != 400 {
		t.Errorf("Expected Bob's balance untouched at 400, got %d", got)
	}
	if _, err := svc.GetWinner(ctx, id); !errors.Is(err, service.ErrGameNotOver) {
		t.Errorf("Expected ErrGameNotOver, got %v", err)
	}

	res := mustAct(t, "bankrupt", func() (*service.ActionResult, error) { return svc.DeclareBankruptcy(ctx, id) })
	if !res.GameOver {
		t.Fatal("Expected game over after the only opponent went bankrupt")
	}
	if !res.GameState.Players[1].Bankrupt || res.GameState.Players[1].Money != 0 {
		t.Errorf("Expected Bob bankrupt with no money, got %+v", res.GameState.Players[1])
	}

	winner, err := svc.GetWinner(ctx, id)
	if err != nil {
		t.Fatalf("GetWinner failed: %v", err)
	}
	if winner.Winner.Name != "Alice" {
		t.Errorf("Expected Alice to win, got %s", winner.Winner.Name)
	}
	if winner.Winner.NetFlow != -100 {
		t.Errorf("Expected Alice's net flow -100 after buying the castle, got %d", winner.Winner.NetFlow)
	}
	if winner.Standings[1].NetFlow != -400 {
		t.Errorf("Expected Bob's net flow -400 after surrendering his cash, got %d", winner.Standings[1].NetFlow)
	}
	if len(recorder.results) != 1 {
		t.Errorf("Expected 1 recorded result, got %d", len(recorder.results))
	}
	if _, err := svc.RollDice(ctx, id); !errors.Is(err, engine.ErrGameOver) {
		t.Errorf("Expected ErrGameOver, got %v", err)
	}
}

func TestGameService_DevelopmentAndMortgage(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, roll(2, 3), roll(1, 1), roll(4, 5))
	id := createGame(t, svc, "test", 0)

	svc.RollDice(ctx, id)
	mustAct(t, "buy A", func() (*service.ActionResult, error) { return svc.BuyProperty(ctx, id) })
	mustAct(t, "end", func() (*service.ActionResult, error) { return svc.EndTurn(ctx, id) })
	svc.RollDice(ctx, id)
	mustAct(t, "end", func() (*service.ActionResult, error) { return svc.EndTurn(ctx, id) })

	res := mustAct(t, "roll", func() (*service.ActionResult, error) { return svc.RollDice(ctx, id) })
	if res.Move.To != 6 || res.Move.StartBonus != 200 {
		t.Fatalf("Expected move to 6 with start bonus, got %+v", res.Move)
	}
	mustAct(t, "buy B", func() (*service.ActionResult, error) { return svc.BuyProperty(ctx, id) })
	if got := money(t, svc, id, 0); got != 1580 {
		t.Fatalf("Expected 1580, got %d", got)
	}

	steps := []struct {
		name    string
		run     func() (*service.ActionResult, error)
		wantErr error
		money   int
	}{
		{"build on A", func() (*service.ActionResult, error) { return svc.BuildHouse(ctx, id, 5) }, nil, 1530},
		{"uneven build on A", func() (*service.ActionResult, error) { return svc.BuildHouse(ctx, id, 5) }, engine.ErrHousesNum, 1530},
		{"build on B", func() (*service.ActionResult, error) { return svc.BuildHouse(ctx, id, 6) }, nil, 1480},
		{"hotel too early", func() (*service.ActionResult, error) { return svc.BuildHotel(ctx, id, 5) }, engine.ErrHousesNum, 1480},
		{"mortgage developed", func() (*service.ActionResult, error) { return svc.Mortgage(ctx, id, 5) }, engine.ErrMortgage, 1480},
		{"sell on A", func() (*service.ActionResult, error) { return svc.SellHouse(ctx, id, 5) }, nil, 1530},
		{"sell on B", func() (*service.ActionResult, error) { return svc.SellHouse(ctx, id, 6) }, nil, 1580},
		{"mortgage A", func() (*service.ActionResult, error) { return svc.Mortgage(ctx, id, 5) }, nil, 1610},
		{"mortgage again", func() (*service.ActionResult, error) { return svc.Mortgage(ctx, id, 5) }, engine.ErrMortgage, 1610},
		{"lift A", func() (*service.ActionResult, error) { return svc.LiftMortgage(ctx, id, 5) }, nil, 1577},
		{"castle not owned", func() (*service.ActionResult, error) { return svc.Mortgage(ctx, id, 2) }, engine.ErrMortgage, 1577},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			_, err := step.run()
			if step.wantErr == nil && err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if step.wantErr != nil && !errors.Is(err, step.wantErr) {
				t.Fatalf("Expected %v, got %v", step.wantErr, err)
			}
			if got := money(t, svc, id, 0); got != step.money {
				t.Errorf("Expected %d, got %d", step.money, got)
			}
		})
	}

	page, _ := svc.GetLedger(ctx, id, ledger.PageOptions{})
	if page.Total != 9 {
		t.Errorf("Expected 9 ledger entries, got %d", page.Total)
	}
}

func TestGameService_SpecialFields(t *testing.T) {
	ctx := context.Background()

	t.Run("chance and start bonus", func(t *testing.T) {
		svc, _, _ := newService(t, roll(4, 5))
		id := createGame(t, svc, "test", 0)
		res := mustAct(t, "roll", func() (*service.ActionResult, error) { return svc.RollDice(ctx, id) })
		if res.Effect == nil || res.Effect.Card == nil || res.Effect.Card.ID != 0 {
			t.Fatalf("Expected the first chance card, got %+v", res.Effect)
		}
		if got := money(t, svc, id, 0); got != 1720 {
			t.Errorf("Expected 1720, got %d", got)
		}
	})

	t.Run("tax", func(t *testing.T) {
		svc, _, _ := newService(t, roll(1, 2))
		id := createGame(t, svc, "test", 0)
		mustAct(t, "roll", func() (*service.ActionResult, error) { return svc.RollDice(ctx, id) })
		if got := money(t, svc, id, 0); got != 1400 {
			t.Errorf("Expected 1400, got %d", got)
		}
	})

	t.Run("go to jail and pay the fine", func(t *testing.T) {
		svc, _, _ := newService(t, roll(3, 4), roll(1, 1))
		id := createGame(t, svc, "test", 0)
		res := mustAct(t, "roll", func() (*service.ActionResult, error) { return svc.RollDice(ctx, id) })
		if res.Effect == nil || !res.Effect.Jailed {
			t.Fatalf("Expected to be jailed, got %+v", res.Effect)
		}
		if !res.GameState.Players[0].InJail || res.GameState.Players[0].Position != 4 {
			t.Errorf("Expected Alice in jail on field 4, got %+v", res.GameState.Players[0])
		}
		mustAct(t, "end", func() (*service.ActionResult, error) { return svc.EndTurn(ctx, id) })

		if _, err := svc.PayJailFine(ctx, id); !errors.Is(err, engine.ErrJail) {
			t.Errorf("Expected ErrJail for Bob, got %v", err)
		}
		svc.RollDice(ctx, id)
		mustAct(t, "end", func() (*service.ActionResult, error) { return svc.EndTurn(ctx, id) })

		res = mustAct(t, "fine", func() (*service.ActionResult, error) { return svc.PayJailFine(ctx, id) })
		if res.GameState.Players[0].InJail || res.GameState.Players[0].Money != 1450 {
			t.Errorf("Expected Alice free with 1450, got %+v", res.GameState.Players[0])
		}
	})
}

func TestGameService_RoundCap(t *testing.T) {
	ctx := context.Background()
	svc, _, recorder := newService(t, roll(1, 1))
	id := createGame(t, svc, "test", 1)

	for i := 0; i < 2; i++ {
		mustAct(t, "roll", func() (*service.ActionResult, error) { return svc.RollDice(ctx, id) })
		res := mustAct(t, "end", func() (*service.ActionResult, error) { return svc.EndTurn(ctx, id) })
		if want := i == 1; res.GameOver != want {
			t.Fatalf("After %d turns expected game over %v, got %v", i+1, want, res.GameOver)
		}
	}
	if len(recorder.results) != 1 || recorder.results[0].Rounds != 1 {
		t.Errorf("Expected one result after 1 round, got %+v", recorder.results)
	}
}

func TestGameService_ExportLedger(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, roll(1, 1))
	id := createGame(t, svc, "test", 0)
	svc.RollDice(ctx, id)
	svc.BuyProperty(ctx, id)

	var buf bytes.Buffer
	if err := svc.ExportLedger(ctx, id, &buf); err != nil {
		t.Fatalf("ExportLedger failed: %v", err)
	}
	entries, err := ledger.ReadParquet(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("ReadParquet failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Amount != 100 {
		t.Errorf("Expected one 100 purchase, got %+v", entries)
	}
}

func TestGameService_ConcurrentActions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, roll(1, 1))
	id := createGame(t, svc, "test", 0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.RollDice(ctx, id); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("Expected exactly one roll to succeed, got %d", succeeded)
	}
}

func TestGameService_Configs(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 3 {
		t.Fatalf("Expected 3 configs, got %d (%v)", len(configs), err)
	}
	config, err := svc.GetConfig(ctx, "test")
	if err != nil || config.Name != "test" {
		t.Errorf("Expected test config, got %v (%v)", config, err)
	}
	if err := svc.SaveConfig(ctx, "x", nil); err == nil {
		t.Error("Expected error saving a nil config")
	}
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/service"
	"github.com/wricardo/mcp-training/propertygame/logger"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultConfigName is the board preferred as default when present.
const DefaultConfigName = "classic"

// Manager handles board definition loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.BoardConfig
	configs       map[string]*engine.BoardConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.BoardConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a board definition by name
func (m *Manager) LoadConfig(name string) (*engine.BoardConfig, error) {
	name = strings.TrimSuffix(name, ".json")

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	configPath := filepath.Join(m.configDir, name+".json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := engine.ParseBoardConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, name, err)
	}

	m.configs[name] = config
	return config, nil
}

// ListConfigs returns information about all valid board definitions
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		config, err := m.LoadConfig(name)
		if err != nil {
			logger.Log.Warnw("skipping invalid board config", "file", entry.Name(), "error", err)
			continue
		}

		configs = append(configs, configInfo(entry.Name(), name, config))
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })
	return configs, nil
}

func configInfo(filename, id string, config *engine.BoardConfig) *service.ConfigInfo {
	rules := engine.RulesFromConfig(config)
	return &service.ConfigInfo{
		Filename:      filename,
		ConfigID:      id,
		Name:          config.Name,
		Description:   config.Description,
		Fields:        len(config.Properties) + len(config.Specials),
		Properties:    len(config.Properties),
		StartingMoney: rules.StartingMoney,
		MaxRounds:     rules.MaxRounds,
	}
}

// GetDefault returns the default board definition
func (m *Manager) GetDefault() *engine.BoardConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default board definition by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops every cached definition and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.BoardConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig prefers classic.json, then the first valid file, then a
// built-in board.
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig(DefaultConfigName)
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			m.setDefault(MinimalConfig())
			return nil
		}

		config, err = m.LoadConfig(configs[0].ConfigID)
		if err != nil {
			m.setDefault(MinimalConfig())
			return nil
		}
	}

	m.setDefault(config)
	return nil
}

func (m *Manager) setDefault(config *engine.BoardConfig) {
	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
}

// SaveConfig validates and writes a board definition to disk
func (m *Manager) SaveConfig(name string, config *engine.BoardConfig) error {
	if err := engine.ValidateBoardConfig(config); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := engine.NewBoardFromConfig(config); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	name = strings.TrimSuffix(name, ".json")
	configPath := filepath.Join(m.configDir, name+".json")

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}

// MinimalConfig is a four-field board used when no definition is available.
func MinimalConfig() *engine.BoardConfig {
	return &engine.BoardConfig{
		Name:        "default",
		Description: "Default minimal board",
		Colours:     map[string]int{"red": 2},
		Properties: []engine.PropertyConfig{
			{ID: 1, Name: "Red Lane", Colour: "red", Price: 100, Mortgage: 50, Rent: 10,
				Street: &engine.StreetConfig{HouseRents: [4]int{40, 100, 300, 450}, HotelRent: 600, HouseCost: 50, HotelCost: 50}},
			{ID: 3, Name: "Red Square", Colour: "red", Price: 120, Mortgage: 60, Rent: 12,
				Street: &engine.StreetConfig{HouseRents: [4]int{50, 120, 350, 500}, HotelRent: 650, HouseCost: 50, HotelCost: 50}},
		},
		Specials: []engine.SpecialFieldConfig{
			{ID: 0, Name: "Start", Kind: engine.SpecialStart},
			{ID: 2, Name: "Chance", Kind: engine.SpecialChance},
		},
		ChanceCards: []engine.ChanceCard{
			{ID: 0, Description: "Collect a dividend", Action: engine.ActionEarn, Amount: 50},
			{ID: 1, Description: "Pay a repair bill", Action: engine.ActionPay, Amount: 40},
		},
	}
}

package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/service"
	"github.com/wricardo/mcp-training/propertygame/logger"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// Manager handles game session lifecycle
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	dice        func() engine.Dice
	mu          sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// NewManagerWithPersistence creates a new session manager with persistence
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
	}
}

// SetDiceFactory supplies the dice for games restored from persistence.
// Without one, restored games roll time-seeded dice.
func (m *Manager) SetDiceFactory(f func() engine.Dice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dice = f
}

// restoreDice must be called with m.mu held.
func (m *Manager) restoreDice() engine.Dice {
	if m.dice == nil {
		return nil
	}
	return m.dice()
}

// Create starts a new game under id. An empty id gets a generated one.
func (m *Manager) Create(id string, opts service.CreateOptions) (*service.Session, error) {
	if strings.ContainsAny(id, "/\\ ") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	m.mu.Lock()
	if id == "" {
		id = m.generateSessionID()
	}
	if m.sessionExists(id) {
		m.mu.Unlock()
		return nil, ErrSessionAlreadyExists
	}

	session, err := service.NewSession(id, opts)
	if err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	m.sessions[strings.ToLower(id)] = session
	m.mu.Unlock()

	if m.persistence != nil {
		if err := m.persistence.Save(session.Snapshot()); err != nil {
			logger.Log.Warnw("failed to persist new session", "session", id, "error", err)
		}
	}

	return session, nil
}

// Get retrieves a session by ID (case-insensitive), loading it from
// persistence when it is not in memory.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()

	if exists {
		return session, nil
	}

	if m.persistence != nil && m.persistence.Exists(id) {
		snap, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted session: %w", err)
		}
		m.mu.RLock()
		dice := m.restoreDice()
		m.mu.RUnlock()
		session, err := service.RestoreSession(snap, dice)
		if err != nil {
			return nil, fmt.Errorf("failed to restore persisted session: %w", err)
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		// Another goroutine may have loaded it meanwhile.
		if existing, ok := m.sessions[strings.ToLower(id)]; ok {
			return existing, nil
		}
		m.sessions[strings.ToLower(id)] = session
		return session, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
}

// List returns all sessions in memory
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session from memory and persistence
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	_, inMemory := m.sessions[lowerID]
	delete(m.sessions, lowerID)

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	if !inMemory {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// DeleteFromMemory removes a session from memory only (not from persistence)
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, lowerID)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()
	if !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	session.Touch(time.Now())
	return nil
}

// Save saves a specific session to persistence
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()
	if !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	return m.persistence.Save(session.Snapshot())
}

// CleanupExpiredSessions drops sessions from memory that haven't been
// accessed in maxAge. Persisted copies are kept.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, session := range m.sessions {
		if session.LastAccessed().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of sessions in memory
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID generates a random 4-character session ID not yet in use.
// Callers hold m.mu.
func (m *Manager) generateSessionID() string {
	bytes := make([]byte, 2)
	for {
		rand.Read(bytes)
		id := hex.EncodeToString(bytes)
		if !m.sessionExists(id) {
			return id
		}
	}
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}

// LoadPersistedSessions loads all persisted sessions into memory
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	sessionIDs, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loadedCount := 0
	for _, id := range sessionIDs {
		if _, exists := m.sessions[strings.ToLower(id)]; exists {
			continue
		}

		snap, err := m.persistence.Load(id)
		if err != nil {
			logger.Log.Warnw("failed to load persisted session", "session", id, "error", err)
			continue
		}
		session, err := service.RestoreSession(snap, m.restoreDice())
		if err != nil {
			logger.Log.Warnw("failed to restore persisted session", "session", id, "error", err)
			continue
		}

		m.sessions[strings.ToLower(id)] = session
		loadedCount++
	}

	if loadedCount > 0 {
		logger.Log.Infow("loaded persisted sessions", "count", loadedCount)
	}

	return nil
}

// SaveAllSessions saves all in-memory sessions to persistence
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}

	errorCount := 0
	for _, session := range m.List() {
		if err := m.persistence.Save(session.Snapshot()); err != nil {
			logger.Log.Warnw("failed to save session", "session", session.ID, "error", err)
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to save %d sessions", errorCount)
	}

	return nil
}

// Maintain saves every session each syncInterval and drops sessions idle
// for longer than maxAge each cleanupInterval, until ctx is done. A zero
// interval disables that job.
func (m *Manager) Maintain(ctx context.Context, syncInterval, cleanupInterval, maxAge time.Duration) {
	var syncC, cleanupC <-chan time.Time
	if syncInterval > 0 {
		t := time.NewTicker(syncInterval)
		defer t.Stop()
		syncC = t.C
	}
	if cleanupInterval > 0 && maxAge > 0 {
		t := time.NewTicker(cleanupInterval)
		defer t.Stop()
		cleanupC = t.C
	}

	for {
		select {
		case <-ctx.Done():
			if err := m.SaveAllSessions(); err != nil {
				logger.Log.Warnw("final session save failed", "error", err)
			}
			return
		case <-syncC:
			if err := m.SaveAllSessions(); err != nil {
				logger.Log.Warnw("periodic session save failed", "error", err)
			}
		case <-cleanupC:
			if err := m.SaveAllSessions(); err != nil {
				logger.Log.Warnw("session save before cleanup failed", "error", err)
			}
			if n := m.CleanupExpiredSessions(maxAge); n > 0 {
				logger.Log.Infow("expired idle sessions", "count", n)
			}
		}
	}
}

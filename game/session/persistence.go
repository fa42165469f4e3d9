package session

import (
	"encoding/json"
	"fmt"

	"github.com/wricardo/mcp-training/propertygame/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session snapshot to storage
	Save(snapshot *service.Snapshot) error

	// Load retrieves a session snapshot from storage by ID
	Load(id string) (*service.Snapshot, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

func encodeSnapshot(snapshot *service.Snapshot, indent bool) ([]byte, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(snapshot, "", "  ")
	} else {
		data, err = json.Marshal(snapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session data: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (*service.Snapshot, error) {
	var snapshot service.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return &snapshot, nil
}

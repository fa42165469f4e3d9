// Package session provides session management for the property trading game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Persistence of sessions as JSON snapshots (files, PostgreSQL, Redis)
//   - Recording of finished games in PostgreSQL
//   - Periodic saving and expiry of idle sessions
//
// Core Types:
//
// Manager keeps the live sessions in memory and falls back to its
// SessionPersistence for sessions it has not loaded yet. FilePersistence,
// GormStore and RedisPersistence are the available backends. GormStore also
// implements service.ResultRecorder.
//
// Session Identifiers:
//
// Generated session IDs are 4 hex characters. Lookups are case-insensitive.
//
// Concurrency:
//
// The manager guards its map with its own lock. Game state inside a session
// is guarded by the session lock; Save takes a snapshot under that lock, so
// callers must not hold it while saving.
//
// Usage:
//
//	store, err := session.NewFilePersistence("sessions")
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(store)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Fatal(err)
//	}
//	go manager.Maintain(ctx, time.Minute, 10*time.Minute, 24*time.Hour)
package session

// Package service provides the business logic layer for the property trading game.
//
// The service package implements:
//   - Multi-session game management
//   - Turn phases on top of the engine (rolled, rent pending)
//   - Two-phase rent: a player who cannot cover rent gets ErrInsufficientFunds
//     and may sell, mortgage or declare bankruptcy before retrying
//   - A per-game transaction ledger with Parquet export
//   - Recording of finished games
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages board definition loading and validation.
// ResultRecorder stores the outcome of finished games.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. The engine is not safe for concurrent use, so every call
// that touches a game holds that session's lock for its whole duration.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic", []string{"Ann", "Bob"}, 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.RollDice(ctx, info.ID)
//	if result.Turn.RentPending {
//		_, err = gameService.PayRent(ctx, info.ID)
//	}
package service

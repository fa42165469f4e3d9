package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/wricardo/mcp-training/propertygame/game/config"
	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/ledger"
	"github.com/wricardo/mcp-training/propertygame/game/service"
	"github.com/wricardo/mcp-training/propertygame/logger"
	"github.com/wricardo/mcp-training/propertygame/monitor"
	"github.com/wricardo/mcp-training/propertygame/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	metrics *monitor.Metrics
	router  *mux.Router
	handler http.Handler
	origins []string
}

type Option func(*Server)

// WithMetrics serves m on /metrics.
func WithMetrics(m *monitor.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithCORS lets browsers on the given origins call the API. "*" allows any.
func WithCORS(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// NewServer creates a new API server. hub may be nil.
func NewServer(gameService service.GameService, hub *websocket.Hub, opts ...Option) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	s.handler = s.router
	if len(s.origins) > 0 {
		s.handler = cors.New(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(s.router)
	}
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Games
	api.HandleFunc("/games", s.handleCreateGame).Methods("POST")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleDeleteGame).Methods("DELETE")
	api.HandleFunc("/games/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/games/{id}/winner", s.handleGetWinner).Methods("GET")
	api.HandleFunc("/games/{id}/ledger", s.handleGetLedger).Methods("GET")
	api.HandleFunc("/games/{id}/ledger.parquet", s.handleExportLedger).Methods("GET")

	// Turn actions
	api.HandleFunc("/games/{id}/roll", s.turnAction("roll", s.service.RollDice)).Methods("POST")
	api.HandleFunc("/games/{id}/buy", s.turnAction("buy", s.service.BuyProperty)).Methods("POST")
	api.HandleFunc("/games/{id}/rent", s.turnAction("rent", s.service.PayRent)).Methods("POST")
	api.HandleFunc("/games/{id}/jail/pay", s.turnAction("jail_fine", s.service.PayJailFine)).Methods("POST")
	api.HandleFunc("/games/{id}/end-turn", s.turnAction("end_turn", s.service.EndTurn)).Methods("POST")
	api.HandleFunc("/games/{id}/bankrupt", s.turnAction("bankrupt", s.service.DeclareBankruptcy)).Methods("POST")

	// Development and mortgages
	api.HandleFunc("/games/{id}/houses", s.fieldAction(map[string]fieldOp{
		"build": {"build_house", s.service.BuildHouse},
		"sell":  {"sell_house", s.service.SellHouse},
	})).Methods("POST")
	api.HandleFunc("/games/{id}/hotels", s.fieldAction(map[string]fieldOp{
		"build": {"build_hotel", s.service.BuildHotel},
		"sell":  {"sell_hotel", s.service.SellHotel},
	})).Methods("POST")
	api.HandleFunc("/games/{id}/mortgage", s.fieldAction(map[string]fieldOp{
		"mortgage": {"mortgage", s.service.Mortgage},
		"lift":     {"lift_mortgage", s.service.LiftMortgage},
	})).Methods("POST")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{"error": message, "code": status})
}

// respondServiceError maps a service error to its HTTP status.
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, config.ErrConfigNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrInvalidPlayers),
		errors.Is(err, engine.ErrInvalidConfig),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, engine.ErrUnknownField),
		errors.Is(err, engine.ErrNotStreet),
		errors.Is(err, engine.ErrNotOwnable),
		errors.Is(err, engine.ErrColour),
		errors.Is(err, engine.ErrDuplicateFieldID),
		errors.Is(err, engine.ErrDuplicateCardID),
		errors.Is(err, engine.ErrChanceAction),
		errors.Is(err, engine.ErrInvalidAmount):
		return http.StatusBadRequest

	case errors.Is(err, engine.ErrHousesNum),
		errors.Is(err, engine.ErrMortgage),
		errors.Is(err, engine.ErrJail),
		errors.Is(err, engine.ErrNotForSale),
		errors.Is(err, engine.ErrGameOver),
		errors.Is(err, engine.ErrBankrupt),
		errors.Is(err, engine.ErrSelfRent),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrAlreadyRolled),
		errors.Is(err, service.ErrNotRolled),
		errors.Is(err, service.ErrRentPending),
		errors.Is(err, service.ErrNoRentDue),
		errors.Is(err, service.ErrGameNotOver):
		return http.StatusConflict

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Game Handlers

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID  string   `json:"config_id,omitempty"`
		Players   []string `json:"players"`
		MaxRounds int      `json:"max_rounds,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	game, err := s.service.CreateSession(r.Context(), req.ConfigID, req.Players, req.MaxRounds)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, game)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default)
	limitStr := query.Get("limit") // number of games to return
	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(games, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = games[i].CreatedAt, games[j].CreatedAt
		} else {
			ti, tj = games[i].LastAccessedAt, games[j].LastAccessedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(games)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(games) {
			games = games[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(games),
		"total": total,
		"games": games,
		"sort":  sortBy,
		"order": order,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), gameID); err != nil {
		respondServiceError(w, err)
		return
	}
	if s.hub != nil {
		s.hub.BroadcastEvent(gameID, websocket.EventGameDeleted, nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Game %s deleted", gameID),
	})
}

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.GetGameState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetWinner(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.GetWinner(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetLedger(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := ledger.PageOptions{
		Page:  1,
		Limit: ledger.DefaultPageSize,
		Order: "asc",
		Type:  query.Get("type"),
	}
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}
	if playerStr := query.Get("player"); playerStr != "" {
		p, err := strconv.Atoi(playerStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "player must be a number")
			return
		}
		opts.Player = &p
	}

	page, err := s.service.GetLedger(r.Context(), mux.Vars(r)["id"], opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (s *Server) handleExportLedger(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var buf bytes.Buffer
	if err := s.service.ExportLedger(r.Context(), gameID, &buf); err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.apache.parquet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", gameID+"-ledger.parquet"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// Action Handlers

type actionFunc func(ctx context.Context, gameID string) (*service.ActionResult, error)

type fieldFunc func(ctx context.Context, gameID string, fieldID int) (*service.ActionResult, error)

type fieldOp struct {
	name string
	run  fieldFunc
}

func (s *Server) turnAction(name string, run actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := mux.Vars(r)["id"]
		result, err := run(r.Context(), gameID)
		s.finishAction(w, gameID, name, result, err)
	}
}

// fieldAction dispatches {"field_id": n, "action": "..."} bodies to the
// operation named by action.
func (s *Server) fieldAction(ops map[string]fieldOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := mux.Vars(r)["id"]

		var req struct {
			FieldID *int   `json:"field_id"`
			Action  string `json:"action"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.FieldID == nil {
			respondError(w, http.StatusBadRequest, "field_id is required")
			return
		}
		op, ok := ops[strings.ToLower(req.Action)]
		if !ok {
			allowed := make([]string, 0, len(ops))
			for name := range ops {
				allowed = append(allowed, name)
			}
			sort.Strings(allowed)
			respondError(w, http.StatusBadRequest, fmt.Sprintf("action must be one of %s", strings.Join(allowed, ", ")))
			return
		}

		result, err := op.run(r.Context(), gameID, *req.FieldID)
		s.finishAction(w, gameID, op.name, result, err)
	}
}

func (s *Server) finishAction(w http.ResponseWriter, gameID, action string, result *service.ActionResult, err error) {
	if err != nil {
		logger.Log.Debugw("action rejected", "game", gameID, "action", action, "error", err)
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastAction(gameID, action, result)
	}
	logger.Log.Infow("action", "game", gameID, "action", action, "events", len(result.Events), "game_over", result.GameOver)

	respondJSON(w, http.StatusOK, result)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	board, err := s.service.GetConfig(r.Context(), configName)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var board engine.BoardConfig
	if err := json.NewDecoder(r.Body).Decode(&board); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if board.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}
	if err := engine.ValidateBoardConfig(&board); err != nil {
		respondServiceError(w, err)
		return
	}

	configID := strings.ToLower(strings.ReplaceAll(board.Name, " ", "_"))
	if err := s.service.SaveConfig(r.Context(), configID, &board); err != nil {
		respondError(w, statusFor(err), fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": configID,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket updates are disabled", http.StatusNotFound)
		return
	}
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		http.Error(w, "game parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetSession(r.Context(), gameID); err != nil {
		http.Error(w, "Invalid game", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, gameID)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Command propertygame runs the property trading board game.
//
// Subcommands:
//   - serve (default): REST API, WebSocket updates, /metrics and an /mcp endpoint
//   - mcp: MCP stdio server, proxying to a running API or an internal one
//   - play: a local game on the terminal, humans and bots mixed
//   - simulate: many bot-only games, reporting who wins how often
//   - validate: check board definitions
//   - export: download a game's ledger as Parquet
//
// Settings come from an optional config.yaml and MONOPOLY_* environment
// variables; a .env file is loaded first when present.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mcp-training/propertygame/api"
	"github.com/wricardo/mcp-training/propertygame/game/config"
	"github.com/wricardo/mcp-training/propertygame/game/service"
	"github.com/wricardo/mcp-training/propertygame/game/session"
	"github.com/wricardo/mcp-training/propertygame/logger"
	"github.com/wricardo/mcp-training/propertygame/monitor"
	"github.com/wricardo/mcp-training/propertygame/settings"
	"github.com/wricardo/mcp-training/propertygame/transport/mcp"
	"github.com/wricardo/mcp-training/propertygame/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Property Game Server"
)

// app carries the settings loaded before any subcommand runs.
type app struct {
	settings *settings.Settings
}

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	a := &app{}
	if err := a.command().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:    "propertygame",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "settings",
				Value: ".",
				Usage: "directory holding config.yaml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override log.level (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "development logging at debug level",
			},
		},
		Before: a.before,
		Action: a.serve,
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server with API, WebSocket and MCP endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Usage: "override server.host"},
					&cli.IntFlag{Name: "port", Usage: "override server.port"},
					&cli.StringFlag{Name: "storage", Usage: "override storage.backend (file, postgres, redis, memory)"},
					&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel"},
				},
				Action: a.serve,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run an MCP stdio server",
				Action:  a.stdioMCP,
			},
			a.playCommand(),
			a.simulateCommand(),
			a.validateCommand(),
			a.exportCommand(),
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	s, err := settings.Load(cmd.String("settings"))
	if err != nil {
		return ctx, err
	}
	if level := cmd.String("log-level"); level != "" {
		s.Log.Level = level
	}
	if cmd.Bool("debug") {
		s.Log.Level = "debug"
		s.Log.Development = true
	}
	if err := logger.Init(s.Log.Level, s.Log.Development); err != nil {
		return ctx, err
	}
	a.settings = s
	return ctx, nil
}

// openStorage builds the session manager for the configured backend. The
// returned recorder is nil unless the backend can store game results.
func (a *app) openStorage() (*session.Manager, service.ResultRecorder, func() error, error) {
	st := a.settings.Storage
	noop := func() error { return nil }

	switch st.Backend {
	case "memory":
		return session.NewManager(), nil, noop, nil

	case "postgres":
		store, err := session.NewGormStore(st.Postgres.DSN())
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open postgres storage: %w", err)
		}
		return session.NewManagerWithPersistence(store), store, store.Close, nil

	case "redis":
		pool := session.NewRedisPool(st.Redis.Addr, st.Redis.Password, st.Redis.DB)
		persistence := session.NewRedisPersistence(pool, st.Redis.KeyPrefix, a.settings.Game.SessionTimeout)
		return session.NewManagerWithPersistence(persistence), nil, pool.Close, nil

	default:
		persistence, err := session.NewFilePersistence(st.Dir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		return session.NewManagerWithPersistence(persistence), nil, noop, nil
	}
}

func (a *app) configManager() (*config.Manager, error) {
	configs, err := config.NewManager(a.settings.Game.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if name := a.settings.Game.DefaultConfig; name != "" {
		if err := configs.SetDefault(name); err != nil {
			logger.Log.Warnw("default board not available", "board", name, "error", err)
		}
	}
	return configs, nil
}

// initializeServices wires storage, boards and metrics into the game service.
func (a *app) initializeServices() (service.GameService, *session.Manager, *monitor.Metrics, func() error, error) {
	configs, err := a.configManager()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	sessions, recorder, closeStorage, err := a.openStorage()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	metrics := monitor.NewMetrics("propertygame")
	opts := []service.Option{service.WithMetrics(metrics)}
	if recorder != nil {
		opts = append(opts, service.WithResultRecorder(recorder))
	}
	gameService := service.NewGameService(sessions, configs, opts...)

	if err := sessions.LoadPersistedSessions(); err != nil {
		logger.Log.Warnw("failed to load persisted sessions", "error", err)
	}
	return gameService, sessions, metrics, closeStorage, nil
}

// mcpHandler answers JSON-RPC MCP messages posted to /mcp.
func mcpHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// serve runs the HTTP server until SIGINT or SIGTERM, then shuts down and
// saves every session.
func (a *app) serve(ctx context.Context, cmd *cli.Command) error {
	s := a.settings
	if cmd.IsSet("host") {
		s.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		s.Server.Port = cmd.Int("port")
	}
	if cmd.IsSet("storage") {
		s.Storage.Backend = cmd.String("storage")
	}
	if cmd.Bool("ngrok") {
		s.Ngrok.Enabled = true
	}
	if err := s.Validate(); err != nil {
		return err
	}

	gameService, sessions, metrics, closeStorage, err := a.initializeServices()
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logger.Log.Warnw("failed to close storage", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub()
	apiServer := api.NewServer(gameService, hub, api.WithMetrics(metrics), api.WithCORS(s.Server.AllowedOrigins...))
	mcpClient := mcp.NewClient(s.APIBaseURL())

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))

	addr := s.Addr()
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		sessions.Maintain(gctx, s.Game.SyncInterval, s.Game.CleanupInterval, s.Game.SessionTimeout)
		return nil
	})
	g.Go(func() error {
		logger.Log.Infow("HTTP server listening",
			"addr", addr,
			"api", fmt.Sprintf("http://%s/api", addr),
			"websocket", fmt.Sprintf("ws://%s/ws?game=<game_id>", addr),
			"mcp", fmt.Sprintf("http://%s/mcp", addr),
			"storage", s.Storage.Backend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})
	if s.Ngrok.Enabled {
		g.Go(func() error {
			runNgrok(gctx, s.Ngrok.Domain, mainRouter)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Log.Infow("server stopped")
	return err
}

// runNgrok serves handler through an ngrok tunnel until ctx is done. It
// logs and returns when no auth token is configured.
func runNgrok(ctx context.Context, domain string, handler http.Handler) {
	authToken := os.Getenv("NGROK_AUTHTOKEN")
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if authToken == "" {
		logger.Log.Warnw("ngrok enabled but no auth token provided (set NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Log.Errorw("failed to start ngrok tunnel", "error", err)
		return
	}
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Log.Warnw("failed to close ngrok tunnel", "error", err)
		}
	}()

	ngrokURL := tun.URL()
	logger.Log.Infow("ngrok tunnel established",
		"url", ngrokURL,
		"api", ngrokURL+"/api",
		"mcp", ngrokURL+"/mcp")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Log.Errorw("ngrok server error", "error", err)
	}
	logger.Log.Infow("ngrok tunnel closed")
}

// stdioMCP runs an MCP stdio server. It reuses an API already listening at
// the configured address, or starts an internal one on a loopback port.
func (a *app) stdioMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := a.settings.APIBaseURL()

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/health")
	if err == nil && resp.StatusCode == http.StatusOK {
		resp.Body.Close()
		logger.Log.Infow("using external API server for MCP", "url", baseURL)
	} else {
		if resp != nil {
			resp.Body.Close()
		}
		internalURL, shutdown, err := a.startInternalServer(ctx)
		if err != nil {
			return err
		}
		defer shutdown()
		baseURL = internalURL
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Log.Infow("MCP stdio server ready", "api", baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

func (a *app) startInternalServer(ctx context.Context) (string, func(), error) {
	gameService, sessions, metrics, closeStorage, err := a.initializeServices()
	if err != nil {
		return "", nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		closeStorage()
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}
	addr := listener.Addr().String()

	ctx, cancel := context.WithCancel(ctx)
	hub := websocket.NewHub()
	go hub.Run(ctx)

	httpServer := &http.Server{Handler: api.NewServer(gameService, hub, api.WithMetrics(metrics))}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorw("internal HTTP server error", "error", err)
		}
	}()
	logger.Log.Infow("started internal HTTP server for MCP stdio", "addr", addr)

	shutdown := func() {
		cancel()
		httpServer.Close()
		if err := sessions.SaveAllSessions(); err != nil {
			logger.Log.Warnw("failed to save sessions", "error", err)
		}
		closeStorage()
	}
	return "http://" + addr, shutdown, nil
}

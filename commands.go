package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mcp-training/propertygame/game/driver"
	"github.com/wricardo/mcp-training/propertygame/game/engine"
	"github.com/wricardo/mcp-training/propertygame/game/ledger"
	"github.com/wricardo/mcp-training/propertygame/game/service"
	"github.com/wricardo/mcp-training/propertygame/game/session"
	"github.com/wricardo/mcp-training/propertygame/logger"
	"github.com/wricardo/mcp-training/propertygame/validate"
)

func (a *app) playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play a local game on the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "board", Usage: "board definition (defaults to game.default_config)"},
			&cli.StringSliceFlag{Name: "players", Value: []string{"Ann", "Bob"}, Usage: "player names in turn order"},
			&cli.StringSliceFlag{Name: "human", Usage: "players answered on the terminal; the rest are bots"},
			&cli.IntFlag{Name: "rounds", Usage: "round cap (0 keeps the board's)"},
			&cli.Int64Flag{Name: "seed", Usage: "dice seed (0 is random)"},
			&cli.IntFlag{Name: "reserve", Value: 100, Usage: "cash the bots keep back when buying"},
		},
		Action: a.play,
	}
}

// localService is an in-memory game service for terminal play and
// simulations. Each new game gets dice seeded from seed, counting up.
func (a *app) localService(seed int64) (service.GameService, error) {
	configs, err := a.configManager()
	if err != nil {
		return nil, err
	}
	var next atomic.Int64
	next.Store(seed)
	dice := func() engine.Dice {
		if seed == 0 {
			return engine.NewRandomDice(0)
		}
		return engine.NewRandomDice(next.Add(1))
	}
	return service.NewGameService(session.NewManager(), configs, service.WithDiceFactory(dice)), nil
}

func (a *app) play(ctx context.Context, cmd *cli.Command) error {
	svc, err := a.localService(cmd.Int64("seed"))
	if err != nil {
		return err
	}

	info, err := svc.CreateSession(ctx, cmd.String("board"), cmd.StringSlice("players"), cmd.Int("rounds"))
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	opts := []driver.Option{driver.WithOutput(out)}
	prompt := driver.NewPromptDecider(os.Stdin, out)
	for _, name := range cmd.StringSlice("human") {
		opts = append(opts, driver.WithPlayerDecider(name, prompt))
	}

	ctx, cancel := signalContext(ctx)
	defer cancel()

	fmt.Fprintf(out, "Game %s on %s with %v\n", info.ID, info.ConfigName, info.Players)
	result, err := driver.New(svc, info.ID, driver.NewAutoDecider(cmd.Int("reserve")), opts...).Run(ctx)
	if err != nil {
		return err
	}
	printResult(out, result)
	return nil
}

func printResult(w io.Writer, result *service.GameResult) {
	fmt.Fprintf(w, "\nGame over after %d rounds (%d moves). Winner: %s\n", result.Rounds, result.TotalMoves, result.Winner.Name)
	for i, s := range result.Standings {
		status := ""
		if s.Bankrupt {
			status = " (bankrupt)"
		}
		fmt.Fprintf(w, "%d. %-12s money %6d  fortune %6d%s\n", i+1, s.Name, s.Money, s.Fortune, status)
	}
}

func (a *app) simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play many bot-only games and report win rates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "board", Usage: "board definition (defaults to game.default_config)"},
			&cli.StringSliceFlag{Name: "players", Value: []string{"Ann", "Bob", "Cem", "Dee"}, Usage: "player names in turn order"},
			&cli.IntFlag{Name: "games", Value: 100, Usage: "number of games"},
			&cli.IntFlag{Name: "rounds", Usage: "round cap (0 keeps the board's)"},
			&cli.IntFlag{Name: "parallel", Value: runtime.NumCPU(), Usage: "games played at once"},
			&cli.Int64Flag{Name: "seed", Usage: "dice seed (0 is random)"},
			&cli.IntFlag{Name: "reserve", Value: 100, Usage: "cash the bots keep back when buying"},
		},
		Action: a.simulate,
	}
}

type simulationOptions struct {
	Board    string
	Players  []string
	Games    int
	Rounds   int
	Parallel int
	Reserve  int
}

type simulation struct {
	Games        int
	Wins         map[string]int
	Rounds       int
	Bankruptcies int
}

// runSimulation plays opts.Games bot games on svc, at most opts.Parallel at
// a time, and tallies the winners.
func runSimulation(ctx context.Context, svc service.GameService, opts simulationOptions) (*simulation, error) {
	sim := &simulation{Wins: make(map[string]int)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	for i := 0; i < opts.Games; i++ {
		g.Go(func() error {
			info, err := svc.CreateSession(gctx, opts.Board, opts.Players, opts.Rounds)
			if err != nil {
				return err
			}
			defer svc.DeleteSession(context.Background(), info.ID)

			result, err := driver.New(svc, info.ID, driver.NewAutoDecider(opts.Reserve)).Run(gctx)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}

			mu.Lock()
			defer mu.Unlock()
			sim.Games++
			sim.Wins[result.Winner.Name]++
			sim.Rounds += result.Rounds
			for _, s := range result.Standings {
				if s.Bankrupt {
					sim.Bankruptcies++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sim, nil
}

func (a *app) simulate(ctx context.Context, cmd *cli.Command) error {
	svc, err := a.localService(cmd.Int64("seed"))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(ctx)
	defer cancel()

	started := time.Now()
	sim, err := runSimulation(ctx, svc, simulationOptions{
		Board:    cmd.String("board"),
		Players:  cmd.StringSlice("players"),
		Games:    cmd.Int("games"),
		Rounds:   cmd.Int("rounds"),
		Parallel: cmd.Int("parallel"),
		Reserve:  cmd.Int("reserve"),
	})
	if err != nil {
		return err
	}
	logger.Log.Infow("simulation finished", "games", sim.Games, "elapsed", time.Since(started))

	names := make([]string, 0, len(sim.Wins))
	for name := range sim.Wins {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if sim.Wins[names[i]] != sim.Wins[names[j]] {
			return sim.Wins[names[i]] > sim.Wins[names[j]]
		}
		return names[i] < names[j]
	})

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "%d games, %.1f rounds on average, %d bankruptcies\n",
		sim.Games, float64(sim.Rounds)/float64(max(sim.Games, 1)), sim.Bankruptcies)
	for _, name := range names {
		fmt.Fprintf(out, "  %-12s %4d wins (%.1f%%)\n", name, sim.Wins[name], 100*float64(sim.Wins[name])/float64(sim.Games))
	}
	return nil
}

func (a *app) validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check board definitions",
		ArgsUsage: "[file.json ...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var results []validate.ValidationResult
			if cmd.Args().Len() == 0 {
				var err error
				results, err = validate.Dir(a.settings.Game.ConfigDir)
				if err != nil {
					return err
				}
			}
			for _, file := range cmd.Args().Slice() {
				results = append(results, validate.File(file))
			}
			if len(results) == 0 {
				return cli.Exit("no board definitions found", 1)
			}

			out := cmd.Root().Writer
			if out == nil {
				out = os.Stdout
			}
			if !validate.Report(out, results) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func (a *app) exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "download a game's ledger as a Parquet file",
		ArgsUsage: "GAME_ID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Usage: "API base URL (defaults to the configured server)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (defaults to <GAME_ID>.parquet)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			gameID := cmd.Args().First()
			if gameID == "" {
				return cli.Exit("export needs a GAME_ID", 1)
			}
			baseURL := cmd.String("url")
			if baseURL == "" {
				baseURL = a.settings.APIBaseURL()
			}
			path := cmd.String("out")
			if path == "" {
				path = gameID + ".parquet"
			}

			n, err := exportLedger(ctx, http.DefaultClient, baseURL, gameID, path)
			if err != nil {
				return err
			}
			logger.Log.Infow("ledger exported", "game", gameID, "file", path, "entries", n)
			return nil
		},
	}
}

// exportLedger fetches the Parquet ledger of gameID, checks that it decodes
// and writes it to path. It returns the number of entries.
func exportLedger(ctx context.Context, client *http.Client, baseURL, gameID, path string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/games/%s/ledger.parquet", baseURL, gameID), nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch ledger: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read ledger: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("API error %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	entries, err := ledger.ReadParquet(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("server sent an unreadable ledger: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return len(entries), nil
}

// signalContext cancels ctx on SIGINT or SIGTERM so a long game stops cleanly.
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

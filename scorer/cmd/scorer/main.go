package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/tenpin/tenpin/scorer/internal/config"
	"github.com/tenpin/tenpin/scorer/internal/export"
	"github.com/tenpin/tenpin/scorer/internal/replay"
	"github.com/tenpin/tenpin/scorer/internal/sheet"
)

func main() {
	configPath := flag.String("config", "", "path to config file; sheets may be given as arguments instead")
	strict := flag.Bool("strict", false, "reject rolls that knock down more pins than are standing")
	textfile := flag.String("textfile", "", "write scores to this Prometheus textfile")
	watch := flag.Bool("watch", false, "re-score whenever a sheet or the config file changes")
	logLevel := flag.String("log-level", "", "debug|info|warn|error (overrides config)")
	laneURL := flag.String("lane", "", "replay a game onto the lane server at this base URL")
	laneGame := flag.String("lane-game", "", "name of the game to replay (default: first game)")
	flag.Parse()

	cfg := &config.ScorerConfig{LogLevel: config.DefaultLogLevel}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to load config:", err)
			os.Exit(1)
		}
		cfg = &loaded.Scorer
	}
	applyFlags(cfg, flag.Args(), *strict, *textfile, *logLevel)
	applyLaneFlags(cfg, *laneURL, *laneGame)

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	if len(cfg.Sheets) == 0 {
		slog.Error("no sheets given: pass sheet files as arguments or set scorer.sheets in -config")
		os.Exit(2)
	}
	if cfg.Lane.Endpoint != "" {
		if err := config.ValidateEndpoint(cfg.Lane.Endpoint); err != nil {
			slog.Error("invalid lane endpoint", "err", err)
			os.Exit(2)
		}
	}
	slog.Info("tenpin-scorer starting",
		"sheets", len(cfg.Sheets),
		"strict_frames", cfg.StrictFrames,
		"textfile", cfg.Textfile,
		"watch", *watch,
		"lane", cfg.Lane.Endpoint,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ok := run(ctx, os.Stdout, *cfg)
	if !*watch {
		if !ok {
			os.Exit(1)
		}
		return
	}

	// The watched set is fixed at startup. A reloaded config changes what is
	// scored and how, but sheets it adds are only re-scored when another
	// watched file changes.
	paths := append([]string(nil), cfg.Sheets...)
	var cfgAbs string
	if *configPath != "" {
		cfgAbs, _ = filepath.Abs(*configPath)
		paths = append(paths, *configPath)
	}

	var mu sync.Mutex
	current := *cfg
	err := config.Watch(ctx, paths, func(path string) {
		mu.Lock()
		defer mu.Unlock()

		if path == cfgAbs {
			loaded, err := config.Load(*configPath)
			if err != nil {
				slog.Error("config reload failed, keeping previous config", "err", err)
				return
			}
			next := loaded.Scorer
			applyFlags(&next, flag.Args(), *strict, *textfile, *logLevel)
			applyLaneFlags(&next, *laneURL, *laneGame)
			current = next
			slog.Info("config hot-reloaded", "sheets", len(current.Sheets), "strict_frames", current.StrictFrames)
		}
		run(ctx, os.Stdout, current)
	})
	if err != nil {
		slog.Error("watcher stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("tenpin-scorer shutting down")
}

// applyFlags layers command-line settings over the file config. Positional
// sheet arguments replace the configured list.
func applyFlags(cfg *config.ScorerConfig, args []string, strict bool, textfile, logLevel string) {
	if len(args) > 0 {
		cfg.Sheets = args
	}
	if strict {
		cfg.StrictFrames = true
	}
	if textfile != "" {
		cfg.Textfile = textfile
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
}

// applyLaneFlags layers the replay flags over the file config.
func applyLaneFlags(cfg *config.ScorerConfig, endpoint, game string) {
	if endpoint != "" {
		cfg.Lane.Endpoint = endpoint
	}
	if game != "" {
		cfg.Lane.Game = game
	}
}

// run scores the sheets and, when a lane endpoint is configured, replays the
// selected game onto it. It reports whether every step succeeded.
func run(ctx context.Context, w io.Writer, cfg config.ScorerConfig) bool {
	results, ok := runOnce(w, cfg)
	if cfg.Lane.Endpoint == "" {
		return ok
	}

	r, found := pickGame(results, cfg.Lane.Game)
	if !found {
		slog.Error("game to replay not found", "game", cfg.Lane.Game, "games", len(results))
		return false
	}
	snap, err := replay.New(cfg.Lane).Replay(ctx, r.Rolls)
	if err != nil {
		slog.Error("replay failed", "game", r.Name, "lane", cfg.Lane.Endpoint, "err", err)
		return false
	}
	slog.Info("game replayed", "game", r.Name, "game_id", snap.GameID, "score", snap.Score)
	return ok
}

// pickGame returns the result named name, or the first result when name is
// empty.
func pickGame(results []sheet.Result, name string) (sheet.Result, bool) {
	for _, r := range results {
		if name == "" || r.Name == name {
			return r, true
		}
	}
	return sheet.Result{}, false
}

// runOnce scores every sheet, prints one line per game to w and writes the
// textfile if configured. It reports whether every sheet loaded and every
// roll was accepted.
func runOnce(w io.Writer, cfg config.ScorerConfig) ([]sheet.Result, bool) {
	ok := true
	var all []sheet.Result
	for _, path := range cfg.Sheets {
		s, err := sheet.Load(path)
		if err != nil {
			slog.Error("failed to load sheet", "path", path, "err", err)
			ok = false
			continue
		}

		results := s.Score(cfg.StrictFrames)
		for _, r := range results {
			if r.Err != nil {
				slog.Warn("roll rejected", "sheet", path, "game", r.Name, "err", r.Err)
				ok = false
			}
			fmt.Fprintf(w, "%s\t%d\t%t\n", r.Name, r.Score, r.Complete)
		}
		all = append(all, results...)
	}

	if cfg.Textfile != "" {
		if err := export.WriteFile(cfg.Textfile, all); err != nil {
			slog.Error("failed to write textfile", "path", cfg.Textfile, "err", err)
			return all, false
		}
		slog.Debug("textfile written", "path", cfg.Textfile, "games", len(all))
	}
	return all, ok
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tenpin/tenpin/pkg/bowling"
	"github.com/tenpin/tenpin/server/internal/api"
	"github.com/tenpin/tenpin/server/internal/auth"
	"github.com/tenpin/tenpin/server/internal/config"
	"github.com/tenpin/tenpin/server/internal/lane"
	"github.com/tenpin/tenpin/server/internal/notify"
	"github.com/tenpin/tenpin/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to config file; defaults plus TENPIN_* environment variables when empty")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Server.Level()}))
	slog.SetDefault(logger)

	slog.Info("tenpin-lane starting",
		"config", *configPath,
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"strict_frames", cfg.Server.StrictFrames,
		"stream_interval", cfg.Server.Stream.Interval,
		"webhooks", len(cfg.Server.Webhooks),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var opts []bowling.Option
	if cfg.Server.StrictFrames {
		opts = append(opts, bowling.WithStrictFrames())
	}
	l := lane.New(opts...)
	slog.Info("game started", "game_id", l.Snapshot().GameID, "strict_frames", l.Strict())

	// Completion notifier: one webhook round per finished game.
	notifier := notify.New(l, cfg.Server.Webhooks)
	notifierDone := make(chan struct{})
	go func() {
		defer close(notifierDone)
		notifier.Run(ctx)
	}()

	// WebSocket hub: pushes the game on every change and on each heartbeat.
	hub := ws.New(l, cfg.Server.Stream.Interval)
	go hub.Run(ctx)

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(l))
	httpMux.Handle("/ws/stream", hub)

	requireKey := auth.APIKeyMiddleware(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
		"/api/v1/health",
	)
	if cfg.Server.Auth.Mode == "apikey" && cfg.Server.Auth.Key() == "" {
		slog.Warn("auth mode is apikey but the key is empty; all requests allowed",
			"key_env", cfg.Server.Auth.KeyEnv)
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           requireKey(httpMux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("tenpin-lane shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck

	// Let in-flight webhooks finish; each is bounded by the client timeout.
	<-notifierDone
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadEnv()
	}
	return config.Load(path)
}

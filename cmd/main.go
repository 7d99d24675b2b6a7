package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwrk-planet/logger/pkg/logger"

	"github.com/chathive/chat-service/config"
	"github.com/chathive/chat-service/internal/hub"
	"github.com/chathive/chat-service/internal/postgres"
	"github.com/chathive/chat-service/internal/store"
	httpx "github.com/chathive/chat-service/internal/transport/http"
	"github.com/chathive/chat-service/internal/transport/ws"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting chat-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- store ---
	ctx := context.Background()
	var st store.Store
	switch cfg.Store.Backend {
	case "postgres":
		db, err := postgres.New(ctx, cfg.Store.DSN)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		st = postgres.NewStore(db.Pool)
	default:
		slog.Warn("using in-memory store; durable records will not survive restarts")
		st = store.NewMemoryStore()
	}
	defer st.Close()

	// --- hub ---
	h := hub.New(st, hub.Options{
		IdleWindow:   cfg.IdleWindowDuration(),
		HistoryLimit: cfg.Hub.HistoryLimit,
	})

	// --- HTTP + WS ---
	wsServer := ws.NewServer(h)
	handler := httpx.NewHandler(h, st)
	router := httpx.NewRouter(handler, wsServer, cfg.HTTP.AllowedOrigins)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"bookbarter/internal/app"
	"bookbarter/internal/config"
	"bookbarter/internal/server"
	"bookbarter/internal/util"
	"bookbarter/pkg/store"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	trustedProxies, err := util.NewTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("failed to parse trusted proxies: %v", err)
	}

	// Every feature depends on the store; an unreachable store aborts
	// startup instead of serving degraded.
	dataStore, err := newStore(cfg)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	core, err := app.New(dataStore)
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer, err := server.New(server.Config{
		App:                        core,
		RedisAddr:                  cfg.RedisAddr,
		RedisPassword:              cfg.RedisPassword,
		RegisterRateLimitPerMinute: cfg.RegisterRateLimitPerMinute,
		LookupRateLimitPerMinute:   cfg.LookupRateLimitPerMinute,
		TrustedProxies:             trustedProxies,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("barter server listening", "addr", addr, "backend", cfg.StoreBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

func newStore(cfg config.FileConfig) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		return store.NewGormStore(cfg.DatabaseURL)
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return store.NewSheetsStore(ctx, cfg.SpreadsheetID, cfg.CredentialsFile, cfg.LedgerSheet, cfg.MembersSheet)
	}
}

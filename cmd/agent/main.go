package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropflow/product-importer/internal/background"
	"github.com/dropflow/product-importer/internal/config"
	"github.com/dropflow/product-importer/internal/extractor"
	"github.com/dropflow/product-importer/internal/fetcher"
	"github.com/dropflow/product-importer/internal/page"
	"github.com/dropflow/product-importer/internal/storage"
	"github.com/dropflow/product-importer/internal/transport"
	"github.com/dropflow/product-importer/pkg/logger"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("received shutdown signal")
		cancel()
	}()

	store, err := newStore(cfg)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	fetch, err := newFetcher(cfg)
	if err != nil {
		log.Error("failed to start fetcher", "error", err)
		os.Exit(1)
	}
	defer fetch.Close()

	registry := extractor.NewRegistry()
	session := page.NewSession(registry, nil)
	client := transport.NewClient(cfg.Account.BaseURL, cfg.Account.Timeout)

	coordinator := background.NewCoordinator(registry, session, fetch, client, store)
	coordinator.SetNotificationTTL(cfg.Agent.NotificationTTL)
	coordinator.Restore(ctx)

	api := background.NewAPI(coordinator)
	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.Agent.Host, cfg.Agent.Port),
		Handler: api.Router([]string{"*"}),
	}

	go func() {
		log.Info("agent listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("agent server failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
	log.Info("agent stopped")
}

func newStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Type == "redis" {
		return storage.NewRedisStore(cfg.Storage.RedisAddr, cfg.Storage.RedisDB)
	}
	return storage.NewFileStore(cfg.Storage.FilePath)
}

func newFetcher(cfg *config.Config) (fetcher.Fetcher, error) {
	if cfg.Fetcher.Rendered {
		opts := fetcher.DefaultBrowserOptions()
		opts.Timeout = cfg.Fetcher.Timeout
		return fetcher.NewRenderedFetcher(opts)
	}

	return fetcher.NewHTTPFetcher(fetcher.Options{
		Timeout:      cfg.Fetcher.Timeout,
		MaxRetries:   cfg.Fetcher.MaxRetries,
		RequestDelay: cfg.Fetcher.RequestDelay,
		UserAgents:   cfg.Fetcher.UserAgents,
	}), nil
}

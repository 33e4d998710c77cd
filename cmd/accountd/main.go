package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dropflow/product-importer/internal/config"
	"github.com/dropflow/product-importer/internal/server"
	"github.com/dropflow/product-importer/pkg/logger"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := cfg.ValidateServer(); err != nil {
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

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	tokens := server.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	srv := server.NewServer(store, tokens)

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Router([]string{"*"}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("account service listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
	log.Info("account service stopped")
}

// newStore connects to Postgres when DB_HOST is set, otherwise falls
// back to the in-memory store for local runs.
func newStore(ctx context.Context, cfg *config.Config) (server.Store, error) {
	if cfg.Database.Host == "" {
		store := server.NewMemoryStore()
		if email := os.Getenv("SEED_ACCOUNT_EMAIL"); email != "" {
			if _, err := store.CreateAccount(email,
				os.Getenv("SEED_ACCOUNT_NAME"),
				"free",
				os.Getenv("SEED_ACCOUNT_PASSWORD"),
			); err != nil {
				return nil, err
			}
		}
		return store, nil
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.DBName, cfg.Database.SSLMode)

	return server.NewPostgresStore(ctx, dsn)
}

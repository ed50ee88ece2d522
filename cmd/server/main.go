package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ledgerline/ledger-be/internal/config"
	"github.com/ledgerline/ledger-be/internal/server"
	"github.com/ledgerline/ledger-be/internal/storage"
	"github.com/ledgerline/ledger-be/internal/storage/jsonfile"
	"github.com/ledgerline/ledger-be/internal/storage/postgres"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found; relying on existing environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var (
		users    storage.UserStore
		accounts storage.AccountStore
	)
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("init database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		users, accounts = store, store
	default:
		users = jsonfile.NewUserStore(filepath.Join(cfg.DataDir, "users.json"))
		accounts = jsonfile.NewAccountStore(filepath.Join(cfg.DataDir, "accounts.json"))
	}

	srv := server.New(cfg, log, users, accounts)

	go func() {
		log.Info("ledger backend listening", "addr", cfg.HTTPAddress(), "driver", cfg.StorageDriver)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error("graceful shutdown error", "error", err)
	}
}

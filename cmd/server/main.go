package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ledgerly/ledgerly/internal/analytics"
	"github.com/ledgerly/ledgerly/internal/auth"
	"github.com/ledgerly/ledgerly/internal/config"
	"github.com/ledgerly/ledgerly/internal/database"
	"github.com/ledgerly/ledgerly/internal/export"
	"github.com/ledgerly/ledgerly/internal/ledger"
	"github.com/ledgerly/ledgerly/internal/notifier"
	"github.com/ledgerly/ledgerly/internal/premium"
	"github.com/ledgerly/ledgerly/internal/repository"
	"github.com/ledgerly/ledgerly/internal/scheduler"
	"github.com/ledgerly/ledgerly/internal/server"
	"github.com/ledgerly/ledgerly/internal/storage"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.DatabaseURI == "" {
		log.Error("DATABASE_URI is required")
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	users := repository.NewUserRepository(db)
	transactions := repository.NewTransactionRepository(db)
	categories := repository.NewCategoryRepository(db)
	goals := repository.NewSavingsGoalRepository(db)
	budgets := repository.NewBudgetRepository(db)
	notifications := repository.NewNotificationRepository(db)

	reports := analytics.New(transactions, goals, budgets, categories)
	series := ledger.New(transactions, log)
	exporter := export.New(transactions, reports)
	notify := notifier.New(notifications, log)
	gate := premium.NewGate()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	var avatars server.AvatarStore
	if cfg.BlobServiceURL != "" {
		blob, err := storage.NewBlobStore(cfg.BlobServiceURL, cfg.AvatarContainer)
		if err != nil {
			log.Error("failed to initialize blob store", "error", err)
			os.Exit(1)
		}
		avatars = blob
	} else {
		log.Warn("BLOB_SERVICE_URL not set, avatar uploads disabled")
	}

	sched := scheduler.New(series, cfg.AdvanceInterval, log)
	go sched.Start(ctx)

	srv := server.New(server.Config{
		Users:         users,
		Transactions:  transactions,
		Categories:    categories,
		Goals:         goals,
		Budgets:       budgets,
		Notifications: notifications,
		Analytics:     reports,
		Exporter:      exporter,
		Ledger:        series,
		Avatars:       avatars,
		Notifier:      notify,
		Gate:          gate,
		Tokens:        tokens,
		Log:           log,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

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

	"github.com/eduvision/expenses/internal/auth"
	"github.com/eduvision/expenses/internal/config"
	"github.com/eduvision/expenses/internal/httpapi"
	"github.com/eduvision/expenses/internal/storage/sqlite"
	"github.com/eduvision/expenses/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.SecretKey, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	server := httpapi.NewServer(httpapi.Options{
		Store:              store,
		Authenticator:      authenticator,
		JWT:                jwtManager,
		DisableRequestLogs: cfg.DisableReqLogs,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		slog.Info("Shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}

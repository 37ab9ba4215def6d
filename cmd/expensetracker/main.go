package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"expensetracker/internal/backend"
	"expensetracker/internal/cli"
	apphttp "expensetracker/internal/http"
	applog "expensetracker/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentLedger).Logger, nil).
		Create(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to initialize ledger", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, res.Ledger, logger)
	if err != nil {
		logger.Error("Failed to initialize HTTP server", applog.FieldError, err)
		_ = res.Cleanup()
		os.Exit(1)
	}

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		if err := res.Cleanup(); err != nil {
			logger.Error("Ledger cleanup error", applog.FieldError, err)
		}
	})

	logger.Info("Starting expense tracker",
		"port", cfg.Port,
		"db_path", cfg.SQLiteDBPath,
		"events_enabled", cfg.EventsEnabled())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		_ = res.Cleanup()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully", "requests_served", srv.TotalRequests())
}

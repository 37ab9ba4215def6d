package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"expensetracker/internal/amqp"
	"expensetracker/internal/cli"
	applog "expensetracker/internal/log"
	"expensetracker/internal/sheets"
	gsheet "expensetracker/internal/sheets/google"
	"expensetracker/internal/sheets/memory"
	"expensetracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	var mirror sheets.Mirror
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Mirroring to Google Sheets",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
	} else {
		mirror = memory.New()
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, mirroring in memory only")
	}

	w := worker.NewMirrorWorker(repo, mirror)

	if err := w.Rebuild(ctx); err != nil {
		// the periodic rebuild will try again
		logger.Error("Startup mirror rebuild failed", applog.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.EventsEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()

		g.Go(func() error {
			return client.Consume(gctx, w.HandleEvent)
		})
	} else {
		logger.Info("AMQP_URL not set, relying on periodic rebuilds only")
	}

	g.Go(func() error {
		return w.RunPeriodicRebuild(gctx, cfg.MirrorRebuildInterval)
	})

	logger.Info("Ledger mirror started", "rebuild_interval", cfg.MirrorRebuildInterval.String())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Ledger mirror stopped", applog.FieldError, err)
		os.Exit(1)
	}

	<-done
	logger.Info("Ledger mirror stopped gracefully")
}

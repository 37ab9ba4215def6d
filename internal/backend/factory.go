// Package backend assembles the ledger handle from configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"expensetracker/internal/amqp"
	"expensetracker/internal/config"
	"expensetracker/internal/services"
	"expensetracker/internal/storage"
)

// CleanupFunc releases everything the backend opened.
type CleanupFunc func() error

// Result holds the constructed ledger and its cleanup.
type Result struct {
	Ledger  *services.LedgerService
	Cleanup CleanupFunc
}

// PublisherDialer opens the ledger event publisher.
type PublisherDialer func(url, exchange, queue string) (services.EventPublisher, error)

// DialAMQP is the default PublisherDialer.
func DialAMQP(url, exchange, queue string) (services.EventPublisher, error) {
	client, err := amqp.NewClient(url, exchange, queue)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Factory creates ledgers from configuration.
type Factory struct {
	logger *slog.Logger
	dial   PublisherDialer
}

// NewFactory creates a factory. A nil dial uses DialAMQP.
func NewFactory(logger *slog.Logger, dial PublisherDialer) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	if dial == nil {
		dial = DialAMQP
	}
	return &Factory{logger: logger, dial: dial}
}

// Create opens the SQLite store and, when configured, the AMQP publisher. A
// broker that cannot be reached disables events rather than failing startup.
func (f *Factory) Create(ctx context.Context, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("create backend: config is nil")
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		p, err := f.dial(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			publisher = p
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	ledger := services.NewLedgerService(repo, publisher, services.CategoryPolicy(cfg.CategoryPolicy))

	f.logger.InfoContext(ctx, "Initialized ledger",
		"db_path", cfg.SQLiteDBPath,
		"category_policy", cfg.CategoryPolicy,
		"events_enabled", publisher != nil)

	return &Result{
		Ledger:  ledger,
		Cleanup: ledger.Close,
	}, nil
}

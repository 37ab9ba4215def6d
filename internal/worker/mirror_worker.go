package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/sheets"
)

// Source is the read side of the ledger the mirror copies from.
type Source interface {
	ListAll(ctx context.Context) ([]core.Expense, error)
	Get(ctx context.Context, id int64) (core.Expense, error)
}

// MirrorWorker keeps a sheets.Mirror in step with the ledger.
type MirrorWorker struct {
	source Source
	mirror sheets.Mirror
}

func NewMirrorWorker(source Source, mirror sheets.Mirror) *MirrorWorker {
	return &MirrorWorker{source: source, mirror: mirror}
}

// HandleEvent applies one ledger event to the mirror.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event", "id", ev.ID, "type", ev.Type)

	switch ev.Type {
	case amqp.EventExpenseCreated:
		return w.handleCreated(ctx, ev)
	case amqp.EventExpenseDeleted:
		if err := w.mirror.DeleteRow(ctx, ev.ID); err != nil {
			return fmt.Errorf("delete mirrored expense %d: %w", ev.ID, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
}

func (w *MirrorWorker) handleCreated(ctx context.Context, ev *amqp.LedgerEvent) error {
	e, err := ev.ToExpense()
	if err != nil {
		// fall back to the store when the payload is missing or unreadable
		slog.WarnContext(ctx, "Event payload unusable, reading from store", "id", ev.ID, "error", err)
		e, err = w.source.Get(ctx, ev.ID)
		if errors.Is(err, core.ErrExpenseNotFound) {
			slog.InfoContext(ctx, "Expense already deleted, skipping", "id", ev.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get expense %d: %w", ev.ID, err)
		}
	}

	if err := w.mirror.AppendRow(ctx, e); err != nil {
		return fmt.Errorf("mirror expense %d: %w", ev.ID, err)
	}
	return nil
}

// Rebuild replaces the mirror with the full ledger.
func (w *MirrorWorker) Rebuild(ctx context.Context) error {
	start := time.Now()

	expenses, err := w.source.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	if err := w.mirror.Replace(ctx, expenses); err != nil {
		return fmt.Errorf("replace mirror: %w", err)
	}

	slog.InfoContext(ctx, "Mirror rebuilt",
		"count", len(expenses),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// RunPeriodicRebuild rebuilds the mirror every interval until ctx is done.
// Failed rebuilds are logged and retried on the next tick.
func (w *MirrorWorker) RunPeriodicRebuild(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Rebuild(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic mirror rebuild failed", "error", err)
			}
		}
	}
}

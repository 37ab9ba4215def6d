package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
)

// Store is the persistence side of the ledger.
type Store interface {
	Create(ctx context.Context, e core.Expense) (int64, error)
	ListAll(ctx context.Context) ([]core.Expense, error)
	Delete(ctx context.Context, id int64) (bool, error)
	AggregateByCategory(ctx context.Context) ([]core.CategoryTotal, error)
	Ping(ctx context.Context) error
	Close() error
}

// EventPublisher announces ledger writes to other processes.
type EventPublisher interface {
	Publish(ctx context.Context, ev *amqp.LedgerEvent) error
	Close() error
}

// CategoryPolicy decides whether categories outside core.Categories are
// accepted on create.
type CategoryPolicy string

const (
	CategoryPolicyOpen   CategoryPolicy = "open"
	CategoryPolicyStrict CategoryPolicy = "strict"
)

func (p CategoryPolicy) IsValid() bool {
	return p == CategoryPolicyOpen || p == CategoryPolicyStrict
}

// LedgerService is the handle the presentation layer works against. Each
// method issues exactly one store operation.
type LedgerService struct {
	store     Store
	publisher EventPublisher
	policy    CategoryPolicy
}

// NewLedgerService wires a store with an optional publisher (nil disables events).
func NewLedgerService(store Store, publisher EventPublisher, policy CategoryPolicy) *LedgerService {
	if !policy.IsValid() {
		policy = CategoryPolicyOpen
	}
	return &LedgerService{
		store:     store,
		publisher: publisher,
		policy:    policy,
	}
}

// Create records a new expense and returns its id.
func (s *LedgerService) Create(ctx context.Context, e core.Expense) (int64, error) {
	if s.policy == CategoryPolicyStrict && !core.IsKnownCategory(e.Category) {
		return 0, fmt.Errorf("create expense: %w: %q", core.ErrUnknownCategory, e.Category)
	}

	id, err := s.store.Create(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}
	e.ID = id

	if err := s.publish(ctx, amqp.NewExpenseCreatedEvent(e)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"id", id, "type", amqp.EventExpenseCreated, "error", err)
	}

	return id, nil
}

// ListAll returns every record.
func (s *LedgerService) ListAll(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// Delete removes the record with the given id. removed is false when no
// record matched; that is not an error.
func (s *LedgerService) Delete(ctx context.Context, id int64) (bool, error) {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	if !removed {
		return false, nil
	}

	if err := s.publish(ctx, amqp.NewExpenseDeletedEvent(id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"id", id, "type", amqp.EventExpenseDeleted, "error", err)
	}

	return true, nil
}

// Report returns the category-wise totals.
func (s *LedgerService) Report(ctx context.Context) (core.Report, error) {
	totals, err := s.store.AggregateByCategory(ctx)
	if err != nil {
		return core.Report{}, fmt.Errorf("aggregate by category: %w", err)
	}
	return core.NewReport(totals), nil
}

// Ping checks the store is reachable.
func (s *LedgerService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *LedgerService) publish(ctx context.Context, ev *amqp.LedgerEvent) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Publish(ctx, ev)
}

// Close releases the store and the publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}

	return nil
}

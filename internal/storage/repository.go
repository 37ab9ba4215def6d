package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteRepository owns the expenses table.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single writer: one connection serializes every statement.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Create inserts the expense and returns the id assigned by the store.
// Values are persisted as given.
func (r *SQLiteRepository) Create(ctx context.Context, e core.Expense) (int64, error) {
	id, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		Date:        e.Date.String(),
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount.InexactFloat64(),
	})
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"date", e.Date.String(),
		"category", e.Category,
		"amount", e.Amount.String())

	return id, nil
}

// ListAll returns every stored expense in id order.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	expenses := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		expenses = append(expenses, toCore(ctx, row))
	}
	return expenses, nil
}

// Get returns a single expense, or core.ErrExpenseNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Expense, error) {
	row, err := r.queries.GetExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, core.ErrExpenseNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return toCore(ctx, row), nil
}

// Delete removes the expense with the given id. A missing id is a no-op
// reported as removed == false with a nil error.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := r.queries.DeleteExpense(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete expense %d: %w", id, err)
	}

	if n == 0 {
		slog.DebugContext(ctx, "Delete matched no expense", "id", id)
		return false, nil
	}

	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", id)
	return true, nil
}

// AggregateByCategory sums amounts per category. Categories without
// records are absent from the result.
func (r *SQLiteRepository) AggregateByCategory(ctx context.Context) ([]core.CategoryTotal, error) {
	sums, err := r.queries.GetCategorySums(ctx)
	if err != nil {
		return nil, fmt.Errorf("get category sums: %w", err)
	}

	totals := make([]core.CategoryTotal, 0, len(sums))
	for _, s := range sums {
		totals = append(totals, core.CategoryTotal{Category: s.Category, Total: s.Total})
	}
	return totals, nil
}

// toCore maps a row to the domain type. Rows written by other tools may
// carry a date that does not parse; its text is kept as is.
func toCore(ctx context.Context, row Expense) core.Expense {
	date := core.DateFromStored(row.Date)
	if date.IsZero() {
		slog.WarnContext(ctx, "Stored expense has unparsable date", "id", row.ID, "date", row.Date)
	}
	return core.Expense{
		ID:          row.ID,
		Date:        date,
		Category:    row.Category,
		Description: row.Description.String,
		Amount:      decimal.NewFromFloat(row.Amount),
	}
}

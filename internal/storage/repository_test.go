package storage

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"expensetracker/internal/core"
	"expensetracker/internal/export"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "expenses.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, path
}

func expense(date, category, desc, amount string) core.Expense {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Expense{
		Date:        d,
		Category:    category,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
	}
}

func TestCreateThenListAll(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, expense("2024-01-01", "Food", "lunch", "12.50"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	got := all[0]
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "2024-01-01", got.Date.String())
	assert.Equal(t, "Food", got.Category)
	assert.Equal(t, "lunch", got.Description)
	assert.True(t, decimal.RequireFromString("12.50").Equal(got.Amount), "amount = %s", got.Amount)
}

func TestCreateAssignsFreshIDs(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		id, err := repo.Create(ctx, expense("2024-02-01", "Other", "", "1"))
		require.NoError(t, err)
		assert.False(t, seen[id], "id %d reused", id)
		seen[id] = true
	}

	// AUTOINCREMENT never hands out a deleted id again.
	removed, err := repo.Delete(ctx, 5)
	require.NoError(t, err)
	require.True(t, removed)
	id, err := repo.Create(ctx, expense("2024-02-01", "Other", "", "1"))
	require.NoError(t, err)
	assert.Equal(t, int64(6), id)
}

func TestCreateAcceptsZeroAmountAndAnyCategory(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, expense("2024-03-01", "Groceries", "", "0"))
	require.NoError(t, err)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Groceries", all[0].Category)
	assert.True(t, all[0].Amount.IsZero())
	assert.Equal(t, "", all[0].Description)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, expense("2024-01-01", "Food", "lunch", "12.50"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, expense("2024-01-02", "Travel", "bus", "3"))
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, removed, "second delete is a no-op")

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotEqual(t, id, all[0].ID)
}

func TestDeleteMissingIDLeavesLedgerUnchanged(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, expense("2024-01-01", "Food", "lunch", "12.50"))
	require.NoError(t, err)
	before, err := repo.ListAll(ctx)
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, 999)
	require.NoError(t, err)
	assert.False(t, removed)

	after, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAggregateByCategory(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	totals, err := repo.AggregateByCategory(ctx)
	require.NoError(t, err)
	assert.Empty(t, totals)

	for _, e := range []core.Expense{
		expense("2024-01-01", "Travel", "train", "100"),
		expense("2024-01-02", "Travel", "taxi", "50"),
		expense("2024-01-03", "Food", "dinner", "20.25"),
		expense("2024-01-04", "Food", "", "4.75"),
	} {
		_, err := repo.Create(ctx, e)
		require.NoError(t, err)
	}

	totals, err = repo.AggregateByCategory(ctx)
	require.NoError(t, err)
	byCat := core.NewReport(totals).ByCategory()
	require.Len(t, byCat, 2)
	assert.True(t, decimal.NewFromInt(150).Equal(byCat["Travel"]), "Travel = %s", byCat["Travel"])
	assert.True(t, decimal.NewFromInt(25).Equal(byCat["Food"]), "Food = %s", byCat["Food"])
	_, ok := byCat["Entertainment"]
	assert.False(t, ok)
}

func TestAggregateMatchesListedAmounts(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for _, e := range []core.Expense{
		expense("2024-01-01", "Food", "", "0.1"),
		expense("2024-01-02", "Food", "", "0.2"),
		expense("2024-01-03", "Travel", "", "12.34"),
		expense("2024-01-04", "Travel", "", "99.99"),
		expense("2024-01-05", "Travel", "", "0.07"),
	} {
		_, err := repo.Create(ctx, e)
		require.NoError(t, err)
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	listed := map[string]decimal.Decimal{}
	for _, e := range all {
		listed[e.Category] = listed[e.Category].Add(e.Amount)
	}

	totals, err := repo.AggregateByCategory(ctx)
	require.NoError(t, err)
	byCat := core.NewReport(totals).ByCategory()
	assert.Equal(t, "0.3", byCat["Food"].String())
	assert.Equal(t, "112.4", byCat["Travel"].String())
	for cat, sum := range listed {
		assert.True(t, sum.Equal(byCat[cat]), "%s: listed %s, aggregated %s", cat, sum, byCat[cat])
	}
}

func TestGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, expense("2024-05-05", "Entertainment", "cinema", "9.90"))
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "cinema", got.Description)

	_, err = repo.Get(ctx, id+1)
	assert.ErrorIs(t, err, core.ErrExpenseNotFound)
}

func TestReopenAdoptsExistingTable(t *testing.T) {
	repo, path := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, expense("2024-01-01", "Food", "lunch", "12.50"))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNullDescriptionReadsAsEmpty(t *testing.T) {
	repo, path := newTestRepo(t)
	ctx := context.Background()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.ExecContext(ctx, `INSERT INTO expenses (date, category, description, amount) VALUES ('2024-01-01', 'Other', NULL, 3)`)
	require.NoError(t, err)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "", all[0].Description)
	assert.True(t, decimal.NewFromInt(3).Equal(all[0].Amount))
}

func TestUnparsableStoredDateSurvivesListAndCSV(t *testing.T) {
	repo, path := newTestRepo(t)
	ctx := context.Background()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.ExecContext(ctx, `INSERT INTO expenses (date, category, description, amount) VALUES ('2024-01-05 00:00:00', 'Food', 'x', 3)`)
	require.NoError(t, err)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2024-01-05 00:00:00", all[0].Date.String())

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, all))
	assert.Contains(t, buf.String(), "1,2024-01-05 00:00:00,Food,x,3\n")

	back, err := export.ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "2024-01-05 00:00:00", back[0].Date.String())
}

func TestStorageFailureIsNotANoOp(t *testing.T) {
	repo, _ := newTestRepo(t)
	require.NoError(t, repo.Close())

	removed, err := repo.Delete(context.Background(), 1)
	assert.Error(t, err)
	assert.False(t, removed)
}

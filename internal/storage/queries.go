package storage

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Expense is a row of the expenses table.
type Expense struct {
	ID          int64
	Date        string
	Category    string
	Description sql.NullString
	Amount      float64
}

type CreateExpenseParams struct {
	Date        string
	Category    string
	Description string
	Amount      float64
}

const createExpense = `
INSERT INTO expenses (date, category, description, amount) VALUES (?, ?, ?, ?)
`

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createExpense, arg.Date, arg.Category, arg.Description, arg.Amount)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listExpenses = `
SELECT id, date, category, description, amount FROM expenses ORDER BY id
`

func (q *Queries) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var i Expense
		if err := rows.Scan(&i.ID, &i.Date, &i.Category, &i.Description, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getExpense = `
SELECT id, date, category, description, amount FROM expenses WHERE id = ?
`

func (q *Queries) GetExpense(ctx context.Context, id int64) (Expense, error) {
	row := q.db.QueryRowContext(ctx, getExpense, id)
	var i Expense
	err := row.Scan(&i.ID, &i.Date, &i.Category, &i.Description, &i.Amount)
	return i, err
}

const deleteExpense = `
DELETE FROM expenses WHERE id = ?
`

func (q *Queries) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpense, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// sumPlaces drops the binary noise SQLite leaves in a REAL sum, so 0.1+0.2
// reads back as 0.3 like the per-row amounts do.
const sumPlaces = 9

type CategorySum struct {
	Category string
	Total    decimal.Decimal
}

const getCategorySums = `
SELECT category, SUM(amount) AS total FROM expenses GROUP BY category
`

func (q *Queries) GetCategorySums(ctx context.Context) ([]CategorySum, error) {
	rows, err := q.db.QueryContext(ctx, getCategorySums)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategorySum
	for rows.Next() {
		var (
			i     CategorySum
			total float64
		)
		if err := rows.Scan(&i.Category, &total); err != nil {
			return nil, err
		}
		i.Total = decimal.NewFromFloat(total).Round(sumPlaces)
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Package sheets defines the spreadsheet mirror of the ledger.
package sheets

import (
	"context"

	"expensetracker/internal/core"
)

// Mirror is a copy of the expenses table kept in a spreadsheet. Rows are
// keyed by expense id.
type Mirror interface {
	// AppendRow adds the expense as a new row, or overwrites the row that
	// already holds its id. Replaying a created event leaves one row.
	AppendRow(ctx context.Context, e core.Expense) error
	// DeleteRow removes the row for id. A missing row is not an error.
	DeleteRow(ctx context.Context, id int64) error
	// Replace overwrites the whole sheet with expenses.
	Replace(ctx context.Context, expenses []core.Expense) error
}

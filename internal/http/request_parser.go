package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"expensetracker/internal/core"
)

// ParseExpenseForm builds an expense from the add form. An empty date
// defaults to today.
func ParseExpenseForm(form url.Values, today core.Date) (core.Expense, error) {
	date := today
	if v := strings.TrimSpace(form.Get("date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Expense{}, err
		}
		date = d
	}

	category := sanitizeInput(form.Get("category"))
	if category == "" {
		return core.Expense{}, core.ErrEmptyCategory
	}

	amount, err := core.ParseAmount(form.Get("amount"))
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		Date:        date,
		Category:    category,
		Description: sanitizeInput(form.Get("description")),
		Amount:      amount,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// ParseID parses a record id. Ids start at 1.
func ParseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidID, s)
	}
	return id, nil
}

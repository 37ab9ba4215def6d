package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the text form dates are persisted and exported in.
const DateLayout = "2006-01-02"

const (
	CategoryFood          = "Food"
	CategoryTravel        = "Travel"
	CategoryEntertainment = "Entertainment"
	CategoryOther         = "Other"
)

// Categories is the fixed set offered at entry time. The store itself
// accepts any string.
var Categories = []string{CategoryFood, CategoryTravel, CategoryEntertainment, CategoryOther}

type (
	// Date is a calendar day. Raw holds stored text that did not parse
	// as YYYY-MM-DD so it can be shown and exported unchanged.
	Date struct {
		time.Time
		Raw string
	}

	Expense struct {
		ID          int64
		Date        Date
		Category    string
		Description string
		Amount      decimal.Decimal
	}
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrUnknownCategory = errors.New("unknown category")
	ErrEmptyCategory   = errors.New("empty category")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidID       = errors.New("invalid expense id")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date in UTC.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// DateFromStored reads a persisted or imported date. Text that is not
// YYYY-MM-DD is kept verbatim in Raw.
func DateFromStored(s string) Date {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{Raw: s}
	}
	return Date{Time: t}
}

func (d Date) String() string {
	if d.IsZero() {
		return d.Raw
	}
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsKnownCategory reports whether c belongs to Categories.
func IsKnownCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Validate checks what the entry form guarantees: a date, a category and a
// non-negative amount. Zero is a valid amount.
func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

package http

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
)

func TestParseExpenseForm(t *testing.T) {
	today := core.NewDate(2024, 5, 17)

	tests := []struct {
		name    string
		form    url.Values
		want    core.Expense
		wantErr error
	}{
		{
			name: "full form",
			form: url.Values{"date": {"2024-03-01"}, "category": {"Food"}, "description": {" lunch "}, "amount": {"12.5"}},
			want: core.Expense{Date: core.NewDate(2024, 3, 1), Category: "Food", Description: "lunch", Amount: decimal.RequireFromString("12.5")},
		},
		{
			name: "date defaults to today",
			form: url.Values{"category": {"Travel"}, "amount": {"100"}},
			want: core.Expense{Date: today, Category: "Travel", Amount: decimal.NewFromInt(100)},
		},
		{
			name: "comma decimal separator",
			form: url.Values{"category": {"Other"}, "amount": {"3,75"}},
			want: core.Expense{Date: today, Category: "Other", Amount: decimal.RequireFromString("3.75")},
		},
		{
			name: "zero amount and free category",
			form: url.Values{"category": {"Rent"}, "amount": {"0"}},
			want: core.Expense{Date: today, Category: "Rent", Amount: decimal.Zero},
		},
		{
			name: "control characters stripped",
			form: url.Values{"category": {"Food\x00"}, "description": {"a\x07b"}, "amount": {"1"}},
			want: core.Expense{Date: today, Category: "Food", Description: "ab", Amount: decimal.NewFromInt(1)},
		},
		{name: "bad date", form: url.Values{"date": {"2024-13-01"}, "category": {"Food"}, "amount": {"1"}}, wantErr: core.ErrInvalidDate},
		{name: "blank category", form: url.Values{"category": {"  "}, "amount": {"1"}}, wantErr: core.ErrEmptyCategory},
		{name: "negative amount", form: url.Values{"category": {"Food"}, "amount": {"-0.01"}}, wantErr: core.ErrInvalidAmount},
		{name: "missing amount", form: url.Values{"category": {"Food"}}, wantErr: core.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExpenseForm(tt.form, today)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Date.String(), got.Date.String())
			assert.Equal(t, tt.want.Category, got.Category)
			assert.Equal(t, tt.want.Description, got.Description)
			assert.True(t, tt.want.Amount.Equal(got.Amount), "amount %s != %s", got.Amount, tt.want.Amount)
			assert.Zero(t, got.ID)
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"1.5", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, core.ErrInvalidID, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "a\tb", sanitizeInput("  a\tb\x01 "))
	assert.Equal(t, "", sanitizeInput("\x00\x1f"))
}

package core

import "github.com/shopspring/decimal"

// CategoryTotal is the summed amount of every record sharing a category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Report is the category-wise spending summary. Categories without
// records never appear in Totals.
type Report struct {
	Totals []CategoryTotal
	Grand  decimal.Decimal
}

// CategoryShare is a category's percentage of the grand total.
type CategoryShare struct {
	Category string
	Total    decimal.Decimal
	Percent  decimal.Decimal
}

func NewReport(totals []CategoryTotal) Report {
	r := Report{Totals: totals, Grand: decimal.Zero}
	for _, t := range totals {
		r.Grand = r.Grand.Add(t.Total)
	}
	return r
}

func (r Report) IsEmpty() bool {
	return len(r.Totals) == 0
}

// ByCategory returns the totals keyed by category name.
func (r Report) ByCategory() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(r.Totals))
	for _, t := range r.Totals {
		m[t.Category] = t.Total
	}
	return m
}

// Shares returns each category's percentage of the grand total, rounded to
// one decimal. When the grand total is zero every share is zero.
func (r Report) Shares() []CategoryShare {
	out := make([]CategoryShare, 0, len(r.Totals))
	hundred := decimal.NewFromInt(100)
	for _, t := range r.Totals {
		pct := decimal.Zero
		if r.Grand.IsPositive() {
			pct = t.Total.Mul(hundred).Div(r.Grand).Round(1)
		}
		out = append(out, CategoryShare{Category: t.Category, Total: t.Total, Percent: pct})
	}
	return out
}

package http

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

var templateFuncs = template.FuncMap{
	"amount":  core.FormatAmount,
	"percent": func(d decimal.Decimal) string { return d.StringFixed(1) },
}

// sanitizeInput removes control characters (except tab, newline, carriage
// return) and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// Package export serializes the ledger to CSV and reads it back.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

// Header matches the column names of the expenses table.
var Header = []string{"id", "date", "category", "description", "amount"}

const (
	colID = iota
	colDate
	colCategory
	colDescription
	colAmount
)

// ContentType and FileName describe the download offered to the user.
const (
	ContentType = "text/csv"
	FileName    = "expenses.csv"
)

// WriteCSV writes a header row followed by one row per expense.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.Date.String(),
			e.Category,
			e.Description,
			e.Amount.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write expense %d: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a document produced by WriteCSV.
func ReadCSV(r io.Reader) ([]core.Expense, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Header)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty CSV document")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range Header {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected header column %d: got %q, want %q", i+1, header[i], name)
		}
	}

	var expenses []core.Expense
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.ParseError already names the line.
			return nil, fmt.Errorf("could not read line in CSV: %w", err)
		}

		id, err := strconv.ParseInt(record[colID], 10, 64)
		if err != nil {
			return nil, csvReadError(reader, fmt.Errorf("%w: %q", core.ErrInvalidID, record[colID]))
		}

		date := core.DateFromStored(record[colDate])

		amount, err := decimal.NewFromString(record[colAmount])
		if err != nil {
			return nil, csvReadError(reader, fmt.Errorf("%w: %q", core.ErrInvalidAmount, record[colAmount]))
		}

		expenses = append(expenses, core.Expense{
			ID:          id,
			Date:        date,
			Category:    record[colCategory],
			Description: record[colDescription],
			Amount:      amount,
		})
	}

	return expenses, nil
}

func csvReadError(r *csv.Reader, err error) error {
	line, _ := r.FieldPos(0)
	return fmt.Errorf("error in line %d of the CSV: %w", line, err)
}

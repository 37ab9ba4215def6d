package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"expensetracker/internal/core"

	"github.com/shopspring/decimal"
)

const (
	EventExpenseCreated = "expense.created"
	EventExpenseDeleted = "expense.deleted"
)

// ExpensePayload is the wire form of a ledger record.
type ExpensePayload struct {
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// LedgerEvent announces a single write to the ledger. Deleted events carry
// only the id.
type LedgerEvent struct {
	Type      string          `json:"type"`
	ID        int64           `json:"id"`
	Expense   *ExpensePayload `json:"expense,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewExpenseCreatedEvent(e core.Expense) *LedgerEvent {
	return &LedgerEvent{
		Type: EventExpenseCreated,
		ID:   e.ID,
		Expense: &ExpensePayload{
			Date:        e.Date.String(),
			Category:    e.Category,
			Description: e.Description,
			Amount:      e.Amount,
		},
		Timestamp: time.Now(),
	}
}

func NewExpenseDeletedEvent(id int64) *LedgerEvent {
	return &LedgerEvent{
		Type:      EventExpenseDeleted,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToExpense rebuilds the record carried by a created event.
func (m *LedgerEvent) ToExpense() (core.Expense, error) {
	if m.Expense == nil {
		return core.Expense{}, fmt.Errorf("event %s for expense %d has no payload", m.Type, m.ID)
	}
	date, err := core.ParseDate(m.Expense.Date)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		ID:          m.ID,
		Date:        date,
		Category:    m.Expense.Category,
		Description: m.Expense.Description,
		Amount:      m.Expense.Amount,
	}, nil
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON decodes and checks an event.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Type {
	case EventExpenseCreated, EventExpenseDeleted:
	default:
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	if msg.ID <= 0 {
		return nil, fmt.Errorf("event %s has invalid id %d", msg.Type, msg.ID)
	}
	return &msg, nil
}

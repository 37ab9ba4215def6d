package core

// Action tags one entry of the menu. Each action maps to exactly one
// ledger operation.
type Action string

const (
	ActionAdd    Action = "add"
	ActionView   Action = "view"
	ActionDelete Action = "delete"
	ActionReport Action = "report"
)

// Actions lists the menu in display order.
var Actions = []Action{ActionAdd, ActionView, ActionDelete, ActionReport}

// ParseAction maps a menu value to its Action, falling back to ActionAdd.
func ParseAction(s string) Action {
	a := Action(s)
	if a.IsValid() {
		return a
	}
	return ActionAdd
}

func (a Action) IsValid() bool {
	switch a {
	case ActionAdd, ActionView, ActionDelete, ActionReport:
		return true
	default:
		return false
	}
}

// Label is the menu caption.
func (a Action) Label() string {
	switch a {
	case ActionAdd:
		return "Add Expense"
	case ActionView:
		return "View Expenses"
	case ActionDelete:
		return "Delete Expense"
	case ActionReport:
		return "Category Report"
	default:
		return string(a)
	}
}

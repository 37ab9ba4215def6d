package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/export"
	applog "expensetracker/internal/log"
)

type pageData struct {
	Active core.Action
	Menu   []menuItem
	Panel  template.HTML
}

type menuItem struct {
	Action core.Action
	Label  string
	Active bool
}

func menuFor(active core.Action) []menuItem {
	items := make([]menuItem, 0, len(core.Actions))
	for _, a := range core.Actions {
		items = append(items, menuItem{Action: a, Label: a.Label(), Active: a == active})
	}
	return items
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ledger.Ping(ctx); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	action := core.ParseAction(r.URL.Query().Get("menu"))

	body, err := s.renderPanel(ctx, action)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Panel render failed",
			applog.FieldAction, action, applog.FieldError, err)
		http.Error(w, "could not load page", http.StatusInternalServerError)
		return
	}

	data := pageData{Active: action, Menu: menuFor(action), Panel: body}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Index template execution failed",
			applog.FieldError, err, "template", "index.html")
	}
}

// handlePanel serves a single panel so the page can refresh it in place.
func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	action := core.ParseAction(r.URL.Query().Get("menu"))

	body, err := s.renderPanel(ctx, action)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Panel render failed",
			applog.FieldAction, action, applog.FieldError, err)
		InternalServerError("Could not load the page").
			TriggerErrorNotification("Could not load the page").
			Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(string(body)).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "Parse form error", applog.FieldError, err)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	e, err := ParseExpenseForm(r.PostForm, s.today())
	if err != nil {
		UnprocessableEntityError(inputErrorMessage(err)).Write(w)
		return
	}

	id, err := s.ledger.Create(ctx, e)
	switch {
	case errors.Is(err, core.ErrUnknownCategory):
		UnprocessableEntityError(inputErrorMessage(err)).Write(w)
		return
	case err != nil:
		logger.ErrorContext(ctx, "Expense create failed",
			applog.NewFields().WithExpense(e).WithOperation(applog.OpCreate).WithError(err).ToSlice()...)
		InternalServerError("Error saving the expense").
			TriggerErrorNotification("Error saving the expense").
			Write(w)
		return
	}
	e.ID = id

	logger.InfoContext(ctx, "Expense created", applog.NewFields().WithExpense(e).WithOperation(applog.OpCreate).ToSlice()...)

	if !isHTMX(r) {
		http.Redirect(w, r, "/?menu="+string(core.ActionView), http.StatusSeeOther)
		return
	}

	msg := fmt.Sprintf("Added %s to %s!", e.Amount.String(), e.Category)
	NewHTMXResponse().
		TriggerExpenseCreated(id).
		TriggerFormReset().
		TriggerSuccessNotification(msg).
		Message(NotificationSuccess, msg).
		Write(w)
}

// handleDeleteExpense serves the delete form.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Parse form error", applog.FieldError, err)
		BadRequestError("Invalid request format").Write(w)
		return
	}
	s.deleteExpense(w, r, r.PostForm.Get("id"))
}

func (s *Server) handleDeleteExpenseByID(w http.ResponseWriter, r *http.Request) {
	s.deleteExpense(w, r, r.PathValue("id"))
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request, rawID string) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	id, err := ParseID(rawID)
	if err != nil {
		UnprocessableEntityError("ID must be a whole number of 1 or more").Write(w)
		return
	}

	removed, err := s.ledger.Delete(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "Expense delete failed",
			applog.FieldExpenseID, id, applog.FieldOperation, applog.OpDelete, applog.FieldError, err)
		InternalServerError("Error deleting the expense").
			TriggerErrorNotification("Error deleting the expense").
			Write(w)
		return
	}

	if !removed {
		logger.InfoContext(ctx, "Delete matched no expense", applog.FieldExpenseID, id)
		if r.Method == http.MethodPost && !isHTMX(r) {
			http.Redirect(w, r, "/?menu="+string(core.ActionView), http.StatusSeeOther)
			return
		}
		msg := fmt.Sprintf("No expense with ID %d", id)
		NewHTMXResponse().
			TriggerInfoNotification(msg).
			Message(NotificationInfo, msg).
			Write(w)
		return
	}

	logger.InfoContext(ctx, "Expense deleted", applog.FieldExpenseID, id, applog.FieldOperation, applog.OpDelete)

	if r.Method == http.MethodPost && !isHTMX(r) {
		http.Redirect(w, r, "/?menu="+string(core.ActionView), http.StatusSeeOther)
		return
	}

	msg := fmt.Sprintf("Deleted expense with ID %d", id)
	NewHTMXResponse().
		TriggerExpenseDeleted(id).
		TriggerPageRefresh().
		TriggerSuccessNotification(msg).
		Message(NotificationSuccess, msg).
		Write(w)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	expenses, err := s.ledger.ListAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Expense list failed", applog.FieldOperation, applog.OpExport, applog.FieldError, err)
		http.Error(w, "could not export expenses", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	if err := export.WriteCSV(w, expenses); err != nil {
		logger.ErrorContext(ctx, "CSV write failed", applog.FieldOperation, applog.OpExport, applog.FieldError, err)
		return
	}
	logger.DebugContext(ctx, "Expenses exported", applog.FieldCount, len(expenses))
}

// inputErrorMessage maps input errors to text shown next to the form.
func inputErrorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Amount must be a number of 0 or more"
	case errors.Is(err, core.ErrInvalidDate):
		return "Date must be in YYYY-MM-DD format"
	case errors.Is(err, core.ErrEmptyCategory):
		return "Category is required"
	case errors.Is(err, core.ErrUnknownCategory):
		return "Category must be one of " + strings.Join(core.Categories, ", ")
	default:
		return "Invalid data: " + err.Error()
	}
}

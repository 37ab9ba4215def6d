package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// panel is a rendered-on-demand section of the page: the template to run and
// the data to run it with.
type panel struct {
	Template string
	Data     any
}

type addPanel struct {
	Today      string
	Categories []string
}

type viewPanel struct {
	Expenses []core.Expense
}

type reportPanel struct {
	Shares []core.CategoryShare
	Grand  decimal.Decimal
	Empty  bool
}

// buildPanel dispatches an action to its panel builder.
func (s *Server) buildPanel(ctx context.Context, action core.Action) (panel, error) {
	switch action {
	case core.ActionAdd:
		return s.buildAddPanel(), nil
	case core.ActionView:
		return s.buildViewPanel(ctx)
	case core.ActionDelete:
		return panel{Template: "panel-delete"}, nil
	case core.ActionReport:
		return s.buildReportPanel(ctx)
	default:
		return panel{}, fmt.Errorf("unknown action %q", action)
	}
}

func (s *Server) buildAddPanel() panel {
	return panel{
		Template: "panel-add",
		Data: addPanel{
			Today:      s.today().String(),
			Categories: core.Categories,
		},
	}
}

func (s *Server) buildViewPanel(ctx context.Context) (panel, error) {
	expenses, err := s.ledger.ListAll(ctx)
	if err != nil {
		return panel{}, err
	}
	return panel{Template: "panel-view", Data: viewPanel{Expenses: expenses}}, nil
}

func (s *Server) buildReportPanel(ctx context.Context) (panel, error) {
	report, err := s.ledger.Report(ctx)
	if err != nil {
		return panel{}, err
	}
	return panel{
		Template: "panel-report",
		Data: reportPanel{
			Shares: report.Shares(),
			Grand:  report.Grand,
			Empty:  report.IsEmpty(),
		},
	}, nil
}

func (s *Server) renderPanel(ctx context.Context, action core.Action) (template.HTML, error) {
	p, err := s.buildPanel(ctx, action)
	if err != nil {
		return "", fmt.Errorf("build %s panel: %w", action, err)
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, p.Template, p.Data); err != nil {
		return "", fmt.Errorf("render %s: %w", p.Template, err)
	}
	return template.HTML(buf.String()), nil
}

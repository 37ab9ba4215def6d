package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/middleware/security"
	"expensetracker/internal/middleware/trace"
	appweb "expensetracker/web"
)

// Ledger is what the UI needs from the expense ledger. Each handler issues
// exactly one of these calls.
type Ledger interface {
	Create(ctx context.Context, e core.Expense) (int64, error)
	ListAll(ctx context.Context) ([]core.Expense, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Report(ctx context.Context) (core.Report, error)
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server
	templates *template.Template
	ledger    Ledger
	tracer    *trace.Middleware
	today     func() core.Date
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, ledger Ledger, logger *applog.Logger) (*Server, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	mux := http.NewServeMux()
	s := &Server{
		templates: t,
		ledger:    ledger,
		tracer:    trace.NewMiddleware(security.ClientIP),
		today:     core.Today,
	}

	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ui/panel", s.handlePanel)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("POST /expenses/delete", s.handleDeleteExpense)
	mux.HandleFunc("DELETE /expenses/{id}", s.handleDeleteExpenseByID)
	mux.HandleFunc("GET /expenses.csv", s.handleExportCSV)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:    addr,
		Handler: applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(s.tracer.Middleware(headers.Middleware(mux))),
	}

	return s, nil
}

// TotalRequests reports how many requests the server has traced.
func (s *Server) TotalRequests() int64 {
	return s.tracer.TotalRequests()
}

package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lamdaser/statements/internal/customers"
	"github.com/lamdaser/statements/internal/observability"
	"github.com/lamdaser/statements/internal/proxy"
	"github.com/lamdaser/statements/internal/statement"
	"github.com/lamdaser/statements/jobs"
	"github.com/lamdaser/statements/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	CustomersHandler *customers.Handler
	StatementHandler *statement.Handler
	ProxyHandler     *proxy.Handler
	ReportHandler    *report.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with the statements defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	if params.Config == nil || !params.Config.IsProduction() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/clientes", http.StatusSeeOther)
	})

	if params.ProxyHandler != nil {
		params.ProxyHandler.MountRoutes(r)
	}
	if params.CustomersHandler != nil {
		params.CustomersHandler.MountRoutes(r)
	}
	if params.StatementHandler != nil {
		exports := 10
		if params.Config != nil && params.Config.ExportsPerMinute > 0 {
			exports = params.Config.ExportsPerMinute
		}
		params.StatementHandler.MountRoutes(r, exports)
	}
	if params.ReportHandler != nil {
		r.Route("/report", params.ReportHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/backoffice/internal/http/auth"
	"github.com/MrJamesThe3rd/backoffice/internal/http/automation"
	"github.com/MrJamesThe3rd/backoffice/internal/http/budget"
	"github.com/MrJamesThe3rd/backoffice/internal/http/importcsv"
	"github.com/MrJamesThe3rd/backoffice/internal/http/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/http/jobs"
	"github.com/MrJamesThe3rd/backoffice/internal/http/recurring"
	"github.com/MrJamesThe3rd/backoffice/internal/http/rules"
	"github.com/MrJamesThe3rd/backoffice/internal/http/transaction"
	"github.com/MrJamesThe3rd/backoffice/internal/http/webhooks"
)

type Handlers struct {
	Transactions *transaction.Handler
	Import       *importcsv.Handler
	Rules        *rules.Handler
	Invoices     *invoice.Handler
	Recurring    *recurring.Handler
	Budgets      *budget.Handler
	Automation   *automation.Handler
	Webhooks     *webhooks.Handler
	Jobs         *jobs.Handler
}

type Options struct {
	CORSOrigins []string
	// JWTSecret guards /api/v1 when non-empty.
	JWTSecret string
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(auth.RequireJWT([]byte(opts.JWTSecret)))
		}

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/import", h.Import.Routes)
		r.Route("/rules", h.Rules.Routes)
		r.Route("/invoices", h.Invoices.Routes)

		r.Route("/recurring", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Recurring.Routes(r)
		})

		r.Route("/budgets", h.Budgets.Routes)
		r.Route("/automation", h.Automation.Routes)
		r.Route("/webhooks", h.Webhooks.Routes)
		r.Route("/jobs", h.Jobs.Routes)
	})

	return router
}

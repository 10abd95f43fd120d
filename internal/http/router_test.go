package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	backofficeHttp "github.com/MrJamesThe3rd/backoffice/internal/http"
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

// handlers are never invoked in these tests; only routing and middleware are.
func handlers() backofficeHttp.Handlers {
	return backofficeHttp.Handlers{
		Transactions: transaction.NewHandler(nil),
		Import:       importcsv.NewHandler(nil, nil),
		Rules:        rules.NewHandler(nil),
		Invoices:     invoice.NewHandler(nil),
		Recurring:    recurring.NewHandler(nil),
		Budgets:      budget.NewHandler(nil),
		Automation:   automation.NewHandler(nil),
		Webhooks:     webhooks.NewHandler(nil, nil),
		Jobs:         jobs.NewHandler(nil),
	}
}

func TestRouter_JWTGuard(t *testing.T) {
	router := backofficeHttp.New(handlers(), backofficeHttp.Options{
		CORSOrigins: []string{"*"},
		JWTSecret:   "s3cret",
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/invoices/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := backofficeHttp.New(handlers(), backofficeHttp.Options{CORSOrigins: []string{"https://ops.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/invoices/", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://ops.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_UnknownTaskWithoutAuth(t *testing.T) {
	router := backofficeHttp.New(handlers(), backofficeHttp.Options{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/automation/defrag", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

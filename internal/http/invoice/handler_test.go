package invoice_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/backoffice/internal/customer"
	invhttp "github.com/MrJamesThe3rd/backoffice/internal/http/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/ticket"
)

func setup(t *testing.T) (http.Handler, *invoice.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := invoice.NewMockRepository(ctrl)

	svc := invoice.NewService(repo,
		customer.NewMockRepository(ctrl),
		ticket.NewMockRepository(ctrl),
		invoice.NewMockScheduler(ctrl),
		invoice.NewMockRecipients(ctrl),
		invoice.WithClock(func() time.Time { return time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) }),
	)

	r := chi.NewRouter()
	r.Route("/invoices", invhttp.NewHandler(svc).Routes)

	return r, repo
}

func draft() *invoice.Invoice {
	due := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)

	return &invoice.Invoice{
		ID:          uuid.New(),
		Number:      "INV-2024-00001",
		CustomerID:  uuid.New(),
		Title:       "Consulting",
		Status:      invoice.StatusDraft,
		InvoiceDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDate:     &due,
		Currency:    "EUR",
		TotalAmount: decimal.NewFromInt(200),
		PaidAmount:  decimal.NewFromInt(50),
		Items: []invoice.Item{
			{Description: "Hours", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(200)},
		},
	}
}

func TestHandler_Get(t *testing.T) {
	h, repo := setup(t)
	inv := draft()

	repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/"+inv.ID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INV-2024-00001", resp["number"])
	assert.Equal(t, "2024-02-14", resp["due_date"])
	assert.Equal(t, "150.00", resp["remaining"])
	assert.Len(t, resp["items"], 1)
}

func TestHandler_Send(t *testing.T) {
	h, repo := setup(t)
	inv := draft()

	repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)
	repo.EXPECT().UpdateStatus(gomock.Any(), inv.ID, invoice.StatusDraft, invoice.StatusSent).Return(true, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/invoices/"+inv.ID.String()+"/send", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"sent"`)
}

func TestHandler_CancelPaid(t *testing.T) {
	h, repo := setup(t)
	inv := draft()
	inv.Status = invoice.StatusPaid

	repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/invoices/"+inv.ID.String()+"/cancel", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_RecordPaymentInvalidAmount(t *testing.T) {
	h, _ := setup(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/invoices/"+uuid.NewString()+"/payments", strings.NewReader(`{"amount":"-5"}`))
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ListBadCustomer(t *testing.T) {
	h, _ := setup(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/?customer_id=nope", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package webhooks_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/backoffice/internal/http/auth"
	"github.com/MrJamesThe3rd/backoffice/internal/http/webhooks"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/ticket"
)

func setup(t *testing.T) (http.Handler, *ticket.MockRepository, *webhooks.MockDispatcher) {
	ctrl := gomock.NewController(t)
	tickets := ticket.NewMockRepository(ctrl)
	jobs := webhooks.NewMockDispatcher(ctrl)

	r := chi.NewRouter()
	r.Route("/webhooks", webhooks.NewHandler(tickets, jobs).Routes)

	return r, tickets, jobs
}

func post(t *testing.T, h http.Handler, id uuid.UUID, body string) map[string]any {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/tickets/"+id.String()+"/completed", strings.NewReader(body))
	req = req.WithContext(auth.WithRequester(req.Context(), "agent-7"))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp
}

func TestTicketCompleted_Queues(t *testing.T) {
	h, tickets, jobs := setup(t)
	id := uuid.New()

	tickets.EXPECT().MarkCompleted(gomock.Any(), id, gomock.Any()).Return(nil)
	tickets.EXPECT().GetTicket(gomock.Any(), id).Return(&ticket.Ticket{ID: id, TotalAmount: decimal.NewFromInt(120)}, nil)
	jobs.EXPECT().HasPending(gomock.Any(), invoice.GenerateKey(id)).Return(false, nil)
	jobs.EXPECT().Enqueue(gomock.Any(), invoice.KindGenerate, invoice.GenerateKey(id), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, payload any) error {
			job, ok := payload.(invoice.GenerateJob)
			require.True(t, ok)
			assert.Equal(t, id, job.TicketID)
			assert.Equal(t, "agent-7", job.RequestedBy)
			require.NotNil(t, job.Overrides.Notes)
			assert.Equal(t, "Net 15", *job.Overrides.Notes)

			return nil
		})

	resp := post(t, h, id, `{"notes":"Net 15"}`)
	assert.Equal(t, true, resp["queued"])
}

func TestTicketCompleted_Redelivered(t *testing.T) {
	h, tickets, jobs := setup(t)
	id := uuid.New()

	tickets.EXPECT().MarkCompleted(gomock.Any(), id, gomock.Any()).Return(ticket.ErrAlreadyCompleted)
	tickets.EXPECT().GetTicket(gomock.Any(), id).Return(&ticket.Ticket{ID: id, TotalAmount: decimal.NewFromInt(120)}, nil)
	jobs.EXPECT().HasPending(gomock.Any(), invoice.GenerateKey(id)).Return(true, nil)

	resp := post(t, h, id, "")
	assert.Equal(t, false, resp["queued"])
	assert.Equal(t, "generation already queued", resp["reason"])
}

func TestTicketCompleted_AlreadyInvoiced(t *testing.T) {
	h, tickets, _ := setup(t)
	id := uuid.New()
	invID := uuid.New()

	tickets.EXPECT().MarkCompleted(gomock.Any(), id, gomock.Any()).Return(ticket.ErrAlreadyCompleted)
	tickets.EXPECT().GetTicket(gomock.Any(), id).
		Return(&ticket.Ticket{ID: id, TotalAmount: decimal.NewFromInt(120), InvoiceID: &invID}, nil)

	resp := post(t, h, id, "")
	assert.Equal(t, false, resp["queued"])
}

func TestTicketCompleted_UnknownTicket(t *testing.T) {
	h, tickets, _ := setup(t)
	id := uuid.New()

	tickets.EXPECT().MarkCompleted(gomock.Any(), id, gomock.Any()).Return(ticket.ErrNotFound)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/tickets/"+id.String()+"/completed", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

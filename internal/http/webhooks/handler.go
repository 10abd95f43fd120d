// Package webhooks receives events from the ticketing system.
package webhooks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/http/auth"
	"github.com/MrJamesThe3rd/backoffice/internal/http/render"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/ticket"
)

// Dispatcher enqueues deferred jobs.
//
//go:generate mockgen -source=handler.go -destination=handler_mock.go -package=webhooks
type Dispatcher interface {
	Enqueue(ctx context.Context, kind, key string, payload any) error
	HasPending(ctx context.Context, key string) (bool, error)
}

type Handler struct {
	tickets ticket.Repository
	jobs    Dispatcher
	now     func() time.Time
}

func NewHandler(tickets ticket.Repository, jobs Dispatcher) *Handler {
	return &Handler{tickets: tickets, jobs: jobs, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/tickets/{id}/completed", h.ticketCompleted)
}

type ticketCompletedResponse struct {
	TicketID uuid.UUID `json:"ticket_id"`
	Queued   bool      `json:"queued"`
	Reason   string    `json:"reason,omitempty"`
}

// ticketCompleted marks the ticket completed and queues invoice generation.
// Redelivered events are accepted without queuing a second job.
func (h *Handler) ticketCompleted(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var ov invoice.Overrides
	if err := json.NewDecoder(r.Body).Decode(&ov); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	if err := h.tickets.MarkCompleted(ctx, id, h.now()); err != nil && !errors.Is(err, ticket.ErrAlreadyCompleted) {
		render.Error(w, r, err)
		return
	}

	t, err := h.tickets.GetTicket(ctx, id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := ticketCompletedResponse{TicketID: id}

	if !t.Invoiceable() {
		resp.Reason = "ticket has an invoice or nothing to bill"
		render.JSON(w, http.StatusAccepted, resp)

		return
	}

	key := invoice.GenerateKey(id)

	pending, err := h.jobs.HasPending(ctx, key)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if pending {
		resp.Reason = "generation already queued"
		render.JSON(w, http.StatusAccepted, resp)

		return
	}

	job := invoice.GenerateJob{TicketID: id, RequestedBy: auth.Requester(ctx), Overrides: ov}
	if err := h.jobs.Enqueue(ctx, invoice.KindGenerate, key, job); err != nil {
		render.Error(w, r, err)
		return
	}

	slog.InfoContext(ctx, "invoice generation queued", "ticket_id", id, "requested_by", job.RequestedBy)

	resp.Queued = true
	render.JSON(w, http.StatusAccepted, resp)
}

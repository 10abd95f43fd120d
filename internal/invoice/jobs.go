package invoice

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/jobs"
)

// Job kinds handled by this package.
const (
	KindReminder = "invoice.reminder"
	KindGenerate = "invoice.generate"
)

type ReminderJob struct {
	InvoiceID uuid.UUID    `json:"invoice_id"`
	Kind      ReminderKind `json:"kind"`
}

type GenerateJob struct {
	TicketID    uuid.UUID `json:"ticket_id"`
	RequestedBy string    `json:"requested_by,omitempty"`
	Overrides   Overrides `json:"overrides"`
}

// GenerateKey dedupes generation jobs per ticket.
func GenerateKey(ticketID uuid.UUID) string {
	return "invoice-generate:" + ticketID.String()
}

// RegisterJobs wires the deferred invoice work into r.
func (s *Service) RegisterJobs(r *jobs.Runner) {
	r.Register(KindReminder, reminderHandler{svc: s})
	r.Register(KindGenerate, generateHandler{svc: s})
}

type reminderHandler struct {
	svc *Service
}

func (h reminderHandler) Handle(ctx context.Context, j *jobs.Job) error {
	var p ReminderJob
	if err := j.Decode(&p); err != nil {
		return err
	}

	return h.svc.SendReminder(ctx, p.InvoiceID, p.Kind)
}

type generateHandler struct {
	svc *Service
}

func (h generateHandler) Handle(ctx context.Context, j *jobs.Job) error {
	var p GenerateJob
	if err := j.Decode(&p); err != nil {
		return err
	}

	_, err := h.svc.GenerateFromTicket(ctx, p.TicketID, p.RequestedBy, p.Overrides)

	return err
}

func (h generateHandler) OnGiveUp(ctx context.Context, j *jobs.Job, err error) {
	var p GenerateJob
	if decodeErr := j.Decode(&p); decodeErr != nil {
		return
	}

	h.svc.NotifyGenerationFailed(ctx, p.TicketID, p.RequestedBy, err)
}

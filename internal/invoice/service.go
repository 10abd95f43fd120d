package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/customer"
	"github.com/MrJamesThe3rd/backoffice/internal/jobs"
	"github.com/MrJamesThe3rd/backoffice/internal/notify"
	"github.com/MrJamesThe3rd/backoffice/internal/ticket"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

// MatchWindow bounds how old an invoice may be for automatic matching.
const MatchWindow = 3 // months

// DefaultTerm is the payment term of generated invoices.
const DefaultTerm = 30 * 24 * time.Hour

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)

	// ListOverdueCandidates returns sent invoices due before asOf.
	ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]*Invoice, error)
	// ListMatchable returns sent or overdue invoices with an open balance,
	// dated on or after since.
	ListMatchable(ctx context.Context, since time.Time) ([]*Invoice, error)
	// ListReminderCandidates returns sent invoices that have a due date.
	ListReminderCandidates(ctx context.Context) ([]*Invoice, error)

	// FindPaymentCandidates returns the customer's completed, unlinked income
	// transactions of at least minAmount dated on or after since, ordered by
	// date, amount and id.
	FindPaymentCandidates(ctx context.Context, customerID uuid.UUID, minAmount decimal.Decimal, since time.Time) ([]*transaction.Transaction, error)

	// UpdateStatus applies from -> to only while the row is still in from.
	// It reports whether the row changed.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)

	// ApplyMatch links txID to inv and saves inv's payment fields in one
	// database transaction, guarded on prevPaid.
	ApplyMatch(ctx context.Context, inv *Invoice, txID uuid.UUID, prevPaid decimal.Decimal) error
	// RecordPayment inserts tx and saves inv's payment fields in one database
	// transaction, guarded on prevPaid.
	RecordPayment(ctx context.Context, inv *Invoice, tx *transaction.Transaction, prevPaid decimal.Decimal) error
	// SaveReminder saves reminder history, counters and status, guarded on
	// prevStatus.
	SaveReminder(ctx context.Context, inv *Invoice, prevStatus Status) error
	// CreateForTicket inserts inv, assigning its number, and links it to the
	// ticket in one database transaction. Fails with ErrTicketInvoiced when
	// the ticket got an invoice in the meantime.
	CreateForTicket(ctx context.Context, inv *Invoice, ticketID uuid.UUID) error
}

// Scheduler is the deferred-job dispatch the engine schedules reminders on.
type Scheduler interface {
	ScheduleBatch(ctx context.Context, kind, key string, planned []jobs.Planned) error
	HasPending(ctx context.Context, key string) (bool, error)
}

// Recipients resolves who receives a notification.
type Recipients interface {
	Email(address string) notify.Recipient
	User(id string) notify.Recipient
}

type ListFilter struct {
	Status     *Status
	CustomerID *uuid.UUID
}

type Service struct {
	repo       Repository
	customers  customer.Repository
	tickets    ticket.Repository
	scheduler  Scheduler
	recipients Recipients
	now        func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	repo Repository,
	customers customer.Repository,
	tickets ticket.Repository,
	scheduler Scheduler,
	recipients Recipients,
	opts ...Option,
) *Service {
	s := &Service{
		repo:       repo,
		customers:  customers,
		tickets:    tickets,
		scheduler:  scheduler,
		recipients: recipients,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, filter)
}

// OverdueCandidates lists the invoices MarkOverdue would change.
func (s *Service) OverdueCandidates(ctx context.Context, asOf time.Time) ([]*Invoice, error) {
	return s.repo.ListOverdueCandidates(ctx, transaction.DateOnly(asOf))
}

// MarkOverdue flips sent invoices due before asOf to overdue and returns how
// many changed. Invoices already overdue are left alone, so a second run
// with the same asOf returns 0. Per-invoice failures are joined into the
// returned error without stopping the sweep.
func (s *Service) MarkOverdue(ctx context.Context, asOf time.Time) (int, error) {
	candidates, err := s.OverdueCandidates(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("listing overdue candidates: %w", err)
	}

	changed := 0

	var errs []error

	for _, inv := range candidates {
		ok, err := s.repo.UpdateStatus(ctx, inv.ID, StatusSent, StatusOverdue)
		if err != nil {
			errs = append(errs, fmt.Errorf("invoice %s: %w", inv.Number, err))
			continue
		}

		if ok {
			inv.Status = StatusOverdue
			changed++
		}
	}

	return changed, errors.Join(errs...)
}

// MatchableInvoices lists invoices eligible for automatic payment matching.
func (s *Service) MatchableInvoices(ctx context.Context) ([]*Invoice, error) {
	return s.repo.ListMatchable(ctx, s.matchSince())
}

func (s *Service) matchSince() time.Time {
	return transaction.DateOnly(s.now()).AddDate(0, -MatchWindow, 0)
}

// FindMatch returns the ledger entry AutoMatchPayments would link, or nil.
// Candidates are the customer's completed, unlinked income entries covering
// the remaining amount and dated on or after the invoice; the earliest wins,
// then the lowest amount.
func (s *Service) FindMatch(ctx context.Context, inv *Invoice) (*transaction.Transaction, error) {
	if !inv.Status.Payable() || !inv.Remaining().IsPositive() {
		return nil, nil
	}

	if inv.InvoiceDate.Before(s.matchSince()) {
		return nil, nil
	}

	candidates, err := s.repo.FindPaymentCandidates(ctx, inv.CustomerID, inv.Remaining(), inv.InvoiceDate)
	if err != nil {
		return nil, fmt.Errorf("finding payment candidates: %w", err)
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	return candidates[0], nil
}

// AutoMatchPayments links the best matching payment to inv. The credited
// amount is capped at the remaining balance, so a match always settles the
// invoice and paid_amount never exceeds the total.
func (s *Service) AutoMatchPayments(ctx context.Context, inv *Invoice) (bool, error) {
	match, err := s.FindMatch(ctx, inv)
	if err != nil || match == nil {
		return false, err
	}

	prevPaid := inv.PaidAmount
	credited := decimal.Min(match.Amount, inv.Remaining())

	next := *inv
	next.PaidAmount = prevPaid.Add(credited)
	s.settle(&next)

	if err := s.repo.ApplyMatch(ctx, &next, match.ID, prevPaid); err != nil {
		return false, fmt.Errorf("applying payment %s: %w", match.ID, err)
	}

	*inv = next

	slog.InfoContext(ctx, "payment matched",
		"invoice", inv.Number,
		"transaction_id", match.ID,
		"credited", credited.StringFixed(2),
		"status", inv.Status,
	)

	return true, nil
}

// settle marks inv paid once the balance is covered.
func (s *Service) settle(inv *Invoice) {
	if inv.PaidAmount.LessThan(inv.TotalAmount) {
		return
	}

	now := s.now()
	inv.Status = StatusPaid
	inv.PaidAt = &now
}

// ReminderCandidates lists sent invoices that still need reminders
// scheduled, skipping those with reminder jobs pending.
func (s *Service) ReminderCandidates(ctx context.Context) ([]*Invoice, error) {
	all, err := s.repo.ListReminderCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reminder candidates: %w", err)
	}

	var out []*Invoice

	for _, inv := range all {
		pending, err := s.scheduler.HasPending(ctx, ReminderKey(inv.ID))
		if err != nil {
			return nil, fmt.Errorf("checking reminders of %s: %w", inv.Number, err)
		}

		if pending || len(PlanReminders(inv, s.now())) == 0 {
			continue
		}

		out = append(out, inv)
	}

	return out, nil
}

// ScheduleReminders enqueues one deferred reminder job per future target of
// PlanReminders, all or none. It is not idempotent: callers check
// ReminderCandidates first.
func (s *Service) ScheduleReminders(ctx context.Context, inv *Invoice) (int, error) {
	plan := PlanReminders(inv, s.now())
	if len(plan) == 0 {
		return 0, nil
	}

	planned := make([]jobs.Planned, 0, len(plan))
	for _, r := range plan {
		planned = append(planned, jobs.Planned{Payload: ReminderJob{InvoiceID: inv.ID, Kind: r.Kind}, NotBefore: r.At})
	}

	if err := s.scheduler.ScheduleBatch(ctx, KindReminder, ReminderKey(inv.ID), planned); err != nil {
		return 0, fmt.Errorf("scheduling reminders of %s: %w", inv.Number, err)
	}

	return len(plan), nil
}

// SendReminder delivers one reminder. Paid or cancelled invoices and
// customers without email are skipped without error.
func (s *Service) SendReminder(ctx context.Context, id uuid.UUID, kind ReminderKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%q: %w", kind, ErrUnknownReminder)
	}

	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return err
	}

	if inv.Status.Terminal() {
		slog.InfoContext(ctx, "reminder skipped", "invoice", inv.Number, "kind", kind, "status", inv.Status)
		return nil
	}

	c, err := s.customers.GetCustomer(ctx, inv.CustomerID)
	if err != nil {
		return err
	}

	if !c.HasEmail() {
		slog.InfoContext(ctx, "reminder skipped", "invoice", inv.Number, "kind", kind, "reason", "customer has no email")
		return nil
	}

	now := s.now()

	n, err := ReminderNotification(inv, kind, c.Name, now)
	if err != nil {
		return err
	}

	if err := s.recipients.Email(c.Email).Notify(ctx, n); err != nil {
		return fmt.Errorf("delivering %s reminder: %w", kind, err)
	}

	prevStatus := inv.Status
	inv.Metadata.Reminders = append(inv.Metadata.Reminders, SentReminder{Kind: kind, SentAt: now})
	inv.ReminderCount++
	inv.LastReminderSentAt = &now

	if inv.Status == StatusSent && inv.PastDue(now) {
		inv.Status = StatusOverdue
	}

	if err := s.repo.SaveReminder(ctx, inv, prevStatus); err != nil {
		return fmt.Errorf("saving reminder: %w", err)
	}

	slog.InfoContext(ctx, "reminder sent", "invoice", inv.Number, "kind", kind, "count", inv.ReminderCount)

	return nil
}

// Overrides adjusts the defaults of GenerateFromTicket.
type Overrides struct {
	Title          *string          `json:"title,omitempty"`
	Description    *string          `json:"description,omitempty"`
	DueDate        *time.Time       `json:"due_date,omitempty"`
	TaxRate        *decimal.Decimal `json:"tax_rate,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discount_amount,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

// BuildFromTicket derives a draft invoice from t without persisting it.
func (s *Service) BuildFromTicket(t *ticket.Ticket, requestedBy string, ov Overrides) (*Invoice, error) {
	if t.InvoiceID != nil {
		return nil, ErrTicketInvoiced
	}

	if !t.TotalAmount.IsPositive() {
		return nil, ErrTicketNoTotal
	}

	now := s.now()
	due := transaction.DateOnly(now.Add(DefaultTerm))

	inv := &Invoice{
		CustomerID:  t.CustomerID,
		TicketID:    &t.ID,
		Title:       t.Subject,
		Description: "Services for: " + t.Subject,
		Notes:       ticketNotes(t),
		InvoiceDate: transaction.DateOnly(now),
		DueDate:     &due,
		Currency:    transaction.DefaultCurrency,
		Status:      StatusDraft,
		Items: []Item{{
			Description: t.Subject,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   t.TotalAmount,
		}},
		Metadata: Metadata{RequestedBy: requestedBy, Generated: true},
	}

	if ov.Title != nil {
		inv.Title = *ov.Title
	}

	if ov.Description != nil {
		inv.Description = *ov.Description
	}

	if ov.DueDate != nil {
		d := transaction.DateOnly(*ov.DueDate)
		inv.DueDate = &d
	}

	if ov.TaxRate != nil {
		inv.TaxRate = *ov.TaxRate
	}

	if ov.DiscountAmount != nil {
		inv.DiscountAmount = *ov.DiscountAmount
	}

	if ov.Notes != nil {
		inv.Notes = *ov.Notes
	}

	inv.Recalculate()

	return inv, nil
}

func ticketNotes(t *ticket.Ticket) string {
	notes := "Ticket: " + t.Subject
	if t.Course != "" {
		notes += "\nCourse: " + t.Course
	}

	if t.Priority != "" {
		notes += "\nPriority: " + t.Priority
	}

	return notes
}

// GenerateFromTicket creates a draft invoice for a completed ticket and
// links it. The requester, when known, is told about the new invoice.
// Failures are logged and returned so the job runner can retry them.
func (s *Service) GenerateFromTicket(ctx context.Context, ticketID uuid.UUID, requestedBy string, ov Overrides) (*Invoice, error) {
	inv, err := s.generate(ctx, ticketID, requestedBy, ov)
	if err != nil {
		slog.ErrorContext(ctx, "invoice generation failed", "ticket_id", ticketID, "error", err)
		return nil, err
	}

	slog.InfoContext(ctx, "invoice generated", "ticket_id", ticketID, "invoice", inv.Number, "total", inv.TotalAmount.StringFixed(2))

	if requestedBy != "" {
		n := notify.Notification{
			Kind:     "invoice.generated",
			Title:    fmt.Sprintf("Invoice %s created", inv.Number),
			Body:     fmt.Sprintf("Draft invoice %s for %s %s was generated from ticket %q.", inv.Number, inv.TotalAmount.StringFixed(2), inv.Currency, inv.Title),
			Severity: notify.SeverityInfo,
			Data:     map[string]any{"invoice_id": inv.ID.String(), "ticket_id": ticketID.String()},
		}

		if err := s.recipients.User(requestedBy).Notify(ctx, n); err != nil {
			slog.WarnContext(ctx, "could not notify requester", "user", requestedBy, "error", err)
		}
	}

	return inv, nil
}

func (s *Service) generate(ctx context.Context, ticketID uuid.UUID, requestedBy string, ov Overrides) (*Invoice, error) {
	t, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	inv, err := s.BuildFromTicket(t, requestedBy, ov)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateForTicket(ctx, inv, t.ID); err != nil {
		return nil, err
	}

	return inv, nil
}

// NotifyGenerationFailed tells the requester that generation gave up.
func (s *Service) NotifyGenerationFailed(ctx context.Context, ticketID uuid.UUID, requestedBy string, cause error) {
	if requestedBy == "" {
		return
	}

	n := notify.Notification{
		Kind:     "invoice.generation_failed",
		Title:    "Invoice generation failed",
		Body:     fmt.Sprintf("The invoice for ticket %s could not be generated: %v", ticketID, cause),
		Severity: notify.SeverityWarning,
		Data:     map[string]any{"ticket_id": ticketID.String()},
	}

	if err := s.recipients.User(requestedBy).Notify(ctx, n); err != nil {
		slog.WarnContext(ctx, "could not notify requester", "user", requestedBy, "error", err)
	}
}

// Send moves a draft invoice to sent.
func (s *Service) Send(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.transition(ctx, id, StatusSent)
}

// Cancel moves a non-terminal invoice to cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.transition(ctx, id, StatusCancelled)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to Status) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if !inv.Status.CanTransition(to) {
		return nil, fmt.Errorf("%s -> %s: %w", inv.Status, to, ErrInvalidTransition)
	}

	ok, err := s.repo.UpdateStatus(ctx, id, inv.Status, to)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrConcurrentUpdate
	}

	inv.Status = to

	return inv, nil
}

// RecordPayment books a manual payment against an invoice and creates the
// matching income entry in the ledger.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal, methodID *uuid.UUID) (*Invoice, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if !inv.Status.Payable() {
		return nil, fmt.Errorf("status %s: %w", inv.Status, ErrNotPayable)
	}

	if amount.GreaterThan(inv.Remaining()) {
		return nil, fmt.Errorf("%s > %s: %w", amount.StringFixed(2), inv.Remaining().StringFixed(2), ErrOverpayment)
	}

	now := s.now()
	ref := fmt.Sprintf("PAY-%s-%d", inv.Number, now.Unix())

	tx := &transaction.Transaction{
		Type:            transaction.TypeIncome,
		Amount:          amount,
		Currency:        inv.Currency,
		Status:          transaction.StatusCompleted,
		Date:            transaction.DateOnly(now),
		PaymentMethodID: methodID,
		Source:          &transaction.Source{Type: transaction.SourceCustomer, ID: inv.CustomerID},
		InvoiceID:       &inv.ID,
		ReferenceNumber: &ref,
		Description:     "Payment for invoice " + inv.Number,
		Metadata:        transaction.Metadata{"invoice_number": inv.Number},
	}

	prevPaid := inv.PaidAmount
	next := *inv
	next.PaidAmount = prevPaid.Add(amount)
	s.settle(&next)

	if err := s.repo.RecordPayment(ctx, &next, tx, prevPaid); err != nil {
		return nil, err
	}

	return &next, nil
}

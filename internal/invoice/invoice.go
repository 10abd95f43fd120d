// Package invoice drives invoices from draft to paid: overdue sweeps,
// payment matching, reminders and generation from completed tickets.
package invoice

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/fault"
)

var (
	ErrNotFound          = fmt.Errorf("invoice %w", fault.ErrNotFound)
	ErrInvalidTransition = fmt.Errorf("invoice status change not allowed: %w", fault.ErrPolicy)
	ErrTicketInvoiced    = fmt.Errorf("ticket already has an invoice: %w", fault.ErrPolicy)
	ErrTicketNoTotal     = fmt.Errorf("ticket has no billable total: %w", fault.ErrPolicy)
	ErrNotPayable        = fmt.Errorf("invoice does not accept payments: %w", fault.ErrPolicy)
	ErrPaymentTaken      = fmt.Errorf("payment already linked to an invoice: %w", fault.ErrPolicy)
	ErrOverpayment       = fmt.Errorf("payment exceeds remaining amount: %w", fault.ErrValidation)
	ErrInvalidAmount     = fmt.Errorf("amount must be positive: %w", fault.ErrValidation)
	ErrUnknownReminder   = fmt.Errorf("unknown reminder kind: %w", fault.ErrValidation)
	// ErrConcurrentUpdate means the row changed between read and write.
	ErrConcurrentUpdate = fmt.Errorf("invoice changed concurrently: %w", fault.ErrStore)
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// CanTransition reports whether an invoice may move from s to next. Once
// overdue an invoice only leaves through payment or cancellation.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusSent || next == StatusCancelled
	case StatusSent:
		return next == StatusOverdue || next == StatusPaid || next == StatusCancelled
	case StatusOverdue:
		return next == StatusPaid || next == StatusCancelled
	}

	return false
}

func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// Payable reports whether payments can be applied in status s.
func (s Status) Payable() bool {
	return s == StatusSent || s == StatusOverdue
}

type Item struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

type ReminderKind string

const (
	ReminderDueSoon ReminderKind = "due_soon"
	ReminderOverdue ReminderKind = "overdue"
	ReminderFinal   ReminderKind = "final"
)

func (k ReminderKind) Valid() bool {
	return k == ReminderDueSoon || k == ReminderOverdue || k == ReminderFinal
}

type SentReminder struct {
	Kind   ReminderKind `json:"kind"`
	SentAt time.Time    `json:"sent_at"`
}

type Metadata struct {
	Reminders   []SentReminder `json:"reminders,omitempty"`
	RequestedBy string         `json:"requested_by,omitempty"`
	Generated   bool           `json:"generated,omitempty"`
}

type Invoice struct {
	ID                 uuid.UUID
	Number             string
	CustomerID         uuid.UUID
	TicketID           *uuid.UUID
	Title              string
	Description        string
	Notes              string
	InvoiceDate        time.Time
	DueDate            *time.Time
	Subtotal           decimal.Decimal
	TaxRate            decimal.Decimal
	TaxAmount          decimal.Decimal
	DiscountAmount     decimal.Decimal
	TotalAmount        decimal.Decimal
	PaidAmount         decimal.Decimal
	Currency           string
	Status             Status
	Items              []Item
	Metadata           Metadata
	PaidAt             *time.Time
	LastReminderSentAt *time.Time
	ReminderCount      int
	CreatedAt          time.Time
}

var hundred = decimal.NewFromInt(100)

// Recalculate derives line totals, subtotal, tax and total from the items,
// tax rate (percent) and discount. Without items the subtotal is kept.
func (inv *Invoice) Recalculate() {
	if len(inv.Items) > 0 {
		subtotal := decimal.Zero

		for i := range inv.Items {
			inv.Items[i].Total = inv.Items[i].Quantity.Mul(inv.Items[i].UnitPrice).Round(2)
			subtotal = subtotal.Add(inv.Items[i].Total)
		}

		inv.Subtotal = subtotal
	}

	inv.TaxAmount = inv.Subtotal.Mul(inv.TaxRate).Div(hundred).Round(2)
	inv.TotalAmount = inv.Subtotal.Add(inv.TaxAmount).Sub(inv.DiscountAmount)
}

func (inv *Invoice) Remaining() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.PaidAmount)
}

// PastDue reports whether the due date lies strictly before asOf's date.
func (inv *Invoice) PastDue(asOf time.Time) bool {
	if inv.DueDate == nil {
		return false
	}

	y, m, d := asOf.Date()

	return inv.DueDate.Before(time.Date(y, m, d, 0, 0, 0, 0, inv.DueDate.Location()))
}

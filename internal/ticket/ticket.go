// Package ticket exposes the support tickets that get billed once completed.
package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/fault"
)

var (
	ErrNotFound         = fmt.Errorf("ticket %w", fault.ErrNotFound)
	ErrAlreadyCompleted = fmt.Errorf("ticket already completed: %w", fault.ErrPolicy)
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusClosed     Status = "closed"
)

type Ticket struct {
	ID          uuid.UUID
	Subject     string
	Course      string
	Priority    string
	Status      Status
	CustomerID  uuid.UUID
	TotalAmount decimal.Decimal
	InvoiceID   *uuid.UUID
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// Invoiceable reports whether an invoice may still be generated for t.
func (t *Ticket) Invoiceable() bool {
	return t.InvoiceID == nil && t.TotalAmount.IsPositive()
}

//go:generate mockgen -source=ticket.go -destination=repository_mock.go -package=ticket
type Repository interface {
	GetTicket(ctx context.Context, id uuid.UUID) (*Ticket, error)
	// ListInvoiceable returns completed tickets with a positive total and no
	// invoice, oldest completion first.
	ListInvoiceable(ctx context.Context) ([]*Ticket, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error
}

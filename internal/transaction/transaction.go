package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/fault"
)

const DefaultCurrency = "EUR"

var (
	ErrNotFound          = fmt.Errorf("transaction %w", fault.ErrNotFound)
	ErrInvalidTransition = fmt.Errorf("transaction status change not allowed: %w", fault.ErrPolicy)
	ErrImmutable         = fmt.Errorf("completed transactions cannot be edited: %w", fault.ErrPolicy)
	ErrNegativeAmount    = fmt.Errorf("amount must not be negative: %w", fault.ErrValidation)
	ErrUnknownType       = fmt.Errorf("unknown transaction type: %w", fault.ErrValidation)
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Status represents the lifecycle state of a transaction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

// CanTransition reports whether a transaction may move from s to next.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusCompleted || next == StatusCancelled
	case StatusCompleted:
		return next == StatusRefunded
	}

	return false
}

// SourceType names the kind of entity a transaction originated from.
type SourceType string

const (
	SourceCustomer  SourceType = "customer"
	SourceTicket    SourceType = "ticket"
	SourceRecurring SourceType = "recurring_transaction"
)

// Source is the optional polymorphic link to the entity that produced a
// transaction.
type Source struct {
	Type SourceType
	ID   uuid.UUID
}

// Metadata is free-form data attached to a transaction.
type Metadata map[string]any

// Transaction represents a single money movement in the ledger.
type Transaction struct {
	ID              uuid.UUID
	Type            Type
	Amount          decimal.Decimal
	Currency        string
	Status          Status
	Date            time.Time
	CategoryID      *uuid.UUID
	PaymentMethodID *uuid.UUID
	Source          *Source
	InvoiceID       *uuid.UUID
	ReferenceNumber *string
	Description     string
	RawDescription  string
	Metadata        Metadata
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
}

// DateOnly truncates t to midnight UTC, the resolution of ledger dates.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

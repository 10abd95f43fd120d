// Package recurring materializes ledger transactions from recurrence rules.
package recurring

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/fault"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

var (
	ErrNotFound         = fmt.Errorf("recurring transaction %w", fault.ErrNotFound)
	ErrInvalidFrequency = fmt.Errorf("unknown frequency: %w", fault.ErrValidation)
	ErrInvalidInterval  = fmt.Errorf("interval must be at least 1: %w", fault.ErrValidation)
	ErrInvalidWindow    = fmt.Errorf("end date before start date: %w", fault.ErrValidation)
	// ErrConcurrentUpdate is returned when another run advanced the rule first.
	ErrConcurrentUpdate = fmt.Errorf("recurring transaction changed concurrently: %w", fault.ErrPolicy)
)

type Frequency string

const (
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Quarterly, Yearly:
		return true
	}

	return false
}

// months returns how many calendar months one unit of f spans, or 0 for
// day-based frequencies.
func (f Frequency) months() int {
	switch f {
	case Monthly:
		return 1
	case Quarterly:
		return 3
	case Yearly:
		return 12
	}

	return 0
}

// Rule is a recurrence template. NextDueDate is always the date of the next
// occurrence that has not been created yet.
type Rule struct {
	ID                 uuid.UUID
	Type               transaction.Type
	Amount             decimal.Decimal
	Currency           string
	CategoryID         *uuid.UUID
	PaymentMethodID    *uuid.UUID
	Description        string
	Frequency          Frequency
	Interval           int
	StartDate          time.Time
	EndDate            *time.Time
	MaxOccurrences     *int
	IsActive           bool
	NextDueDate        time.Time
	OccurrencesCreated int
	LastProcessedAt    *time.Time
	CreatedAt          time.Time
}

// Exhausted reports whether the rule must stop producing occurrences as of asOf.
func (r *Rule) Exhausted(asOf time.Time) bool {
	if r.MaxOccurrences != nil && r.OccurrencesCreated >= *r.MaxOccurrences {
		return true
	}

	return r.EndDate != nil && r.EndDate.Before(transaction.DateOnly(asOf))
}

// Due reports whether the next occurrence falls on or before asOf.
func (r *Rule) Due(asOf time.Time) bool {
	return !r.NextDueDate.After(transaction.DateOnly(asOf))
}

// Reference returns the ledger reference of occurrence n (1-based). It is
// unique per rule and occurrence, so a replayed occurrence cannot be inserted
// twice.
func (r *Rule) Reference(n int) string {
	return fmt.Sprintf("REC-%s-%d", r.ID.String()[:8], n)
}

// Advance steps from by interval units of freq. Month-based steps keep
// anchorDay where the target month has it and clamp to the month's last day
// otherwise, so a rule anchored on the 31st runs Jan 31, Feb 29, Mar 31.
func Advance(from time.Time, freq Frequency, interval, anchorDay int) time.Time {
	if interval < 1 {
		interval = 1
	}

	switch freq {
	case Daily:
		return from.AddDate(0, 0, interval)
	case Weekly:
		return from.AddDate(0, 0, 7*interval)
	}

	if anchorDay < 1 {
		anchorDay = from.Day()
	}

	firstOfTarget := time.Date(from.Year(), from.Month()+time.Month(freq.months()*interval), 1, 0, 0, 0, 0, from.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()

	return firstOfTarget.AddDate(0, 0, min(anchorDay, lastDay)-1)
}

// Outcome is the result of processing one rule in a batch.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeStopped Outcome = "stopped"
	OutcomeSkipped Outcome = "skipped"
	OutcomeError   Outcome = "error"
)

type Result struct {
	RuleID        uuid.UUID
	Outcome       Outcome
	Detail        string
	TransactionID *uuid.UUID
	// NextDueDate is the rule's due date after processing.
	NextDueDate time.Time
}

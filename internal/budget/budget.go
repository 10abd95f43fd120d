// Package budget compares category spend against allocations and raises
// threshold alerts.
package budget

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/fault"
)

var (
	ErrNotFound = fmt.Errorf("budget %w", fault.ErrNotFound)
	ErrInactive = fmt.Errorf("budget is not active for the current period: %w", fault.ErrPolicy)
)

type PeriodType string

const (
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodYearly    PeriodType = "yearly"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Budget struct {
	ID          uuid.UUID
	Name        string
	PeriodType  PeriodType
	StartDate   time.Time
	EndDate     time.Time
	TotalAmount decimal.Decimal
	Status      Status
	CreatedAt   time.Time
}

// Covers reports whether now falls inside [StartDate, EndDate], both days
// included.
func (b *Budget) Covers(now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	return !today.Before(b.StartDate) && !today.After(b.EndDate)
}

// Evaluable reports whether alerts are computed for b at now.
func (b *Budget) Evaluable(now time.Time) bool {
	return b.Status == StatusActive && b.Covers(now)
}

// Category is one category allocation inside a budget.
type Category struct {
	ID              uuid.UUID
	BudgetID        uuid.UUID
	CategoryID      uuid.UUID
	CategoryName    string
	AllocatedAmount decimal.Decimal
	SpentAmount     decimal.Decimal
	AlertAt80       bool
	AlertAt100      bool
	LastAlertSentAt *time.Time
	// LastAlertType is the tier of the last delivered alert.
	LastAlertType *AlertType
}

func (c *Category) Remaining() decimal.Decimal {
	return c.AllocatedAmount.Sub(c.SpentAmount)
}

// PercentageUsed is spent/allocated·100 rounded to two places for display.
// Without an allocation it is 0.
func (c *Category) PercentageUsed() decimal.Decimal {
	if !c.AllocatedAmount.IsPositive() {
		return decimal.Zero
	}

	return c.SpentAmount.Div(c.AllocatedAmount).Mul(decimal.NewFromInt(100)).Round(2)
}

type AlertType string

const (
	AlertExceeded    AlertType = "exceeded_limit"
	AlertApproaching AlertType = "approaching_limit"
)

var (
	eighty  = decimal.NewFromInt(80)
	hundred = decimal.NewFromInt(100)
)

// severity orders tiers so an escalation can be told apart from a repeat.
func (t AlertType) severity() int {
	switch t {
	case AlertExceeded:
		return 2
	case AlertApproaching:
		return 1
	}

	return 0
}

type Alert struct {
	Type         AlertType       `json:"type"`
	BudgetID     uuid.UUID       `json:"budget_id"`
	BudgetName   string          `json:"budget_name"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Allocated    decimal.Decimal `json:"allocated"`
	Spent        decimal.Decimal `json:"spent"`
	Percentage   decimal.Decimal `json:"percentage"`
	// Overspent is set on exceeded alerts, Remaining on approaching ones.
	Overspent decimal.Decimal `json:"overspent"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Threshold returns the alert c currently warrants, ignoring debounce. The
// tiers compare the exact amounts, never the rounded percentage.
func Threshold(b *Budget, c *Category) (Alert, bool) {
	if !c.AllocatedAmount.IsPositive() {
		return Alert{}, false
	}

	scaled := c.SpentAmount.Mul(hundred)

	a := Alert{
		BudgetID:     b.ID,
		BudgetName:   b.Name,
		CategoryID:   c.CategoryID,
		CategoryName: c.CategoryName,
		Allocated:    c.AllocatedAmount,
		Spent:        c.SpentAmount,
		Percentage:   c.PercentageUsed(),
	}

	switch {
	case c.SpentAmount.GreaterThanOrEqual(c.AllocatedAmount) && c.AlertAt100:
		a.Type = AlertExceeded
		a.Overspent = c.SpentAmount.Sub(c.AllocatedAmount)
	case scaled.GreaterThanOrEqual(c.AllocatedAmount.Mul(eighty)) && c.AlertAt80:
		a.Type = AlertApproaching
		a.Remaining = c.Remaining()
	default:
		return Alert{}, false
	}

	return a, true
}

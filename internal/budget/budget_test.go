package budget_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/backoffice/internal/budget"
)

func TestThreshold(t *testing.T) {
	b := &budget.Budget{Name: "Q1"}

	tests := []struct {
		name          string
		allocated     string
		spent         string
		at80, at100   bool
		wantType      budget.AlertType
		wantRemaining string
		wantOver      string
	}{
		{name: "Below", spent: "799", at80: true, at100: true},
		{name: "Approaching", spent: "850", at80: true, at100: true, wantType: budget.AlertApproaching, wantRemaining: "150.00", wantOver: "0.00"},
		{name: "ApproachingDisabled", spent: "850", at100: true},
		{name: "Exceeded", spent: "1200", at80: true, at100: true, wantType: budget.AlertExceeded, wantRemaining: "0.00", wantOver: "200.00"},
		{name: "ExactlyFull", spent: "1000", at100: true, wantType: budget.AlertExceeded, wantRemaining: "0.00", wantOver: "0.00"},
		{name: "ExceededFallsBackTo80", spent: "1200", at80: true, wantType: budget.AlertApproaching, wantRemaining: "-200.00", wantOver: "0.00"},
		{name: "JustUnderFull", allocated: "100000.00", spent: "99996.00", at80: true, at100: true, wantType: budget.AlertApproaching, wantRemaining: "4.00", wantOver: "0.00"},
		{name: "JustUnder80", allocated: "100000.00", spent: "79996.00", at80: true, at100: true},
		{name: "NoAllocation", allocated: "0", spent: "10", at80: true, at100: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocated := decimal.NewFromInt(1000)
			if tt.allocated != "" {
				allocated = decimal.RequireFromString(tt.allocated)
			}

			c := &budget.Category{
				CategoryName:    "Rent",
				AllocatedAmount: allocated,
				SpentAmount:     decimal.RequireFromString(tt.spent),
				AlertAt80:       tt.at80,
				AlertAt100:      tt.at100,
			}

			a, fired := budget.Threshold(b, c)
			if tt.wantType == "" {
				assert.False(t, fired)
				return
			}

			assert.True(t, fired)
			assert.Equal(t, tt.wantType, a.Type)
			assert.Equal(t, tt.wantRemaining, a.Remaining.StringFixed(2))
			assert.Equal(t, tt.wantOver, a.Overspent.StringFixed(2))
		})
	}
}

func TestCategory_PercentageUsed(t *testing.T) {
	c := &budget.Category{AllocatedAmount: decimal.NewFromInt(300), SpentAmount: decimal.NewFromInt(100)}
	assert.Equal(t, "33.33", c.PercentageUsed().StringFixed(2))

	c.AllocatedAmount = decimal.Zero
	assert.True(t, c.PercentageUsed().IsZero())
}

func TestBudget_Evaluable(t *testing.T) {
	b := &budget.Budget{
		Status:    budget.StatusActive,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, b.Evaluable(time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, b.Evaluable(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))

	b.Status = budget.StatusDraft
	assert.False(t, b.Evaluable(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDigest(t *testing.T) {
	alerts := []budget.Alert{
		{Type: budget.AlertApproaching, BudgetName: "Q1", CategoryName: "Rent", Percentage: decimal.NewFromInt(85), Remaining: decimal.NewFromInt(150)},
		{Type: budget.AlertExceeded, BudgetName: "Q1", CategoryName: "Travel", Percentage: decimal.NewFromInt(120), Overspent: decimal.NewFromInt(40)},
		{Type: budget.AlertApproaching, BudgetName: "Q1", CategoryName: "Food", Percentage: decimal.NewFromInt(90), Remaining: decimal.NewFromInt(10)},
	}

	groups := budget.GroupBySeverity(alerts)
	assert.Len(t, groups[budget.AlertApproaching], 2)
	assert.Len(t, groups[budget.AlertExceeded], 1)

	got := budget.Digest(alerts)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "budget.exceeded_limit", got[0].Kind)
		assert.Contains(t, got[0].Body, "Travel: 120.00% used, over by 40.00")
		assert.Equal(t, "budget.approaching_limit", got[1].Kind)
		assert.Contains(t, got[1].Body, "Rent: 85.00% used, 150.00 left")
		assert.Contains(t, got[1].Body, "Food")
	}

	assert.Empty(t, budget.Digest(nil))
}

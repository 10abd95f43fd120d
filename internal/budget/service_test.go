package budget_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/backoffice/internal/budget"
	"github.com/MrJamesThe3rd/backoffice/internal/fault"
)

var fixedNow = time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)

func activeBudget() *budget.Budget {
	return &budget.Budget{
		ID:        uuid.New(),
		Name:      "Q1 2024",
		Status:    budget.StatusActive,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func category(b *budget.Budget, name string, allocated int64) *budget.Category {
	return &budget.Category{
		ID:              uuid.New(),
		BudgetID:        b.ID,
		CategoryID:      uuid.New(),
		CategoryName:    name,
		AllocatedAmount: decimal.NewFromInt(allocated),
		AlertAt80:       true,
		AlertAt100:      true,
	}
}

func TestService_Evaluate_Approaching(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := budget.NewMockRepository(ctrl)

	clock := fixedNow
	svc := budget.NewService(repo, budget.WithClock(func() time.Time { return clock }))

	b := activeBudget()
	c := category(b, "Rent", 1000)

	repo.EXPECT().ListCategories(gomock.Any(), b.ID).Return([]*budget.Category{c}, nil).Times(3)
	repo.EXPECT().SpentInPeriod(gomock.Any(), c.CategoryID, b.StartDate, b.EndDate).Return(decimal.NewFromInt(850), nil).Times(3)
	repo.EXPECT().SaveCategory(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	repo.EXPECT().MarkAlerted(gomock.Any(), b.ID, c.CategoryID, budget.AlertApproaching, fixedNow).
		DoAndReturn(func(_ context.Context, _, _ uuid.UUID, typ budget.AlertType, at time.Time) error {
			c.LastAlertSentAt = &at
			c.LastAlertType = &typ

			return nil
		})

	alerts, err := svc.Evaluate(context.Background(), b)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	assert.Equal(t, budget.AlertApproaching, alerts[0].Type)
	assert.Equal(t, "150.00", alerts[0].Remaining.StringFixed(2))
	assert.Equal(t, "85.00", alerts[0].Percentage.StringFixed(2))
	assert.Equal(t, "850.00", c.SpentAmount.StringFixed(2))
	assert.Nil(t, c.LastAlertSentAt)

	require.NoError(t, svc.MarkDelivered(context.Background(), alerts))
	assert.Equal(t, fixedNow, *c.LastAlertSentAt)

	// same window, unchanged category
	clock = fixedNow.Add(2 * time.Hour)

	alerts, err = svc.Evaluate(context.Background(), b)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	clock = fixedNow.Add(25 * time.Hour)

	alerts, err = svc.Evaluate(context.Background(), b)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestService_Evaluate_UndeliveredAlertFiresAgain(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := budget.NewMockRepository(ctrl)

	clock := fixedNow
	svc := budget.NewService(repo, budget.WithClock(func() time.Time { return clock }))

	b := activeBudget()
	c := category(b, "Rent", 1000)

	repo.EXPECT().ListCategories(gomock.Any(), b.ID).Return([]*budget.Category{c}, nil).Times(2)
	repo.EXPECT().SpentInPeriod(gomock.Any(), c.CategoryID, gomock.Any(), gomock.Any()).Return(decimal.NewFromInt(1100), nil).Times(2)
	repo.EXPECT().SaveCategory(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	alerts, err := svc.Evaluate(context.Background(), b)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	// the digest never went out, so nothing was marked
	clock = fixedNow.Add(time.Hour)

	alerts, err = svc.Evaluate(context.Background(), b)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, budget.AlertExceeded, alerts[0].Type)
}

func TestService_Evaluate_Escalation(t *testing.T) {
	approaching, exceeded := budget.AlertApproaching, budget.AlertExceeded

	tests := []struct {
		name      string
		lastType  *budget.AlertType
		spent     int64
		wantFired bool
	}{
		{name: "ApproachingToExceeded", lastType: &approaching, spent: 1100, wantFired: true},
		{name: "ExceededRepeat", lastType: &exceeded, spent: 1100},
		{name: "ExceededToApproaching", lastType: &exceeded, spent: 900},
		{name: "UnknownLastType", spent: 1100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := budget.NewMockRepository(ctrl)
			svc := budget.NewService(repo, budget.WithClock(func() time.Time { return fixedNow }))

			b := activeBudget()
			c := category(b, "Travel", 1000)
			c.LastAlertSentAt = new(fixedNow.Add(-2 * time.Hour))
			c.LastAlertType = tt.lastType

			repo.EXPECT().ListCategories(gomock.Any(), b.ID).Return([]*budget.Category{c}, nil)
			repo.EXPECT().SpentInPeriod(gomock.Any(), c.CategoryID, gomock.Any(), gomock.Any()).Return(decimal.NewFromInt(tt.spent), nil)
			repo.EXPECT().SaveCategory(gomock.Any(), gomock.Any()).Return(nil)

			alerts, err := svc.Evaluate(context.Background(), b)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFired, len(alerts) == 1)
		})
	}
}

func TestService_MarkDelivered_JoinsFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := budget.NewMockRepository(ctrl)
	svc := budget.NewService(repo, budget.WithClock(func() time.Time { return fixedNow }))

	alerts := []budget.Alert{
		{Type: budget.AlertExceeded, BudgetID: uuid.New(), CategoryID: uuid.New(), BudgetName: "Q1", CategoryName: "Travel"},
		{Type: budget.AlertExceeded, BudgetID: uuid.New(), CategoryID: uuid.New(), BudgetName: "Q1", CategoryName: "Food"},
	}

	repo.EXPECT().MarkAlerted(gomock.Any(), alerts[0].BudgetID, alerts[0].CategoryID, budget.AlertExceeded, fixedNow).Return(fault.ErrStore)
	repo.EXPECT().MarkAlerted(gomock.Any(), alerts[1].BudgetID, alerts[1].CategoryID, budget.AlertExceeded, fixedNow).Return(nil)

	err := svc.MarkDelivered(context.Background(), alerts)
	assert.ErrorIs(t, err, fault.ErrStore)
	assert.Contains(t, err.Error(), "Travel")
}

func TestService_Evaluate_CustomDebounce(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := budget.NewMockRepository(ctrl)

	svc := budget.NewService(repo,
		budget.WithClock(func() time.Time { return fixedNow }),
		budget.WithDebounce(time.Hour),
	)

	b := activeBudget()
	c := category(b, "Travel", 100)
	c.LastAlertSentAt = new(fixedNow.Add(-2 * time.Hour))

	repo.EXPECT().ListCategories(gomock.Any(), b.ID).Return([]*budget.Category{c}, nil)
	repo.EXPECT().SpentInPeriod(gomock.Any(), c.CategoryID, gomock.Any(), gomock.Any()).Return(decimal.NewFromInt(130), nil)
	repo.EXPECT().SaveCategory(gomock.Any(), gomock.Any()).Return(nil)

	alerts, err := svc.Evaluate(context.Background(), b)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, budget.AlertExceeded, alerts[0].Type)
	assert.Equal(t, "30.00", alerts[0].Overspent.StringFixed(2))
}

func TestService_Evaluate_IsolatesCategoryFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := budget.NewMockRepository(ctrl)
	svc := budget.NewService(repo, budget.WithClock(func() time.Time { return fixedNow }))

	b := activeBudget()
	broken := category(b, "Broken", 100)
	ok := category(b, "Food", 100)

	repo.EXPECT().ListCategories(gomock.Any(), b.ID).Return([]*budget.Category{broken, ok}, nil)
	repo.EXPECT().SpentInPeriod(gomock.Any(), broken.CategoryID, gomock.Any(), gomock.Any()).
		Return(decimal.Zero, errors.New("conn reset"))
	repo.EXPECT().SpentInPeriod(gomock.Any(), ok.CategoryID, gomock.Any(), gomock.Any()).Return(decimal.NewFromInt(100), nil)
	repo.EXPECT().SaveCategory(gomock.Any(), gomock.Any()).Return(nil)

	alerts, err := svc.Evaluate(context.Background(), b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")
	require.Len(t, alerts, 1)
	assert.Equal(t, "Food", alerts[0].CategoryName)
}

func TestService_Evaluate_SaveFailureDropsAlert(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := budget.NewMockRepository(ctrl)
	svc := budget.NewService(repo, budget.WithClock(func() time.Time { return fixedNow }))

	b := activeBudget()
	c := category(b, "Rent", 100)

	repo.EXPECT().ListCategories(gomock.Any(), b.ID).Return([]*budget.Category{c}, nil)
	repo.EXPECT().SpentInPeriod(gomock.Any(), c.CategoryID, gomock.Any(), gomock.Any()).Return(decimal.NewFromInt(90), nil)
	repo.EXPECT().SaveCategory(gomock.Any(), gomock.Any()).Return(fault.ErrStore)

	alerts, err := svc.Evaluate(context.Background(), b)
	assert.ErrorIs(t, err, fault.ErrStore)
	assert.Empty(t, alerts)
	assert.Nil(t, c.LastAlertSentAt)
}

func TestService_Preview_DoesNotPersist(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := budget.NewMockRepository(ctrl)
	svc := budget.NewService(repo, budget.WithClock(func() time.Time { return fixedNow }))

	b := activeBudget()
	c := category(b, "Rent", 1000)

	repo.EXPECT().ListCategories(gomock.Any(), b.ID).Return([]*budget.Category{c}, nil)
	repo.EXPECT().SpentInPeriod(gomock.Any(), c.CategoryID, gomock.Any(), gomock.Any()).Return(decimal.NewFromInt(850), nil)

	alerts, err := svc.Preview(context.Background(), b)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
	assert.Nil(t, c.LastAlertSentAt)
	assert.True(t, c.SpentAmount.IsZero())
}

func TestService_Evaluate_Inactive(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := budget.NewMockRepository(ctrl)
	svc := budget.NewService(repo, budget.WithClock(func() time.Time { return fixedNow }))

	b := activeBudget()
	b.EndDate = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	_, err := svc.Evaluate(context.Background(), b)
	assert.ErrorIs(t, err, budget.ErrInactive)
	assert.ErrorIs(t, err, fault.ErrPolicy)
}

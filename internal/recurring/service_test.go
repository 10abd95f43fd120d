package recurring_test

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

	"github.com/MrJamesThe3rd/backoffice/internal/recurring"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

var fixedNow = time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)

func newService(repo recurring.Repository) *recurring.Service {
	return recurring.NewService(repo, recurring.WithClock(func() time.Time { return fixedNow }))
}

func monthlyRule() *recurring.Rule {
	return &recurring.Rule{
		ID:          uuid.New(),
		Type:        transaction.TypeExpense,
		Amount:      decimal.NewFromInt(100),
		Currency:    "EUR",
		Frequency:   recurring.Monthly,
		Interval:    1,
		StartDate:   day(2024, 1, 1),
		IsActive:    true,
		NextDueDate: day(2024, 1, 1),
	}
}

func TestService_ProcessDue_CreatesMonthlyOccurrence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	rule := monthlyRule()
	asOf := day(2024, 1, 1)

	repo.EXPECT().ListActive(gomock.Any(), &asOf).Return([]*recurring.Rule{rule}, nil)
	repo.EXPECT().
		RecordOccurrence(gomock.Any(), gomock.Any(), day(2024, 1, 1), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *recurring.Rule, _ time.Time, tx *transaction.Transaction) error {
			assert.Equal(t, day(2024, 2, 1), r.NextDueDate)
			assert.Equal(t, 1, r.OccurrencesCreated)
			assert.Equal(t, fixedNow, *r.LastProcessedAt)

			assert.Equal(t, day(2024, 1, 1), tx.Date)
			assert.True(t, decimal.NewFromInt(100).Equal(tx.Amount))
			assert.Equal(t, transaction.StatusCompleted, tx.Status)
			assert.Equal(t, transaction.TypeExpense, tx.Type)
			assert.Equal(t, &transaction.Source{Type: transaction.SourceRecurring, ID: rule.ID}, tx.Source)
			assert.Equal(t, rule.Reference(1), *tx.ReferenceNumber)

			tx.ID = uuid.New()

			return nil
		})

	results, err := newService(repo).ProcessDue(context.Background(), asOf, false)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, recurring.OutcomeCreated, results[0].Outcome)
	assert.Equal(t, day(2024, 2, 1), results[0].NextDueDate)
	assert.NotNil(t, results[0].TransactionID)
	assert.Equal(t, day(2024, 2, 1), rule.NextDueDate)
}

func TestService_ProcessDue_AdvancesFromPreviousDueDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	rule := monthlyRule()
	rule.NextDueDate = day(2024, 3, 1)
	rule.OccurrencesCreated = 2

	// Processing late must not drift the schedule onto the processing date.
	asOf := day(2024, 3, 20)

	repo.EXPECT().ListActive(gomock.Any(), gomock.Any()).Return([]*recurring.Rule{rule}, nil)
	repo.EXPECT().RecordOccurrence(gomock.Any(), gomock.Any(), day(2024, 3, 1), gomock.Any()).Return(nil)

	results, err := newService(repo).ProcessDue(context.Background(), asOf, false)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, recurring.Advance(day(2024, 3, 1), recurring.Monthly, 1, 1), results[0].NextDueDate)
	assert.Equal(t, 3, rule.OccurrencesCreated)
}

func TestService_ProcessDue_StopsExhaustedRules(t *testing.T) {
	tests := []struct {
		name string
		edit func(r *recurring.Rule)
	}{
		{
			name: "MaxOccurrencesReached",
			edit: func(r *recurring.Rule) {
				r.MaxOccurrences = new(3)
				r.OccurrencesCreated = 3
			},
		},
		{
			name: "MaxOccurrencesReachedNotDue",
			edit: func(r *recurring.Rule) {
				r.MaxOccurrences = new(1)
				r.OccurrencesCreated = 1
				r.NextDueDate = day(2025, 1, 1)
			},
		},
		{
			name: "EndDatePassed",
			edit: func(r *recurring.Rule) {
				r.EndDate = new(day(2023, 12, 31))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := recurring.NewMockRepository(ctrl)
			rule := monthlyRule()
			tt.edit(rule)

			repo.EXPECT().ListActive(gomock.Any(), nil).Return([]*recurring.Rule{rule}, nil)
			repo.EXPECT().Deactivate(gomock.Any(), rule.ID).Return(nil)
			repo.EXPECT().RecordOccurrence(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			results, err := newService(repo).ProcessDue(context.Background(), day(2024, 1, 1), true)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, recurring.OutcomeStopped, results[0].Outcome)
			assert.Nil(t, results[0].TransactionID)
		})
	}
}

func TestService_ProcessDue_ForceAllSkipsNotDue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	rule := monthlyRule()
	rule.NextDueDate = day(2024, 2, 1)

	repo.EXPECT().ListActive(gomock.Any(), nil).Return([]*recurring.Rule{rule}, nil)

	results, err := newService(repo).ProcessDue(context.Background(), day(2024, 1, 15), true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, recurring.OutcomeSkipped, results[0].Outcome)
}

func TestService_ProcessDue_IsolatesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	failing := monthlyRule()
	healthy := monthlyRule()

	repo.EXPECT().ListActive(gomock.Any(), gomock.Any()).Return([]*recurring.Rule{failing, healthy}, nil)
	gomock.InOrder(
		repo.EXPECT().
			RecordOccurrence(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("violates foreign key constraint")),
		repo.EXPECT().
			RecordOccurrence(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil),
	)

	results, err := newService(repo).ProcessDue(context.Background(), day(2024, 1, 1), false)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, recurring.OutcomeError, results[0].Outcome)
	assert.Contains(t, results[0].Detail, "foreign key")
	assert.Equal(t, day(2024, 1, 1), failing.NextDueDate)
	assert.Equal(t, 0, failing.OccurrencesCreated)

	assert.Equal(t, recurring.OutcomeCreated, results[1].Outcome)
	assert.Equal(t, recurring.Summary{Created: 1, Errors: 1}, recurring.Summarize(results))
}

func TestService_Preview_DoesNotMutate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := recurring.NewMockRepository(ctrl)
	due := monthlyRule()
	done := monthlyRule()
	done.MaxOccurrences = new(1)
	done.OccurrencesCreated = 1

	repo.EXPECT().ListActive(gomock.Any(), gomock.Any()).Return([]*recurring.Rule{due, done}, nil)

	results, err := newService(repo).Preview(context.Background(), day(2024, 1, 1), false)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, recurring.OutcomeCreated, results[0].Outcome)
	assert.Equal(t, day(2024, 2, 1), results[0].NextDueDate)
	assert.Nil(t, results[0].TransactionID)
	assert.Equal(t, day(2024, 1, 1), due.NextDueDate)

	assert.Equal(t, recurring.OutcomeStopped, results[1].Outcome)
}

func TestService_Create(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := recurring.NewMockRepository(ctrl)
		repo.EXPECT().CreateRule(gomock.Any(), gomock.Any()).Return(nil)

		r, err := newService(repo).Create(context.Background(), recurring.CreateParams{
			Type:      transaction.TypeExpense,
			Amount:    decimal.NewFromInt(40),
			Frequency: recurring.Weekly,
			Interval:  2,
			StartDate: time.Date(2024, 5, 6, 13, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.Equal(t, day(2024, 5, 6), r.NextDueDate)
		assert.Equal(t, "EUR", r.Currency)
		assert.True(t, r.IsActive)
	})

	invalid := []struct {
		name    string
		params  recurring.CreateParams
		wantErr error
	}{
		{"BadFrequency", recurring.CreateParams{Type: transaction.TypeIncome, Frequency: "hourly", Interval: 1}, recurring.ErrInvalidFrequency},
		{"ZeroInterval", recurring.CreateParams{Type: transaction.TypeIncome, Frequency: recurring.Daily}, recurring.ErrInvalidInterval},
		{"EndBeforeStart", recurring.CreateParams{
			Type: transaction.TypeIncome, Frequency: recurring.Daily, Interval: 1,
			StartDate: day(2024, 2, 1), EndDate: new(day(2024, 1, 1)),
		}, recurring.ErrInvalidWindow},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			_, err := newService(recurring.NewMockRepository(ctrl)).Create(context.Background(), tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

package recurring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=recurring
type Repository interface {
	CreateRule(ctx context.Context, r *Rule) error
	GetRule(ctx context.Context, id uuid.UUID) (*Rule, error)
	ListRules(ctx context.Context) ([]*Rule, error)

	// ListActive returns active rules ordered by (next_due_date, id). A nil
	// dueBy returns every active rule.
	ListActive(ctx context.Context, dueBy *time.Time) ([]*Rule, error)

	// RecordOccurrence inserts tx and saves the advanced rule in one database
	// transaction. The rule update only applies while next_due_date still
	// equals prevDue.
	RecordOccurrence(ctx context.Context, r *Rule, prevDue time.Time, tx *transaction.Transaction) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for last_processed_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Type            transaction.Type
	Amount          decimal.Decimal
	Currency        string
	CategoryID      *uuid.UUID
	PaymentMethodID *uuid.UUID
	Description     string
	Frequency       Frequency
	Interval        int
	StartDate       time.Time
	EndDate         *time.Time
	MaxOccurrences  *int
}

func (p CreateParams) validate() error {
	if !p.Type.Valid() {
		return fmt.Errorf("%q: %w", p.Type, transaction.ErrUnknownType)
	}

	if p.Amount.IsNegative() {
		return transaction.ErrNegativeAmount
	}

	if !p.Frequency.Valid() {
		return fmt.Errorf("%q: %w", p.Frequency, ErrInvalidFrequency)
	}

	if p.Interval < 1 {
		return ErrInvalidInterval
	}

	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return ErrInvalidWindow
	}

	return nil
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*Rule, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	currency := p.Currency
	if currency == "" {
		currency = transaction.DefaultCurrency
	}

	start := transaction.DateOnly(p.StartDate)

	r := &Rule{
		Type:            p.Type,
		Amount:          p.Amount,
		Currency:        currency,
		CategoryID:      p.CategoryID,
		PaymentMethodID: p.PaymentMethodID,
		Description:     p.Description,
		Frequency:       p.Frequency,
		Interval:        p.Interval,
		StartDate:       start,
		EndDate:         p.EndDate,
		MaxOccurrences:  p.MaxOccurrences,
		IsActive:        true,
		NextDueDate:     start,
	}

	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Rule, error) {
	return s.repo.GetRule(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Rule, error) {
	return s.repo.ListRules(ctx)
}

// ProcessDue materializes the next occurrence of every due rule. With
// forceAll every active rule is visited and the ones not yet due are
// reported as skipped. A failing rule yields an error result and does not
// stop the batch.
func (s *Service) ProcessDue(ctx context.Context, asOf time.Time, forceAll bool) ([]Result, error) {
	return s.run(ctx, asOf, forceAll, false)
}

// Preview reports what ProcessDue would do without writing anything.
func (s *Service) Preview(ctx context.Context, asOf time.Time, forceAll bool) ([]Result, error) {
	return s.run(ctx, asOf, forceAll, true)
}

func (s *Service) run(ctx context.Context, asOf time.Time, forceAll, dryRun bool) ([]Result, error) {
	asOf = transaction.DateOnly(asOf)

	var dueBy *time.Time
	if !forceAll {
		dueBy = &asOf
	}

	rules, err := s.repo.ListActive(ctx, dueBy)
	if err != nil {
		return nil, fmt.Errorf("listing recurring transactions: %w", err)
	}

	results := make([]Result, 0, len(rules))

	for _, r := range rules {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := s.processOne(ctx, r, asOf, dryRun)
		if res.Outcome == OutcomeError {
			slog.ErrorContext(ctx, "recurring transaction failed", "rule_id", r.ID, "error", res.Detail)
		}

		results = append(results, res)
	}

	return results, nil
}

func (s *Service) processOne(ctx context.Context, r *Rule, asOf time.Time, dryRun bool) Result {
	res := Result{RuleID: r.ID, NextDueDate: r.NextDueDate}

	if r.Exhausted(asOf) {
		res.Outcome = OutcomeStopped
		res.Detail = stopReason(r, asOf)

		if !dryRun {
			if err := s.repo.Deactivate(ctx, r.ID); err != nil {
				return Result{RuleID: r.ID, Outcome: OutcomeError, Detail: err.Error(), NextDueDate: r.NextDueDate}
			}
		}

		return res
	}

	if !r.Due(asOf) {
		res.Outcome = OutcomeSkipped
		res.Detail = "next due " + r.NextDueDate.Format(time.DateOnly)

		return res
	}

	tx := s.occurrence(r)
	prevDue := r.NextDueDate
	next := *r
	next.NextDueDate = Advance(prevDue, r.Frequency, r.Interval, r.StartDate.Day())
	next.OccurrencesCreated++

	now := s.now()
	next.LastProcessedAt = &now

	res.Outcome = OutcomeCreated
	res.NextDueDate = next.NextDueDate
	res.Detail = fmt.Sprintf("%s %s on %s", tx.Amount.StringFixed(2), tx.Currency, tx.Date.Format(time.DateOnly))

	if dryRun {
		return res
	}

	if err := s.repo.RecordOccurrence(ctx, &next, prevDue, tx); err != nil {
		return Result{RuleID: r.ID, Outcome: OutcomeError, Detail: err.Error(), NextDueDate: prevDue}
	}

	*r = next
	res.TransactionID = &tx.ID

	return res
}

func (s *Service) occurrence(r *Rule) *transaction.Transaction {
	ref := r.Reference(r.OccurrencesCreated + 1)

	return &transaction.Transaction{
		Type:            r.Type,
		Amount:          r.Amount,
		Currency:        r.Currency,
		Status:          transaction.StatusCompleted,
		Date:            r.NextDueDate,
		CategoryID:      r.CategoryID,
		PaymentMethodID: r.PaymentMethodID,
		Source:          &transaction.Source{Type: transaction.SourceRecurring, ID: r.ID},
		ReferenceNumber: &ref,
		Description:     r.Description,
		Metadata: transaction.Metadata{
			"recurring_occurrence": r.OccurrencesCreated + 1,
		},
	}
}

func stopReason(r *Rule, asOf time.Time) string {
	if r.MaxOccurrences != nil && r.OccurrencesCreated >= *r.MaxOccurrences {
		return fmt.Sprintf("reached %d occurrences", *r.MaxOccurrences)
	}

	return fmt.Sprintf("ended %s before %s", r.EndDate.Format(time.DateOnly), asOf.Format(time.DateOnly))
}

// Summary counts results by outcome.
type Summary struct {
	Created int
	Stopped int
	Skipped int
	Errors  int
}

func Summarize(results []Result) Summary {
	var sum Summary

	for _, r := range results {
		switch r.Outcome {
		case OutcomeCreated:
			sum.Created++
		case OutcomeStopped:
			sum.Stopped++
		case OutcomeSkipped:
			sum.Skipped++
		case OutcomeError:
			sum.Errors++
		}
	}

	return sum
}

// Package automation exposes the batch entry points the worker, CLI and API
// trigger: overdue sweep, payment matching, reminder scheduling, invoice
// generation, recurring transactions and budget alerts. Every entry point
// supports a dry run that decides without mutating anything.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/budget"
	"github.com/MrJamesThe3rd/backoffice/internal/fault"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/notify"
	"github.com/MrJamesThe3rd/backoffice/internal/recurring"
	"github.com/MrJamesThe3rd/backoffice/internal/ticket"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

type Task string

const (
	TaskOverdueInvoices   Task = "overdue-invoices"
	TaskPaymentMatching   Task = "payment-matching"
	TaskReminders         Task = "reminder-scheduling"
	TaskInvoiceGeneration Task = "invoice-generation"
	TaskRecurring         Task = "recurring-transactions"
	TaskBudgetAlerts      Task = "budget-alerts"
)

// Tasks lists every task in the order the console shows them.
var Tasks = []Task{
	TaskOverdueInvoices,
	TaskPaymentMatching,
	TaskReminders,
	TaskInvoiceGeneration,
	TaskRecurring,
	TaskBudgetAlerts,
}

var ErrUnknownTask = fmt.Errorf("unknown automation task: %w", fault.ErrValidation)

func ParseTask(s string) (Task, error) {
	for _, t := range Tasks {
		if string(t) == s {
			return t, nil
		}
	}

	return "", fmt.Errorf("%q: %w", s, ErrUnknownTask)
}

//go:generate mockgen -source=automation.go -destination=automation_mock.go -package=automation
type Invoices interface {
	OverdueCandidates(ctx context.Context, asOf time.Time) ([]*invoice.Invoice, error)
	MarkOverdue(ctx context.Context, asOf time.Time) (int, error)
	MatchableInvoices(ctx context.Context) ([]*invoice.Invoice, error)
	FindMatch(ctx context.Context, inv *invoice.Invoice) (*transaction.Transaction, error)
	AutoMatchPayments(ctx context.Context, inv *invoice.Invoice) (bool, error)
	ReminderCandidates(ctx context.Context) ([]*invoice.Invoice, error)
	ScheduleReminders(ctx context.Context, inv *invoice.Invoice) (int, error)
}

type Tickets interface {
	ListInvoiceable(ctx context.Context) ([]*ticket.Ticket, error)
}

// Dispatcher enqueues deferred jobs.
type Dispatcher interface {
	Enqueue(ctx context.Context, kind, key string, payload any) error
	HasPending(ctx context.Context, key string) (bool, error)
}

type Recurring interface {
	ProcessDue(ctx context.Context, asOf time.Time, forceAll bool) ([]recurring.Result, error)
	Preview(ctx context.Context, asOf time.Time, forceAll bool) ([]recurring.Result, error)
}

type Budgets interface {
	Active(ctx context.Context) ([]*budget.Budget, error)
	Evaluate(ctx context.Context, b *budget.Budget) ([]budget.Alert, error)
	Preview(ctx context.Context, b *budget.Budget) ([]budget.Alert, error)
	MarkDelivered(ctx context.Context, alerts []budget.Alert) error
}

type Config struct {
	BatchTimeout time.Duration
	ErrorSample  int
}

type Deps struct {
	Invoices  Invoices
	Tickets   Tickets
	Jobs      Dispatcher
	Recurring Recurring
	Budgets   Budgets
	// Finance receives budget alert digests.
	Finance notify.Recipient
}

type Service struct {
	Deps
	cfg Config
	now func() time.Time
}

func NewService(deps Deps, cfg Config) *Service {
	return &Service{Deps: deps, cfg: cfg, now: time.Now}
}

// At returns a copy of s whose notion of today is t. Only the overdue sweep,
// reminder planning and recurring generation read it; the engines keep their
// own clocks.
func (s *Service) At(t time.Time) *Service {
	c := *s
	c.now = func() time.Time { return t }

	return &c
}

type Options struct {
	DryRun bool
	// Force processes recurring rules that are not due yet.
	Force bool
	AsOf  *time.Time
}

// Run dispatches task by name.
func (s *Service) Run(ctx context.Context, task Task, opts Options) (*Report, error) {
	svc := s
	if opts.AsOf != nil {
		svc = s.At(*opts.AsOf)
	}

	switch task {
	case TaskOverdueInvoices:
		return svc.ProcessOverdueInvoices(ctx, opts.DryRun)
	case TaskPaymentMatching:
		return svc.ProcessPaymentMatching(ctx, opts.DryRun)
	case TaskReminders:
		return svc.ProcessReminderScheduling(ctx, opts.DryRun)
	case TaskInvoiceGeneration:
		return svc.ProcessAutoInvoiceGeneration(ctx, opts.DryRun)
	case TaskRecurring:
		return svc.ProcessRecurringTransactions(ctx, opts.DryRun, opts.Force)
	case TaskBudgetAlerts:
		return svc.ProcessBudgetAlerts(ctx, opts.DryRun)
	}

	return nil, fmt.Errorf("%q: %w", task, ErrUnknownTask)
}

// batch bounds fn by the configured timeout and logs the outcome.
func (s *Service) batch(ctx context.Context, task Task, dryRun bool, fn func(ctx context.Context, r *Report) error) (*Report, error) {
	if s.cfg.BatchTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.cfg.BatchTimeout)
		defer cancel()
	}

	r := newReport(task, dryRun, s.cfg.ErrorSample)
	start := time.Now()

	err := fn(ctx, r)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		r.fail(errTimeout)
		err = fmt.Errorf("%s: %w", task, errTimeout)
	} else if err != nil {
		r.fail(err)
		err = fmt.Errorf("%s: %w", task, err)
	}

	slog.InfoContext(ctx, "automation batch finished",
		"task", task,
		"dry_run", dryRun,
		"processed", r.Processed,
		"skipped", r.Skipped,
		"failed", r.Failed,
		"duration", time.Since(start),
	)

	return r, err
}

// item records a per-item failure. Failures that would repeat on retry
// (missing entity, forbidden transition) count as skipped.
func item(r *Report, label string, err error) {
	if !fault.Retryable(err) {
		r.Skipped++
		r.note("skipped %s: %v", label, err)

		return
	}

	r.fail(fmt.Errorf("%s: %w", label, err))
}

func (s *Service) today() time.Time {
	return transaction.DateOnly(s.now())
}

// ProcessOverdueInvoices flips sent invoices past their due date to overdue.
func (s *Service) ProcessOverdueInvoices(ctx context.Context, dryRun bool) (*Report, error) {
	return s.batch(ctx, TaskOverdueInvoices, dryRun, func(ctx context.Context, r *Report) error {
		asOf := s.today()

		if dryRun {
			candidates, err := s.Invoices.OverdueCandidates(ctx, asOf)
			if err != nil {
				return err
			}

			for _, inv := range candidates {
				r.Processed++
				r.note("would mark %s overdue (due %s)", inv.Number, inv.DueDate.Format(time.DateOnly))
			}

			return nil
		}

		n, err := s.Invoices.MarkOverdue(ctx, asOf)
		r.Processed = n
		r.fail(err)

		return nil
	})
}

// ProcessPaymentMatching links unlinked customer payments to open invoices.
func (s *Service) ProcessPaymentMatching(ctx context.Context, dryRun bool) (*Report, error) {
	return s.batch(ctx, TaskPaymentMatching, dryRun, func(ctx context.Context, r *Report) error {
		invoices, err := s.Invoices.MatchableInvoices(ctx)
		if err != nil {
			return err
		}

		for _, inv := range invoices {
			if err := ctx.Err(); err != nil {
				return err
			}

			if dryRun {
				match, err := s.Invoices.FindMatch(ctx, inv)
				if err != nil {
					item(r, inv.Number, err)
					continue
				}

				if match == nil {
					r.Skipped++
					continue
				}

				r.Processed++
				r.note("would link payment %s (%s) to %s", match.ID, match.Amount.StringFixed(2), inv.Number)

				continue
			}

			matched, err := s.Invoices.AutoMatchPayments(ctx, inv)
			if err != nil {
				item(r, inv.Number, err)
				continue
			}

			if !matched {
				r.Skipped++
				continue
			}

			r.Processed++
			r.note("%s paid", inv.Number)
		}

		return nil
	})
}

// ProcessReminderScheduling schedules reminder jobs for sent invoices that
// have none pending.
func (s *Service) ProcessReminderScheduling(ctx context.Context, dryRun bool) (*Report, error) {
	return s.batch(ctx, TaskReminders, dryRun, func(ctx context.Context, r *Report) error {
		invoices, err := s.Invoices.ReminderCandidates(ctx)
		if err != nil {
			return err
		}

		for _, inv := range invoices {
			if err := ctx.Err(); err != nil {
				return err
			}

			if dryRun {
				plan := invoice.PlanReminders(inv, s.now())
				r.Processed++
				r.note("would schedule %d reminders for %s", len(plan), inv.Number)

				continue
			}

			n, err := s.Invoices.ScheduleReminders(ctx, inv)
			if err != nil {
				item(r, inv.Number, err)
				continue
			}

			r.Processed++
			r.note("scheduled %d reminders for %s", n, inv.Number)
		}

		return nil
	})
}

// ProcessAutoInvoiceGeneration enqueues an invoice.generate job per
// completed ticket without an invoice.
func (s *Service) ProcessAutoInvoiceGeneration(ctx context.Context, dryRun bool) (*Report, error) {
	return s.batch(ctx, TaskInvoiceGeneration, dryRun, func(ctx context.Context, r *Report) error {
		tickets, err := s.Tickets.ListInvoiceable(ctx)
		if err != nil {
			return err
		}

		for _, t := range tickets {
			if err := ctx.Err(); err != nil {
				return err
			}

			label := "ticket " + t.ID.String()

			if err := s.enqueueGeneration(ctx, r, t.ID, dryRun); err != nil {
				item(r, label, err)
			}
		}

		return nil
	})
}

func (s *Service) enqueueGeneration(ctx context.Context, r *Report, ticketID uuid.UUID, dryRun bool) error {
	key := invoice.GenerateKey(ticketID)

	pending, err := s.Jobs.HasPending(ctx, key)
	if err != nil {
		return err
	}

	if pending {
		r.Skipped++
		return nil
	}

	r.Processed++

	if dryRun {
		r.note("would generate invoice for ticket %s", ticketID)
		return nil
	}

	if err := s.Jobs.Enqueue(ctx, invoice.KindGenerate, key, invoice.GenerateJob{TicketID: ticketID}); err != nil {
		r.Processed--
		return err
	}

	return nil
}

// ProcessRecurringTransactions generates the ledger entries of due recurring
// rules. With force every active rule is considered.
func (s *Service) ProcessRecurringTransactions(ctx context.Context, dryRun, force bool) (*Report, error) {
	return s.batch(ctx, TaskRecurring, dryRun, func(ctx context.Context, r *Report) error {
		run := s.Recurring.ProcessDue
		if dryRun {
			run = s.Recurring.Preview
		}

		results, err := run(ctx, s.today(), force)

		for _, res := range results {
			switch res.Outcome {
			case recurring.OutcomeCreated:
				r.Processed++
				r.note("rule %s: occurrence created, next due %s", res.RuleID, res.NextDueDate.Format(time.DateOnly))
			case recurring.OutcomeStopped:
				r.Skipped++
				r.note("rule %s: stopped", res.RuleID)
			case recurring.OutcomeSkipped:
				r.Skipped++
			case recurring.OutcomeError:
				r.fail(fmt.Errorf("rule %s: %s", res.RuleID, res.Detail))
			}
		}

		return err
	})
}

// ProcessBudgetAlerts evaluates every active budget and sends one digest
// per severity tier to the finance recipients.
func (s *Service) ProcessBudgetAlerts(ctx context.Context, dryRun bool) (*Report, error) {
	return s.batch(ctx, TaskBudgetAlerts, dryRun, func(ctx context.Context, r *Report) error {
		budgets, err := s.Budgets.Active(ctx)
		if err != nil {
			return err
		}

		evaluate := s.Budgets.Evaluate
		if dryRun {
			evaluate = s.Budgets.Preview
		}

		var alerts []budget.Alert

		for _, b := range budgets {
			if err := ctx.Err(); err != nil {
				return err
			}

			got, err := evaluate(ctx, b)
			r.fail(err)

			alerts = append(alerts, got...)
		}

		r.Processed = len(alerts)

		groups := budget.GroupBySeverity(alerts)

		// A tier counts as alerted only once its digest is out.
		for _, tier := range []budget.AlertType{budget.AlertExceeded, budget.AlertApproaching} {
			for _, n := range budget.Digest(groups[tier]) {
				if dryRun {
					r.note("would notify finance: %s", n.Title)
					continue
				}

				if err := s.Finance.Notify(ctx, n); err != nil {
					r.fail(fmt.Errorf("notifying finance: %w", err))
					continue
				}

				r.note("notified finance: %s", n.Title)
				r.fail(s.Budgets.MarkDelivered(ctx, groups[tier]))
			}
		}

		return nil
	})
}

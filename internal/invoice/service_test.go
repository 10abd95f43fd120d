package invoice_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/backoffice/internal/customer"
	"github.com/MrJamesThe3rd/backoffice/internal/fault"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/jobs"
	"github.com/MrJamesThe3rd/backoffice/internal/notify"
	"github.com/MrJamesThe3rd/backoffice/internal/ticket"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

var fixedNow = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// amount matches decimals by value; scale and zero representation differ.
func amount(v int64) gomock.Matcher {
	want := decimal.NewFromInt(v)

	return gomock.Cond(func(d decimal.Decimal) bool { return d.Equal(want) })
}

type mocks struct {
	repo       *invoice.MockRepository
	customers  *customer.MockRepository
	tickets    *ticket.MockRepository
	scheduler  *invoice.MockScheduler
	recipients *invoice.MockRecipients
}

func setup(t *testing.T) (*invoice.Service, mocks) {
	ctrl := gomock.NewController(t)

	m := mocks{
		repo:       invoice.NewMockRepository(ctrl),
		customers:  customer.NewMockRepository(ctrl),
		tickets:    ticket.NewMockRepository(ctrl),
		scheduler:  invoice.NewMockScheduler(ctrl),
		recipients: invoice.NewMockRecipients(ctrl),
	}

	svc := invoice.NewService(m.repo, m.customers, m.tickets, m.scheduler, m.recipients,
		invoice.WithClock(func() time.Time { return fixedNow }))

	return svc, m
}

func sentInvoice(total int64) *invoice.Invoice {
	due := day(2024, 1, 10)

	return &invoice.Invoice{
		ID:          uuid.New(),
		Number:      "INV-2024-00001",
		CustomerID:  uuid.New(),
		InvoiceDate: day(2023, 12, 11),
		DueDate:     &due,
		TotalAmount: decimal.NewFromInt(total),
		Currency:    "EUR",
		Status:      invoice.StatusSent,
	}
}

func TestService_MarkOverdue_Idempotent(t *testing.T) {
	svc, m := setup(t)
	inv := sentInvoice(200)
	asOf := day(2024, 1, 15)

	gomock.InOrder(
		m.repo.EXPECT().ListOverdueCandidates(gomock.Any(), asOf).Return([]*invoice.Invoice{inv}, nil),
		m.repo.EXPECT().UpdateStatus(gomock.Any(), inv.ID, invoice.StatusSent, invoice.StatusOverdue).Return(true, nil),
		m.repo.EXPECT().ListOverdueCandidates(gomock.Any(), asOf).Return(nil, nil),
	)

	n, err := svc.MarkOverdue(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, invoice.StatusOverdue, inv.Status)

	n, err = svc.MarkOverdue(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestService_MarkOverdue_ContinuesPastFailures(t *testing.T) {
	svc, m := setup(t)
	a, b, c := sentInvoice(100), sentInvoice(100), sentInvoice(100)
	asOf := day(2024, 1, 15)

	m.repo.EXPECT().ListOverdueCandidates(gomock.Any(), asOf).Return([]*invoice.Invoice{a, b, c}, nil)
	m.repo.EXPECT().UpdateStatus(gomock.Any(), a.ID, invoice.StatusSent, invoice.StatusOverdue).Return(false, fault.ErrStore)
	// changed by someone else in between
	m.repo.EXPECT().UpdateStatus(gomock.Any(), b.ID, invoice.StatusSent, invoice.StatusOverdue).Return(false, nil)
	m.repo.EXPECT().UpdateStatus(gomock.Any(), c.ID, invoice.StatusSent, invoice.StatusOverdue).Return(true, nil)

	n, err := svc.MarkOverdue(context.Background(), asOf.Add(17*time.Hour))
	assert.ErrorIs(t, err, fault.ErrStore)
	assert.Equal(t, 1, n)
}

func TestService_AutoMatchPayments_CapsAtRemaining(t *testing.T) {
	svc, m := setup(t)
	inv := sentInvoice(200)
	payment := &transaction.Transaction{ID: uuid.New(), Amount: decimal.NewFromInt(250), Date: day(2024, 1, 12)}

	m.repo.EXPECT().
		FindPaymentCandidates(gomock.Any(), inv.CustomerID, amount(200), inv.InvoiceDate).
		Return([]*transaction.Transaction{payment}, nil)
	m.repo.EXPECT().
		ApplyMatch(gomock.Any(), gomock.Any(), payment.ID, amount(0)).
		DoAndReturn(func(_ context.Context, next *invoice.Invoice, _ uuid.UUID, _ decimal.Decimal) error {
			assert.Equal(t, "200.00", next.PaidAmount.StringFixed(2))
			assert.Equal(t, invoice.StatusPaid, next.Status)
			assert.Equal(t, fixedNow, *next.PaidAt)

			return nil
		})

	matched, err := svc.AutoMatchPayments(context.Background(), inv)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, invoice.StatusPaid, inv.Status)
	assert.True(t, inv.PaidAmount.LessThanOrEqual(inv.TotalAmount))
}

func TestService_AutoMatchPayments_NoCandidate(t *testing.T) {
	svc, m := setup(t)
	inv := sentInvoice(200)

	m.repo.EXPECT().FindPaymentCandidates(gomock.Any(), inv.CustomerID, gomock.Any(), gomock.Any()).Return(nil, nil)

	matched, err := svc.AutoMatchPayments(context.Background(), inv)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Equal(t, invoice.StatusSent, inv.Status)
}

func TestService_AutoMatchPayments_Ineligible(t *testing.T) {
	svc, _ := setup(t)

	paid := sentInvoice(200)
	paid.Status = invoice.StatusPaid

	stale := sentInvoice(200)
	stale.InvoiceDate = day(2023, 9, 1)

	for _, inv := range []*invoice.Invoice{paid, stale} {
		matched, err := svc.AutoMatchPayments(context.Background(), inv)
		require.NoError(t, err)
		assert.False(t, matched)
	}
}

func TestService_AutoMatchPayments_StoreConflictLeavesInvoice(t *testing.T) {
	svc, m := setup(t)
	inv := sentInvoice(200)
	payment := &transaction.Transaction{ID: uuid.New(), Amount: decimal.NewFromInt(200)}

	m.repo.EXPECT().FindPaymentCandidates(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*transaction.Transaction{payment}, nil)
	m.repo.EXPECT().ApplyMatch(gomock.Any(), gomock.Any(), payment.ID, gomock.Any()).Return(invoice.ErrPaymentTaken)

	matched, err := svc.AutoMatchPayments(context.Background(), inv)
	assert.ErrorIs(t, err, fault.ErrPolicy)
	assert.False(t, matched)
	assert.Equal(t, invoice.StatusSent, inv.Status)
	assert.True(t, inv.PaidAmount.IsZero())
}

func TestService_ReminderCandidates(t *testing.T) {
	svc, m := setup(t)

	due := day(2024, 2, 10)
	fresh := sentInvoice(100)
	fresh.DueDate = &due

	scheduled := sentInvoice(100)
	scheduled.DueDate = &due

	// final reminder for Jan 10 was Jan 24, still ahead
	late := sentInvoice(100)

	long := day(2023, 11, 1)
	expired := sentInvoice(100)
	expired.DueDate = &long

	m.repo.EXPECT().ListReminderCandidates(gomock.Any()).Return([]*invoice.Invoice{fresh, scheduled, late, expired}, nil)
	m.scheduler.EXPECT().HasPending(gomock.Any(), invoice.ReminderKey(fresh.ID)).Return(false, nil)
	m.scheduler.EXPECT().HasPending(gomock.Any(), invoice.ReminderKey(scheduled.ID)).Return(true, nil)
	m.scheduler.EXPECT().HasPending(gomock.Any(), invoice.ReminderKey(late.ID)).Return(false, nil)
	m.scheduler.EXPECT().HasPending(gomock.Any(), invoice.ReminderKey(expired.ID)).Return(false, nil)

	got, err := svc.ReminderCandidates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*invoice.Invoice{fresh, late}, got)
}

func TestService_ScheduleReminders(t *testing.T) {
	t.Run("OnlyFutureTargets", func(t *testing.T) {
		svc, m := setup(t)
		inv := sentInvoice(100)
		key := invoice.ReminderKey(inv.ID)

		m.scheduler.EXPECT().
			ScheduleBatch(gomock.Any(), invoice.KindReminder, key, []jobs.Planned{
				{Payload: invoice.ReminderJob{InvoiceID: inv.ID, Kind: invoice.ReminderFinal}, NotBefore: day(2024, 1, 24)},
			}).
			Return(nil)

		n, err := svc.ScheduleReminders(context.Background(), inv)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("AllTargetsInOneBatch", func(t *testing.T) {
		svc, m := setup(t)
		inv := sentInvoice(100)
		inv.DueDate = new(day(2024, 2, 1))

		m.scheduler.EXPECT().
			ScheduleBatch(gomock.Any(), invoice.KindReminder, invoice.ReminderKey(inv.ID), gomock.Cond(func(p []jobs.Planned) bool {
				return len(p) == 5 && p[2].NotBefore.Equal(day(2024, 1, 31))
			})).
			Return(fmt.Errorf("inserting job: %w", fault.ErrStore))

		n, err := svc.ScheduleReminders(context.Background(), inv)
		assert.ErrorIs(t, err, fault.ErrStore)
		assert.Zero(t, n)
	})

	t.Run("NothingAhead", func(t *testing.T) {
		svc, _ := setup(t)
		inv := sentInvoice(100)
		inv.DueDate = new(day(2023, 12, 1))

		n, err := svc.ScheduleReminders(context.Background(), inv)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestService_SendReminder(t *testing.T) {
	cust := &customer.Customer{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"}

	t.Run("DeliversAndMarksOverdue", func(t *testing.T) {
		svc, m := setup(t)
		inv := sentInvoice(100)
		inv.CustomerID = cust.ID
		rcpt := notify.NewMockRecipient(gomock.NewController(t))

		m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)
		m.customers.EXPECT().GetCustomer(gomock.Any(), cust.ID).Return(cust, nil)
		m.recipients.EXPECT().Email("ana@example.com").Return(rcpt)
		rcpt.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n notify.Notification) error {
			assert.Equal(t, "invoice.reminder.overdue", n.Kind)
			return nil
		})
		m.repo.EXPECT().SaveReminder(gomock.Any(), inv, invoice.StatusSent).Return(nil)

		require.NoError(t, svc.SendReminder(context.Background(), inv.ID, invoice.ReminderOverdue))

		assert.Equal(t, 1, inv.ReminderCount)
		assert.Equal(t, invoice.StatusOverdue, inv.Status)
		assert.Equal(t, fixedNow, *inv.LastReminderSentAt)
		require.Len(t, inv.Metadata.Reminders, 1)
		assert.Equal(t, invoice.ReminderOverdue, inv.Metadata.Reminders[0].Kind)
	})

	t.Run("SkipsPaid", func(t *testing.T) {
		svc, m := setup(t)
		inv := sentInvoice(100)
		inv.Status = invoice.StatusPaid

		m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)

		require.NoError(t, svc.SendReminder(context.Background(), inv.ID, invoice.ReminderDueSoon))
		assert.Equal(t, 0, inv.ReminderCount)
	})

	t.Run("SkipsCustomerWithoutEmail", func(t *testing.T) {
		svc, m := setup(t)
		inv := sentInvoice(100)

		m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)
		m.customers.EXPECT().GetCustomer(gomock.Any(), inv.CustomerID).Return(&customer.Customer{Name: "No mail"}, nil)

		require.NoError(t, svc.SendReminder(context.Background(), inv.ID, invoice.ReminderDueSoon))
		assert.Equal(t, 0, inv.ReminderCount)
	})

	t.Run("DeliveryFailureIsReturned", func(t *testing.T) {
		svc, m := setup(t)
		inv := sentInvoice(100)
		inv.CustomerID = cust.ID
		rcpt := notify.NewMockRecipient(gomock.NewController(t))

		m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)
		m.customers.EXPECT().GetCustomer(gomock.Any(), cust.ID).Return(cust, nil)
		m.recipients.EXPECT().Email(cust.Email).Return(rcpt)
		rcpt.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		err := svc.SendReminder(context.Background(), inv.ID, invoice.ReminderFinal)
		require.Error(t, err)
		assert.True(t, fault.Retryable(err))
		assert.Equal(t, 0, inv.ReminderCount)
	})

	t.Run("UnknownKind", func(t *testing.T) {
		svc, _ := setup(t)

		err := svc.SendReminder(context.Background(), uuid.New(), "weekly")
		assert.ErrorIs(t, err, fault.ErrValidation)
	})
}

func completedTicket() *ticket.Ticket {
	return &ticket.Ticket{
		ID:          uuid.New(),
		Subject:     "Math tutoring",
		Course:      "Algebra I",
		Priority:    "high",
		Status:      ticket.StatusCompleted,
		CustomerID:  uuid.New(),
		TotalAmount: decimal.NewFromInt(120),
	}
}

func TestService_BuildFromTicket(t *testing.T) {
	svc, _ := setup(t)
	tk := completedTicket()

	inv, err := svc.BuildFromTicket(tk, "user-1", invoice.Overrides{})
	require.NoError(t, err)

	assert.Equal(t, tk.CustomerID, inv.CustomerID)
	assert.Equal(t, &tk.ID, inv.TicketID)
	assert.Equal(t, "Math tutoring", inv.Title)
	assert.Equal(t, "Ticket: Math tutoring\nCourse: Algebra I\nPriority: high", inv.Notes)
	assert.Equal(t, invoice.StatusDraft, inv.Status)
	assert.Equal(t, day(2024, 1, 15), inv.InvoiceDate)
	assert.Equal(t, day(2024, 2, 14), *inv.DueDate)
	assert.Equal(t, "120.00", inv.TotalAmount.StringFixed(2))
	assert.Equal(t, "user-1", inv.Metadata.RequestedBy)
	assert.True(t, inv.Metadata.Generated)

	title := "Custom"
	rate := decimal.NewFromInt(23)
	inv, err = svc.BuildFromTicket(tk, "", invoice.Overrides{Title: &title, TaxRate: &rate})
	require.NoError(t, err)
	assert.Equal(t, "Custom", inv.Title)
	assert.Equal(t, "147.60", inv.TotalAmount.StringFixed(2))

	invoiced := completedTicket()
	invoiced.InvoiceID = new(uuid.New())
	_, err = svc.BuildFromTicket(invoiced, "", invoice.Overrides{})
	assert.ErrorIs(t, err, invoice.ErrTicketInvoiced)

	free := completedTicket()
	free.TotalAmount = decimal.Zero
	_, err = svc.BuildFromTicket(free, "", invoice.Overrides{})
	assert.ErrorIs(t, err, invoice.ErrTicketNoTotal)
}

func TestService_GenerateFromTicket(t *testing.T) {
	svc, m := setup(t)
	tk := completedTicket()
	rcpt := notify.NewMockRecipient(gomock.NewController(t))

	m.tickets.EXPECT().GetTicket(gomock.Any(), tk.ID).Return(tk, nil)
	m.repo.EXPECT().CreateForTicket(gomock.Any(), gomock.Any(), tk.ID).
		DoAndReturn(func(_ context.Context, inv *invoice.Invoice, _ uuid.UUID) error {
			inv.ID = uuid.New()
			inv.Number = "INV-2024-00007"

			return nil
		})
	m.recipients.EXPECT().User("user-1").Return(rcpt)
	rcpt.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n notify.Notification) error {
		assert.Equal(t, "invoice.generated", n.Kind)
		assert.Contains(t, n.Title, "INV-2024-00007")

		return nil
	})

	inv, err := svc.GenerateFromTicket(context.Background(), tk.ID, "user-1", invoice.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "INV-2024-00007", inv.Number)
}

func TestService_GenerateFromTicket_RaceLost(t *testing.T) {
	svc, m := setup(t)
	tk := completedTicket()

	m.tickets.EXPECT().GetTicket(gomock.Any(), tk.ID).Return(tk, nil)
	m.repo.EXPECT().CreateForTicket(gomock.Any(), gomock.Any(), tk.ID).Return(invoice.ErrTicketInvoiced)

	_, err := svc.GenerateFromTicket(context.Background(), tk.ID, "", invoice.Overrides{})
	assert.ErrorIs(t, err, invoice.ErrTicketInvoiced)
	assert.False(t, fault.Retryable(err))
}

func TestService_SendAndCancel(t *testing.T) {
	t.Run("Send", func(t *testing.T) {
		svc, m := setup(t)
		inv := sentInvoice(100)
		inv.Status = invoice.StatusDraft

		m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), inv.ID, invoice.StatusDraft, invoice.StatusSent).Return(true, nil)

		got, err := svc.Send(context.Background(), inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusSent, got.Status)
	})

	t.Run("CancelPaidRejected", func(t *testing.T) {
		svc, m := setup(t)
		inv := sentInvoice(100)
		inv.Status = invoice.StatusPaid

		m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)

		_, err := svc.Cancel(context.Background(), inv.ID)
		assert.ErrorIs(t, err, invoice.ErrInvalidTransition)
	})

	t.Run("ConcurrentChange", func(t *testing.T) {
		svc, m := setup(t)
		inv := sentInvoice(100)

		m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), inv.ID, invoice.StatusSent, invoice.StatusCancelled).Return(false, nil)

		_, err := svc.Cancel(context.Background(), inv.ID)
		assert.ErrorIs(t, err, invoice.ErrConcurrentUpdate)
	})
}

func TestService_RecordPayment(t *testing.T) {
	t.Run("Partial", func(t *testing.T) {
		svc, m := setup(t)
		inv := sentInvoice(200)

		m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)
		m.repo.EXPECT().RecordPayment(gomock.Any(), gomock.Any(), gomock.Any(), amount(0)).
			DoAndReturn(func(_ context.Context, next *invoice.Invoice, tx *transaction.Transaction, _ decimal.Decimal) error {
				assert.Equal(t, invoice.StatusSent, next.Status)
				assert.Equal(t, transaction.TypeIncome, tx.Type)
				assert.Equal(t, &inv.ID, tx.InvoiceID)
				assert.Equal(t, inv.CustomerID, tx.Source.ID)
				assert.Equal(t, day(2024, 1, 15), tx.Date)

				return nil
			})

		got, err := svc.RecordPayment(context.Background(), inv.ID, decimal.NewFromInt(80), nil)
		require.NoError(t, err)
		assert.Equal(t, "120.00", got.Remaining().StringFixed(2))
	})

	t.Run("Settles", func(t *testing.T) {
		svc, m := setup(t)
		inv := sentInvoice(200)
		inv.Status = invoice.StatusOverdue
		inv.PaidAmount = decimal.NewFromInt(80)

		m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)
		m.repo.EXPECT().RecordPayment(gomock.Any(), gomock.Any(), gomock.Any(), amount(80)).Return(nil)

		got, err := svc.RecordPayment(context.Background(), inv.ID, decimal.NewFromInt(120), nil)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusPaid, got.Status)
		assert.NotNil(t, got.PaidAt)
	})

	t.Run("Overpayment", func(t *testing.T) {
		svc, m := setup(t)
		inv := sentInvoice(200)

		m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)

		_, err := svc.RecordPayment(context.Background(), inv.ID, decimal.NewFromInt(201), nil)
		assert.ErrorIs(t, err, invoice.ErrOverpayment)
	})

	t.Run("Draft", func(t *testing.T) {
		svc, m := setup(t)
		inv := sentInvoice(200)
		inv.Status = invoice.StatusDraft

		m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)

		_, err := svc.RecordPayment(context.Background(), inv.ID, decimal.NewFromInt(10), nil)
		assert.ErrorIs(t, err, invoice.ErrNotPayable)
	})

	t.Run("NonPositive", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.RecordPayment(context.Background(), uuid.New(), decimal.Zero, nil)
		assert.ErrorIs(t, err, invoice.ErrInvalidAmount)
	})
}

func TestRegisterJobs_GenerateGivesUpAndNotifies(t *testing.T) {
	svc, m := setup(t)
	ctrl := gomock.NewController(t)
	jobRepo := jobs.NewMockRepository(ctrl)
	rcpt := notify.NewMockRecipient(ctrl)

	runner := jobs.NewRunner(jobRepo, jobs.RunnerConfig{BatchSize: 5, BaseBackoff: time.Minute})
	runner.SetClock(func() time.Time { return fixedNow })
	svc.RegisterJobs(runner)

	tk := completedTicket()
	tk.InvoiceID = new(uuid.New())

	payload, err := json.Marshal(invoice.GenerateJob{TicketID: tk.ID, RequestedBy: "user-1"})
	require.NoError(t, err)

	j := &jobs.Job{ID: uuid.New(), Kind: invoice.KindGenerate, Payload: payload, Attempts: 1, MaxAttempts: 5}

	jobRepo.EXPECT().ClaimDue(gomock.Any(), fixedNow, 5).Return([]*jobs.Job{j}, nil)
	m.tickets.EXPECT().GetTicket(gomock.Any(), tk.ID).Return(tk, nil)
	jobRepo.EXPECT().MarkFailed(gomock.Any(), j.ID, gomock.Any()).Return(nil)
	m.recipients.EXPECT().User("user-1").Return(rcpt)
	rcpt.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n notify.Notification) error {
		assert.Equal(t, "invoice.generation_failed", n.Kind)
		return nil
	})

	n, err := runner.RunDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegisterJobs_Reminder(t *testing.T) {
	svc, m := setup(t)
	ctrl := gomock.NewController(t)
	jobRepo := jobs.NewMockRepository(ctrl)

	runner := jobs.NewRunner(jobRepo, jobs.RunnerConfig{BatchSize: 5, BaseBackoff: time.Minute})
	runner.SetClock(func() time.Time { return fixedNow })
	svc.RegisterJobs(runner)

	inv := sentInvoice(100)
	inv.Status = invoice.StatusCancelled

	payload, err := json.Marshal(invoice.ReminderJob{InvoiceID: inv.ID, Kind: invoice.ReminderFinal})
	require.NoError(t, err)

	j := &jobs.Job{ID: uuid.New(), Kind: invoice.KindReminder, Payload: payload, Attempts: 1, MaxAttempts: 5}

	jobRepo.EXPECT().ClaimDue(gomock.Any(), fixedNow, 5).Return([]*jobs.Job{j}, nil)
	m.repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)
	jobRepo.EXPECT().MarkDone(gomock.Any(), j.ID).Return(nil)

	_, err = runner.RunDue(context.Background())
	require.NoError(t, err)
}

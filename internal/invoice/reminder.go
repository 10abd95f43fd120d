package invoice

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/notify"
)

// Reminder is one planned reminder delivery.
type Reminder struct {
	Kind ReminderKind
	At   time.Time
}

var reminderOffsets = []struct {
	days int
	kind ReminderKind
}{
	{-7, ReminderDueSoon},
	{-3, ReminderDueSoon},
	{-1, ReminderDueSoon},
	{3, ReminderOverdue},
	{14, ReminderFinal},
}

// PlanReminders returns the reminders still ahead of now for a sent invoice
// with a due date, in chronological order.
func PlanReminders(inv *Invoice, now time.Time) []Reminder {
	if inv.Status != StatusSent || inv.DueDate == nil {
		return nil
	}

	var out []Reminder

	for _, o := range reminderOffsets {
		at := inv.DueDate.AddDate(0, 0, o.days)
		if !at.After(now) {
			continue
		}

		out = append(out, Reminder{Kind: o.kind, At: at})
	}

	return out
}

// ReminderKey groups the reminder jobs of one invoice.
func ReminderKey(id uuid.UUID) string {
	return "invoice-reminder:" + id.String()
}

// ReminderNotification composes the message sent to the customer.
func ReminderNotification(inv *Invoice, kind ReminderKind, customerName string, now time.Time) (notify.Notification, error) {
	due := "-"
	if inv.DueDate != nil {
		due = inv.DueDate.Format("02 Jan 2006")
	}

	amount := fmt.Sprintf("%s %s", inv.Remaining().StringFixed(2), inv.Currency)

	n := notify.Notification{
		Kind: "invoice.reminder." + string(kind),
		Data: map[string]any{
			"invoice_id":     inv.ID.String(),
			"invoice_number": inv.Number,
			"amount_due":     inv.Remaining().StringFixed(2),
			"currency":       inv.Currency,
			"due_date":       due,
		},
	}

	switch kind {
	case ReminderDueSoon:
		days := 0
		if inv.DueDate != nil {
			y, m, d := now.Date()
			days = int(inv.DueDate.Sub(time.Date(y, m, d, 0, 0, 0, 0, inv.DueDate.Location())).Hours() / 24)
		}

		n.Title = fmt.Sprintf("Invoice %s is due soon", inv.Number)
		n.Body = fmt.Sprintf("Hello %s, invoice %s for %s is due on %s (in %d days).",
			customerName, inv.Number, amount, due, days)
		n.Severity = notify.SeverityInfo
		n.Data["heading"] = "Payment due soon"
	case ReminderOverdue:
		n.Title = fmt.Sprintf("Invoice %s is overdue", inv.Number)
		n.Body = fmt.Sprintf("Hello %s, invoice %s for %s was due on %s and is now overdue. Please arrange payment.",
			customerName, inv.Number, amount, due)
		n.Severity = notify.SeverityWarning
		n.Data["heading"] = "Payment overdue"
	case ReminderFinal:
		n.Title = fmt.Sprintf("Final notice: invoice %s", inv.Number)
		n.Body = fmt.Sprintf("Hello %s, this is the final reminder for invoice %s (%s, due %s). Please pay immediately.",
			customerName, inv.Number, amount, due)
		n.Severity = notify.SeverityCritical
		n.Data["heading"] = "Final payment notice"
	default:
		return notify.Notification{}, fmt.Errorf("%q: %w", kind, ErrUnknownReminder)
	}

	n.Data["urgency"] = string(n.Severity)

	return n, nil
}

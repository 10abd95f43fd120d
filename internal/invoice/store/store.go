package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
	txstore "github.com/MrJamesThe3rd/backoffice/internal/transaction/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const columns = `
	id, number, customer_id, ticket_id, title, description, notes, invoice_date, due_date,
	subtotal, tax_rate, tax_amount, discount_amount, total_amount, paid_amount, currency, status,
	items, metadata, paid_at, last_reminder_sent_at, reminder_count, created_at
`

type scanner interface {
	Scan(dest ...any) error
}

func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var status string

	var items, metadata []byte

	if err := s.Scan(
		&inv.ID, &inv.Number, &inv.CustomerID, &inv.TicketID, &inv.Title, &inv.Description, &inv.Notes,
		&inv.InvoiceDate, &inv.DueDate,
		&inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.DiscountAmount, &inv.TotalAmount, &inv.PaidAmount,
		&inv.Currency, &status,
		&items, &metadata, &inv.PaidAt, &inv.LastReminderSentAt, &inv.ReminderCount, &inv.CreatedAt,
	); err != nil {
		return nil, err
	}

	inv.Status = invoice.Status(status)

	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return nil, fmt.Errorf("decoding items: %w", err)
		}
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &inv.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata: %w", err)
		}
	}

	return &inv, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]*invoice.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var out []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		out = append(out, inv)
	}

	return out, rows.Err()
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	inv, err := scanInvoice(s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	q := `SELECT ` + columns + ` FROM invoices WHERE TRUE`

	var args []any

	if filter.Status != nil {
		args = append(args, *filter.Status)
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		q += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}

	q += " ORDER BY invoice_date DESC, number DESC"

	return s.query(ctx, q, args...)
}

func (s *Store) ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]*invoice.Invoice, error) {
	return s.query(ctx, `SELECT `+columns+`
		FROM invoices
		WHERE status = 'sent' AND due_date IS NOT NULL AND due_date < $1
		ORDER BY id`, asOf)
}

func (s *Store) ListMatchable(ctx context.Context, since time.Time) ([]*invoice.Invoice, error) {
	return s.query(ctx, `SELECT `+columns+`
		FROM invoices
		WHERE status IN ('sent', 'overdue') AND paid_amount < total_amount AND invoice_date >= $1
		ORDER BY invoice_date, id`, since)
}

func (s *Store) ListReminderCandidates(ctx context.Context) ([]*invoice.Invoice, error) {
	return s.query(ctx, `SELECT `+columns+`
		FROM invoices
		WHERE status = 'sent' AND due_date IS NOT NULL
		ORDER BY due_date, id`)
}

func (s *Store) FindPaymentCandidates(ctx context.Context, customerID uuid.UUID, minAmount decimal.Decimal, since time.Time) ([]*transaction.Transaction, error) {
	q := `SELECT ` + txstore.Columns + `
		FROM transactions t
		WHERE t.source_type = $1 AND t.source_id = $2
		  AND t.type = 'income' AND t.status = 'completed'
		  AND t.invoice_id IS NULL AND t.deleted_at IS NULL
		  AND t.amount >= $3 AND t.date >= $4
		ORDER BY t.date ASC, t.amount ASC, t.id ASC`

	rows, err := s.db.QueryContext(ctx, q, transaction.SourceCustomer, customerID, minAmount, since)
	if err != nil {
		return nil, fmt.Errorf("finding payment candidates: %w", err)
	}
	defer rows.Close()

	var out []*transaction.Transaction

	for rows.Next() {
		tx, err := txstore.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		out = append(out, tx)
	}

	return out, rows.Err()
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, from, to invoice.Status) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return false, fmt.Errorf("updating invoice status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating invoice status: %w", err)
	}

	return n > 0, nil
}

func savePayment(ctx context.Context, tx *sql.Tx, inv *invoice.Invoice, prevPaid decimal.Decimal) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE invoices
		SET paid_amount = $1, status = $2, paid_at = $3, updated_at = NOW()
		WHERE id = $4 AND paid_amount = $5 AND status IN ('sent', 'overdue')
	`, inv.PaidAmount, inv.Status, inv.PaidAt, inv.ID, prevPaid)
	if err != nil {
		return fmt.Errorf("saving payment: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving payment: %w", err)
	}

	if n == 0 {
		return invoice.ErrConcurrentUpdate
	}

	return nil
}

func (s *Store) ApplyMatch(ctx context.Context, inv *invoice.Invoice, txID uuid.UUID, prevPaid decimal.Decimal) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning match tx: %w", err)
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx, `
		UPDATE transactions SET invoice_id = $1, updated_at = NOW() WHERE id = $2 AND invoice_id IS NULL
	`, inv.ID, txID)
	if err != nil {
		return fmt.Errorf("linking payment: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("linking payment: %w", err)
	}

	if n == 0 {
		return invoice.ErrPaymentTaken
	}

	if err := savePayment(ctx, dbTx, inv, prevPaid); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing match: %w", err)
	}

	return nil
}

func (s *Store) RecordPayment(ctx context.Context, inv *invoice.Invoice, tx *transaction.Transaction, prevPaid decimal.Decimal) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning payment tx: %w", err)
	}
	defer dbTx.Rollback()

	if err := txstore.Insert(ctx, dbTx, tx); err != nil {
		return err
	}

	if err := savePayment(ctx, dbTx, inv, prevPaid); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing payment: %w", err)
	}

	return nil
}

func (s *Store) SaveReminder(ctx context.Context, inv *invoice.Invoice, prevStatus invoice.Status) error {
	metadata, err := json.Marshal(inv.Metadata)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE invoices
		SET metadata = $1, reminder_count = $2, last_reminder_sent_at = $3, status = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`, metadata, inv.ReminderCount, inv.LastReminderSentAt, inv.Status, inv.ID, prevStatus)
	if err != nil {
		return fmt.Errorf("saving reminder: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving reminder: %w", err)
	}

	if n == 0 {
		return invoice.ErrConcurrentUpdate
	}

	return nil
}

func (s *Store) CreateForTicket(ctx context.Context, inv *invoice.Invoice, ticketID uuid.UUID) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}

	metadata, err := json.Marshal(inv.Metadata)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning invoice tx: %w", err)
	}
	defer dbTx.Rollback()

	err = dbTx.QueryRowContext(ctx, `
		INSERT INTO invoices (
			number, customer_id, ticket_id, title, description, notes, invoice_date, due_date,
			subtotal, tax_rate, tax_amount, discount_amount, total_amount, paid_amount, currency,
			status, items, metadata
		)
		VALUES (
			'INV-' || to_char($6::date, 'YYYY') || '-' || lpad(nextval('invoice_number_seq')::text, 5, '0'),
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
		RETURNING id, number, created_at
	`,
		inv.CustomerID, inv.TicketID, inv.Title, inv.Description, inv.Notes, inv.InvoiceDate, inv.DueDate,
		inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.DiscountAmount, inv.TotalAmount, inv.PaidAmount,
		inv.Currency, inv.Status, items, metadata,
	).Scan(&inv.ID, &inv.Number, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	res, err := dbTx.ExecContext(ctx, `
		UPDATE tickets SET invoice_id = $1, updated_at = NOW() WHERE id = $2 AND invoice_id IS NULL
	`, inv.ID, ticketID)
	if err != nil {
		return fmt.Errorf("linking ticket: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("linking ticket: %w", err)
	}

	if n == 0 {
		return invoice.ErrTicketInvoiced
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing invoice: %w", err)
	}

	return nil
}

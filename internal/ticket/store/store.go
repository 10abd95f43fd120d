package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/ticket"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const columns = `id, subject, course, priority, status, customer_id, total_amount, invoice_id, completed_at, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTicket(s scanner) (*ticket.Ticket, error) {
	var t ticket.Ticket

	var status string

	if err := s.Scan(&t.ID, &t.Subject, &t.Course, &t.Priority, &status, &t.CustomerID,
		&t.TotalAmount, &t.InvoiceID, &t.CompletedAt, &t.CreatedAt); err != nil {
		return nil, err
	}

	t.Status = ticket.Status(status)

	return &t, nil
}

func (s *Store) GetTicket(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	t, err := scanTicket(s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM tickets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ticket.ErrNotFound
		}

		return nil, fmt.Errorf("getting ticket: %w", err)
	}

	return t, nil
}

func (s *Store) ListInvoiceable(ctx context.Context) ([]*ticket.Ticket, error) {
	query := `SELECT ` + columns + `
		FROM tickets
		WHERE status = 'completed' AND invoice_id IS NULL AND total_amount > 0
		ORDER BY completed_at ASC NULLS LAST, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing invoiceable tickets: %w", err)
	}
	defer rows.Close()

	var out []*ticket.Ticket

	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ticket: %w", err)
		}

		out = append(out, t)
	}

	return out, rows.Err()
}

func (s *Store) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tickets
		SET status = 'completed', completed_at = $1, updated_at = NOW()
		WHERE id = $2 AND status <> 'completed'
	`, at, id)
	if err != nil {
		return fmt.Errorf("completing ticket: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("completing ticket: %w", err)
	}

	if n == 0 {
		if _, err := s.GetTicket(ctx, id); err != nil {
			return err
		}

		return ticket.ErrAlreadyCompleted
	}

	return nil
}

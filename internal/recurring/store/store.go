package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/recurring"
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
	id, type, amount, currency, category_id, payment_method_id, description, frequency,
	interval_count, start_date, end_date, max_occurrences, is_active, next_due_date,
	occurrences_created, last_processed_at, created_at
`

type scanner interface {
	Scan(dest ...any) error
}

func scanRule(s scanner) (*recurring.Rule, error) {
	var r recurring.Rule

	var typ, freq string

	var maxOcc sql.NullInt64

	if err := s.Scan(
		&r.ID, &typ, &r.Amount, &r.Currency, &r.CategoryID, &r.PaymentMethodID, &r.Description, &freq,
		&r.Interval, &r.StartDate, &r.EndDate, &maxOcc, &r.IsActive, &r.NextDueDate,
		&r.OccurrencesCreated, &r.LastProcessedAt, &r.CreatedAt,
	); err != nil {
		return nil, err
	}

	r.Type = transaction.Type(typ)
	r.Frequency = recurring.Frequency(freq)

	if maxOcc.Valid {
		r.MaxOccurrences = new(int(maxOcc.Int64))
	}

	return &r, nil
}

func (s *Store) CreateRule(ctx context.Context, r *recurring.Rule) error {
	query := `
		INSERT INTO recurring_transactions (
			type, amount, currency, category_id, payment_method_id, description, frequency,
			interval_count, start_date, end_date, max_occurrences, is_active, next_due_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		r.Type, r.Amount, r.Currency, r.CategoryID, r.PaymentMethodID, r.Description, r.Frequency,
		r.Interval, r.StartDate, r.EndDate, r.MaxOccurrences, r.IsActive, r.NextDueDate,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating recurring transaction: %w", err)
	}

	return nil
}

func (s *Store) GetRule(ctx context.Context, id uuid.UUID) (*recurring.Rule, error) {
	r, err := scanRule(s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM recurring_transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recurring.ErrNotFound
		}

		return nil, fmt.Errorf("getting recurring transaction: %w", err)
	}

	return r, nil
}

func (s *Store) ListRules(ctx context.Context) ([]*recurring.Rule, error) {
	return s.list(ctx, `SELECT `+columns+` FROM recurring_transactions ORDER BY is_active DESC, next_due_date ASC, id ASC`)
}

func (s *Store) ListActive(ctx context.Context, dueBy *time.Time) ([]*recurring.Rule, error) {
	if dueBy == nil {
		return s.list(ctx, `SELECT `+columns+`
			FROM recurring_transactions
			WHERE is_active
			ORDER BY next_due_date ASC, id ASC`)
	}

	return s.list(ctx, `SELECT `+columns+`
		FROM recurring_transactions
		WHERE is_active AND next_due_date <= $1
		ORDER BY next_due_date ASC, id ASC`, *dueBy)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*recurring.Rule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recurring transactions: %w", err)
	}
	defer rows.Close()

	var out []*recurring.Rule

	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recurring transaction: %w", err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

func (s *Store) RecordOccurrence(ctx context.Context, r *recurring.Rule, prevDue time.Time, tx *transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning occurrence tx: %w", err)
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx, `
		UPDATE recurring_transactions
		SET next_due_date = $1, occurrences_created = $2, last_processed_at = $3, updated_at = NOW()
		WHERE id = $4 AND is_active AND next_due_date = $5
	`, r.NextDueDate, r.OccurrencesCreated, r.LastProcessedAt, r.ID, prevDue)
	if err != nil {
		return fmt.Errorf("advancing recurring transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("advancing recurring transaction: %w", err)
	}

	if n == 0 {
		return recurring.ErrConcurrentUpdate
	}

	if err := txstore.Insert(ctx, dbTx, tx); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing occurrence: %w", err)
	}

	return nil
}

func (s *Store) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE recurring_transactions
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("deactivating recurring transaction: %w", err)
	}

	return nil
}

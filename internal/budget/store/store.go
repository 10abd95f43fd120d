package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/budget"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const columns = `id, name, period_type, start_date, end_date, total_amount, status, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanBudget(s scanner) (*budget.Budget, error) {
	var b budget.Budget

	var period, status string

	if err := s.Scan(&b.ID, &b.Name, &period, &b.StartDate, &b.EndDate, &b.TotalAmount, &status, &b.CreatedAt); err != nil {
		return nil, err
	}

	b.PeriodType = budget.PeriodType(period)
	b.Status = budget.Status(status)

	return &b, nil
}

func (s *Store) GetBudget(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	b, err := scanBudget(s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM budgets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("getting budget: %w", err)
	}

	return b, nil
}

func (s *Store) listBudgets(ctx context.Context, q string, args ...any) ([]*budget.Budget, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var out []*budget.Budget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		out = append(out, b)
	}

	return out, rows.Err()
}

func (s *Store) ListBudgets(ctx context.Context) ([]*budget.Budget, error) {
	return s.listBudgets(ctx, `SELECT `+columns+` FROM budgets ORDER BY start_date DESC, name`)
}

func (s *Store) ListActive(ctx context.Context, asOf time.Time) ([]*budget.Budget, error) {
	return s.listBudgets(ctx, `SELECT `+columns+`
		FROM budgets
		WHERE status = 'active' AND start_date <= $1::date AND end_date >= $1::date
		ORDER BY name, id`, asOf)
}

func (s *Store) ListCategories(ctx context.Context, budgetID uuid.UUID) ([]*budget.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bc.id, bc.budget_id, bc.category_id, c.name, bc.allocated_amount, bc.spent_amount,
		       bc.alert_at_80, bc.alert_at_100, bc.last_alert_sent_at, bc.last_alert_type
		FROM budget_categories bc
		JOIN categories c ON c.id = bc.category_id
		WHERE bc.budget_id = $1
		ORDER BY c.name, bc.id
	`, budgetID)
	if err != nil {
		return nil, fmt.Errorf("listing budget categories: %w", err)
	}
	defer rows.Close()

	var out []*budget.Category

	for rows.Next() {
		var c budget.Category
		if err := rows.Scan(
			&c.ID, &c.BudgetID, &c.CategoryID, &c.CategoryName, &c.AllocatedAmount, &c.SpentAmount,
			&c.AlertAt80, &c.AlertAt100, &c.LastAlertSentAt, &c.LastAlertType,
		); err != nil {
			return nil, fmt.Errorf("scanning budget category: %w", err)
		}

		out = append(out, &c)
	}

	return out, rows.Err()
}

func (s *Store) SpentInPeriod(ctx context.Context, categoryID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var spent decimal.Decimal

	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE category_id = $1
		  AND type = 'expense' AND status = 'completed' AND deleted_at IS NULL
		  AND date BETWEEN $2 AND $3
	`, categoryID, from, to).Scan(&spent)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing spend: %w", err)
	}

	return spent, nil
}

func (s *Store) SaveCategory(ctx context.Context, c *budget.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE budget_categories SET spent_amount = $1 WHERE id = $2
	`, c.SpentAmount, c.ID)
	if err != nil {
		return fmt.Errorf("saving budget category: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving budget category: %w", err)
	}

	if n == 0 {
		return budget.ErrNotFound
	}

	return nil
}

func (s *Store) MarkAlerted(ctx context.Context, budgetID, categoryID uuid.UUID, t budget.AlertType, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE budget_categories SET last_alert_sent_at = $1, last_alert_type = $2
		WHERE budget_id = $3 AND category_id = $4
	`, at, string(t), budgetID, categoryID)
	if err != nil {
		return fmt.Errorf("marking budget category alerted: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking budget category alerted: %w", err)
	}

	if n == 0 {
		return budget.ErrNotFound
	}

	return nil
}

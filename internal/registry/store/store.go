package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/registry"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindCategoryByName(ctx context.Context, name string) (*registry.Category, error) {
	query := `
		SELECT id, name, type, created_at
		FROM categories
		WHERE LOWER(name) = LOWER($1)
	`

	var c registry.Category

	err := s.db.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registry.ErrNotFound
		}

		return nil, fmt.Errorf("finding category: %w", err)
	}

	return &c, nil
}

// CreateCategory inserts the category, or returns the existing row when a
// concurrent import created the same name first.
func (s *Store) CreateCategory(ctx context.Context, c *registry.Category) error {
	query := `
		INSERT INTO categories (name, type, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, type, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, c.Name, c.Type).Scan(&c.ID, &c.Type, &c.CreatedAt); err != nil {
		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]*registry.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, type, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []*registry.Category

	for rows.Next() {
		var c registry.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		out = append(out, &c)
	}

	return out, rows.Err()
}

func (s *Store) FindPaymentMethodByName(ctx context.Context, name string) (*registry.PaymentMethod, error) {
	query := `
		SELECT id, name, created_at
		FROM payment_methods
		WHERE LOWER(name) = LOWER($1)
	`

	var pm registry.PaymentMethod

	err := s.db.QueryRowContext(ctx, query, name).Scan(&pm.ID, &pm.Name, &pm.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registry.ErrNotFound
		}

		return nil, fmt.Errorf("finding payment method: %w", err)
	}

	return &pm, nil
}

func (s *Store) CreatePaymentMethod(ctx context.Context, pm *registry.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (name, created_at)
		VALUES ($1, NOW())
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, pm.Name).Scan(&pm.ID, &pm.CreatedAt); err != nil {
		return fmt.Errorf("creating payment method: %w", err)
	}

	return nil
}

func (s *Store) FindRule(ctx context.Context, rawDescription string) (uuid.UUID, error) {
	query := `
		SELECT category_id
		FROM category_rules
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var id uuid.UUID

	err := s.db.QueryRowContext(ctx, query, rawDescription).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, nil
		}

		return uuid.Nil, fmt.Errorf("finding rule: %w", err)
	}

	return id, nil
}

func (s *Store) CreateRule(ctx context.Context, rawPattern string, categoryID uuid.UUID) error {
	query := `
		INSERT INTO category_rules (raw_pattern, category_id, created_at)
		VALUES ($1, $2, NOW())
	`

	if _, err := s.db.ExecContext(ctx, query, rawPattern, categoryID); err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

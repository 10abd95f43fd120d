// Package importer turns CSV exports (the back office's own ledger export and
// bank statements) into ledger transactions.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/registry"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

//go:generate mockgen -source=importer.go -destination=ledger_mock.go -package=importer
type Ledger interface {
	ImportBatch(ctx context.Context, params []transaction.CreateParams) (*transaction.ImportResult, error)
}

type Service struct {
	ledger   Ledger
	registry registry.Repository
}

func NewService(ledger Ledger, reg registry.Repository) *Service {
	return &Service{ledger: ledger, registry: reg}
}

type Result struct {
	Format string
	*transaction.ImportResult
}

// Prepare parses r and resolves category and payment method names, creating
// registry entries that do not exist yet. Rows without a category fall back
// to the learned description rules.
func (s *Service) Prepare(ctx context.Context, r io.Reader) (string, []transaction.CreateParams, error) {
	format, rows, err := Parse(r)
	if err != nil {
		return "", nil, err
	}

	resolver := registry.NewResolver(s.registry)
	params := make([]transaction.CreateParams, 0, len(rows))

	for i, row := range rows {
		p := row.Params

		if row.Category != "" {
			id, err := resolver.Category(ctx, row.Category, string(p.Type))
			if err != nil {
				return "", nil, fmt.Errorf("row %d category: %w", i+1, err)
			}

			p.CategoryID = &id
		} else {
			id, err := s.registry.FindRule(ctx, p.RawDescription)
			if err != nil {
				return "", nil, fmt.Errorf("row %d rule lookup: %w", i+1, err)
			}

			if id != uuid.Nil {
				p.CategoryID = &id
			}
		}

		if row.PaymentMethod != "" {
			id, err := resolver.PaymentMethod(ctx, row.PaymentMethod)
			if err != nil {
				return "", nil, fmt.Errorf("row %d payment method: %w", i+1, err)
			}

			p.PaymentMethodID = &id
		}

		params = append(params, p)
	}

	return format, params, nil
}

// Import prepares r and hands the rows to the ledger, which refuses the whole
// batch when any row duplicates an existing entry.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Result, error) {
	format, params, err := s.Prepare(ctx, r)
	if err != nil {
		return nil, err
	}

	res, err := s.ledger.ImportBatch(ctx, params)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "ledger import",
		"format", format,
		"rows", len(params),
		"imported", len(res.Imported),
		"conflicts", len(res.Conflicts),
	)

	return &Result{Format: format, ImportResult: res}, nil
}

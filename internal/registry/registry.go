// Package registry holds the lookup tables every financial record references:
// categories, payment methods and the description rules that map raw bank
// text onto a category.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/fault"
)

var (
	ErrNotFound  = fmt.Errorf("registry entry %w", fault.ErrNotFound)
	ErrEmptyName = fmt.Errorf("name is required: %w", fault.ErrValidation)
)

type Category struct {
	ID        uuid.UUID
	Name      string
	Type      string
	CreatedAt time.Time
}

type PaymentMethod struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

//go:generate mockgen -source=registry.go -destination=repository_mock.go -package=registry
type Repository interface {
	FindCategoryByName(ctx context.Context, name string) (*Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	ListCategories(ctx context.Context) ([]*Category, error)

	FindPaymentMethodByName(ctx context.Context, name string) (*PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, pm *PaymentMethod) error

	FindRule(ctx context.Context, rawDescription string) (uuid.UUID, error)
	CreateRule(ctx context.Context, rawPattern string, categoryID uuid.UUID) error
}

// LookupOrCreateCategory returns the id of the category called name, creating
// it when missing. Names are matched case-insensitively after trimming.
func LookupOrCreateCategory(ctx context.Context, repo Repository, name, kind string) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, ErrEmptyName
	}

	c, err := repo.FindCategoryByName(ctx, name)
	if err == nil {
		return c.ID, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return uuid.Nil, err
	}

	c = &Category{Name: name, Type: kind}
	if err := repo.CreateCategory(ctx, c); err != nil {
		return uuid.Nil, err
	}

	return c.ID, nil
}

// LookupOrCreatePaymentMethod is the payment method counterpart of
// LookupOrCreateCategory.
func LookupOrCreatePaymentMethod(ctx context.Context, repo Repository, name string) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, ErrEmptyName
	}

	pm, err := repo.FindPaymentMethodByName(ctx, name)
	if err == nil {
		return pm.ID, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return uuid.Nil, err
	}

	pm = &PaymentMethod{Name: name}
	if err := repo.CreatePaymentMethod(ctx, pm); err != nil {
		return uuid.Nil, err
	}

	return pm.ID, nil
}

// Resolver memoizes lookups for the lifetime of a single import. It is not
// safe for concurrent use and should be dropped once the import finishes.
type Resolver struct {
	repo       Repository
	categories map[string]uuid.UUID
	methods    map[string]uuid.UUID
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{
		repo:       repo,
		categories: make(map[string]uuid.UUID),
		methods:    make(map[string]uuid.UUID),
	}
}

func (r *Resolver) Category(ctx context.Context, name, kind string) (uuid.UUID, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := r.categories[key]; ok {
		return id, nil
	}

	id, err := LookupOrCreateCategory(ctx, r.repo, name, kind)
	if err != nil {
		return uuid.Nil, err
	}

	r.categories[key] = id

	return id, nil
}

func (r *Resolver) PaymentMethod(ctx context.Context, name string) (uuid.UUID, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := r.methods[key]; ok {
		return id, nil
	}

	id, err := LookupOrCreatePaymentMethod(ctx, r.repo, name)
	if err != nil {
		return uuid.Nil, err
	}

	r.methods[key] = id

	return id, nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Repository exposes the store handle for callers that build a Resolver.
func (s *Service) Repository() Repository {
	return s.repo
}

func (s *Service) Categories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

// SuggestCategory returns the category of the longest rule contained in
// rawDescription, or uuid.Nil when no rule applies.
func (s *Service) SuggestCategory(ctx context.Context, rawDescription string) (uuid.UUID, error) {
	return s.repo.FindRule(ctx, rawDescription)
}

// LearnRule remembers that descriptions containing rawPattern belong to the
// named category, creating the category if needed.
func (s *Service) LearnRule(ctx context.Context, rawPattern, categoryName string) (uuid.UUID, error) {
	if strings.TrimSpace(rawPattern) == "" {
		return uuid.Nil, fmt.Errorf("raw pattern is required: %w", fault.ErrValidation)
	}

	id, err := LookupOrCreateCategory(ctx, s.repo, categoryName, "expense")
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.repo.CreateRule(ctx, rawPattern, id); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

// Package customer is the read side of the customers the invoice engine bills.
package customer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/fault"
)

var ErrNotFound = fmt.Errorf("customer %w", fault.ErrNotFound)

type Customer struct {
	ID        uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
}

// HasEmail reports whether invoice reminders can reach the customer.
func (c *Customer) HasEmail() bool {
	return c != nil && c.Email != ""
}

//go:generate mockgen -source=customer.go -destination=repository_mock.go -package=customer
type Repository interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
}

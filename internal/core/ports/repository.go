package ports

import (
	"context"

	"github.com/wsapp/storefront/internal/core/domain"
)

// UserRepository persists users. Create returns the row as stored, including
// the generated id and timestamps.
type UserRepository interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, u domain.NewUser) (*domain.User, error)
}

// ProductRepository persists products.
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Create(ctx context.Context, p domain.NewProduct) (*domain.Product, error)
}

// OrderRepository persists orders. A non-nil UserID must reference an
// existing user or Create fails with a foreign-key ConstraintError.
type OrderRepository interface {
	List(ctx context.Context) ([]*domain.Order, error)
	Create(ctx context.Context, o domain.NewOrder) (*domain.Order, error)
}

// Pinger is anything a readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

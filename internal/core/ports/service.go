package ports

import (
	"context"

	"github.com/wsapp/storefront/internal/core/domain"
)

type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CreateUser(ctx context.Context, in domain.NewUser) (*domain.User, error)
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, in domain.NewProduct) (*domain.Product, error)
}

type OrderService interface {
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	CreateOrder(ctx context.Context, in domain.NewOrder) (*domain.Order, error)
}

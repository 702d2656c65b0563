package sqlstore

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/wsapp/storefront/internal/core/domain"
	"github.com/wsapp/storefront/internal/core/ports"
)

const orderColumns = "id, user_id, total_amount, status, created_at, updated_at"

var _ ports.OrderRepository = (*OrderRepository)(nil)

type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

// List returns every order, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return queryAll(ctx, r.store, "list orders",
		"SELECT "+orderColumns+" FROM orders ORDER BY "+r.store.dialect.newestFirst, scanOrder)
}

// Create inserts an order. An unknown UserID yields a foreign-key
// ConstraintError and nothing is written.
func (r *OrderRepository) Create(ctx context.Context, o domain.NewOrder) (*domain.Order, error) {
	var userID uuid.NullUUID
	if o.UserID != nil {
		userID = uuid.NullUUID{UUID: *o.UserID, Valid: true}
	}

	created, err := insertOne(ctx, r.store, "insert order",
		"INSERT INTO orders (user_id, total_amount, status) VALUES (?, ?, ?) RETURNING "+orderColumns,
		scanOrder, userID, o.TotalAmount, o.Status)
	if err != nil {
		return nil, err
	}
	r.store.log.Debug().Str("order_id", created.ID.String()).Msg("order inserted")
	return created, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o      domain.Order
		userID uuid.NullUUID
		status sql.NullString
	)
	if err := row.Scan(&o.ID, &userID, money{&o.TotalAmount}, &status,
		timestamp{&o.CreatedAt}, timestamp{&o.UpdatedAt}); err != nil {
		return nil, err
	}
	if userID.Valid {
		id := userID.UUID
		o.UserID = &id
	}
	o.Status = status.String
	return &o, nil
}

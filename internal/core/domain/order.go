package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultOrderStatus is the status recorded when a create request omits it.
const DefaultOrderStatus = "pending"

// Order is a purchase. UserID is nil for guest orders; when set it must
// reference an existing user.
type Order struct {
	ID          uuid.UUID       `json:"id"`
	UserID      *uuid.UUID      `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewOrder is a fully resolved order draft; Status is never empty-by-omission
// and TotalAmount is already rounded with RoundMoney.
type NewOrder struct {
	UserID      *uuid.UUID
	TotalAmount decimal.Decimal
	Status      string
}

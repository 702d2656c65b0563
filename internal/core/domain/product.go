package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultStock is the stock count recorded when a create request omits it.
const DefaultStock int32 = 0

// Product is an item in the catalogue.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewProduct is a fully resolved product draft. Defaults must already be
// applied and Price rounded with RoundMoney; a nil Description is persisted
// as NULL.
type NewProduct struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Stock       int32
}

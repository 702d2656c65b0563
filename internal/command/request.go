package command

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wsapp/storefront/internal/core/domain"
)

type createUserRequest struct {
	Name  string `json:"name"  validate:"required,max=255"`
	Email string `json:"email" validate:"required,max=255"`
}

func (r createUserRequest) draft() domain.NewUser {
	return domain.NewUser{Name: r.Name, Email: r.Email}
}

type createProductRequest struct {
	Name        string           `json:"name"        validate:"required,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"       validate:"required,gte=0,lt=100000000"`
	Stock       *int32           `json:"stock"       validate:"omitempty,gte=0"`
}

// draft resolves omitted optional fields to their defaults.
func (r createProductRequest) draft() domain.NewProduct {
	stock := domain.DefaultStock
	if r.Stock != nil {
		stock = *r.Stock
	}
	return domain.NewProduct{
		Name:        r.Name,
		Description: r.Description,
		Price:       domain.RoundMoney(*r.Price),
		Stock:       stock,
	}
}

type createOrderRequest struct {
	UserID      *uuid.UUID       `json:"user_id"`
	TotalAmount *decimal.Decimal `json:"total_amount" validate:"required,gt=-100000000,lt=100000000"`
	Status      *string          `json:"status"       validate:"omitempty,max=50"`
}

// draft resolves an omitted status to "pending". An explicit empty string is
// kept as given.
func (r createOrderRequest) draft() domain.NewOrder {
	status := domain.DefaultOrderStatus
	if r.Status != nil {
		status = *r.Status
	}
	return domain.NewOrder{
		UserID:      r.UserID,
		TotalAmount: domain.RoundMoney(*r.TotalAmount),
		Status:      status,
	}
}

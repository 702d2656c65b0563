package sqlstore

import (
	"context"
	"database/sql"

	"github.com/wsapp/storefront/internal/core/domain"
	"github.com/wsapp/storefront/internal/core/ports"
)

const productColumns = "id, name, description, price, stock, created_at, updated_at"

var _ ports.ProductRepository = (*ProductRepository)(nil)

type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

// List returns every product, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return queryAll(ctx, r.store, "list products",
		"SELECT "+productColumns+" FROM products ORDER BY "+r.store.dialect.newestFirst, scanProduct)
}

// Create inserts a product. Price must already be rounded to
// domain.MoneyPlaces.
func (r *ProductRepository) Create(ctx context.Context, p domain.NewProduct) (*domain.Product, error) {
	var description sql.NullString
	if p.Description != nil {
		description = sql.NullString{String: *p.Description, Valid: true}
	}

	created, err := insertOne(ctx, r.store, "insert product",
		"INSERT INTO products (name, description, price, stock) VALUES (?, ?, ?, ?) RETURNING "+productColumns,
		scanProduct, p.Name, description, p.Price, p.Stock)
	if err != nil {
		return nil, err
	}
	r.store.log.Debug().Str("product_id", created.ID.String()).Msg("product inserted")
	return created, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p           domain.Product
		description sql.NullString
		stock       sql.NullInt32
	)
	if err := row.Scan(&p.ID, &p.Name, &description, money{&p.Price}, &stock,
		timestamp{&p.CreatedAt}, timestamp{&p.UpdatedAt}); err != nil {
		return nil, err
	}
	if description.Valid {
		p.Description = &description.String
	}
	p.Stock = stock.Int32
	return &p, nil
}

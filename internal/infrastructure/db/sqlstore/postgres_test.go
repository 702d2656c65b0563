package sqlstore

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsapp/storefront/internal/core/domain"
)

// TestPostgres_RoundTrip runs against a disposable database named by
// STOREFRONT_TEST_POSTGRES_URL. The three tables are dropped first.
func TestPostgres_RoundTrip(t *testing.T) {
	url := os.Getenv("STOREFRONT_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("STOREFRONT_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()

	store, err := Open(ctx, Config{URL: url}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.Equal(t, dialectPostgres, store.Dialect())

	_, err = store.db.ExecContext(ctx, "DROP TABLE IF EXISTS orders, products, users")
	require.NoError(t, err)
	require.NoError(t, store.Init(ctx))
	require.NoError(t, store.Init(ctx))

	users := NewUserRepository(store)
	ada, err := users.Create(ctx, domain.NewUser{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.True(t, ada.CreatedAt.Equal(ada.UpdatedAt))

	_, err = users.Create(ctx, domain.NewUser{Name: "Ada", Email: "ada@example.com"})
	assert.ErrorIs(t, err, domain.ErrConstraint)

	product, err := NewProductRepository(store).Create(ctx, domain.NewProduct{
		Name:  "Notebook",
		Price: decimal.RequireFromString("19.99"),
	})
	require.NoError(t, err)
	assert.Nil(t, product.Description)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("19.99")))

	order, err := NewOrderRepository(store).Create(ctx, domain.NewOrder{
		UserID:      &ada.ID,
		TotalAmount: decimal.RequireFromString("19.99"),
		Status:      domain.DefaultOrderStatus,
	})
	require.NoError(t, err)
	require.NotNil(t, order.UserID)
	assert.Equal(t, ada.ID, *order.UserID)
}

package sqlstore

import (
	"context"

	"github.com/wsapp/storefront/internal/core/domain"
	"github.com/wsapp/storefront/internal/core/ports"
)

const userColumns = "id, name, email, created_at, updated_at"

var _ ports.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// List returns every user, newest first.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return queryAll(ctx, r.store, "list users",
		"SELECT "+userColumns+" FROM users ORDER BY "+r.store.dialect.newestFirst, scanUser)
}

// Create inserts a user. A duplicate email yields a unique ConstraintError.
func (r *UserRepository) Create(ctx context.Context, u domain.NewUser) (*domain.User, error) {
	created, err := insertOne(ctx, r.store, "insert user",
		"INSERT INTO users (name, email) VALUES (?, ?) RETURNING "+userColumns,
		scanUser, u.Name, u.Email)
	if err != nil {
		return nil, err
	}
	r.store.log.Debug().Str("user_id", created.ID.String()).Msg("user inserted")
	return created, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, timestamp{&u.CreatedAt}, timestamp{&u.UpdatedAt}); err != nil {
		return nil, err
	}
	return &u, nil
}

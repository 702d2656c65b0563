package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/wsapp/storefront/internal/api/metrics"
	"github.com/wsapp/storefront/internal/core/domain"
	"github.com/wsapp/storefront/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	cache  ports.ListCache
	logger zerolog.Logger
}

// NewUserService wires a user service. cache may be nil.
func NewUserService(repo ports.UserRepository, cache ports.ListCache, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, cache: cache, logger: logger}
}

// ListUsers returns every user, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := cachedList(ctx, s.cache, usersKey, s.logger, s.repo.List)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, err
	}
	return users, nil
}

func (s *UserService) CreateUser(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	u, err := s.repo.Create(ctx, in)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, err
	}
	invalidate(ctx, s.cache, usersKey, s.logger)
	metrics.EntitiesCreatedTotal.WithLabelValues("user").Inc()

	s.logger.Info().Str("user_id", u.ID.String()).Msg("user created")
	return u, nil
}

package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/wsapp/storefront/internal/api/metrics"
	"github.com/wsapp/storefront/internal/core/domain"
	"github.com/wsapp/storefront/internal/core/ports"
)

type OrderService struct {
	repo   ports.OrderRepository
	cache  ports.ListCache
	logger zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, cache ports.ListCache, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, cache: cache, logger: logger}
}

func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := cachedList(ctx, s.cache, ordersKey, s.logger, s.repo.List)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, err
	}
	return orders, nil
}

// CreateOrder stores an order. A nil UserID records a guest order.
func (s *OrderService) CreateOrder(ctx context.Context, in domain.NewOrder) (*domain.Order, error) {
	o, err := s.repo.Create(ctx, in)
	if err != nil {
		ev := s.logger.Error().Err(err)
		if in.UserID != nil {
			ev = ev.Str("user_id", in.UserID.String())
		}
		ev.Msg("failed to create order")
		return nil, err
	}
	invalidate(ctx, s.cache, ordersKey, s.logger)
	metrics.EntitiesCreatedTotal.WithLabelValues("order").Inc()

	s.logger.Info().Str("order_id", o.ID.String()).Str("status", o.Status).Msg("order created")
	return o, nil
}

package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/wsapp/storefront/internal/api/metrics"
	"github.com/wsapp/storefront/internal/core/domain"
	"github.com/wsapp/storefront/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	cache  ports.ListCache
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, cache ports.ListCache, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, cache: cache, logger: logger}
}

func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := cachedList(ctx, s.cache, productsKey, s.logger, s.repo.List)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, err
	}
	return products, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, in domain.NewProduct) (*domain.Product, error) {
	p, err := s.repo.Create(ctx, in)
	if err != nil {
		s.logger.Error().Err(err).Str("name", in.Name).Msg("failed to create product")
		return nil, err
	}
	invalidate(ctx, s.cache, productsKey, s.logger)
	metrics.EntitiesCreatedTotal.WithLabelValues("product").Inc()

	s.logger.Info().Str("product_id", p.ID.String()).Str("price", p.Price.StringFixed(domain.MoneyPlaces)).Msg("product created")
	return p, nil
}

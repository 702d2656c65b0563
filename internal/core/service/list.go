package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/wsapp/storefront/internal/api/metrics"
	"github.com/wsapp/storefront/internal/core/ports"
)

// Cache keys, one per entity list.
const (
	usersKey    = "users"
	productsKey = "products"
	ordersKey   = "orders"
)

// cachedList serves key from cache when present and falls back to load.
// A loaded list is stored under the generation read before the load, so a
// create that invalidates key meanwhile keeps it from being served.
// Cache failures are logged and never fail the call.
func cachedList[T any](ctx context.Context, cache ports.ListCache, key string, log zerolog.Logger, load func(context.Context) ([]*T, error)) ([]*T, error) {
	if cache == nil {
		return load(ctx)
	}

	var cached []*T
	hit, gen, err := cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.ListCacheTotal.WithLabelValues(key, "error").Inc()
		log.Warn().Err(err).Str("key", key).Msg("list cache read failed")
		return load(ctx)
	case hit:
		metrics.ListCacheTotal.WithLabelValues(key, "hit").Inc()
		if cached == nil {
			cached = []*T{}
		}
		return cached, nil
	}
	metrics.ListCacheTotal.WithLabelValues(key, "miss").Inc()

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(ctx, key, gen, items); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("list cache write failed")
	}
	return items, nil
}

// invalidate drops key after a successful write.
func invalidate(ctx context.Context, cache ports.ListCache, key string, log zerolog.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("list cache invalidation failed")
	}
}

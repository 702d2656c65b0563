package main

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/wsapp/storefront/internal/command"
	"github.com/wsapp/storefront/internal/core/ports"
	"github.com/wsapp/storefront/internal/core/service"
	"github.com/wsapp/storefront/internal/infrastructure/config"
	"github.com/wsapp/storefront/internal/infrastructure/db/redis"
	"github.com/wsapp/storefront/internal/infrastructure/db/sqlstore"
	"github.com/wsapp/storefront/pkg/logger"
)

// app holds the process-wide resources shared by every command invocation.
type app struct {
	store    *sqlstore.Store
	redis    *goredis.Client
	registry *command.Registry
}

// openStore connects and creates the schema. Failures are returned as
// exitError with exitConnect or exitSchema.
func openStore(ctx context.Context) (*sqlstore.Store, error) {
	db := cfg.Database
	store, err := sqlstore.Open(ctx, sqlstore.Config{
		URL:             db.URL,
		MaxOpenConns:    db.MaxOpenConns,
		MaxIdleConns:    db.MaxIdleConns,
		ConnMaxLifetime: db.ConnMaxLifetime,
		ConnectTimeout:  db.ConnectTimeout,
	}, logger.Component("sqlstore"))
	if err != nil {
		log.Error().Err(err).Str("database_url", sqlstore.Redact(db.URL)).Msg("failed to connect to database")
		log.Info().Msg("make sure the database is running and DATABASE_URL is correct")
		log.Info().Str("default", sqlstore.Redact(config.DefaultDatabaseURL)).Msg("default connection")
		return nil, &exitError{code: exitConnect, err: err}
	}

	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		log.Error().Err(err).Msg("failed to initialize database")
		return nil, &exitError{code: exitSchema, err: err}
	}
	log.Info().Str("dialect", store.Dialect()).Msg("database tables initialized")
	return store, nil
}

// newApp opens the store, connects the optional list cache and builds the
// command registry. exec may be nil to run commands inline.
func newApp(ctx context.Context, exec command.Executor) (*app, error) {
	store, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	a := &app{store: store}

	var cache ports.ListCache
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			// The cache is an optimization; run without it.
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("list cache disabled")
		} else {
			a.redis = client
			cache = redis.NewListCache(client, cfg.Redis.ListTTL)
			log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.ListTTL).Msg("list cache enabled")
		}
	}

	svcLog := logger.Component("service")
	a.registry = command.NewRegistry(command.Services{
		Users:    service.NewUserService(sqlstore.NewUserRepository(store), cache, svcLog),
		Products: service.NewProductService(sqlstore.NewProductRepository(store), cache, svcLog),
		Orders:   service.NewOrderService(sqlstore.NewOrderRepository(store), cache, svcLog),
	},
		command.WithTimeout(cfg.Commands.Timeout),
		command.WithExecutor(exec),
		command.WithLogger(logger.Component("command")),
	)
	return a, nil
}

func (a *app) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.store.Close())
	return errors.Join(errs...)
}

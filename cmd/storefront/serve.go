package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wsapp/storefront/internal/api"
	"github.com/wsapp/storefront/internal/api/handler"
	"github.com/wsapp/storefront/internal/api/metrics"
	"github.com/wsapp/storefront/internal/infrastructure/db/redis"
	"github.com/wsapp/storefront/internal/infrastructure/queue"
	"github.com/wsapp/storefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve commands over the loopback HTTP bridge",
	Long: `Serve connects to the database, creates any missing tables and serves
POST /commands/<name> until SIGINT or SIGTERM.

Exit codes:
  2  cannot connect to database
  3  cannot create schema`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := queue.NewDispatcher(cfg.Commands.Workers, logger.Component("queue"))
	if err != nil {
		return err
	}
	defer pool.Release()
	metrics.RegisterWorkerPool(pool.Running, pool.Waiting)

	a, err := newApp(ctx, pool)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}()

	deps := []handler.Dependency{{Name: "database", Pinger: a.store}}
	if a.redis != nil {
		deps = append(deps, handler.Dependency{Name: "redis", Pinger: redis.NewPinger(a.redis)})
	}
	e := api.NewRouter(api.Deps{
		Commands:     a.registry,
		Dependencies: deps,
		Logger:       logger.Component("http"),
		AllowOrigins: cfg.CORSOrigins,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Int("workers", pool.Cap()).Msg("command bridge listening")
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

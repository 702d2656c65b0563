// Package sqlstore is the relational entity store. It owns the process-wide
// connection pool, creates the schema and runs one statement per call.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wsapp/storefront/internal/core/domain"
)

const defaultConnectTimeout = 10 * time.Second

// Config captures the settings for opening the pool.
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// Store wraps the shared *sql.DB pool. It is safe for concurrent use; every
// call borrows a connection for a single statement.
type Store struct {
	db      *sql.DB
	dialect dialect
	log     zerolog.Logger
}

// Open selects the dialect from the URL scheme, configures the pool and
// verifies connectivity with a ping. Any failure after the URL has been
// understood wraps domain.ErrConnectivity.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	d, dsn, err := resolveDialect(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w: %w", domain.ErrConnectivity, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot connect to database: %w: %w", domain.ErrConnectivity, err)
	}

	log.Info().Str("dialect", d.name).Msg("database connected")
	return &Store{db: db, dialect: d, log: log}, nil
}

// Dialect reports "postgres" or "sqlite".
func (s *Store) Dialect() string {
	return s.dialect.name
}

// Ping checks that a connection can still be borrowed from the pool.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return s.dialect.classify("ping", err)
	}
	return nil
}

// Close releases every pooled connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// queryAll runs a read-only query and scans every row. An empty result is a
// non-nil empty slice.
func queryAll[T any](ctx context.Context, s *Store, op, query string, scan func(rowScanner) (*T, error)) ([]*T, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query))
	if err != nil {
		return nil, s.dialect.classify(op, err)
	}
	defer rows.Close()

	out := make([]*T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, s.dialect.classify(op, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, s.dialect.classify(op, err)
	}
	return out, nil
}

// insertOne runs an INSERT ... RETURNING statement and scans the stored row.
func insertOne[T any](ctx context.Context, s *Store, op, query string, scan func(rowScanner) (*T, error), args ...any) (*T, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.rebind(query), args...)
	item, err := scan(row)
	if err != nil {
		return nil, s.dialect.classify(op, err)
	}
	return item, nil
}

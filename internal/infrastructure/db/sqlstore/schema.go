package sqlstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrSchemaInit marks a failure to create the tables at startup.
var ErrSchemaInit = errors.New("cannot create schema")

// Table DDL in dependency order: orders references users.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS products (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(255) NOT NULL,
    description TEXT,
    price DECIMAL(10,2) NOT NULL,
    stock INTEGER DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS orders (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID REFERENCES users(id),
    total_amount DECIMAL(10,2) NOT NULL,
    status VARCHAR(50) DEFAULT 'pending',
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
)`,
}

// sqliteUUID builds a random version 4 UUID string inside SQLite.
const sqliteUUID = `(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-4' ||
        substr(lower(hex(randomblob(2))), 2) || '-' ||
        substr('89ab', 1 + (abs(random()) % 4), 1) || substr(lower(hex(randomblob(2))), 2) || '-' ||
        lower(hex(randomblob(6))))`

// sqliteNow is UTC with millisecond precision; 'now' is stable within one
// statement so created_at and updated_at always match.
const sqliteNow = `(strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))`

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id TEXT NOT NULL PRIMARY KEY DEFAULT ` + sqliteUUID + `,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    created_at TEXT DEFAULT ` + sqliteNow + `,
    updated_at TEXT DEFAULT ` + sqliteNow + `
)`,
	`CREATE TABLE IF NOT EXISTS products (
    id TEXT NOT NULL PRIMARY KEY DEFAULT ` + sqliteUUID + `,
    name VARCHAR(255) NOT NULL,
    description TEXT,
    price DECIMAL(10,2) NOT NULL,
    stock INTEGER DEFAULT 0,
    created_at TEXT DEFAULT ` + sqliteNow + `,
    updated_at TEXT DEFAULT ` + sqliteNow + `
)`,
	`CREATE TABLE IF NOT EXISTS orders (
    id TEXT NOT NULL PRIMARY KEY DEFAULT ` + sqliteUUID + `,
    user_id TEXT REFERENCES users(id),
    total_amount DECIMAL(10,2) NOT NULL,
    status VARCHAR(50) DEFAULT 'pending',
    created_at TEXT DEFAULT ` + sqliteNow + `,
    updated_at TEXT DEFAULT ` + sqliteNow + `
)`,
}

// tableNames lists the tables Init creates, in creation order.
var tableNames = []string{"users", "products", "orders"}

// Init creates any missing table. Existing tables and rows are left
// untouched, so it runs on every start.
func (s *Store) Init(ctx context.Context) error {
	for i, ddl := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("%w: table %s: %w", ErrSchemaInit, tableNames[i], s.dialect.classify("create table", err))
		}
	}
	s.log.Info().Strs("tables", tableNames).Msg("schema ready")
	return nil
}

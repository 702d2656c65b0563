package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/wsapp/storefront/internal/core/domain"
)

// classify maps a driver error onto the domain taxonomy and prefixes it with
// the failing operation. The driver error stays reachable via errors.As.
func (d dialect) classify(op string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", op, err)
	}

	if ce := constraintFromPostgres(err); ce != nil {
		return fmt.Errorf("%s: %w", op, ce)
	}
	if ce := constraintFromSQLite(err); ce != nil {
		return fmt.Errorf("%s: %w", op, ce)
	}
	if isInvalidValue(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrValidation, err)
	}
	if isConnectivity(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConnectivity, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

func constraintFromPostgres(err error) *domain.ConstraintError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	var kind domain.ConstraintKind
	switch pgErr.Code {
	case pgUniqueViolation:
		kind = domain.ConstraintUnique
	case pgForeignKeyViolation:
		kind = domain.ConstraintForeignKey
	case pgNotNullViolation:
		kind = domain.ConstraintNotNull
	case pgCheckViolation:
		kind = domain.ConstraintCheck
	default:
		return nil
	}
	constraint := pgErr.ConstraintName
	if constraint == "" && pgErr.ColumnName != "" {
		constraint = pgErr.ColumnName
	}
	return &domain.ConstraintError{
		Kind:       kind,
		Table:      pgErr.TableName,
		Constraint: constraint,
		Err:        err,
	}
}

func constraintFromSQLite(err error) *domain.ConstraintError {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return nil
	}
	var kind domain.ConstraintKind
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
		kind = domain.ConstraintUnique
	case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
		kind = domain.ConstraintForeignKey
	case sqlite3lib.SQLITE_CONSTRAINT_NOTNULL:
		kind = domain.ConstraintNotNull
	case sqlite3lib.SQLITE_CONSTRAINT_CHECK:
		kind = domain.ConstraintCheck
	default:
		return nil
	}
	table, constraint := sqliteConstraintTarget(sqliteErr.Error())
	return &domain.ConstraintError{
		Kind:       kind,
		Table:      table,
		Constraint: constraint,
		Err:        err,
	}
}

// sqliteConstraintTarget extracts "users" and "users.email" from messages like
// "constraint failed: UNIQUE constraint failed: users.email (2067)".
func sqliteConstraintTarget(msg string) (table, column string) {
	i := strings.LastIndex(msg, "failed: ")
	if i < 0 {
		return "", ""
	}
	target := msg[i+len("failed: "):]
	if j := strings.Index(target, " ("); j >= 0 {
		target = target[:j]
	}
	target = strings.TrimSpace(target)
	if first, _, ok := strings.Cut(target, ","); ok {
		target = first
	}
	dot := strings.Index(target, ".")
	if dot < 0 {
		return "", ""
	}
	return target[:dot], target
}

// isInvalidValue reports values the store itself rejected as malformed,
// e.g. SQLSTATE class 22 (data exception) or an SQLite type mismatch.
func isInvalidValue(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "22")
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3lib.SQLITE_MISMATCH
	}
	return false
}

func isConnectivity(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception; 57P0x: server shutting down.
		return strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P0")
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED, sqlite3lib.SQLITE_CANTOPEN,
			sqlite3lib.SQLITE_IOERR, sqlite3lib.SQLITE_NOTADB, sqlite3lib.SQLITE_READONLY:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

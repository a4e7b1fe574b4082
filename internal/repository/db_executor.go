// internal/repository/db_executor.go
package repository

import (
	"context"
	"database/sql"
)

// DBExecutor is the set of query operations repositories need. Both *sqlx.DB
// and *sqlx.Tx satisfy it, so a repository method can run against a plain
// connection or join a caller's transaction.
type DBExecutor interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

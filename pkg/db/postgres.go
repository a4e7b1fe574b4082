// pkg/db/postgres.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// Config holds database connection configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewPostgresDB initializes and returns a new PostgreSQL database connection.
func NewPostgresDB(cfg Config) (*sqlx.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	return db, nil
}

// Migrate creates tables and indexes idempotently at startup.
func Migrate(db *sqlx.DB, logger *slog.Logger) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGSERIAL PRIMARY KEY,
			name          TEXT      NOT NULL,
			email         TEXT      NOT NULL UNIQUE,
			password_hash TEXT      NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id             BIGSERIAL     PRIMARY KEY,
			user_id        BIGINT        NOT NULL UNIQUE REFERENCES users(id),
			account_number VARCHAR(16)   NOT NULL UNIQUE,
			balance        NUMERIC(20,4) NOT NULL DEFAULT 0 CHECK (balance >= 0),
			created_at     TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
			updated_at     TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id           BIGSERIAL     PRIMARY KEY,
			reference    VARCHAR(64)   NOT NULL UNIQUE,
			type         VARCHAR(10)   NOT NULL,
			from_user_id BIGINT        REFERENCES users(id),
			to_user_id   BIGINT        REFERENCES users(id),
			amount       NUMERIC(20,4) NOT NULL CHECK (amount > 0),
			description  TEXT          NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_from_user_id
			ON transactions(from_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_to_user_id
			ON transactions(to_user_id)`,
		`CREATE TABLE IF NOT EXISTS cards (
			id          BIGSERIAL   PRIMARY KEY,
			user_id     BIGINT      NOT NULL UNIQUE REFERENCES users(id),
			card_number VARCHAR(19) NOT NULL UNIQUE,
			card_holder TEXT        NOT NULL,
			expiry      VARCHAR(7)  NOT NULL,
			type        VARCHAR(16) NOT NULL,
			status      VARCHAR(10) NOT NULL,
			issued_at   TIMESTAMPTZ NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_status_issued_at
			ON cards(status, issued_at)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	logger.Info("migrations completed")
	return nil
}

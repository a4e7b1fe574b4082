// internal/repository/postgres/account_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"corebank/internal/domain"
	"corebank/internal/repository"
	"corebank/internal/util"

	"github.com/shopspring/decimal"
)

// AccountRepository implements repository.AccountRepository for PostgreSQL.
type AccountRepository struct{}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository() repository.AccountRepository {
	return &AccountRepository{}
}

// CreateAccount inserts a new account. A second account for the same user
// maps to ErrAlreadyExists; a collision on the generated account number maps
// to ErrDuplicateNumber so callers can regenerate and retry.
func (r *AccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	query := `INSERT INTO accounts (user_id, account_number, balance, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query, account.UserID, account.AccountNumber, account.Balance, account.CreatedAt, account.UpdatedAt).Scan(&account.ID)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if strings.Contains(constraint, "account_number") {
				return util.ErrDuplicateNumber
			}
			return util.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByUserID retrieves the account owned by a user.
func (r *AccountRepository) GetAccountByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT id, user_id, account_number, balance, created_at, updated_at FROM accounts WHERE user_id = $1`
	err := q.GetContext(ctx, &account, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account for user %d: %w", userID, err)
	}
	return &account, nil
}

// GetAccountByNumber retrieves an account by its human-facing number.
func (r *AccountRepository) GetAccountByNumber(ctx context.Context, q repository.DBExecutor, accountNumber string) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT id, user_id, account_number, balance, created_at, updated_at FROM accounts WHERE account_number = $1`
	err := q.GetContext(ctx, &account, query, accountNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by number '%s': %w", accountNumber, err)
	}
	return &account, nil
}

// GetAccountByIDForUpdate retrieves an account under a row lock, serializing
// concurrent balance mutations on the same account. Must run inside a
// transaction.
func (r *AccountRepository) GetAccountByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT id, user_id, account_number, balance, created_at, updated_at FROM accounts WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &account, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock account %d: %w", id, err)
	}
	return &account, nil
}

// ApplyBalanceDelta adds delta to the account balance as a single conditional
// update. The WHERE clause keeps the non-negativity invariant inside the
// database: when the delta would overdraw the account no row changes and
// ErrInsufficientFunds is returned.
func (r *AccountRepository) ApplyBalanceDelta(ctx context.Context, q repository.DBExecutor, accountID int64, delta decimal.Decimal) error {
	query := `UPDATE accounts SET balance = balance + $1, updated_at = $2
              WHERE id = $3 AND balance + $1 >= 0`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), accountID)
	if err != nil {
		return fmt.Errorf("failed to apply balance delta to account %d: %w", accountID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for account %d: %w", accountID, err)
	}
	if rowsAffected == 0 {
		return util.ErrInsufficientFunds
	}
	return nil
}

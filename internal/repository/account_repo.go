// internal/repository/account_repo.go
package repository

import (
	"context"

	"corebank/internal/domain"

	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data operations.
type AccountRepository interface {
	// CreateAccount adds a new account using the provided DBExecutor.
	CreateAccount(ctx context.Context, q DBExecutor, account *domain.Account) error
	// GetAccountByUserID retrieves the account owned by a user.
	GetAccountByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Account, error)
	// GetAccountByNumber retrieves an account by its human-facing number.
	GetAccountByNumber(ctx context.Context, q DBExecutor, accountNumber string) (*domain.Account, error)
	// GetAccountByIDForUpdate retrieves an account and takes a row lock on it.
	// Must be called inside a transaction.
	GetAccountByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Account, error)
	// ApplyBalanceDelta adds delta (positive or negative) to the account's
	// balance. The update is conditional on the result staying non-negative;
	// a violating delta returns util.ErrInsufficientFunds and leaves the row
	// untouched.
	ApplyBalanceDelta(ctx context.Context, q DBExecutor, accountID int64, delta decimal.Decimal) error
}

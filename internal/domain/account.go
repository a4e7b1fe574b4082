// internal/domain/account.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Account is a user's single bank account. The balance is never negative and
// is only mutated through the bank service's delta primitive.
type Account struct {
	ID            int64           `db:"id" json:"id"`
	UserID        int64           `db:"user_id" json:"user_id"`
	AccountNumber string          `db:"account_number" json:"account_number"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// NewAccount creates a new Account with a zero balance.
func NewAccount(userID int64, accountNumber string) *Account {
	now := time.Now().UTC()
	return &Account{
		UserID:        userID,
		AccountNumber: accountNumber,
		Balance:       decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

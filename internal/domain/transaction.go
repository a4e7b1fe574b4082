// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal" // For precise monetary calculations
)

// TransactionType defines the type of a ledger entry.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction is an immutable ledger entry, created exactly once per
// successful balance-affecting operation and never updated or deleted.
//
// Presence rules: deposit sets only ToUserID, withdraw only FromUserID,
// transfer both.
type Transaction struct {
	ID          int64           `db:"id" json:"id"`
	Reference   string          `db:"reference" json:"reference"`
	Type        TransactionType `db:"type" json:"type"`
	FromUserID  *int64          `db:"from_user_id" json:"from_user_id,omitempty"`
	ToUserID    *int64          `db:"to_user_id" json:"to_user_id,omitempty"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// NewTransaction creates a new Transaction with a unique reference.
func NewTransaction(txType TransactionType, fromUserID, toUserID *int64, amount decimal.Decimal, description string) *Transaction {
	return &Transaction{
		Reference:   uuid.New().String(),
		Type:        txType,
		FromUserID:  fromUserID,
		ToUserID:    toUserID,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}

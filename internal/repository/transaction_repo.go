// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"corebank/internal/domain"
)

// TransactionRepository defines the interface for ledger data operations.
// Ledger rows are append-only; there is deliberately no update or delete.
type TransactionRepository interface {
	// CreateTransaction appends a new ledger entry using the provided DBExecutor.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsByUserID retrieves entries where the user is sender or
	// receiver, most recent first, plus the total count for pagination.
	GetTransactionsByUserID(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error)
}

// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"corebank/internal/domain"
	"corebank/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction appends a new ledger entry.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (reference, type, from_user_id, to_user_id, amount, description, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		transaction.Reference,
		transaction.Type,
		transaction.FromUserID,
		transaction.ToUserID,
		transaction.Amount,
		transaction.Description,
		transaction.CreatedAt,
	).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionsByUserID retrieves a paginated list of entries where the user
// is sender or receiver, most recent first with insertion order breaking ties.
func (r *TransactionRepository) GetTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions := []domain.Transaction{}

	query := `
		SELECT id, reference, type, from_user_id, to_user_id, amount, description, created_at
		FROM transactions
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	err := q.SelectContext(ctx, &transactions, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := `
		SELECT COUNT(*)
		FROM transactions
		WHERE from_user_id = $1 OR to_user_id = $1`
	err = q.GetContext(ctx, &totalCount, countQuery, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions for user %d: %w", userID, err)
	}

	return transactions, totalCount, nil
}

// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"

	"corebank/internal/auth"
	"corebank/internal/domain"
	"corebank/internal/repository"
	"corebank/internal/util"

	"github.com/shopspring/decimal"
)

// LedgerService records immutable transactions and serves history reads.
type LedgerService interface {
	// Record validates the type/from/to combination and appends one ledger
	// entry using the caller's executor, so the append commits or rolls back
	// with the balance mutation it describes.
	Record(ctx context.Context, q repository.DBExecutor, txType domain.TransactionType, fromUserID, toUserID *int64, amount decimal.Decimal, description string) (*domain.Transaction, error)
	// History returns the caller's entries, most recent first, with the total
	// count for pagination. A fresh call reflects only committed data.
	History(ctx context.Context, caller auth.Identity, limit, offset int) ([]domain.Transaction, int64, error)
}

type ledgerService struct {
	dbExecutor      repository.DBExecutor
	transactionRepo repository.TransactionRepository
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(dbExecutor repository.DBExecutor, transactionRepo repository.TransactionRepository) LedgerService {
	return &ledgerService{
		dbExecutor:      dbExecutor,
		transactionRepo: transactionRepo,
	}
}

// validateParticipants enforces the presence rules per transaction type:
// deposit has only a receiver, withdraw only a sender, transfer both.
func validateParticipants(txType domain.TransactionType, fromUserID, toUserID *int64) error {
	switch txType {
	case domain.TransactionTypeDeposit:
		if fromUserID != nil || toUserID == nil {
			return util.ErrInvalidTransaction
		}
	case domain.TransactionTypeWithdraw:
		if fromUserID == nil || toUserID != nil {
			return util.ErrInvalidTransaction
		}
	case domain.TransactionTypeTransfer:
		if fromUserID == nil || toUserID == nil {
			return util.ErrInvalidTransaction
		}
	default:
		return util.ErrInvalidTransaction
	}
	return nil
}

func (s *ledgerService) Record(ctx context.Context, q repository.DBExecutor, txType domain.TransactionType, fromUserID, toUserID *int64, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidAmount
	}
	if err := validateParticipants(txType, fromUserID, toUserID); err != nil {
		return nil, err
	}

	transaction := domain.NewTransaction(txType, fromUserID, toUserID, amount, description)
	if err := s.transactionRepo.CreateTransaction(ctx, q, transaction); err != nil {
		return nil, fmt.Errorf("record %s: %w", txType, err)
	}
	return transaction, nil
}

func (s *ledgerService) History(ctx context.Context, caller auth.Identity, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions, totalCount, err := s.transactionRepo.GetTransactionsByUserID(ctx, s.dbExecutor, caller.UserID(), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("history for user %d: %w", caller.UserID(), err)
	}
	return transactions, totalCount, nil
}

// internal/service/bank_service.go
package service

import (
	"context"
	"fmt"

	"corebank/internal/auth"
	"corebank/internal/domain"
	"corebank/internal/repository"
	"corebank/internal/util"
	"corebank/pkg/db"

	"github.com/shopspring/decimal"
)

// BankService is the funds-transfer engine. Every operation runs inside one
// SQL transaction: the balance mutations and the ledger append commit together
// or not at all. Row locks taken in ascending account-id order serialize
// concurrent mutations without deadlocking opposite-direction transfers.
type BankService interface {
	Deposit(ctx context.Context, caller auth.Identity, amount decimal.Decimal) (*domain.Account, *domain.Transaction, error)
	Withdraw(ctx context.Context, caller auth.Identity, amount decimal.Decimal) (*domain.Account, *domain.Transaction, error)
	Transfer(ctx context.Context, caller auth.Identity, toAccountNumber string, amount decimal.Decimal, description string) (*domain.Account, *domain.Transaction, error)
}

type bankService struct {
	dbBeginner  db.DBTxBeginner
	accountRepo repository.AccountRepository
	ledger      LedgerService
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewBankService creates a new instance of BankService.
func NewBankService(
	dbBeginner db.DBTxBeginner,
	accountRepo repository.AccountRepository,
	ledger LedgerService,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) BankService {
	return &bankService{
		dbBeginner:  dbBeginner,
		accountRepo: accountRepo,
		ledger:      ledger,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// Deposit adds money to the user's account.
func (s *bankService) Deposit(ctx context.Context, caller auth.Identity, amount decimal.Decimal) (*domain.Account, *domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, util.ErrInvalidAmount
	}
	userID := caller.UserID()

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("deposit: transaction controller does not implement DBExecutor")
	}

	account, err := s.accountRepo.GetAccountByUserID(ctx, txExecutor, userID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.accountRepo.GetAccountByIDForUpdate(ctx, txExecutor, account.ID); err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to lock account %d: %w", account.ID, err)
	}

	if err := s.accountRepo.ApplyBalanceDelta(ctx, txExecutor, account.ID, amount); err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to update balance: %w", err)
	}

	transaction, err := s.ledger.Record(ctx, txExecutor, domain.TransactionTypeDeposit, nil, &userID, amount, "")
	if err != nil {
		return nil, nil, err
	}

	updatedAccount, err := s.accountRepo.GetAccountByUserID(ctx, txExecutor, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to re-fetch account: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("deposit: failed to commit transaction: %w", err)
	}

	return updatedAccount, transaction, nil
}

// Withdraw removes money from the user's account, never below zero.
func (s *bankService) Withdraw(ctx context.Context, caller auth.Identity, amount decimal.Decimal) (*domain.Account, *domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, util.ErrInvalidAmount
	}
	userID := caller.UserID()

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("withdraw: transaction controller does not implement DBExecutor")
	}

	account, err := s.accountRepo.GetAccountByUserID(ctx, txExecutor, userID)
	if err != nil {
		return nil, nil, err
	}
	locked, err := s.accountRepo.GetAccountByIDForUpdate(ctx, txExecutor, account.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: failed to lock account %d: %w", account.ID, err)
	}
	if locked.Balance.LessThan(amount) {
		return nil, nil, util.ErrInsufficientFunds
	}

	if err := s.accountRepo.ApplyBalanceDelta(ctx, txExecutor, account.ID, amount.Neg()); err != nil {
		return nil, nil, err
	}

	transaction, err := s.ledger.Record(ctx, txExecutor, domain.TransactionTypeWithdraw, &userID, nil, amount, "")
	if err != nil {
		return nil, nil, err
	}

	updatedAccount, err := s.accountRepo.GetAccountByUserID(ctx, txExecutor, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: failed to re-fetch account: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("withdraw: failed to commit transaction: %w", err)
	}

	return updatedAccount, transaction, nil
}

// Transfer moves money from the caller's account to the account with the
// given number, recording one transfer entry. Self-transfer is rejected before
// any balance check.
func (s *bankService) Transfer(ctx context.Context, caller auth.Identity, toAccountNumber string, amount decimal.Decimal, description string) (*domain.Account, *domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, util.ErrInvalidAmount
	}
	fromUserID := caller.UserID()

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("transfer: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("transfer: transaction controller does not implement DBExecutor")
	}

	sender, err := s.accountRepo.GetAccountByUserID(ctx, txExecutor, fromUserID)
	if err != nil {
		return nil, nil, err
	}
	receiver, err := s.accountRepo.GetAccountByNumber(ctx, txExecutor, toAccountNumber)
	if err != nil {
		return nil, nil, err
	}
	if sender.AccountNumber == receiver.AccountNumber {
		return nil, nil, util.ErrSameAccountTransfer
	}

	// Lock both rows in ascending id order so two opposite-direction
	// transfers cannot deadlock.
	firstID, secondID := sender.ID, receiver.ID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	lockedFirst, err := s.accountRepo.GetAccountByIDForUpdate(ctx, txExecutor, firstID)
	if err != nil {
		return nil, nil, fmt.Errorf("transfer: failed to lock account %d: %w", firstID, err)
	}
	lockedSecond, err := s.accountRepo.GetAccountByIDForUpdate(ctx, txExecutor, secondID)
	if err != nil {
		return nil, nil, fmt.Errorf("transfer: failed to lock account %d: %w", secondID, err)
	}
	lockedSender := lockedFirst
	if lockedSecond.ID == sender.ID {
		lockedSender = lockedSecond
	}

	if lockedSender.Balance.LessThan(amount) {
		return nil, nil, util.ErrInsufficientFunds
	}

	if err := s.accountRepo.ApplyBalanceDelta(ctx, txExecutor, sender.ID, amount.Neg()); err != nil {
		return nil, nil, err
	}
	if err := s.accountRepo.ApplyBalanceDelta(ctx, txExecutor, receiver.ID, amount); err != nil {
		return nil, nil, fmt.Errorf("transfer: failed to credit receiver: %w", err)
	}

	transaction, err := s.ledger.Record(ctx, txExecutor, domain.TransactionTypeTransfer, &fromUserID, &receiver.UserID, amount, description)
	if err != nil {
		return nil, nil, err
	}

	updatedSender, err := s.accountRepo.GetAccountByUserID(ctx, txExecutor, fromUserID)
	if err != nil {
		return nil, nil, fmt.Errorf("transfer: failed to re-fetch sender account: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("transfer: failed to commit transaction: %w", err)
	}

	return updatedSender, transaction, nil
}

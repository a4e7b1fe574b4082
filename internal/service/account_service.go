// internal/service/account_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"corebank/internal/auth"
	"corebank/internal/domain"
	"corebank/internal/repository"
	"corebank/internal/util"
	"corebank/pkg/db"
)

// accountNumberPrefix tags every generated account number.
const accountNumberPrefix = "BA"

// maxNumberAttempts bounds regeneration when a generated number collides with
// an existing row.
const maxNumberAttempts = 5

// AccountService defines the interface for account management.
type AccountService interface {
	// CreateAccount opens the caller's single account in its own transaction.
	// Fails with ErrAlreadyExists if the caller has one.
	CreateAccount(ctx context.Context, caller auth.Identity) (*domain.Account, error)
	// CreateAccountForUser opens the account inside the caller's transaction,
	// so registration can create user and account as one unit. Only the auth
	// flow calls this; at that point no identity exists yet.
	CreateAccountForUser(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Account, error)
	// GetAccountByUser returns the caller's account or ErrAccountNotFound.
	GetAccountByUser(ctx context.Context, caller auth.Identity) (*domain.Account, error)
	// GetAccountByNumber returns the account with the given number or ErrAccountNotFound.
	GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
}

type accountService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	accountRepo repository.AccountRepository
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) AccountService {
	return &accountService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		accountRepo: accountRepo,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// newAccountNumber draws a 9-digit number behind the scheme prefix.
func newAccountNumber() string {
	return fmt.Sprintf("%s%d", accountNumberPrefix, 100000000+rand.Int63n(900000000))
}

func (s *accountService) CreateAccount(ctx context.Context, caller auth.Identity) (*domain.Account, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create account: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create account: transaction controller does not implement DBExecutor")
	}

	account, err := s.CreateAccountForUser(ctx, txExecutor, caller.UserID())
	if err != nil {
		return nil, err
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create account: failed to commit transaction: %w", err)
	}
	return account, nil
}

func (s *accountService) CreateAccountForUser(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Account, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		account := domain.NewAccount(userID, newAccountNumber())
		err := s.accountRepo.CreateAccount(ctx, q, account)
		if err == nil {
			return account, nil
		}
		if errors.Is(err, util.ErrDuplicateNumber) {
			continue
		}
		if errors.Is(err, util.ErrAlreadyExists) {
			return nil, util.ErrAlreadyExists
		}
		return nil, fmt.Errorf("create account for user %d: %w", userID, err)
	}
	return nil, fmt.Errorf("create account for user %d: %w", userID, util.ErrDuplicateNumber)
}

func (s *accountService) GetAccountByUser(ctx context.Context, caller auth.Identity) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByUserID(ctx, s.dbExecutor, caller.UserID())
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByNumber(ctx, s.dbExecutor, accountNumber)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"corebank/internal/auth"
	"corebank/internal/domain"
	"corebank/internal/repository"
	"corebank/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock transaction controller. It embeds MockDBExecutor
// so it also satisfies repository.DBExecutor, the way *sqlx.Tx does.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.User, error) {
	args := m.Called(ctx, q, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockAccountRepository is a mock implementation of repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	args := m.Called(ctx, q, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAccountByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Account, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountByNumber(ctx context.Context, q repository.DBExecutor, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, q, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Account, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyBalanceDelta(ctx context.Context, q repository.DBExecutor, accountID int64, delta decimal.Decimal) error {
	args := m.Called(ctx, q, accountID, delta)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

// MockCardRepository is a mock implementation of repository.CardRepository.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) CreateCard(ctx context.Context, q repository.DBExecutor, card *domain.Card) error {
	args := m.Called(ctx, q, card)
	return args.Error(0)
}

func (m *MockCardRepository) GetCardsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Card, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

func (m *MockCardRepository) UpdateCardStatus(ctx context.Context, q repository.DBExecutor, cardID int64, status domain.CardStatus) error {
	args := m.Called(ctx, q, cardID, status)
	return args.Error(0)
}

func (m *MockCardRepository) ActivateIssuedBefore(ctx context.Context, q repository.DBExecutor, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, q, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockAccountService is a mock implementation of AccountService.
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, caller auth.Identity) (*domain.Account, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccountForUser(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Account, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByUser(ctx context.Context, caller auth.Identity) (*domain.Account, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// MockLedgerService is a mock implementation of LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Record(ctx context.Context, q repository.DBExecutor, txType domain.TransactionType, fromUserID, toUserID *int64, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	args := m.Called(ctx, q, txType, fromUserID, toUserID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) History(ctx context.Context, caller auth.Identity, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, caller, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

// testIdentity mints a verified identity the way the auth middleware does:
// by round-tripping a signed token.
func testIdentity(t *testing.T, userID int64) auth.Identity {
	t.Helper()
	secret := []byte("test-secret")
	token, err := auth.IssueToken(secret, userID, time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	identity, err := auth.VerifyToken(secret, token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	return identity
}

// testTxFuncs returns transaction control funcs that hand back the given
// controller, the way the real funcs hand back *sqlx.Tx.
func testTxFuncs(tc *MockTxController) (db.BeginTxFunc, db.CommitTxFunc, db.RollbackTxFunc) {
	return func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return tc, nil
		},
		func(tx db.TxController) error {
			return tc.Commit()
		},
		func(tx db.TxController) {
			_ = tc.Rollback()
		}
}

// internal/service/auth_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"corebank/internal/domain"
	"corebank/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

func newAuthServiceForTest(userRepo *MockUserRepository, accounts *MockAccountService, tc *MockTxController) AuthService {
	beginTx, commitTx, rollbackTx := testTxFuncs(tc)
	return NewAuthService(new(MockDBBeginner), new(MockDBExecutor), userRepo, accounts, testJWTSecret, time.Hour, beginTx, commitTx, rollbackTx)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessfulRegister", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockAccounts := new(MockAccountService)
		mockTxController := new(MockTxController)
		svc := newAuthServiceForTest(mockUserRepo, mockAccounts, mockTxController)

		account := &domain.Account{ID: 10, UserID: 1, AccountNumber: "BA123456789", Balance: decimal.Zero}
		mockUserRepo.On("CreateUser", ctx, mock.Anything, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
			args.Get(2).(*domain.User).ID = 1
		}).Return(nil).Once()
		mockAccounts.On("CreateAccountForUser", ctx, mock.Anything, int64(1)).Return(account, nil).Once()
		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		user, gotAccount, token, err := svc.Register(ctx, "Jordan Banks", "jordan@example.com", "s3cret!pw")

		assert.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, account, gotAccount)
		assert.NotEmpty(t, token)

		// The stored hash verifies against the original password.
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret!pw")))

		// The token carries the user id as its subject.
		parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		assert.NoError(t, err)
		subject, err := parsed.Claims.GetSubject()
		assert.NoError(t, err)
		assert.Equal(t, "1", subject)

		mock.AssertExpectationsForObjects(t, mockUserRepo, mockAccounts, mockTxController)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockAccounts := new(MockAccountService)
		mockTxController := new(MockTxController)
		svc := newAuthServiceForTest(mockUserRepo, mockAccounts, mockTxController)

		mockUserRepo.On("CreateUser", ctx, mock.Anything, mock.AnythingOfType("*domain.User")).
			Return(util.ErrAlreadyExists).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		_, _, _, err := svc.Register(ctx, "Jordan Banks", "jordan@example.com", "s3cret!pw")

		assert.ErrorIs(t, err, util.ErrAlreadyExists)
		mockAccounts.AssertNotCalled(t, "CreateAccountForUser", mock.Anything, mock.Anything, mock.Anything)
		mockTxController.AssertNotCalled(t, "Commit")
	})

	t.Run("MissingFields", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		svc := newAuthServiceForTest(mockUserRepo, new(MockAccountService), new(MockTxController))

		_, _, _, err := svc.Register(ctx, "", "jordan@example.com", "s3cret!pw")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		mockUserRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!pw"), bcrypt.MinCost)
	assert.NoError(t, err)
	storedUser := &domain.User{ID: 1, Name: "Jordan Banks", Email: "jordan@example.com", PasswordHash: string(hash)}

	t.Run("SuccessfulLogin", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		svc := newAuthServiceForTest(mockUserRepo, new(MockAccountService), new(MockTxController))

		mockUserRepo.On("GetUserByEmail", ctx, mock.Anything, "jordan@example.com").Return(storedUser, nil).Once()

		user, token, err := svc.Login(ctx, "jordan@example.com", "s3cret!pw")

		assert.NoError(t, err)
		assert.Equal(t, storedUser, user)
		assert.NotEmpty(t, token)
		mock.AssertExpectationsForObjects(t, mockUserRepo)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		svc := newAuthServiceForTest(mockUserRepo, new(MockAccountService), new(MockTxController))

		mockUserRepo.On("GetUserByEmail", ctx, mock.Anything, "jordan@example.com").Return(storedUser, nil).Once()

		_, _, err := svc.Login(ctx, "jordan@example.com", "wrong")

		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	})

	t.Run("UnknownEmailMapsToInvalidCredentials", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		svc := newAuthServiceForTest(mockUserRepo, new(MockAccountService), new(MockTxController))

		mockUserRepo.On("GetUserByEmail", ctx, mock.Anything, "nobody@example.com").
			Return(nil, util.ErrUserNotFound).Once()

		_, _, err := svc.Login(ctx, "nobody@example.com", "s3cret!pw")

		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	})
}

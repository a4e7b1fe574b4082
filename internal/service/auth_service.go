// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"corebank/internal/auth"
	"corebank/internal/domain"
	"corebank/internal/repository"
	"corebank/internal/util"
	"corebank/pkg/db"

	"golang.org/x/crypto/bcrypt"
)

// AuthService establishes user identity. Every other service trusts the user
// id it produces.
type AuthService interface {
	// Register creates a user and their bank account in one transaction and
	// returns a signed token.
	Register(ctx context.Context, name, email, password string) (*domain.User, *domain.Account, string, error)
	// Login verifies credentials and returns a signed token.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

type authService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	accounts   AccountService
	jwtSecret  []byte
	tokenTTL   time.Duration
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	accounts AccountService,
	jwtSecret string,
	tokenTTL time.Duration,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) AuthService {
	return &authService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		accounts:   accounts,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, *domain.Account, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, nil, "", util.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, "", fmt.Errorf("register: failed to hash password: %w", err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, "", fmt.Errorf("register: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, "", fmt.Errorf("register: transaction controller does not implement DBExecutor")
	}

	user := domain.NewUser(name, email, string(hash))
	if err := s.userRepo.CreateUser(ctx, txExecutor, user); err != nil {
		if errors.Is(err, util.ErrAlreadyExists) {
			return nil, nil, "", util.ErrAlreadyExists
		}
		return nil, nil, "", fmt.Errorf("register: failed to create user: %w", err)
	}

	// Registration opens the bank account alongside the user.
	account, err := s.accounts.CreateAccountForUser(ctx, txExecutor, user.ID)
	if err != nil {
		return nil, nil, "", fmt.Errorf("register: failed to create account: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, "", fmt.Errorf("register: failed to commit transaction: %w", err)
	}

	token, err := auth.IssueToken(s.jwtSecret, user.ID, s.tokenTTL)
	if err != nil {
		return nil, nil, "", err
	}
	return user, account, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", util.ErrInvalidInput
	}

	user, err := s.userRepo.GetUserByEmail(ctx, s.dbExecutor, email)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			return nil, "", util.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	token, err := auth.IssueToken(s.jwtSecret, user.ID, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

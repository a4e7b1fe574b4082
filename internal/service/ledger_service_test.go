// internal/service/ledger_service_test.go
package service

import (
	"context"
	"testing"

	"corebank/internal/domain"
	"corebank/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRecord(t *testing.T) {
	ctx := context.Background()
	userA := int64(1)
	userB := int64(2)
	amount := decimal.NewFromInt(10)

	t.Run("ParticipantRules", func(t *testing.T) {
		cases := []struct {
			name   string
			txType domain.TransactionType
			from   *int64
			to     *int64
			valid  bool
		}{
			{"DepositToOnly", domain.TransactionTypeDeposit, nil, &userA, true},
			{"DepositWithFrom", domain.TransactionTypeDeposit, &userA, &userB, false},
			{"DepositWithoutTo", domain.TransactionTypeDeposit, nil, nil, false},
			{"WithdrawFromOnly", domain.TransactionTypeWithdraw, &userA, nil, true},
			{"WithdrawWithTo", domain.TransactionTypeWithdraw, &userA, &userB, false},
			{"WithdrawWithoutFrom", domain.TransactionTypeWithdraw, nil, nil, false},
			{"TransferBoth", domain.TransactionTypeTransfer, &userA, &userB, true},
			{"TransferWithoutTo", domain.TransactionTypeTransfer, &userA, nil, false},
			{"TransferWithoutFrom", domain.TransactionTypeTransfer, nil, &userB, false},
			{"UnknownType", domain.TransactionType("refund"), &userA, &userB, false},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				mockTransactionRepo := new(MockTransactionRepository)
				mockDBExecutor := new(MockDBExecutor)
				svc := NewLedgerService(mockDBExecutor, mockTransactionRepo)

				if tc.valid {
					mockTransactionRepo.On("CreateTransaction", ctx, mockDBExecutor, mock.AnythingOfType("*domain.Transaction")).Return(nil).Once()
				}

				entry, err := svc.Record(ctx, mockDBExecutor, tc.txType, tc.from, tc.to, amount, "")

				if tc.valid {
					assert.NoError(t, err)
					assert.Equal(t, tc.txType, entry.Type)
					assert.NotEmpty(t, entry.Reference)
					assert.False(t, entry.CreatedAt.IsZero())
				} else {
					assert.ErrorIs(t, err, util.ErrInvalidTransaction)
					mockTransactionRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
				}
				mock.AssertExpectationsForObjects(t, mockTransactionRepo)
			})
		}
	})

	t.Run("NonPositiveAmountRejected", func(t *testing.T) {
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBExecutor := new(MockDBExecutor)
		svc := NewLedgerService(mockDBExecutor, mockTransactionRepo)

		for _, bad := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
			_, err := svc.Record(ctx, mockDBExecutor, domain.TransactionTypeDeposit, nil, &userA, bad, "")
			assert.ErrorIs(t, err, util.ErrInvalidAmount)
		}
		mockTransactionRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	userID := int64(7)

	mockTransactionRepo := new(MockTransactionRepository)
	mockDBExecutor := new(MockDBExecutor)
	svc := NewLedgerService(mockDBExecutor, mockTransactionRepo)

	entries := []domain.Transaction{
		{ID: 3, Type: domain.TransactionTypeWithdraw},
		{ID: 2, Type: domain.TransactionTypeDeposit},
	}
	mockTransactionRepo.On("GetTransactionsByUserID", ctx, mockDBExecutor, userID, 20, 0).Return(entries, int64(5), nil).Once()

	got, total, err := svc.History(ctx, testIdentity(t, userID), 20, 0)

	assert.NoError(t, err)
	assert.Equal(t, entries, got)
	assert.Equal(t, int64(5), total)
	mock.AssertExpectationsForObjects(t, mockTransactionRepo)
}

// internal/api/handler/bank.go
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"corebank/internal/api/middleware"
	"corebank/internal/api/types"
	"corebank/internal/auth"
	"corebank/internal/domain"
	"corebank/internal/service"
	"corebank/internal/util"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// BankHandler handles account and money-movement requests.
type BankHandler struct {
	accounts service.AccountService
	bank     service.BankService
	ledger   service.LedgerService
	logger   *slog.Logger
}

// NewBankHandler creates a new BankHandler.
func NewBankHandler(accounts service.AccountService, bank service.BankService, ledger service.LedgerService, logger *slog.Logger) *BankHandler {
	return &BankHandler{accounts: accounts, bank: bank, ledger: ledger, logger: logger}
}

// callerIdentity extracts the verified identity placed by the auth middleware.
func callerIdentity(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (auth.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithJSON(w, logger, http.StatusUnauthorized, types.Response{Success: false, Message: "Unauthorized"})
		return auth.Identity{}, false
	}
	return identity, true
}

// AmountRequest represents the request body for deposit and withdraw.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TransferRequest represents the request body for transfer.
type TransferRequest struct {
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
}

// movementPayload carries the updated account and the ledger entry produced
// by a money movement.
type movementPayload struct {
	Account     *domain.Account     `json:"account"`
	Transaction *domain.Transaction `json:"transaction"`
}

// CreateAccount opens the caller's bank account.
// POST /api/bank/create
func (h *BankHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r, h.logger)
	if !ok {
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), caller)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, types.Response{
		Success: true,
		Message: "Account created",
		Data:    account,
	})
}

// GetAccount returns the caller's account.
// GET /api/bank/me
func (h *BankHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r, h.logger)
	if !ok {
		return
	}

	account, err := h.accounts.GetAccountByUser(r.Context(), caller)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.Response{
		Success: true,
		Message: "Account fetched",
		Data:    account,
	})
}

// Deposit adds money to the caller's account.
// POST /api/transactions/deposit
func (h *BankHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r, h.logger)
	if !ok {
		return
	}

	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	account, transaction, err := h.bank.Deposit(r.Context(), caller, req.Amount)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.Response{
		Success: true,
		Message: fmt.Sprintf("Deposited %s", req.Amount.String()),
		Data:    movementPayload{Account: account, Transaction: transaction},
	})
}

// Withdraw removes money from the caller's account.
// POST /api/transactions/withdraw
func (h *BankHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r, h.logger)
	if !ok {
		return
	}

	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	account, transaction, err := h.bank.Withdraw(r.Context(), caller, req.Amount)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.Response{
		Success: true,
		Message: fmt.Sprintf("Withdrew %s", req.Amount.String()),
		Data:    movementPayload{Account: account, Transaction: transaction},
	})
}

// Transfer moves money from the caller's account to another account.
// POST /api/transactions/transfer
func (h *BankHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r, h.logger)
	if !ok {
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.AccountNumber == "" {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	account, transaction, err := h.bank.Transfer(r.Context(), caller, req.AccountNumber, req.Amount, req.Description)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.Response{
		Success: true,
		Message: "Transfer successful",
		Data:    movementPayload{Account: account, Transaction: transaction},
	})
}

// History returns the caller's transaction history, most recent first.
// GET /api/transactions/history?limit=&offset=
func (h *BankHandler) History(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r, h.logger)
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > maxHistoryLimit {
			respondWithError(w, h.logger, util.ErrInvalidInput)
			return
		}
		limit = parsed
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respondWithError(w, h.logger, util.ErrInvalidInput)
			return
		}
		offset = parsed
	}

	transactions, totalCount, err := h.ledger.History(r.Context(), caller, limit, offset)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.Response{
		Success: true,
		Message: "Transactions fetched",
		Data: types.PaginatedResponse[domain.Transaction]{
			Data:       transactions,
			Limit:      limit,
			Offset:     offset,
			TotalCount: totalCount,
		},
	})
}

// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"corebank/internal/api/types"
	"corebank/internal/util"
)

// DefaultTimeout bounds request handling at the router level.
const DefaultTimeout = 60 * time.Second

// respondWithJSON writes payload as JSON with the given status code.
func respondWithJSON(w http.ResponseWriter, logger *slog.Logger, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps a service error to a status code and a stable
// message. Storage failures are logged in full and surfaced generically.
func respondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidAmount),
		util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrSameAccountTransfer):
		statusCode = http.StatusBadRequest
		message = "Cannot transfer to the same account"
	case util.IsError(err, util.ErrInvalidTransaction):
		statusCode = http.StatusBadRequest
		message = "Invalid transaction"
	case util.IsError(err, util.ErrNotFound),
		util.IsError(err, util.ErrUserNotFound),
		util.IsError(err, util.ErrAccountNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrAlreadyExists):
		statusCode = http.StatusConflict
		message = "Resource already exists"
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired
		message = "Insufficient funds"
	case util.IsError(err, util.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		message = "Invalid credentials"
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(w, logger, statusCode, types.Response{Success: false, Message: message})
}

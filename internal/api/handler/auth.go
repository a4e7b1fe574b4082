// internal/api/handler/auth.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"corebank/internal/api/types"
	"corebank/internal/domain"
	"corebank/internal/service"
	"corebank/internal/util"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authPayload is the response payload for both auth endpoints.
type authPayload struct {
	User    *domain.User    `json:"user"`
	Account *domain.Account `json:"account,omitempty"`
	Token   string          `json:"token"`
}

// Register handles user registration.
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	user, account, token, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, types.Response{
		Success: true,
		Message: "User registered successfully",
		Data:    authPayload{User: user, Account: account, Token: token},
	})
}

// Login handles user login.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.Response{
		Success: true,
		Message: "Login successful",
		Data:    authPayload{User: user, Token: token},
	})
}

// internal/api/handler/card.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"corebank/internal/api/types"
	"corebank/internal/service"
	"corebank/internal/util"
)

// CardHandler handles virtual card requests.
type CardHandler struct {
	service service.CardService
	logger  *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(svc service.CardService, logger *slog.Logger) *CardHandler {
	return &CardHandler{service: svc, logger: logger}
}

// IssueCardRequest represents the request body for card issuance.
type IssueCardRequest struct {
	HolderName string `json:"holder_name"`
}

// IssueCard issues the caller's virtual card.
// POST /api/cards
func (h *CardHandler) IssueCard(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r, h.logger)
	if !ok {
		return
	}

	var req IssueCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	card, err := h.service.IssueCard(r.Context(), caller, req.HolderName)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, types.Response{
		Success: true,
		Message: "Card issued",
		Data:    card,
	})
}

// GetCards returns the caller's cards with up-to-date status.
// GET /api/cards
func (h *CardHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r, h.logger)
	if !ok {
		return
	}

	cards, err := h.service.GetCards(r.Context(), caller)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.Response{
		Success: true,
		Message: "Cards fetched",
		Data:    cards,
	})
}

// internal/repository/card_repo.go
package repository

import (
	"context"
	"time"

	"corebank/internal/domain"
)

// CardRepository defines the interface for card data operations.
type CardRepository interface {
	// CreateCard adds a new card using the provided DBExecutor.
	CreateCard(ctx context.Context, q DBExecutor, card *domain.Card) error
	// GetCardsByUserID retrieves all cards owned by a user.
	GetCardsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Card, error)
	// UpdateCardStatus persists a status transition for one card.
	UpdateCardStatus(ctx context.Context, q DBExecutor, cardID int64, status domain.CardStatus) error
	// ActivateIssuedBefore promotes every pending card issued at or before
	// cutoff to active and returns how many rows changed.
	ActivateIssuedBefore(ctx context.Context, q DBExecutor, cutoff time.Time) (int64, error)
}

// internal/repository/postgres/card_pg.go
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"corebank/internal/domain"
	"corebank/internal/repository"
	"corebank/internal/util"
)

// CardRepository implements repository.CardRepository for PostgreSQL.
type CardRepository struct{}

// NewCardRepository creates a new CardRepository.
func NewCardRepository() repository.CardRepository {
	return &CardRepository{}
}

// CreateCard inserts a new card. A second card for the same user maps to
// ErrAlreadyExists; a collision on the generated card number maps to
// ErrDuplicateNumber so callers can regenerate and retry.
func (r *CardRepository) CreateCard(ctx context.Context, q repository.DBExecutor, card *domain.Card) error {
	query := `INSERT INTO cards (user_id, card_number, card_holder, expiry, type, status, issued_at, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		card.UserID,
		card.CardNumber,
		card.CardHolder,
		card.Expiry,
		card.Type,
		card.Status,
		card.IssuedAt,
		card.CreatedAt,
	).Scan(&card.ID)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if strings.Contains(constraint, "card_number") {
				return util.ErrDuplicateNumber
			}
			return util.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// GetCardsByUserID retrieves all cards owned by a user, oldest first.
func (r *CardRepository) GetCardsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Card, error) {
	cards := []domain.Card{}
	query := `SELECT id, user_id, card_number, card_holder, expiry, type, status, issued_at, created_at
              FROM cards WHERE user_id = $1 ORDER BY issued_at ASC`
	if err := q.SelectContext(ctx, &cards, query, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch cards for user %d: %w", userID, err)
	}
	return cards, nil
}

// UpdateCardStatus persists a status transition for one card.
func (r *CardRepository) UpdateCardStatus(ctx context.Context, q repository.DBExecutor, cardID int64, status domain.CardStatus) error {
	query := `UPDATE cards SET status = $1 WHERE id = $2`
	result, err := q.ExecContext(ctx, query, status, cardID)
	if err != nil {
		return fmt.Errorf("failed to update status of card %d: %w", cardID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for card %d: %w", cardID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// ActivateIssuedBefore promotes every pending card issued at or before cutoff.
// Used by the periodic sweep; the read path activates lazily card by card.
func (r *CardRepository) ActivateIssuedBefore(ctx context.Context, q repository.DBExecutor, cutoff time.Time) (int64, error) {
	query := `UPDATE cards SET status = $1 WHERE status = $2 AND issued_at <= $3`
	result, err := q.ExecContext(ctx, query, domain.CardStatusActive, domain.CardStatusPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to activate due cards: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected activating cards: %w", err)
	}
	return rowsAffected, nil
}

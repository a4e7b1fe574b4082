// internal/domain/card.go
package domain

import "time"

// CardStatus defines the lifecycle state of a virtual card.
type CardStatus string

const (
	CardStatusPending CardStatus = "pending"
	CardStatusActive  CardStatus = "active"
)

// CardActivationDelay is how long a card stays pending after issuance.
const CardActivationDelay = 24 * time.Hour

// CardExpiryYears is added to the issuance date to form the expiry.
const CardExpiryYears = 2

// DefaultCardScheme is the fixed scheme identifier for issued cards.
const DefaultCardScheme = "RuPay"

// Card is a virtual debit card. One card per user; the status moves
// pending -> active once the activation delay has elapsed and never reverts.
type Card struct {
	ID         int64      `db:"id" json:"id"`
	UserID     int64      `db:"user_id" json:"user_id"`
	CardNumber string     `db:"card_number" json:"card_number"`
	CardHolder string     `db:"card_holder" json:"card_holder"`
	Expiry     string     `db:"expiry" json:"expiry"`
	Type       string     `db:"type" json:"type"`
	Status     CardStatus `db:"status" json:"status"`
	IssuedAt   time.Time  `db:"issued_at" json:"issued_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// NewCard creates a pending Card issued now.
func NewCard(userID int64, cardNumber, cardHolder, expiry string) *Card {
	now := time.Now().UTC()
	return &Card{
		UserID:     userID,
		CardNumber: cardNumber,
		CardHolder: cardHolder,
		Expiry:     expiry,
		Type:       DefaultCardScheme,
		Status:     CardStatusPending,
		IssuedAt:   now,
		CreatedAt:  now,
	}
}

// ComputeCardStatus returns the status a card issued at issuedAt should have
// at the given instant. The single source of truth for the activation delay.
func ComputeCardStatus(issuedAt, now time.Time) CardStatus {
	if now.Sub(issuedAt) >= CardActivationDelay {
		return CardStatusActive
	}
	return CardStatusPending
}

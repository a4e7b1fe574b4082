// internal/service/card_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"corebank/internal/auth"
	"corebank/internal/domain"
	"corebank/internal/repository"
	"corebank/internal/util"
	"corebank/pkg/db"
)

// CardService manages virtual card issuance and the pending -> active
// lifecycle. Activation happens lazily on read and via the periodic sweep;
// both derive the status from domain.ComputeCardStatus.
type CardService interface {
	// IssueCard creates the caller's single card. A second application while
	// one exists fails with ErrAlreadyExists.
	IssueCard(ctx context.Context, caller auth.Identity, holderName string) (*domain.Card, error)
	// GetCards returns the caller's cards, persisting any due pending -> active
	// transition before returning.
	GetCards(ctx context.Context, caller auth.Identity) ([]domain.Card, error)
	// ActivateDueCards promotes every pending card past the activation delay
	// and returns how many were activated.
	ActivateDueCards(ctx context.Context) (int64, error)
}

type cardService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	cardRepo   repository.CardRepository
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewCardService creates a new instance of CardService.
func NewCardService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	cardRepo repository.CardRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) CardService {
	return &cardService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		cardRepo:   cardRepo,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

// newCardNumber draws 16 digits formatted in groups of four.
func newCardNumber() string {
	var b strings.Builder
	for group := 0; group < 4; group++ {
		if group > 0 {
			b.WriteByte('-')
		}
		for i := 0; i < 4; i++ {
			b.WriteByte(byte('0' + rand.Intn(10)))
		}
	}
	return b.String()
}

// newCardExpiry formats the issuance month/year plus the expiry horizon.
func newCardExpiry(issuedAt time.Time) string {
	return fmt.Sprintf("%02d/%d", int(issuedAt.Month()), issuedAt.Year()+domain.CardExpiryYears)
}

func (s *cardService) IssueCard(ctx context.Context, caller auth.Identity, holderName string) (*domain.Card, error) {
	if holderName == "" {
		return nil, util.ErrInvalidInput
	}
	userID := caller.UserID()

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("issue card: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("issue card: transaction controller does not implement DBExecutor")
	}

	existing, err := s.cardRepo.GetCardsByUserID(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("issue card: failed to check existing cards: %w", err)
	}
	if len(existing) > 0 {
		return nil, util.ErrAlreadyExists
	}

	expiry := newCardExpiry(time.Now().UTC())
	var card *domain.Card
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		card = domain.NewCard(userID, newCardNumber(), holderName, expiry)
		err = s.cardRepo.CreateCard(ctx, txExecutor, card)
		if err == nil {
			break
		}
		if errors.Is(err, util.ErrDuplicateNumber) {
			continue
		}
		if errors.Is(err, util.ErrAlreadyExists) {
			return nil, util.ErrAlreadyExists
		}
		return nil, fmt.Errorf("issue card for user %d: %w", userID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("issue card for user %d: %w", userID, util.ErrDuplicateNumber)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("issue card: failed to commit transaction: %w", err)
	}
	return card, nil
}

func (s *cardService) GetCards(ctx context.Context, caller auth.Identity) ([]domain.Card, error) {
	cards, err := s.cardRepo.GetCardsByUserID(ctx, s.dbExecutor, caller.UserID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for i := range cards {
		if cards[i].Status != domain.CardStatusPending {
			continue
		}
		if domain.ComputeCardStatus(cards[i].IssuedAt, now) != domain.CardStatusActive {
			continue
		}
		// Persist the lazy transition before returning it to the caller.
		if err := s.cardRepo.UpdateCardStatus(ctx, s.dbExecutor, cards[i].ID, domain.CardStatusActive); err != nil {
			return nil, fmt.Errorf("get cards: failed to activate card %d: %w", cards[i].ID, err)
		}
		cards[i].Status = domain.CardStatusActive
	}
	return cards, nil
}

func (s *cardService) ActivateDueCards(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-domain.CardActivationDelay)
	activated, err := s.cardRepo.ActivateIssuedBefore(ctx, s.dbExecutor, cutoff)
	if err != nil {
		return 0, err
	}
	return activated, nil
}

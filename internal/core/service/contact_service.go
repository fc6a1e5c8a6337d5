package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/uventlo/event-platform/internal/core/domain"
	"github.com/uventlo/event-platform/internal/core/ports"
)

// ContactService manages the mutual contact links between accounts.
type ContactService struct {
	contacts ports.ContactRepository
	accounts ports.AccountRepository
	log      zerolog.Logger
}

func NewContactService(contacts ports.ContactRepository, accounts ports.AccountRepository, log zerolog.Logger) *ContactService {
	return &ContactService{contacts: contacts, accounts: accounts, log: log}
}

// Add links both accounts to each other. The link is rejected when it
// already exists in the caller's direction.
func (s *ContactService) Add(ctx context.Context, accountID, contactID string) (*domain.Contact, error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByID(ctx, contactID); err != nil {
		return nil, err
	}

	if _, err := s.contacts.Find(ctx, accountID, contactID); err == nil {
		return nil, domain.ErrContactExists
	} else if !errors.Is(err, domain.ErrContactNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	link, err := s.contacts.Create(ctx, &domain.Contact{OwnerID: accountID, ContactID: contactID, CreatedAt: now})
	if err != nil {
		return nil, err
	}
	// Reverse direction: failure leaves a one-way link, which List tolerates.
	if _, err := s.contacts.Create(ctx, &domain.Contact{OwnerID: contactID, ContactID: accountID, CreatedAt: now}); err != nil {
		s.log.Warn().Err(err).Str("owner_id", contactID).Msg("reverse contact link failed")
	}

	s.log.Info().Str("owner_id", accountID).Str("contact_id", contactID).Msg("contact added")
	return link, nil
}

// List returns the account's contact links.
func (s *ContactService) List(ctx context.Context, accountID string) ([]*domain.Contact, error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.contacts.FindByOwner(ctx, accountID)
}

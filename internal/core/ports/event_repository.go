package ports

import (
	"context"

	"github.com/uventlo/event-platform/internal/core/domain"
)

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	FindAll(ctx context.Context) ([]*domain.Event, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error)
	// FindLatest returns the most recently created event.
	FindLatest(ctx context.Context) (*domain.Event, error)
	// CountByOwner returns how many events the owner has organized; used for
	// plan quota enforcement.
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	Update(ctx context.Context, id string, event *domain.Event) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
}

// ContactRepository defines persistence for contact links between accounts.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
	// Find returns the link owned by ownerID pointing at contactID, or
	// domain.ErrContactNotFound.
	Find(ctx context.Context, ownerID, contactID string) (*domain.Contact, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Contact, error)
}

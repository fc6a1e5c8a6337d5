package ports

import (
	"context"
	"time"

	"github.com/uventlo/event-platform/internal/core/domain"
)

// TaskInput is a single preparation task on an event payload.
type TaskInput struct {
	Title     string
	Tag       string
	Status    string
	StartedAt time.Time
}

// CreateEventInput carries all data needed to create an event. OwnerID comes
// from the authenticated caller, never from the payload.
type CreateEventInput struct {
	OwnerID     string
	Title       string
	Description string
	Location    string
	Date        time.Time
	Tasks       []TaskInput
}

// UpdateEventInput carries the optional fields applied to an existing event.
type UpdateEventInput struct {
	Title       *string
	Description *string
	Location    *string
	Date        *time.Time
	Tasks       []TaskInput
}

// AttendanceStats summarizes attendance on a single event.
type AttendanceStats struct {
	Total  int64
	ByType map[string]int64
}

// TaskReport summarizes the unfinished work on the most recent event.
type TaskReport struct {
	OverallAccomplishment float64
	RemainingTitles       []string
	RemainingTotal        int
	TagPercentages        map[string]float64
}

// EventService defines use-case operations for events and their statistics.
type EventService interface {
	Create(ctx context.Context, in CreateEventInput) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]*domain.Event, error)
	// ListByOwner returns the owner's events; the owner account must be active.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error)
	Update(ctx context.Context, id string, in UpdateEventInput) (*domain.Event, error)
	Delete(ctx context.Context, id string) error

	Attendance(ctx context.Context, eventID string) (*AttendanceStats, error)
	// NextEventDate returns the date of the earliest event after the given one.
	NextEventDate(ctx context.Context, eventID string) (time.Time, error)
	// LastEventTasks reports remaining work on the most recent event.
	LastEventTasks(ctx context.Context) (*TaskReport, error)
}

// ContactService manages mutual contact links between accounts.
type ContactService interface {
	// Add links both accounts to each other. Rejects duplicates.
	Add(ctx context.Context, accountID, contactID string) (*domain.Contact, error)
	List(ctx context.Context, accountID string) ([]*domain.Contact, error)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/uventlo/event-platform/internal/core/domain"
	"github.com/uventlo/event-platform/internal/core/ports"
)

// EventService implements event CRUD, plan quota enforcement, and the
// statistics endpoints.
type EventService struct {
	events   ports.EventRepository
	accounts ports.AccountRepository
	log      zerolog.Logger
}

func NewEventService(events ports.EventRepository, accounts ports.AccountRepository, log zerolog.Logger) *EventService {
	return &EventService{events: events, accounts: accounts, log: log}
}

// Create persists a new event after checking the owner's plan quota. The
// quota is a per-plan lookup, not a branch on the plan string.
func (s *EventService) Create(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error) {
	owner, err := s.accounts.FindByID(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}

	count, err := s.events.CountByOwner(ctx, in.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("create event: count owned: %w", err)
	}
	if count >= int64(owner.Plan.EventQuota()) {
		return nil, fmt.Errorf("%w: plan %s allows %d events", domain.ErrQuotaExceeded, owner.Plan, owner.Plan.EventQuota())
	}

	now := time.Now().UTC()
	event := &domain.Event{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		OwnerID:     in.OwnerID,
		Date:        in.Date,
		Tasks:       toTasks(in.Tasks),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.AppendOrganizedEvent(ctx, in.OwnerID, created.ID); err != nil {
		s.log.Warn().Err(err).Str("event_id", created.ID).Msg("append organized event failed")
	}

	s.log.Info().Str("event_id", created.ID).Str("owner_id", in.OwnerID).Msg("event created")
	return created, nil
}

func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.events.FindByID(ctx, id)
}

func (s *EventService) List(ctx context.Context) ([]*domain.Event, error) {
	return s.events.FindAll(ctx)
}

// ListByOwner returns the owner's events. The owner account must exist and
// be activated.
func (s *EventService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	owner, err := s.accounts.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !owner.IsActive {
		return nil, domain.ErrAccountInactive
	}
	return s.events.FindByOwner(ctx, ownerID)
}

func (s *EventService) Update(ctx context.Context, id string, in ports.UpdateEventInput) (*domain.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		event.Title = *in.Title
	}
	if in.Description != nil {
		event.Description = *in.Description
	}
	if in.Location != nil {
		event.Location = *in.Location
	}
	if in.Date != nil {
		event.Date = *in.Date
	}
	if in.Tasks != nil {
		event.Tasks = toTasks(in.Tasks)
	}
	event.UpdatedAt = time.Now().UTC()

	return s.events.Update(ctx, id, event)
}

func (s *EventService) Delete(ctx context.Context, id string) error {
	return s.events.Delete(ctx, id)
}

// Attendance summarizes the attendees of one event, total and by type.
func (s *EventService) Attendance(ctx context.Context, eventID string) (*ports.AttendanceStats, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	stats := &ports.AttendanceStats{
		Total:  int64(len(event.Attendees)),
		ByType: make(map[string]int64),
	}
	for _, a := range event.Attendees {
		stats.ByType[a.Type]++
	}
	return stats, nil
}

// NextEventDate returns the date of the earliest event scheduled after the
// given one.
func (s *EventService) NextEventDate(ctx context.Context, eventID string) (time.Time, error) {
	current, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return time.Time{}, err
	}

	all, err := s.events.FindAll(ctx)
	if err != nil {
		return time.Time{}, err
	}

	var next time.Time
	for _, e := range all {
		if !e.Date.After(current.Date) {
			continue
		}
		if next.IsZero() || e.Date.Before(next) {
			next = e.Date
		}
	}
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("next event: %w", domain.ErrEventNotFound)
	}
	return next, nil
}

// LastEventTasks reports remaining work on the most recently created event:
// unfinished task titles, their per-tag share, and the overall completion
// percentage.
func (s *EventService) LastEventTasks(ctx context.Context) (*ports.TaskReport, error) {
	last, err := s.events.FindLatest(ctx)
	if err != nil {
		return nil, err
	}

	remaining := last.RemainingTasks()
	report := &ports.TaskReport{
		OverallAccomplishment: last.Accomplishment(),
		RemainingTotal:        len(remaining),
		TagPercentages:        make(map[string]float64),
	}

	tagCounts := make(map[string]int)
	for _, t := range remaining {
		report.RemainingTitles = append(report.RemainingTitles, t.Title)
		tagCounts[t.Tag]++
	}
	for tag, n := range tagCounts {
		report.TagPercentages[tag] = float64(n) / float64(len(remaining)) * 100
	}
	return report, nil
}

func toTasks(in []ports.TaskInput) []domain.Task {
	if len(in) == 0 {
		return nil
	}
	tasks := make([]domain.Task, 0, len(in))
	for _, t := range in {
		status := domain.TaskStatus(t.Status)
		if status == "" {
			status = domain.TaskPending
		}
		tasks = append(tasks, domain.Task{
			Title:     t.Title,
			Tag:       t.Tag,
			Status:    status,
			StartedAt: t.StartedAt,
		})
	}
	return tasks
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/uventlo/event-platform/internal/core/domain"
	"github.com/uventlo/event-platform/internal/core/ports"
)

type stubEventRepo struct {
	events map[string]*domain.Event
	nextID int
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{events: make(map[string]*domain.Event)}
}

func (r *stubEventRepo) Create(_ context.Context, event *domain.Event) (*domain.Event, error) {
	r.nextID++
	copy := *event
	copy.ID = fmt.Sprintf("evt_%d", r.nextID)
	r.events[copy.ID] = &copy
	stored := copy
	return &stored, nil
}

func (r *stubEventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	if e, ok := r.events[id]; ok {
		copy := *e
		return &copy, nil
	}
	return nil, domain.ErrEventNotFound
}

func (r *stubEventRepo) FindAll(_ context.Context) ([]*domain.Event, error) {
	out := make([]*domain.Event, 0, len(r.events))
	for _, e := range r.events {
		copy := *e
		out = append(out, &copy)
	}
	return out, nil
}

func (r *stubEventRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range r.events {
		if e.OwnerID == ownerID {
			copy := *e
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *stubEventRepo) FindLatest(_ context.Context) (*domain.Event, error) {
	var latest *domain.Event
	for _, e := range r.events {
		if latest == nil || e.CreatedAt.After(latest.CreatedAt) {
			latest = e
		}
	}
	if latest == nil {
		return nil, domain.ErrEventNotFound
	}
	copy := *latest
	return &copy, nil
}

func (r *stubEventRepo) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for _, e := range r.events {
		if e.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *stubEventRepo) Update(_ context.Context, id string, event *domain.Event) (*domain.Event, error) {
	if _, ok := r.events[id]; !ok {
		return nil, domain.ErrEventNotFound
	}
	copy := *event
	copy.ID = id
	r.events[id] = &copy
	stored := copy
	return &stored, nil
}

func (r *stubEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func seedAccount(repo *stubAccountRepo, plan domain.Plan, active bool) *domain.Account {
	acct, _ := repo.Create(context.Background(), &domain.Account{
		Name:     "Ana",
		Email:    fmt.Sprintf("owner-%d@x.com", repo.nextID+1),
		Role:     domain.RoleUser,
		Plan:     plan,
		IsActive: active,
	})
	return acct
}

func TestEventCreate_WithinQuota(t *testing.T) {
	accounts := newStubAccountRepo()
	events := newStubEventRepo()
	svc := NewEventService(events, accounts, zerolog.Nop())
	owner := seedAccount(accounts, domain.PlanStandard, true)

	created, err := svc.Create(context.Background(), ports.CreateEventInput{
		OwnerID: owner.ID,
		Title:   "Launch party",
		Date:    time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" || created.OwnerID != owner.ID {
		t.Fatalf("unexpected event: %+v", created)
	}
	if got := accounts.raw(owner.ID).OrganizedEvents; len(got) != 1 || got[0] != created.ID {
		t.Fatalf("organized events not updated: %v", got)
	}
}

func TestEventCreate_QuotaExceeded(t *testing.T) {
	accounts := newStubAccountRepo()
	events := newStubEventRepo()
	svc := NewEventService(events, accounts, zerolog.Nop())
	owner := seedAccount(accounts, domain.PlanFree, true)

	if _, err := svc.Create(context.Background(), ports.CreateEventInput{OwnerID: owner.ID, Title: "First"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(context.Background(), ports.CreateEventInput{OwnerID: owner.ID, Title: "Second"})
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestEventCreate_QuotaPerPlan(t *testing.T) {
	cases := []struct {
		plan  domain.Plan
		quota int
	}{
		{domain.PlanFree, 1},
		{domain.PlanStandard, 4},
		{domain.PlanVIP, 12},
	}

	for _, tc := range cases {
		accounts := newStubAccountRepo()
		events := newStubEventRepo()
		svc := NewEventService(events, accounts, zerolog.Nop())
		owner := seedAccount(accounts, tc.plan, true)

		for i := 0; i < tc.quota; i++ {
			if _, err := svc.Create(context.Background(), ports.CreateEventInput{OwnerID: owner.ID, Title: "E"}); err != nil {
				t.Fatalf("plan %s: create %d failed: %v", tc.plan, i+1, err)
			}
		}
		if _, err := svc.Create(context.Background(), ports.CreateEventInput{OwnerID: owner.ID, Title: "E"}); !errors.Is(err, domain.ErrQuotaExceeded) {
			t.Fatalf("plan %s: expected ErrQuotaExceeded after %d events, got %v", tc.plan, tc.quota, err)
		}
	}
}

func TestEventListByOwner_InactiveAccount(t *testing.T) {
	accounts := newStubAccountRepo()
	events := newStubEventRepo()
	svc := NewEventService(events, accounts, zerolog.Nop())
	owner := seedAccount(accounts, domain.PlanFree, false)

	_, err := svc.ListByOwner(context.Background(), owner.ID)
	if !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestEventAttendance(t *testing.T) {
	accounts := newStubAccountRepo()
	events := newStubEventRepo()
	svc := NewEventService(events, accounts, zerolog.Nop())

	created, _ := events.Create(context.Background(), &domain.Event{
		Title: "Meetup",
		Attendees: []domain.Attendee{
			{AccountID: "a", Type: "vip"},
			{AccountID: "b", Type: "regular"},
			{AccountID: "c", Type: "regular"},
		},
	})

	stats, err := svc.Attendance(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("attendance failed: %v", err)
	}
	if stats.Total != 3 || stats.ByType["regular"] != 2 || stats.ByType["vip"] != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestNextEventDate(t *testing.T) {
	accounts := newStubAccountRepo()
	events := newStubEventRepo()
	svc := NewEventService(events, accounts, zerolog.Nop())

	base := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	first, _ := events.Create(context.Background(), &domain.Event{Title: "First", Date: base})
	_, _ = events.Create(context.Background(), &domain.Event{Title: "Later", Date: base.AddDate(0, 0, 10)})
	_, _ = events.Create(context.Background(), &domain.Event{Title: "Sooner", Date: base.AddDate(0, 0, 3)})

	next, err := svc.NextEventDate(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("next date failed: %v", err)
	}
	if !next.Equal(base.AddDate(0, 0, 3)) {
		t.Fatalf("expected the closest later date, got %v", next)
	}
}

func TestNextEventDate_NoneUpcoming(t *testing.T) {
	accounts := newStubAccountRepo()
	events := newStubEventRepo()
	svc := NewEventService(events, accounts, zerolog.Nop())

	only, _ := events.Create(context.Background(), &domain.Event{Title: "Only", Date: time.Now()})

	if _, err := svc.NextEventDate(context.Background(), only.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestLastEventTasks(t *testing.T) {
	accounts := newStubAccountRepo()
	events := newStubEventRepo()
	svc := NewEventService(events, accounts, zerolog.Nop())

	_, _ = events.Create(context.Background(), &domain.Event{
		Title:     "Gala",
		CreatedAt: time.Now().UTC(),
		Tasks: []domain.Task{
			{Title: "Book venue", Tag: "logistics", Status: domain.TaskCompleted},
			{Title: "Send invites", Tag: "comms", Status: domain.TaskPending},
			{Title: "Order catering", Tag: "logistics", Status: domain.TaskInProgress},
			{Title: "Print badges", Tag: "logistics", Status: domain.TaskPending},
		},
	})

	report, err := svc.LastEventTasks(context.Background())
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if report.RemainingTotal != 3 {
		t.Fatalf("expected 3 remaining tasks, got %d", report.RemainingTotal)
	}
	if report.OverallAccomplishment != 25 {
		t.Fatalf("expected 25%% accomplishment, got %v", report.OverallAccomplishment)
	}
	if report.TagPercentages["comms"] < 33 || report.TagPercentages["comms"] > 34 {
		t.Fatalf("unexpected comms share: %v", report.TagPercentages["comms"])
	}
	if len(report.RemainingTitles) != 3 {
		t.Fatalf("unexpected titles: %v", report.RemainingTitles)
	}
}

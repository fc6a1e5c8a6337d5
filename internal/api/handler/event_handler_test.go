package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/uventlo/event-platform/internal/core/domain"
	"github.com/uventlo/event-platform/internal/core/ports"
)

type stubEventService struct {
	createFn      func(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error)
	getFn         func(ctx context.Context, id string) (*domain.Event, error)
	listFn        func(ctx context.Context) ([]*domain.Event, error)
	listByOwnerFn func(ctx context.Context, ownerID string) ([]*domain.Event, error)
	updateFn      func(ctx context.Context, id string, in ports.UpdateEventInput) (*domain.Event, error)
	deleteFn      func(ctx context.Context, id string) error
	attendanceFn  func(ctx context.Context, eventID string) (*ports.AttendanceStats, error)
	nextDateFn    func(ctx context.Context, eventID string) (time.Time, error)
	lastTasksFn   func(ctx context.Context) (*ports.TaskReport, error)
}

func (s *stubEventService) Create(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error) {
	return s.createFn(ctx, in)
}

func (s *stubEventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.getFn(ctx, id)
}

func (s *stubEventService) List(ctx context.Context) ([]*domain.Event, error) {
	return s.listFn(ctx)
}

func (s *stubEventService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	return s.listByOwnerFn(ctx, ownerID)
}

func (s *stubEventService) Update(ctx context.Context, id string, in ports.UpdateEventInput) (*domain.Event, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubEventService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubEventService) Attendance(ctx context.Context, eventID string) (*ports.AttendanceStats, error) {
	return s.attendanceFn(ctx, eventID)
}

func (s *stubEventService) NextEventDate(ctx context.Context, eventID string) (time.Time, error) {
	return s.nextDateFn(ctx, eventID)
}

func (s *stubEventService) LastEventTasks(ctx context.Context) (*ports.TaskReport, error) {
	return s.lastTasksFn(ctx)
}

func TestEventHandler_Create_OwnerFromClaims(t *testing.T) {
	e := newEcho()
	stub := &stubEventService{
		createFn: func(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error) {
			if in.OwnerID != "acc_1" {
				t.Fatalf("owner must come from claims, got %q", in.OwnerID)
			}
			if len(in.Tasks) != 1 || in.Tasks[0].Title != "book venue" {
				t.Fatalf("tasks not forwarded: %+v", in.Tasks)
			}
			return &domain.Event{ID: "evt_1", Title: in.Title, OwnerID: in.OwnerID, Date: in.Date}, nil
		},
	}
	handler := NewEventHandler(stub)

	body := `{"title":"Launch party","date":"2026-10-01T18:00:00Z","tasks":[{"title":"book venue","tag":"logistics"}]}`
	req := jsonRequest(http.MethodPost, "/v1/events", body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "acc_1")
	c.Set("role", domain.RoleUser)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["ownerId"] != "acc_1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestEventHandler_Create_QuotaExceededPropagates(t *testing.T) {
	e := newEcho()
	stub := &stubEventService{
		createFn: func(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error) {
			return nil, domain.ErrQuotaExceeded
		},
	}
	handler := NewEventHandler(stub)

	req := jsonRequest(http.MethodPost, "/v1/events", `{"title":"One too many","date":"2026-10-01T18:00:00Z"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "acc_1")
	c.Set("role", domain.RoleUser)

	if err := handler.Create(c); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestEventHandler_Create_MissingClaims(t *testing.T) {
	e := newEcho()
	stub := &stubEventService{
		createFn: func(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewEventHandler(stub)

	req := jsonRequest(http.MethodPost, "/v1/events", `{"title":"x","date":"2026-10-01T18:00:00Z"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 http error, got %v", err)
	}
}

func TestEventHandler_Update_NonOwnerForbidden(t *testing.T) {
	e := newEcho()
	stub := &stubEventService{
		getFn: func(ctx context.Context, id string) (*domain.Event, error) {
			return &domain.Event{ID: id, OwnerID: "acc_9"}, nil
		},
		updateFn: func(ctx context.Context, id string, in ports.UpdateEventInput) (*domain.Event, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewEventHandler(stub)

	req := jsonRequest(http.MethodPut, "/v1/events/evt_1", `{"title":"hijack"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("evt_1")
	c.Set("user_id", "acc_1")
	c.Set("role", domain.RoleUser)

	err := handler.Update(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 http error, got %v", err)
	}
}

func TestEventHandler_Delete_AdminBypassesOwnership(t *testing.T) {
	e := newEcho()
	deleted := false
	stub := &stubEventService{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	handler := NewEventHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/v1/events/evt_1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("evt_1")
	c.Set("user_id", "admin_1")
	c.Set("role", domain.RoleAdmin)

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !deleted {
		t.Fatalf("delete not forwarded to service")
	}
}

func TestEventHandler_Attendance(t *testing.T) {
	e := newEcho()
	stub := &stubEventService{
		attendanceFn: func(ctx context.Context, eventID string) (*ports.AttendanceStats, error) {
			return &ports.AttendanceStats{Total: 3, ByType: map[string]int64{"vip": 1, "general": 2}}, nil
		},
	}
	handler := NewEventHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/events/statistics/attendance/evt_1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("evt_1")

	if err := handler.Attendance(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(3) || resp["eventId"] != "evt_1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestEventHandler_LastEventTasks(t *testing.T) {
	e := newEcho()
	stub := &stubEventService{
		lastTasksFn: func(ctx context.Context) (*ports.TaskReport, error) {
			return &ports.TaskReport{
				OverallAccomplishment: 25,
				RemainingTitles:       []string{"send invites", "order catering", "print badges"},
				RemainingTotal:        3,
				TagPercentages:        map[string]float64{"comms": 33.33},
			}, nil
		},
	}
	handler := NewEventHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/events/statistics/tasks", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.LastEventTasks(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["remainingTotal"] != float64(3) || resp["accomplishment"] != float64(25) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

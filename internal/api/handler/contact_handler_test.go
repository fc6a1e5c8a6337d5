package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/uventlo/event-platform/internal/core/domain"
)

type stubContactService struct {
	addFn  func(ctx context.Context, accountID, contactID string) (*domain.Contact, error)
	listFn func(ctx context.Context, accountID string) ([]*domain.Contact, error)
}

func (s *stubContactService) Add(ctx context.Context, accountID, contactID string) (*domain.Contact, error) {
	return s.addFn(ctx, accountID, contactID)
}

func (s *stubContactService) List(ctx context.Context, accountID string) ([]*domain.Contact, error) {
	return s.listFn(ctx, accountID)
}

func TestContactHandler_Add_Success(t *testing.T) {
	e := newEcho()
	stub := &stubContactService{
		addFn: func(ctx context.Context, accountID, contactID string) (*domain.Contact, error) {
			if accountID != "acc_1" || contactID != "acc_2" {
				t.Fatalf("unexpected args: %s %s", accountID, contactID)
			}
			return &domain.Contact{OwnerID: accountID, ContactID: contactID}, nil
		},
	}
	handler := NewContactHandler(stub)

	req := jsonRequest(http.MethodPost, "/v1/users/acc_1/contacts", `{"contactId":"acc_2"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("acc_1")
	c.Set("user_id", "acc_1")
	c.Set("role", domain.RoleUser)

	if err := handler.Add(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestContactHandler_Add_DuplicatePropagates(t *testing.T) {
	e := newEcho()
	stub := &stubContactService{
		addFn: func(ctx context.Context, accountID, contactID string) (*domain.Contact, error) {
			return nil, domain.ErrContactExists
		},
	}
	handler := NewContactHandler(stub)

	req := jsonRequest(http.MethodPost, "/v1/users/acc_1/contacts", `{"contactId":"acc_2"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("acc_1")
	c.Set("user_id", "acc_1")
	c.Set("role", domain.RoleUser)

	if err := handler.Add(c); !errors.Is(err, domain.ErrContactExists) {
		t.Fatalf("expected ErrContactExists, got %v", err)
	}
}

func TestContactHandler_Add_OtherAccountForbidden(t *testing.T) {
	e := newEcho()
	stub := &stubContactService{
		addFn: func(ctx context.Context, accountID, contactID string) (*domain.Contact, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewContactHandler(stub)

	req := jsonRequest(http.MethodPost, "/v1/users/acc_9/contacts", `{"contactId":"acc_2"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("acc_9")
	c.Set("user_id", "acc_1")
	c.Set("role", domain.RoleUser)

	err := handler.Add(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 http error, got %v", err)
	}
}

func TestContactHandler_List(t *testing.T) {
	e := newEcho()
	stub := &stubContactService{
		listFn: func(ctx context.Context, accountID string) ([]*domain.Contact, error) {
			return []*domain.Contact{
				{OwnerID: accountID, ContactID: "acc_2"},
				{OwnerID: accountID, ContactID: "acc_3"},
			}, nil
		},
	}
	handler := NewContactHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/acc_1/contacts", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("acc_1")
	c.Set("user_id", "acc_1")
	c.Set("role", domain.RoleUser)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

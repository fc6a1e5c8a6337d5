package handler

import (
	"errors"

	"github.com/uventlo/event-platform/internal/core/domain"
	"github.com/uventlo/event-platform/internal/core/ports"
)

// toUpdateInput maps the HTTP request to the service DTO.
func toUpdateInput(accountID string, req updateAccountRequest) ports.UpdateAccountInput {
	in := ports.UpdateAccountInput{
		AccountID:         accountID,
		CurrentPassword:   req.CurrentPassword,
		Name:              req.Name,
		Email:             req.Email,
		NewPassword:       req.NewPassword,
		ProfilePictureURL: req.ProfilePictureURL,
	}
	if req.Plan != nil {
		plan := domain.Plan(*req.Plan)
		in.Plan = &plan
	}
	return in
}

// Metric label values for failed lifecycle operations. Unknown errors fall
// into the "error" bucket so counter cardinality stays bounded.

func registerOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountExists),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrWeakPassword):
		return "rejected"
	default:
		return "error"
	}
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountLocked):
		return "locked"
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive"
	default:
		return "error"
	}
}

func activateOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCode):
		return "invalid_code"
	default:
		return "error"
	}
}

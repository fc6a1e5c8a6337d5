package handler

import (
	"time"

	"github.com/uventlo/event-platform/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email      string `json:"email"    validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type activateRequest struct {
	Code   string `json:"code"`
	Resend bool   `json:"resend"`
}

type deactivateRequest struct {
	Password string `json:"password" validate:"required"`
}

type updateAccountRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`

	Name              *string `json:"name"`
	Email             *string `json:"email" validate:"omitempty,email"`
	NewPassword       *string `json:"newPassword"`
	Plan              *string `json:"plan"`
	ProfilePictureURL *string `json:"profilePictureUrl"`
}

type resetRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required"`
}

type resetConfirmRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	OTP         string `json:"otp"         validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type addContactRequest struct {
	ContactID string `json:"contactId" validate:"required"`
}

type accountResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	Plan              string    `json:"plan"`
	IsActive          bool      `json:"isActive"`
	ProfilePictureURL string    `json:"profilePictureUrl,omitempty"`
	OrganizedEvents   []string  `json:"organizedEvents,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

type registerResponse struct {
	Message string          `json:"message"`
	User    accountResponse `json:"user"`
	Token   string          `json:"token"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type contactResponse struct {
	OwnerID   string    `json:"ownerId"`
	ContactID string    `json:"contactId"`
	CreatedAt time.Time `json:"createdAt"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:                a.ID,
		Name:              a.Name,
		Email:             a.Email,
		Role:              a.Role,
		Plan:              string(a.Plan),
		IsActive:          a.IsActive,
		ProfilePictureURL: a.ProfilePictureURL,
		OrganizedEvents:   a.OrganizedEvents,
		CreatedAt:         a.CreatedAt,
	}
}

func toContactResponse(ct *domain.Contact) contactResponse {
	return contactResponse{
		OwnerID:   ct.OwnerID,
		ContactID: ct.ContactID,
		CreatedAt: ct.CreatedAt,
	}
}

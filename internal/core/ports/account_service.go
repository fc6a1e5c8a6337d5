package ports

import (
	"context"
	"time"

	"github.com/uventlo/event-platform/internal/core/domain"
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterResult is returned on successful registration. The token is issued
// immediately even though the account still awaits activation.
type RegisterResult struct {
	Account *domain.Account
	Token   string
}

// LoginInput carries login credentials. RememberMe extends the session token
// lifetime from one day to thirty.
type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
}

// LoginResult is returned on successful authentication. TokenTTL mirrors the
// token expiry so the transport layer can size the session cookie.
type LoginResult struct {
	Token    string
	TokenTTL time.Duration
}

// ActivateInput carries an activation request. When Resend is set the stored
// code is re-sent and no state changes.
type ActivateInput struct {
	AccountID string
	Code      string
	Resend    bool
}

// UpdateAccountInput carries a password-gated profile update. CurrentPassword
// must match the stored hash before any field is applied.
type UpdateAccountInput struct {
	AccountID       string
	CurrentPassword string

	Name              *string
	Email             *string
	NewPassword       *string
	Plan              *domain.Plan
	ProfilePictureURL *string
}

// AccountService owns the account lifecycle state machine.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	Activate(ctx context.Context, in ActivateInput) error
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)

	RequestPasswordReset(ctx context.Context, email string) error
	VerifyPasswordResetOTP(ctx context.Context, email, otp string) error
	ConfirmPasswordReset(ctx context.Context, email, otp, newPassword string) error

	Deactivate(ctx context.Context, accountID, password string) error
	Update(ctx context.Context, in UpdateAccountInput) (*domain.Account, error)

	Get(ctx context.Context, accountID string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	Delete(ctx context.Context, accountID string) error
}

package ports

import (
	"context"
	"time"

	"github.com/uventlo/event-platform/internal/core/domain"
)

// AccountUpdate carries the optional profile fields applied by UpdateFields.
// Nil pointers leave the stored value untouched.
type AccountUpdate struct {
	Name              *string
	Email             *string
	PasswordHash      *string
	Plan              *domain.Plan
	ProfilePictureURL *string
}

// AccountRepository defines persistence for accounts. Counter and one-time
// code mutations are separate operations so the store can implement them as
// atomic field updates rather than read-modify-write document saves.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindAll(ctx context.Context) ([]*domain.Account, error)
	Delete(ctx context.Context, id string) error

	// UpdateFields applies the non-nil fields and returns the updated account.
	UpdateFields(ctx context.Context, id string, update AccountUpdate) (*domain.Account, error)

	// RecordLoginFailure atomically increments the attempt counter and stamps
	// the failure time.
	RecordLoginFailure(ctx context.Context, id string, at time.Time) error
	// ClearLoginFailures resets the attempt counter and failure timestamp.
	ClearLoginFailures(ctx context.Context, id string) error

	// Activate flips is_active to true and clears the activation code, but
	// only when the stored code equals code (compare-and-clear). Returns
	// domain.ErrInvalidCode when the code does not match.
	Activate(ctx context.Context, id, code string) error
	// Deactivate flips is_active to false.
	Deactivate(ctx context.Context, id string) error

	// SetResetOTP stores a fresh password-reset OTP with its expiry.
	SetResetOTP(ctx context.Context, email, otp string, expiresAt time.Time) error
	// ConsumeResetOTP replaces the password hash and clears the OTP fields,
	// but only when the stored OTP equals otp and has not expired at now
	// (compare-and-clear). Returns domain.ErrInvalidOTP when no document
	// matches.
	ConsumeResetOTP(ctx context.Context, email, otp, newHash string, now time.Time) error

	// AppendOrganizedEvent records a newly created event on the owner account.
	AppendOrganizedEvent(ctx context.Context, id, eventID string) error
}

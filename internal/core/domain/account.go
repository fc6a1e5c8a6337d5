package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Plan governs how many events an account may organize.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanStandard Plan = "standard"
	PlanVIP      Plan = "vip"
)

// planQuotas maps each plan to the maximum number of organized events.
var planQuotas = map[Plan]int{
	PlanFree:     1,
	PlanStandard: 4,
	PlanVIP:      12,
}

// EventQuota returns the organized-event limit for the plan. Unknown plans
// fall back to the free tier.
func (p Plan) EventQuota() int {
	if q, ok := planQuotas[p]; ok {
		return q
	}
	return planQuotas[PlanFree]
}

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	_, ok := planQuotas[p]
	return ok
}

const (
	// MaxLoginAttempts is the number of consecutive failed logins after
	// which an account is locked.
	MaxLoginAttempts = 5
	// LockoutWindow is the rolling period after the last failed login
	// during which a locked account refuses authentication.
	LockoutWindow = 30 * time.Minute
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountInactive    = errors.New("account is not activated")
	ErrAccountLocked      = errors.New("account is locked")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrWeakPassword       = errors.New("password is too weak")
	ErrInvalidCode        = errors.New("invalid confirmation code")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrExpiredOTP         = errors.New("otp has expired")
	ErrTooManyRequests    = errors.New("too many requests")
)

// Account models a platform user across its whole lifecycle: registered but
// unconfirmed, active, locked out, or deactivated.
type Account struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Plan         Plan   `json:"plan"`
	IsActive     bool   `json:"is_active"`

	// ActivationCode is present only while email ownership is unproven.
	// It is cleared the moment IsActive flips to true.
	ActivationCode string `json:"-"`

	// ResetOTP and ResetOTPExpiresAt exist only between a password-reset
	// request and its consumption.
	ResetOTP          string     `json:"-"`
	ResetOTPExpiresAt *time.Time `json:"-"`

	LoginAttempts     int        `json:"-"`
	LastFailedLoginAt *time.Time `json:"-"`

	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	OrganizedEvents   []string  `json:"organized_events,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Locked reports whether the account currently refuses logins: the attempt
// counter reached MaxLoginAttempts and the last failure is still inside the
// lockout window.
func (a *Account) Locked(now time.Time) bool {
	if a.LoginAttempts < MaxLoginAttempts || a.LastFailedLoginAt == nil {
		return false
	}
	return now.Sub(*a.LastFailedLoginAt) < LockoutWindow
}

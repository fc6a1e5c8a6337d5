package ports

import "context"

// Notifier sends transactional account email. Each call is synchronous;
// delivery failure is surfaced as an error to the caller.
type Notifier interface {
	SendConfirmationCode(ctx context.Context, email, code string) error
	SendWelcomeEmail(ctx context.Context, name, email string) error
	SendResetPasswordEmail(ctx context.Context, email, otp string) error
	SendDeactivationEmail(ctx context.Context, name, email string) error
}

// Package email implements the Notifier port on top of SMTP via gomail.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Config captures the SMTP settings for outbound mail.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends transactional account email over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (m *Mailer) SendConfirmationCode(ctx context.Context, email, code string) error {
	body := fmt.Sprintf("Your confirmation code is %s.\n\nEnter it to activate your account.", code)
	return m.send(ctx, email, "Confirm your email address", body)
}

func (m *Mailer) SendWelcomeEmail(ctx context.Context, name, email string) error {
	body := fmt.Sprintf("Hi %s,\n\nYour account is now active. Welcome aboard!", name)
	return m.send(ctx, email, "Welcome to Uventlo", body)
}

func (m *Mailer) SendResetPasswordEmail(ctx context.Context, email, otp string) error {
	body := fmt.Sprintf("Your password reset code is %s.\n\nIf you did not request a reset, ignore this message.", otp)
	return m.send(ctx, email, "Password reset code", body)
}

func (m *Mailer) SendDeactivationEmail(ctx context.Context, name, email string) error {
	body := fmt.Sprintf("Hi %s,\n\nYour account has been deactivated. You can reactivate it with a new confirmation code at any time.", name)
	return m.send(ctx, email, "Account deactivated", body)
}

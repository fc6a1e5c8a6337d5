package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"
	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"

	"github.com/uventlo/event-platform/internal/core/domain"
	"github.com/uventlo/event-platform/internal/core/ports"
)

const (
	// minPasswordEntropyBits is the strength floor enforced at registration
	// and on every password change.
	minPasswordEntropyBits = 50

	defaultBcryptCost = bcrypt.DefaultCost
	defaultOTPTTL     = 15 * time.Minute
)

// SendThrottle bounds how often outbound codes may be re-sent per address.
type SendThrottle interface {
	// Allow reports whether a send of the given kind to email is permitted
	// right now, and reserves the slot when it is.
	Allow(ctx context.Context, kind, email string) (bool, error)
}

// AccountService implements the account lifecycle: registration with email
// confirmation, login with lockout, OTP password reset, deactivation, and
// password-gated profile updates.
type AccountService struct {
	repo       ports.AccountRepository
	notifier   ports.Notifier
	tokens     ports.TokenIssuer
	throttle   SendThrottle
	bcryptCost int
	otpTTL     time.Duration
	log        zerolog.Logger
}

func NewAccountService(
	repo ports.AccountRepository,
	notifier ports.Notifier,
	tokens ports.TokenIssuer,
	throttle SendThrottle,
	bcryptCost int,
	otpTTL time.Duration,
	log zerolog.Logger,
) *AccountService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = defaultBcryptCost
	}
	if otpTTL <= 0 {
		otpTTL = defaultOTPTTL
	}
	return &AccountService{
		repo:       repo,
		notifier:   notifier,
		tokens:     tokens,
		throttle:   throttle,
		bcryptCost: bcryptCost,
		otpTTL:     otpTTL,
		log:        log,
	}
}

// Register creates an inactive account, emails its confirmation code, and
// issues a session token. When code delivery fails the created record is
// rolled back and the whole registration fails.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < 3 {
		return nil, fmt.Errorf("%w: name must be at least 3 characters", domain.ErrInvalidInput)
	}
	if err := checkPasswordStrength(in.Password); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrAccountExists
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	code, err := numericCode()
	if err != nil {
		return nil, fmt.Errorf("register: generate code: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Name:           name,
		Email:          in.Email,
		PasswordHash:   string(hash),
		Role:           domain.RoleUser,
		Plan:           domain.PlanFree,
		IsActive:       false,
		ActivationCode: code,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendConfirmationCode(ctx, created.Email, code); err != nil {
		// An account nobody was ever told the code for is unreachable;
		// undo the create and fail the registration.
		if delErr := s.repo.Delete(ctx, created.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("account_id", created.ID).Msg("rollback after failed code delivery")
		}
		return nil, fmt.Errorf("register: send confirmation code: %w", err)
	}

	token, err := s.tokens.Issue(created.ID, created.Role, false)
	if err != nil {
		return nil, fmt.Errorf("register: issue token: %w", err)
	}

	s.log.Info().Str("account_id", created.ID).Msg("account registered")
	return &ports.RegisterResult{Account: created, Token: token}, nil
}

// Activate confirms email ownership. With Resend set, the stored code is
// re-sent and nothing changes.
func (s *AccountService) Activate(ctx context.Context, in ports.ActivateInput) error {
	account, err := s.repo.FindByID(ctx, in.AccountID)
	if err != nil {
		return err
	}

	if in.Resend {
		if account.ActivationCode == "" {
			return domain.ErrInvalidCode
		}
		if err := s.allowSend(ctx, "confirmation", account.Email); err != nil {
			return err
		}
		if err := s.notifier.SendConfirmationCode(ctx, account.Email, account.ActivationCode); err != nil {
			return fmt.Errorf("activate: resend confirmation code: %w", err)
		}
		return nil
	}

	// Compare-and-clear in the store so a concurrent activation with the
	// same code cannot succeed twice.
	if err := s.repo.Activate(ctx, in.AccountID, in.Code); err != nil {
		return err
	}

	if err := s.notifier.SendWelcomeEmail(ctx, account.Name, account.Email); err != nil {
		s.log.Warn().Err(err).Str("account_id", account.ID).Msg("welcome email failed")
	}

	s.log.Info().Str("account_id", account.ID).Msg("account activated")
	return nil
}

// Login authenticates by email and password. The lockout check runs before
// the password comparison so a locked account never learns whether the
// supplied password would have matched.
func (s *AccountService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	account, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}

	if !account.IsActive {
		return nil, domain.ErrAccountInactive
	}
	if account.Locked(time.Now().UTC()) {
		return nil, domain.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)) != nil {
		if recErr := s.repo.RecordLoginFailure(ctx, account.ID, time.Now().UTC()); recErr != nil {
			s.log.Error().Err(recErr).Str("account_id", account.ID).Msg("record login failure")
		}
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.repo.ClearLoginFailures(ctx, account.ID); err != nil {
		s.log.Error().Err(err).Str("account_id", account.ID).Msg("clear login failures")
	}

	token, err := s.tokens.Issue(account.ID, account.Role, in.RememberMe)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Bool("remember_me", in.RememberMe).Msg("login succeeded")
	return &ports.LoginResult{Token: token, TokenTTL: s.tokens.TTL(in.RememberMe)}, nil
}

// RequestPasswordReset stores a fresh OTP and emails it. Unknown addresses
// are answered identically to known ones so the endpoint does not reveal
// which emails have accounts.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		s.log.Debug().Msg("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.allowSend(ctx, "reset", account.Email); err != nil {
		return err
	}

	otp, err := numericCode()
	if err != nil {
		return fmt.Errorf("password reset: generate otp: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.otpTTL)
	if err := s.repo.SetResetOTP(ctx, account.Email, otp, expiresAt); err != nil {
		return fmt.Errorf("password reset: store otp: %w", err)
	}

	if err := s.notifier.SendResetPasswordEmail(ctx, account.Email, otp); err != nil {
		return fmt.Errorf("password reset: send otp: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Msg("password reset otp sent")
	return nil
}

// VerifyPasswordResetOTP checks the OTP without consuming it. Used by
// clients for early feedback before asking for the new password.
func (s *AccountService) VerifyPasswordResetOTP(ctx context.Context, email, otp string) error {
	account, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return domain.ErrInvalidOTP
	}
	if err != nil {
		return err
	}

	if account.ResetOTP == "" || account.ResetOTP != otp {
		return domain.ErrInvalidOTP
	}
	if account.ResetOTPExpiresAt == nil || time.Now().UTC().After(*account.ResetOTPExpiresAt) {
		return domain.ErrExpiredOTP
	}
	return nil
}

// ConfirmPasswordReset consumes the OTP and replaces the password hash.
// Consumption is a single compare-and-clear store operation guarded by the
// OTP expiry.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, email, otp, newPassword string) error {
	if err := checkPasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("password reset: hash password: %w", err)
	}

	if err := s.repo.ConsumeResetOTP(ctx, email, otp, string(hash), time.Now().UTC()); err != nil {
		return err
	}

	s.log.Info().Msg("password reset completed")
	return nil
}

// Deactivate disables the account after verifying the current password.
// Reactivation goes through the activation-code path again.
func (s *AccountService) Deactivate(ctx context.Context, accountID, password string) error {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return domain.ErrInvalidCredentials
	}

	if err := s.notifier.SendDeactivationEmail(ctx, account.Name, account.Email); err != nil {
		s.log.Warn().Err(err).Str("account_id", account.ID).Msg("deactivation email failed")
	}

	if err := s.repo.Deactivate(ctx, accountID); err != nil {
		return err
	}

	s.log.Info().Str("account_id", account.ID).Msg("account deactivated")
	return nil
}

// Update applies a password-gated profile update. No field changes unless
// the supplied current password matches the stored hash.
func (s *AccountService) Update(ctx context.Context, in ports.UpdateAccountInput) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	update := ports.AccountUpdate{
		Email:             in.Email,
		ProfilePictureURL: in.ProfilePictureURL,
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) < 3 {
			return nil, fmt.Errorf("%w: name must be at least 3 characters", domain.ErrInvalidInput)
		}
		update.Name = &name
	}
	if in.Plan != nil {
		if !in.Plan.Valid() {
			return nil, fmt.Errorf("%w: unknown plan %q", domain.ErrInvalidInput, *in.Plan)
		}
		update.Plan = in.Plan
	}
	if in.NewPassword != nil {
		if err := checkPasswordStrength(*in.NewPassword); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.NewPassword), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("update: hash password: %w", err)
		}
		hashed := string(hash)
		update.PasswordHash = &hashed
	}

	updated, err := s.repo.UpdateFields(ctx, in.AccountID, update)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", in.AccountID).Msg("account updated")
	return updated, nil
}

func (s *AccountService) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.repo.FindByID(ctx, accountID)
}

func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.repo.FindAll(ctx)
}

func (s *AccountService) Delete(ctx context.Context, accountID string) error {
	return s.repo.Delete(ctx, accountID)
}

// allowSend consults the throttle. A throttle backend failure does not block
// the send.
func (s *AccountService) allowSend(ctx context.Context, kind, email string) error {
	if s.throttle == nil {
		return nil
	}
	ok, err := s.throttle.Allow(ctx, kind, email)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", kind).Msg("send throttle check failed, allowing")
		return nil
	}
	if !ok {
		return domain.ErrTooManyRequests
	}
	return nil
}

// checkPasswordStrength enforces the entropy floor. The validator's message
// carries the feedback shown to the user.
func checkPasswordStrength(password string) error {
	if err := passwordvalidator.Validate(password, minPasswordEntropyBits); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWeakPassword, err)
	}
	return nil
}

// numericCode returns a 6-digit code from a cryptographically strong source.
func numericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

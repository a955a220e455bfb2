package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
	"github.com/msk-clinic/clinic-portal/internal/core/notification"
	"github.com/msk-clinic/clinic-portal/internal/core/ports"
)

const (
	defaultResetTTL   = time.Hour
	minPasswordLength = 8
)

// ErrWeakPassword is returned when a new password is too short.
var ErrWeakPassword = errors.New("password must be at least 8 characters")

// PasswordResetService issues password setup links and redeems them.
type PasswordResetService struct {
	users    ports.UserRepository
	tokens   ports.ResetTokenStore
	mail     ports.MailQueue
	notifier *notification.PasswordResetNotifier
	ttl      time.Duration
	logger   zerolog.Logger
	newToken func() string
}

func NewPasswordResetService(
	users ports.UserRepository,
	tokens ports.ResetTokenStore,
	mail ports.MailQueue,
	notifier *notification.PasswordResetNotifier,
	ttl time.Duration,
	logger zerolog.Logger,
) *PasswordResetService {
	if ttl <= 0 {
		ttl = defaultResetTTL
	}
	return &PasswordResetService{
		users:    users,
		tokens:   tokens,
		mail:     mail,
		notifier: notifier,
		ttl:      ttl,
		logger:   logger,
		newToken: func() string { return uuid.NewString() },
	}
}

// RequestReset sends a reset link to email if an account exists. Unknown
// addresses are ignored so callers cannot probe which accounts exist.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("request reset: %w", err)
	}
	return s.SendSetupLink(ctx, user)
}

// SendSetupLink issues a fresh token for user and queues the email.
func (s *PasswordResetService) SendSetupLink(ctx context.Context, user *domain.User) error {
	token := domain.PasswordResetToken{
		Token:     s.newToken(),
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	if err := s.tokens.Save(ctx, token, s.ttl); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	if !s.mail.Enqueue(s.notifier.Build(token.Token, user)) {
		return fmt.Errorf("queue reset email for user %s: queue full", user.ID)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password setup link queued")
	return nil
}

// ResetPassword redeems token and sets a new password. The token is single use
// and must have been issued for email.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, email, password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}

	issued, err := s.tokens.Consume(ctx, token, normalizeEmail(email))
	if err != nil {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, issued.UserID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.logger.Info().Str("user_id", issued.UserID).Msg("password reset")
	return nil
}

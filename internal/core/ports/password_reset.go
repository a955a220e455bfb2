package ports

import (
	"context"
	"time"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
	"github.com/msk-clinic/clinic-portal/internal/core/notification"
)

// ResetTokenStore keeps issued password reset tokens until they are used or expire.
type ResetTokenStore interface {
	Save(ctx context.Context, token domain.PasswordResetToken, ttl time.Duration) error
	// Consume returns the token and deletes it in one step when it was issued
	// for email. A missing, expired or mismatched token yields
	// domain.ErrInvalidResetToken and a mismatched one stays redeemable.
	Consume(ctx context.Context, token, email string) (*domain.PasswordResetToken, error)
}

// MailQueue accepts messages for asynchronous delivery.
type MailQueue interface {
	Enqueue(msg notification.Message) bool
}

// PasswordResetService issues and redeems password setup links.
type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) error
	SendSetupLink(ctx context.Context, user *domain.User) error
	ResetPassword(ctx context.Context, token, email, password string) error
}

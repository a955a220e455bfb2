package domain

import (
	"errors"
	"time"
)

var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// PasswordResetToken links an opaque token to the account it was issued for.
// The token itself is never interpreted.
type PasswordResetToken struct {
	Token     string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

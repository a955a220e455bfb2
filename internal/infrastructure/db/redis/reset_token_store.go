package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
)

// ResetTokenStore keeps password reset tokens in Redis.
// Key format: pwreset:<sha256(token)>. The raw token is never stored.
type ResetTokenStore struct {
	client *redis.Client
}

// NewResetTokenStore creates a ResetTokenStore wrapping the given Redis client.
func NewResetTokenStore(client *redis.Client) *ResetTokenStore {
	return &ResetTokenStore{client: client}
}

type storedToken struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Save records the token; Redis expires it after ttl.
func (s *ResetTokenStore) Save(ctx context.Context, token domain.PasswordResetToken, ttl time.Duration) error {
	payload, err := json.Marshal(storedToken{
		UserID:    token.UserID,
		Email:     token.Email,
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode reset token: %w", err)
	}
	if err := s.client.Set(ctx, key(token.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	return nil
}

// Consume redeems the token issued for email. The token is deleted only when
// the email matches, inside a WATCH transaction, so it can be redeemed once
// and a mistyped address does not burn it.
func (s *ResetTokenStore) Consume(ctx context.Context, token, email string) (*domain.PasswordResetToken, error) {
	if token == "" {
		return nil, domain.ErrInvalidResetToken
	}

	k := key(token)
	var st storedToken
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, k).Bytes()
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &st); err != nil {
			return fmt.Errorf("decode reset token: %w", err)
		}
		if !st.redeemableBy(email, time.Now()) {
			return domain.ErrInvalidResetToken
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, k)
			return nil
		})
		return err
	}, k)
	switch {
	case err == nil:
	case errors.Is(err, redis.Nil), errors.Is(err, redis.TxFailedErr), errors.Is(err, domain.ErrInvalidResetToken):
		return nil, domain.ErrInvalidResetToken
	default:
		return nil, fmt.Errorf("consume reset token: %w", err)
	}

	return &domain.PasswordResetToken{
		Token:     token,
		UserID:    st.UserID,
		Email:     st.Email,
		ExpiresAt: st.ExpiresAt,
	}, nil
}

func (st storedToken) redeemableBy(email string, now time.Time) bool {
	if st.Email != email {
		return false
	}
	return st.ExpiresAt.IsZero() || !now.After(st.ExpiresAt)
}

func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "pwreset:" + hex.EncodeToString(sum[:])
}

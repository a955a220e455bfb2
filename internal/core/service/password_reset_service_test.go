package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
	"github.com/msk-clinic/clinic-portal/internal/core/notification"
)

func newResetFixture() (*PasswordResetService, *stubUserRepo, *stubTokenStore, *stubMailQueue) {
	users := newStubUserRepo(&domain.User{ID: "u1", Email: "sara@example.com", FirstName: "Sara", Role: domain.RolePatient})
	tokens := newStubTokenStore()
	mail := &stubMailQueue{}
	notifier := notification.NewPasswordResetNotifier(notification.Config{
		FrontendURL: "https://app.example.com",
		FromAddress: "no-reply@msk.example",
	})
	svc := NewPasswordResetService(users, tokens, mail, notifier, 30*time.Minute, zerolog.Nop())
	svc.newToken = func() string { return "fixed-token" }
	return svc, users, tokens, mail
}

func TestPasswordReset_RequestReset(t *testing.T) {
	svc, _, tokens, mail := newResetFixture()

	if err := svc.RequestReset(context.Background(), "Sara@Example.com"); err != nil {
		t.Fatalf("RequestReset returned error: %v", err)
	}

	tok, ok := tokens.tokens["fixed-token"]
	if !ok {
		t.Fatalf("token not stored")
	}
	if tok.UserID != "u1" || tok.Email != "sara@example.com" {
		t.Fatalf("unexpected token: %+v", tok)
	}
	if tokens.lastTTL != 30*time.Minute {
		t.Fatalf("unexpected ttl: %v", tokens.lastTTL)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mail.sent))
	}
	if !strings.Contains(mail.sent[0].TextBody, "/reset-password?token=fixed-token&email=sara%40example.com") {
		t.Fatalf("reset link missing from body: %s", mail.sent[0].TextBody)
	}
}

func TestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	svc, _, tokens, mail := newResetFixture()

	if err := svc.RequestReset(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("expected nil for unknown email, got %v", err)
	}
	if len(tokens.tokens) != 0 || len(mail.sent) != 0 {
		t.Fatalf("nothing should be issued for unknown email")
	}
}

func TestPasswordReset_QueueFull(t *testing.T) {
	svc, users, _, mail := newResetFixture()
	mail.full = true

	if err := svc.SendSetupLink(context.Background(), users.users["u1"]); err == nil {
		t.Fatalf("expected error when queue is full")
	}
}

func TestPasswordReset_ResetPassword(t *testing.T) {
	svc, users, tokens, _ := newResetFixture()
	if err := svc.RequestReset(context.Background(), "sara@example.com"); err != nil {
		t.Fatalf("RequestReset: %v", err)
	}

	if err := svc.ResetPassword(context.Background(), "fixed-token", "sara@example.com", "n3w-passw0rd"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	hash := users.users["u1"].PasswordHash
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("n3w-passw0rd")) != nil {
		t.Fatalf("stored hash does not match new password")
	}
	if _, ok := tokens.tokens["fixed-token"]; ok {
		t.Fatalf("token must be single use")
	}

	if err := svc.ResetPassword(context.Background(), "fixed-token", "sara@example.com", "another-pass"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken on reuse, got %v", err)
	}
}

func TestPasswordReset_EmailMismatch(t *testing.T) {
	svc, users, _, _ := newResetFixture()
	_ = svc.RequestReset(context.Background(), "sara@example.com")

	if err := svc.ResetPassword(context.Background(), "fixed-token", "mallory@example.com", "n3w-passw0rd"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken, got %v", err)
	}
	if users.users["u1"].PasswordHash != "" {
		t.Fatalf("password must not change")
	}
}

func TestPasswordReset_MistypedEmailKeepsToken(t *testing.T) {
	svc, users, tokens, _ := newResetFixture()
	_ = svc.RequestReset(context.Background(), "sara@example.com")

	if err := svc.ResetPassword(context.Background(), "fixed-token", "sarah@example.com", "n3w-passw0rd"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken, got %v", err)
	}
	if _, ok := tokens.tokens["fixed-token"]; !ok {
		t.Fatalf("a mistyped email must not burn the token")
	}

	if err := svc.ResetPassword(context.Background(), "fixed-token", " Sara@Example.com ", "n3w-passw0rd"); err != nil {
		t.Fatalf("retry with the right email should succeed, got %v", err)
	}
	if users.users["u1"].PasswordHash == "" {
		t.Fatalf("password should be set after retry")
	}
}

func TestPasswordReset_WeakPassword(t *testing.T) {
	svc, _, tokens, _ := newResetFixture()
	_ = svc.RequestReset(context.Background(), "sara@example.com")

	if err := svc.ResetPassword(context.Background(), "fixed-token", "sara@example.com", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if _, ok := tokens.tokens["fixed-token"]; !ok {
		t.Fatalf("a rejected password must not burn the token")
	}
}

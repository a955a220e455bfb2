// Package notification builds the emails sent to account holders.
package notification

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
)

const defaultExpireMinutes = 60

// Config carries the values the password reset email depends on.
type Config struct {
	FrontendURL   string
	AppName       string
	FromAddress   string
	ExpireMinutes int
}

// ResetURL builds the link that lets the holder of token choose a new
// password: <base>/reset-password?token=<token>&email=<email>.
func ResetURL(frontendBaseURL, token, email string) string {
	base := strings.TrimRight(frontendBaseURL, "/")
	return base + "/reset-password?token=" + url.QueryEscape(token) + "&email=" + url.QueryEscape(email)
}

// PasswordResetNotifier composes password setup / reset emails.
type PasswordResetNotifier struct {
	cfg Config
}

func NewPasswordResetNotifier(cfg Config) *PasswordResetNotifier {
	if cfg.ExpireMinutes <= 0 {
		cfg.ExpireMinutes = defaultExpireMinutes
	}
	if cfg.AppName == "" {
		cfg.AppName = "MSK Clinic"
	}
	return &PasswordResetNotifier{cfg: cfg}
}

// Build returns the email inviting user to set a password with token.
func (n *PasswordResetNotifier) Build(token string, user *domain.User) Message {
	link := ResetURL(n.cfg.FrontendURL, token, user.Email)
	greeting := "Hello,"
	if name := user.FullName(); name != "" {
		greeting = fmt.Sprintf("Hello %s,", name)
	}

	text := strings.Join([]string{
		greeting,
		"",
		"You are receiving this email because a password setup was requested for your account.",
		"",
		"Set your password: " + link,
		"",
		fmt.Sprintf("This link will expire in %d minutes.", n.cfg.ExpireMinutes),
		"",
		"If you did not request this, no further action is required.",
		"",
		"Regards,",
		n.cfg.AppName,
	}, "\n")

	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(greeting))
	b.WriteString("<p>You are receiving this email because a password setup was requested for your account.</p>\n")
	fmt.Fprintf(&b, "<p><a href=\"%s\">Set your password</a></p>\n", html.EscapeString(link))
	fmt.Fprintf(&b, "<p>This link will expire in %d minutes.</p>\n", n.cfg.ExpireMinutes)
	b.WriteString("<p>If you did not request this, no further action is required.</p>\n")
	fmt.Fprintf(&b, "<p>Regards,<br>%s</p>\n", html.EscapeString(n.cfg.AppName))

	return Message{
		To:       user.Email,
		From:     n.cfg.FromAddress,
		Subject:  n.cfg.AppName + ": set your password",
		TextBody: text,
		HTMLBody: b.String(),
	}
}

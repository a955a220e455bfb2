// Package mail delivers notification messages.
package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/msk-clinic/clinic-portal/internal/core/notification"
)

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg notification.Message) error
}

// LogMailer writes messages to the log instead of sending them. It is used
// when no SMTP host is configured.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg notification.Message) error {
	m.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.TextBody).
		Msg("mail not sent: smtp disabled")
	return nil
}

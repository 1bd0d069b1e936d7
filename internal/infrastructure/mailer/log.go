package mailer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/devcamper/bootcamp-api/internal/core/ports"
)

// Log writes messages to the logger instead of sending them. Used in
// development and tests.
type Log struct {
	sender string
	log    zerolog.Logger
}

func NewLog(sender string, log zerolog.Logger) *Log {
	return &Log{sender: sender, log: log}
}

func (l *Log) Send(_ context.Context, msg ports.MailMessage) error {
	l.log.Info().
		Str("from", l.sender).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("text", msg.Text).
		Msg("email")
	return nil
}

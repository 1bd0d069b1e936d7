// Package mailer delivers transactional email.
package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/devcamper/bootcamp-api/internal/core/ports"
	"github.com/devcamper/bootcamp-api/internal/pkg/config"
	"github.com/devcamper/bootcamp-api/internal/pkg/metrics"
)

const (
	DriverMailgun = "mailgun"
	DriverLog     = "log"
)

// New returns the mailer selected by cfg.Driver, instrumented with metrics.
func New(cfg config.MailConfig, log zerolog.Logger) (ports.Mailer, error) {
	sender := fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)

	var m ports.Mailer
	switch cfg.Driver {
	case DriverMailgun:
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
			return nil, fmt.Errorf("mailer: mailgun driver needs MAILGUN_DOMAIN and MAILGUN_API_KEY")
		}
		m = NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, sender)
	case DriverLog, "":
		m = NewLog(sender, log)
	default:
		return nil, fmt.Errorf("mailer: unknown driver %q", cfg.Driver)
	}
	return &instrumented{next: m, driver: cfg.Driver}, nil
}

type instrumented struct {
	next   ports.Mailer
	driver string
}

func (i *instrumented) Send(ctx context.Context, msg ports.MailMessage) error {
	err := i.next.Send(ctx, msg)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.EmailsSentTotal.WithLabelValues(i.driver, result).Inc()
	return err
}

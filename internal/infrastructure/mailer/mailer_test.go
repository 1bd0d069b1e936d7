package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/devcamper/bootcamp-api/internal/core/ports"
	"github.com/devcamper/bootcamp-api/internal/pkg/config"
)

func TestNew_LogDriverWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	m, err := New(config.MailConfig{Driver: DriverLog, FromName: "DevCamper", FromEmail: "noreply@devcamper.io"}, zerolog.New(&buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = m.Send(context.Background(), ports.MailMessage{To: "john@gmail.com", Subject: "Password reset token", Text: "PUT http://x/reset/abc"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"john@gmail.com", "Password reset token", "DevCamper <noreply@devcamper.io>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q: %s", want, out)
		}
	}
}

func TestNew_MailgunNeedsCredentials(t *testing.T) {
	if _, err := New(config.MailConfig{Driver: DriverMailgun}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error without mailgun credentials")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	if _, err := New(config.MailConfig{Driver: "smtp"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

type failingMailer struct{}

func (failingMailer) Send(context.Context, ports.MailMessage) error { return errors.New("boom") }

func TestInstrumented_PassesErrorThrough(t *testing.T) {
	m := &instrumented{next: failingMailer{}, driver: "test"}
	if err := m.Send(context.Background(), ports.MailMessage{}); err == nil {
		t.Fatalf("expected error to propagate")
	}
}

// Package mail sends outbound application email (currently only
// password-reset messages) over SMTP.
package mail

import (
	"context"
	"fmt"

	"github.com/oakstead/careledger/internal/config"
	"github.com/oakstead/careledger/internal/logger"
	gomail "github.com/wneessen/go-mail"
)

// Sender delivers a single plain-text message to one recipient.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// smtpSender is the go-mail backed implementation of [Sender].
type smtpSender struct {
	cfg    config.Mail
	logger *logger.Logger
}

// NewSMTPSender constructs a [Sender] that delivers through the configured
// SMTP server. The connection is established per message; reset emails are
// rare enough that pooling is not worth the bookkeeping.
func NewSMTPSender(cfg config.Mail, log *logger.Logger) Sender {
	return &smtpSender{
		cfg:    cfg,
		logger: log,
	}
}

func (s *smtpSender) Send(ctx context.Context, recipient, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address %q: %w", s.cfg.From, err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", recipient, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		s.logger.Err(err).Str("func", "smtpSender.Send").Msg("failed to create smtp client")
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Err(err).
			Str("func", "smtpSender.Send").
			Str("recipient", recipient).
			Msg("failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// nopSender discards all messages. Used in tests and when mail is not
// configured.
type nopSender struct{}

// NewNopSender returns a [Sender] that silently drops every message.
func NewNopSender() Sender {
	return nopSender{}
}

func (nopSender) Send(context.Context, string, string, string) error {
	return nil
}

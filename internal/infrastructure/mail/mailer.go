package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/trananhdev/meeting-minutes/pkg/config"
)

// Sender delivers one message to one recipient. The distribution engine
// depends on this interface so tests can substitute fakes.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// SMTPSender is the go-mail backed Sender
type SMTPSender struct {
	cfg *config.MailConfig
}

// NewSMTPSender creates an SMTP sender from mail configuration
func NewSMTPSender(cfg *config.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers a plain-text message. A fresh connection per send keeps
// recipient outcomes independent; the caller bounds the attempt through ctx.
func (s *SMTPSender) Send(ctx context.Context, recipient, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.FromAddress); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("invalid recipient %s: %w", recipient, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send to %s: %w", recipient, err)
	}
	return nil
}

package mail

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/dkazarov/uploadgate/internal/server/models"
)

// ErrNotConfigured is returned when the stored config lacks the fields
// required to reach an SMTP relay.
var ErrNotConfigured = errors.New("smtp is not configured")

// SMTPSender is the production Sender. Stateless: a fresh client per send.
type SMTPSender struct{}

func NewSMTPSender() *SMTPSender {
	return &SMTPSender{}
}

func (s *SMTPSender) Send(ctx context.Context, cfg models.EmailConfig, msg Message) error {
	if cfg.SMTPHost == "" || cfg.FromEmail == "" {
		return ErrNotConfigured
	}

	m := gomail.NewMsg()

	if cfg.FromName != "" {
		if err := m.FromFormat(cfg.FromName, cfg.FromEmail); err != nil {
			return fmt.Errorf("from address: %w", err)
		}
	} else {
		if err := m.From(cfg.FromEmail); err != nil {
			return fmt.Errorf("from address: %w", err)
		}
	}

	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("to address: %w", err)
	}

	m.Subject(msg.Subject)
	if msg.HTML != "" {
		m.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	} else {
		m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	}

	opts := []gomail.Option{gomail.WithTLSPolicy(gomail.TLSOpportunistic)}
	if cfg.SMTPPort != 0 {
		opts = append(opts, gomail.WithPort(cfg.SMTPPort))
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.SMTPUsername),
			gomail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := gomail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}

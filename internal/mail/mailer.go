package mail

import (
	"context"
	"fmt"

	"voxcredit/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SendGrid delivers mail through the SendGrid v3 API.
type SendGrid struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

func NewSendGrid(apiKey, fromName, fromAddr string) *SendGrid {
	return &SendGrid{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		fromAddr: fromAddr,
	}
}

func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	from := sgmail.NewEmail(s.fromName, s.fromAddr)
	to := sgmail.NewEmail("", msg.To)
	m := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid send to %q: %w", msg.To, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send to %q: status %d", msg.To, resp.StatusCode)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used when no
// SendGrid key is configured.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	if m.log != nil {
		m.log.Infow("mail_not_sent", "to", msg.To, "subject", msg.Subject, "body", msg.Text)
	}
	return nil
}

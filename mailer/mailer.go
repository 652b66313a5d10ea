package mailer

// go generate: mockery --name Mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Message is a single outgoing email
type Message struct {
	ToEmail   string
	ToName    string
	Subject   string
	HTML      string
	PlainText string
}

// Mailer sends transactional email
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGrid delivers mail through the SendGrid v3 API
type SendGrid struct {
	client    sendClient
	fromName  string
	fromEmail string
}

// NewSendGrid builds a SendGrid mailer
func NewSendGrid(apiKey, fromEmail string) *SendGrid {
	return &SendGrid{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  "CyberMitra Guardian",
		fromEmail: fromEmail,
	}
}

// Send delivers msg, treating any 4xx/5xx status as a failure
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTML)
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		zap.S().Errorw("failed to send email", "error", err, "to", msg.ToEmail)
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", msg.ToEmail)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	zap.S().Infow("email sent successfully", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}

// Noop drops every message. Used when no SendGrid key is configured.
type Noop struct{}

// Send logs and discards msg
func (Noop) Send(ctx context.Context, msg Message) error {
	zap.S().Warnw("mail disabled, dropping message", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}

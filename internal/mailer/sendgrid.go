package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendGridMailer delivers mail through the SendGrid v3 API.
type sendGridMailer struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

// NewSendGrid returns a Mailer backed by the SendGrid API.
func NewSendGrid(apiKey, fromName, fromEmail string) Mailer {
	return &sendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (m *sendGridMailer) Send(ctx context.Context, msg Message) error {
	from := sgmail.NewEmail(m.fromName, m.fromEmail)
	to := sgmail.NewEmail("", msg.To)
	message := sgmail.NewSingleEmail(from, msg.Subject, to, "", msg.HTMLBody)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: unexpected status %d", resp.StatusCode)
	}
	return nil
}

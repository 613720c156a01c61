package scheduler

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Recipient is someone a digest is mailed to
type Recipient struct {
	Name  string
	Email string
}

// Mailer sends a single email
type Mailer interface {
	Send(to Recipient, subject, plainText, htmlContent string) error
}

// SendgridMailer sends mail through the SendGrid v3 API
type SendgridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendgridMailer creates a mailer for the given API key and sender
func NewSendgridMailer(apiKey, fromEmail string) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Case Tracker", fromEmail),
	}
}

// Send delivers the message once; failures are not retried
func (m *SendgridMailer) Send(to Recipient, subject, plainText, htmlContent string) error {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail(to.Name, to.Email), plainText, htmlContent)
	response, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

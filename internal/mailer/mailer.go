package mailer

import (
	"context"
	"errors"

	"github.com/resend/resend-go/v2"
)

// Message is one transactional e-mail document ready to hand to the provider
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender delivers a rendered message and returns the provider's message id.
// Implementations must not retry; failures surface directly to the caller.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// ResendSender delivers messages through the Resend transactional e-mail API
type ResendSender struct {
	client *resend.Client
}

// NewResendSender returns a Sender backed by the Resend API
func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey)}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	if msg.To == "" {
		return "", errors.New("mailer: missing recipient")
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", err
	}

	return sent.Id, nil
}

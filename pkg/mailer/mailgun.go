package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

// Mailgun delivers rendered emails. One instance is shared by the worker.
type Mailgun struct {
	client *mg.MailgunImpl
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), Sender: sender}
}

// Send delivers one message. The html body is optional; when empty the plain
// text part stands alone.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}

package application

import (
	"context"
	"strings"

	"github.com/peerpicks/peerpicks-api/pkg/mailer"
)

// QueuePublisher is the broker surface the notifier needs. Satisfied by
// helpers.RabbitPublisher.
type QueuePublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// MailNotifier hands rendered-email jobs to the queue consumed by the email
// worker. When publishing is disabled (or no broker is wired, as in tests)
// Enqueue is a no-op.
type MailNotifier struct {
	Pub          QueuePublisher
	Enabled      bool
	ResetURLBase string
	CompanyName  string
	AppName      string
	SupportURL   string
}

func NewMailNotifier(pub QueuePublisher, enabled bool, resetURLBase, companyName, appName, supportURL string) *MailNotifier {
	return &MailNotifier{
		Pub:          pub,
		Enabled:      enabled,
		ResetURLBase: resetURLBase,
		CompanyName:  companyName,
		AppName:      appName,
		SupportURL:   supportURL,
	}
}

// ResetLink embeds the reset token into the client's reset page URL.
func (n *MailNotifier) ResetLink(token string) string {
	base := n.ResetURLBase
	if strings.Contains(base, "?") {
		return base + "&token=" + token
	}
	return base + "?token=" + token
}

func (n *MailNotifier) Enqueue(ctx context.Context, job mailer.EmailJob) error {
	if n == nil || !n.Enabled || n.Pub == nil {
		return nil
	}
	return n.Pub.PublishJSON(ctx, job)
}

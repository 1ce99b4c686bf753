package notify

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/taskfolio/taskfolio-api/internal/config"
)

// MailgunNotifier delivers messages through the Mailgun API.
type MailgunNotifier struct {
	client mailgun.Mailgun
	sender string
}

// NewMailgunNotifier creates a Notifier backed by Mailgun. The caller is
// expected to have checked cfg.Enabled() first.
func NewMailgunNotifier(cfg config.MailConfig) *MailgunNotifier {
	return &MailgunNotifier{
		client: mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		sender: cfg.Sender,
	}
}

// Ensure MailgunNotifier implements Notifier
var _ Notifier = (*MailgunNotifier)(nil)

// Send implements the Notifier interface.
func (n *MailgunNotifier) Send(ctx context.Context, msg Message) error {
	subject, body, err := render(msg)
	if err != nil {
		return err
	}

	m := n.client.NewMessage(n.sender, subject, body, msg.Email)
	if _, _, err := n.client.Send(ctx, m); err != nil {
		return fmt.Errorf("mailgun send failed: %w", err)
	}
	return nil
}

// render produces the subject and body for a message kind.
func render(msg Message) (subject, body string, err error) {
	switch msg.Kind {
	case KindWelcome:
		return "Thanks for joining in!",
			fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", msg.Name),
			nil
	case KindCancellation:
		return "Sad to see you go.",
			fmt.Sprintf("Goodbye, %s. Is there anything we could have done to keep you on board?", msg.Name),
			nil
	default:
		return "", "", fmt.Errorf("unknown notification kind %q", msg.Kind)
	}
}

// LogNotifier is a Notifier that only logs; used when outbound email is
// not configured so the rest of the system behaves identically.
type LogNotifier struct{}

// Ensure LogNotifier implements Notifier
var _ Notifier = (*LogNotifier)(nil)

// Send implements the Notifier interface without delivering anything.
func (LogNotifier) Send(ctx context.Context, msg Message) error {
	return nil
}

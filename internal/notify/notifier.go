// Package notify sends transactional email to users. Delivery is
// best-effort: failures are logged and never surfaced to request handlers.
package notify

import "context"

// Kind identifies the message template to send.
type Kind string

const (
	// KindWelcome is sent after a successful registration.
	KindWelcome Kind = "welcome"

	// KindCancellation is sent after an account is deleted.
	KindCancellation Kind = "cancellation"
)

// Message is a single outbound notification.
type Message struct {
	Kind  Kind
	Email string
	Name  string
}

// Notifier delivers a single message synchronously. Implementations talk
// to an external provider; callers wanting fire-and-forget semantics go
// through the Dispatcher instead.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

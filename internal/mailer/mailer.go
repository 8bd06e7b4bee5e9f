package mailer

import "context"

// Message is one outbound email.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer delivers messages through an external transactional-email channel.
// Implementations must honor the context deadline so a slow provider can
// never stall the request that triggered the send.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

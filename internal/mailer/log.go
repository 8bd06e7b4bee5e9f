package mailer

import (
	"context"
	"log/slog"
)

// logMailer records messages instead of delivering them. Used in development
// when no SendGrid API key is configured.
type logMailer struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info("mail delivery skipped (no provider configured)",
		"to", msg.To, "subject", msg.Subject)
	return nil
}

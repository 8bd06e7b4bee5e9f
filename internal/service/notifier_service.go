package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"biblioteca/internal/mailer"
	"biblioteca/internal/models"
)

var ErrDeliveryFailed = errors.New("email delivery failed")

// NotifierService dispatches fire-and-forget outbound mail. Every send is
// bounded by the configured timeout; a failure is logged and reported as
// ErrDeliveryFailed but never aborts the workflow that triggered it.
type NotifierService interface {
	SendWelcome(ctx context.Context, user *models.User) error
	Send(ctx context.Context, sender *models.User, to, subject, body string) error
}

type notifierService struct {
	mailer  mailer.Mailer
	timeout time.Duration
	logger  *slog.Logger
}

func NewNotifierService(m mailer.Mailer, timeout time.Duration, logger *slog.Logger) NotifierService {
	return &notifierService{
		mailer:  m,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *notifierService) SendWelcome(ctx context.Context, user *models.User) error {
	msg := mailer.Message{
		To:      user.Email,
		Subject: "¡Cuenta Creada Exitosamente en la Plataforma!",
		HTMLBody: fmt.Sprintf("Hola %s,<br><br>Tu cuenta ha sido creada. Ya puedes iniciar sesión.",
			user.FirstName),
	}
	return s.deliver(ctx, msg)
}

func (s *notifierService) Send(ctx context.Context, sender *models.User, to, subject, body string) error {
	msg := mailer.Message{
		To:      to,
		Subject: subject,
		HTMLBody: fmt.Sprintf("<i>Este correo fue enviado desde la plataforma por %s.</i><br><br>%s",
			sender.FirstName, body),
	}
	return s.deliver(ctx, msg)
}

func (s *notifierService) deliver(ctx context.Context, msg mailer.Message) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("outbound mail delivery failed",
			"to", msg.To, "subject", msg.Subject, "error", err)
		return ErrDeliveryFailed
	}

	s.logger.Info("outbound mail delivered", "to", msg.To, "subject", msg.Subject)
	return nil
}

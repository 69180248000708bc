// Package email implementa el puerto EmailSender: SendGrid en producción,
// SMTP (gomail) para desarrollo y un buzón en memoria para pruebas.
package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/internal/domain/identity"
	"github.com/jahonen/partnermap/pkg/config"
)

// New construye el emisor según EMAIL_PROVIDER, envuelto con validación y logs.
func New(cfg config.EmailConfig, log zerolog.Logger) (ports.EmailSender, error) {
	var inner ports.EmailSender
	switch cfg.Provider {
	case config.EmailProviderSendGrid:
		inner = NewSendGridSender(cfg.SendGridAPIKey)
	case config.EmailProviderSMTP:
		inner = NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	case config.EmailProviderLog:
		inner = NewOutbox()
	default:
		return nil, fmt.Errorf("email provider %q no soportado", cfg.Provider)
	}
	return WithLogging(inner, log), nil
}

// WithLogging valida remitente y destinatario y registra inicio, fin y error de cada envío.
func WithLogging(inner ports.EmailSender, log zerolog.Logger) ports.EmailSender {
	return &loggingSender{inner: inner, log: log}
}

type loggingSender struct {
	inner ports.EmailSender
	log   zerolog.Logger
}

func (s *loggingSender) Send(ctx context.Context, msg ports.EmailMessage) error {
	to, err := identity.RequireEmail(msg.To)
	if err != nil {
		return err
	}
	from, err := identity.RequireEmail(msg.From)
	if err != nil {
		return err
	}
	msg.To, msg.From = to, from

	s.log.Info().Str("to", to).Str("subject", msg.Subject).Msg("sendEmail:start")
	if err := s.inner.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("to", to).Msg("sendEmail:error")
		return err
	}
	s.log.Info().Str("to", to).Msg("sendEmail:end")
	return nil
}

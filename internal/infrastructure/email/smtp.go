package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jahonen/partnermap/internal/application/ports"
)

var _ ports.EmailSender = (*SMTPSender)(nil)

// SMTPSender envía por SMTP (MailHog o Mailpit en desarrollo).
type SMTPSender struct {
	dialer *gomail.Dialer
}

// NewSMTPSender crea el emisor; user vacío significa sin autenticación.
func NewSMTPSender(host string, port int, user, password string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, user, password)}
}

func (s *SMTPSender) Send(ctx context.Context, msg ports.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp %s:%d: %w", s.dialer.Host, s.dialer.Port, err)
	}
	return nil
}

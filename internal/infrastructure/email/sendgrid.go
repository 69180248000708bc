package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/internal/domain"
)

var _ ports.EmailSender = (*SendGridSender)(nil)

// SendGridSender envía mediante la API v3 de SendGrid.
type SendGridSender struct {
	apiKey string
}

// NewSendGridSender crea el emisor. La clave se comprueba al enviar.
func NewSendGridSender(apiKey string) *SendGridSender {
	return &SendGridSender{apiKey: strings.TrimSpace(apiKey)}
}

func (s *SendGridSender) Send(ctx context.Context, msg ports.EmailMessage) error {
	if s.apiKey == "" {
		return domain.FailedPrecondition("SENDGRID_API_KEY is not configured")
	}

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail("", msg.From))
	m.Subject = msg.Subject
	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", msg.To))
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	resp, err := sendgrid.NewSendClient(s.apiKey).SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

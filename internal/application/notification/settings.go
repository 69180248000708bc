// Package notification arma los correos del flujo (cierre, invitación, recordatorio,
// aviso de aprobación) y envía el lote de cierre, un correo por participante.
package notification

import (
	"net/url"
	"strings"

	"github.com/jahonen/partnermap/internal/domain"
	"github.com/jahonen/partnermap/internal/domain/identity"
)

// Settings remitente y URL pública. Se resuelven una vez por proceso y se inyectan.
type Settings struct {
	From    string
	BaseURL string
}

// Validate exige remitente y URL base válidos antes de cualquier envío.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.From) == "" {
		return domain.FailedPrecondition("Sender email is not configured")
	}
	if _, err := identity.RequireEmail(s.From); err != nil {
		return domain.FailedPrecondition("Sender email is not a valid email address")
	}
	base := strings.TrimSpace(s.BaseURL)
	if base == "" {
		return domain.FailedPrecondition("Base URL is not configured")
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.FailedPrecondition("Base URL must be an absolute http(s) URL")
	}
	return nil
}

// Link une la URL base (sin barra final) con p.
func (s Settings) Link(p string) string {
	return strings.TrimSuffix(strings.TrimSpace(s.BaseURL), "/") + p
}

func (s Settings) sender() string {
	return strings.TrimSpace(s.From)
}

// Package identity canonicaliza direcciones de email para deduplicar invitaciones.
package identity

import (
	"strings"

	"github.com/jahonen/partnermap/internal/domain"
)

// MaxEmailLength longitud máxima aceptada para un email.
const MaxEmailLength = 200

// Normalizer convierte un email en su clave de invitación estable.
// Para los dominios de AliasDomains se ignoran los puntos y el sufijo +tag del
// local part y el dominio se reescribe a CanonicalDomain.
type Normalizer struct {
	AliasDomains    []string
	CanonicalDomain string
}

// Default cubre los dos dominios del proveedor de Google.
var Default = Normalizer{
	AliasDomains:    []string{"gmail.com", "googlemail.com"},
	CanonicalDomain: "gmail.com",
}

// RequireEmail valida que el valor sea un email plausible y lo devuelve recortado.
func RequireEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" || len(trimmed) > MaxEmailLength || !strings.Contains(trimmed, "@") {
		return "", domain.InvalidArgument("email must be a valid email address")
	}
	return trimmed, nil
}

// Normalize aplica el Normalizer por defecto.
func Normalize(email string) (string, error) {
	return Default.Normalize(email)
}

// Normalize devuelve la clave de invitación para email.
func (n Normalizer) Normalize(email string) (string, error) {
	trimmed, err := RequireEmail(email)
	if err != nil {
		return "", err
	}
	lower := strings.ToLower(trimmed)
	at := strings.Index(lower, "@")
	local, host := lower[:at], lower[at+1:]

	if !n.aliases(host) {
		return lower, nil
	}
	if plus := strings.Index(local, "+"); plus >= 0 {
		local = local[:plus]
	}
	local = strings.ReplaceAll(local, ".", "")
	canonical := n.CanonicalDomain
	if canonical == "" {
		canonical = host
	}
	return local + "@" + strings.ToLower(canonical), nil
}

func (n Normalizer) aliases(host string) bool {
	for _, d := range n.AliasDomains {
		if strings.EqualFold(d, host) {
			return true
		}
	}
	return false
}

// Lower devuelve el email recortado y en minúsculas (campo emailLower de la invitación).
func Lower(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Package auth modela la identidad verificada del llamador. La autenticación la
// realiza un proveedor externo; aquí solo se exige y se emite la identidad.
package auth

import (
	"strings"

	"github.com/jahonen/partnermap/internal/domain"
	"github.com/jahonen/partnermap/pkg/jwt"
)

// Caller identidad del usuario que invoca una acción.
type Caller struct {
	UserID string
	Email  string
}

// Require falla con unauthenticated si no hay identidad verificada.
func (c Caller) Require() error {
	if strings.TrimSpace(c.UserID) == "" {
		return domain.Unauthenticated("Authentication required")
	}
	return nil
}

// RequireEmail exige identidad con correo (crear o unirse a una empresa).
func (c Caller) RequireEmail() (string, error) {
	if err := c.Require(); err != nil {
		return "", err
	}
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return "", domain.InvalidArgument("Authenticated user must have an email")
	}
	return email, nil
}

// TokenConfig configuración para emitir tokens de desarrollo.
type TokenConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TokenIssuer emite bearer tokens equivalentes a los del proveedor de identidad (pruebas locales).
type TokenIssuer struct {
	cfg TokenConfig
}

// NewTokenIssuer construye el emisor.
func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg}
}

// Issue genera un token para el llamador.
func (t *TokenIssuer) Issue(c Caller) (string, error) {
	if err := c.Require(); err != nil {
		return "", err
	}
	return jwt.Generate(t.cfg.Secret, c.UserID, c.Email, t.cfg.Issuer, t.cfg.ExpMinutes)
}

// Verify valida un token y devuelve el llamador.
func (t *TokenIssuer) Verify(token string) (Caller, error) {
	id, err := jwt.Parse(t.cfg.Secret, token)
	if err != nil {
		return Caller{}, domain.Unauthenticated("invalid or expired token")
	}
	return Caller{UserID: id.UserID, Email: id.Email}, nil
}

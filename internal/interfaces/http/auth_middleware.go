package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/auth"
	"github.com/jahonen/partnermap/internal/domain"
)

// LocalCaller clave de Locals para la identidad verificada.
const LocalCaller = "caller"

// TokenVerifier valida el bearer token del proveedor de identidad.
type TokenVerifier interface {
	Verify(token string) (auth.Caller, error)
}

// AuthMiddleware valida el Bearer Token y deja el auth.Caller en c.Locals.
func AuthMiddleware(verifier TokenVerifier, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return writeError(c, log, domain.Unauthenticated("Authorization header is required"))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return writeError(c, log, domain.Unauthenticated("Authorization format: Bearer <token>"))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return writeError(c, log, domain.Unauthenticated("Empty bearer token"))
		}
		caller, err := verifier.Verify(tokenString)
		if err != nil {
			return writeError(c, log, domain.Unauthenticated("Invalid or expired token"))
		}
		c.Locals(LocalCaller, caller)
		return c.Next()
	}
}

// GetCaller devuelve la identidad del contexto (después del middleware de auth).
// Sin middleware devuelve un Caller vacío, que los casos de uso rechazan.
func GetCaller(c *fiber.Ctx) auth.Caller {
	v, _ := c.Locals(LocalCaller).(auth.Caller)
	return v
}

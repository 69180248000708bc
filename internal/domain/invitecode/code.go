// Package invitecode genera los códigos cortos que identifican a una empresa
// durante el onboarding (ej. "K7M2QX9A").
package invitecode

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/jahonen/partnermap/internal/domain"
)

// Alphabet excluye caracteres que se confunden a simple vista (I, O, 0, 1).
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	DefaultLength   = 8
	DefaultAttempts = 8
)

// Claimer reserva un código de forma atómica. Devuelve false si ya estaba tomado.
// La implementación debe ejecutarse dentro de la misma transacción que crea la empresa.
type Claimer interface {
	Claim(ctx context.Context, code string) (bool, error)
}

// ClaimerFunc adapta una función al contrato Claimer.
type ClaimerFunc func(ctx context.Context, code string) (bool, error)

// Claim implementa Claimer.
func (f ClaimerFunc) Claim(ctx context.Context, code string) (bool, error) {
	return f(ctx, code)
}

// Generate devuelve length caracteres uniformes del alfabeto.
// len(Alphabet) == 32 divide 256, así que el módulo no introduce sesgo.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", domain.InvalidArgument("invite code length must be positive")
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(out), nil
}

// GenerateUnique genera códigos hasta que claimer logra reservar uno.
// Tras maxAttempts colisiones devuelve ResourceExhausted.
func GenerateUnique(ctx context.Context, claimer Claimer, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultAttempts
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := Generate(DefaultLength)
		if err != nil {
			return "", err
		}
		ok, err := claimer.Claim(ctx, code)
		if err != nil {
			return "", fmt.Errorf("claim invite code: %w", err)
		}
		if ok {
			return code, nil
		}
	}
	return "", domain.ResourceExhausted("Failed to generate unique invite code")
}

// Normalize limpia un código introducido por el usuario y valida su longitud.
func Normalize(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" || len(c) != DefaultLength {
		return "", domain.InvalidArgumentf("inviteCode is required and must be %d chars", DefaultLength)
	}
	return c, nil
}

// Valid informa si el código solo usa caracteres del alfabeto.
func Valid(code string) bool {
	if code == "" {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}

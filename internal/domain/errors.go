package domain

import (
	"errors"
	"fmt"
)

// Kind clasifica los errores de dominio con un código legible por máquina.
// Los valores coinciden con los códigos que devuelve la API.
type Kind string

const (
	KindUnauthenticated    Kind = "unauthenticated"
	KindInvalidArgument    Kind = "invalid-argument"
	KindNotFound           Kind = "not-found"
	KindPermissionDenied   Kind = "permission-denied"
	KindFailedPrecondition Kind = "failed-precondition"
	KindResourceExhausted  Kind = "resource-exhausted"
	KindInternal           Kind = "internal"
)

// Error es un error de dominio tipado (sin dependencias externas).
// Details es opcional y viaja en la respuesta HTTP (ej. resultado parcial de envíos).
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is permite comparar por tipo con los sentinelas: errors.Is(err, domain.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinelas por tipo, para usar con errors.Is.
var (
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated}
	ErrInvalidArgument    = &Error{Kind: KindInvalidArgument}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrPermissionDenied   = &Error{Kind: KindPermissionDenied}
	ErrFailedPrecondition = &Error{Kind: KindFailedPrecondition}
	ErrResourceExhausted  = &Error{Kind: KindResourceExhausted}
	ErrInternal           = &Error{Kind: KindInternal}
)

// Unauthenticated construye un error de identidad ausente.
func Unauthenticated(msg string) error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

// InvalidArgument construye un error de entrada inválida.
func InvalidArgument(msg string) error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

// InvalidArgumentf igual que InvalidArgument con formato.
func InvalidArgumentf(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NotFound construye un error de recurso inexistente.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// PermissionDenied construye un error de rol insuficiente.
func PermissionDenied(msg string) error {
	return &Error{Kind: KindPermissionDenied, Message: msg}
}

// FailedPrecondition construye un error de etapa o condición previa incumplida.
func FailedPrecondition(msg string) error {
	return &Error{Kind: KindFailedPrecondition, Message: msg}
}

// FailedPreconditionf igual que FailedPrecondition con formato.
func FailedPreconditionf(format string, args ...any) error {
	return &Error{Kind: KindFailedPrecondition, Message: fmt.Sprintf(format, args...)}
}

// ResourceExhausted construye un error de agotamiento (ej. reintentos de código de invitación).
func ResourceExhausted(msg string) error {
	return &Error{Kind: KindResourceExhausted, Message: msg}
}

// Internal construye un error interno con un mensaje seguro para el cliente.
func Internal(msg string) error {
	return &Error{Kind: KindInternal, Message: msg}
}

// KindOf devuelve el tipo del error. Cualquier error no clasificado es interno.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// AsError extrae el *Error de dominio si existe.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/dto"
	"github.com/jahonen/partnermap/internal/domain"
)

// internalMessage texto genérico para errores no clasificados: nunca se filtra el del driver.
const internalMessage = "Internal error"

// StatusFor traduce el tipo de error de dominio a código HTTP.
func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case domain.KindInvalidArgument:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindPermissionDenied:
		return fiber.StatusForbidden
	case domain.KindFailedPrecondition:
		return fiber.StatusPreconditionFailed
	case domain.KindResourceExhausted:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError responde {code, message[, details]}. Los errores sin tipo se registran
// con el contexto del request y se devuelven como internal.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	body := dto.ErrorResponse{Code: string(domain.KindInternal), Message: internalMessage}
	if de, ok := domain.AsError(err); ok {
		body.Code = string(de.Kind)
		body.Message = de.Message
		body.Details = de.Details
		if de.Kind == domain.KindInternal {
			logRequestError(c, log, err)
		}
	} else {
		logRequestError(c, log, err)
	}
	return c.Status(StatusFor(domain.Kind(body.Code))).JSON(body)
}

func logRequestError(c *fiber.Ctx, log zerolog.Logger, err error) {
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("company_id", c.Params("companyId")).
		Str("user_id", GetCaller(c).UserID).
		Msg("request:error")
}

// ErrorHandler manejador global de fiber: errores de fiber conservan su status,
// el resto pasa por writeError.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if fe, ok := err.(*fiber.Error); ok {
			code := string(domain.KindInternal)
			switch fe.Code {
			case fiber.StatusNotFound:
				code = string(domain.KindNotFound)
			case fiber.StatusBadRequest, fiber.StatusMethodNotAllowed, fiber.StatusRequestEntityTooLarge:
				code = string(domain.KindInvalidArgument)
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
		return writeError(c, log, err)
	}
}

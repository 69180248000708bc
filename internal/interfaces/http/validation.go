package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jahonen/partnermap/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los mensajes usan el nombre JSON del campo, no el de Go.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// parseBody decodifica el cuerpo JSON y valida las etiquetas del DTO.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return validateStruct(out)
	}
	if err := c.BodyParser(out); err != nil {
		return domain.InvalidArgument("Invalid JSON body")
	}
	return validateStruct(out)
}

// validateStruct traduce el primer fallo de validación a invalid-argument.
func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.InvalidArgument("Invalid request")
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return domain.InvalidArgumentf("%s is required", fe.Field())
	case "max":
		return domain.InvalidArgumentf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return domain.InvalidArgumentf("%s must be a valid email", fe.Field())
	case "oneof":
		return domain.InvalidArgumentf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return domain.InvalidArgumentf("%s is invalid", fe.Field())
	}
}

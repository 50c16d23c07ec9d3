package helper

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apperror "evalku_backend/internals/helpers/errors"
)

// Success response without custom code (default 200)
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusOK, message, data)
}

// Success response with custom code (e.g. 201 for created)
func SuccessWithCode(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

// Simple error response
func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
	})
}

// Error response carrying field-level details
func ErrorWithDetails(c *fiber.Ctx, code int, message string, details interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
		"errors":  details,
	})
}

// ValidationError renders validator.v10 failures as {field: tag} pairs.
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Error(c, fiber.StatusBadRequest, "Invalid input")
	}

	fields := make([]fiber.Map, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fiber.Map{
			"field":   fe.Field(),
			"message": validationMessage(fe),
		})
	}
	return ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email format"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must not exceed " + fe.Param()
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "lte":
		return fe.Field() + " must not exceed " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return "invalid value"
	}
}

// FromAppError maps a typed service error to the JSON envelope.
// Unknown errors become a generic 500 and are logged server-side only.
func FromAppError(c *fiber.Ctx, err error) error {
	if ae, ok := apperror.As(err); ok {
		return Error(c, ae.HTTPStatus(), ae.Message)
	}
	if fe, ok := err.(*fiber.Error); ok {
		return Error(c, fe.Code, fe.Message)
	}
	log.Printf("[ERROR] unhandled error: %v", err)
	return Error(c, fiber.StatusInternalServerError, "Internal server error")
}

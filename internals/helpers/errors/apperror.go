// Typed business errors raised by the service layer. Controllers map
// them to HTTP responses in exactly one place (helper.FromAppError).
package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindConflict
	KindInvalidTransition
	KindUnauthorized
)

type AppError struct {
	Kind    Kind
	Message string
}

func (e *AppError) Error() string { return e.Message }

// HTTPStatus maps the error kind to its response status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindInvalidTransition:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindForbidden:
		return fiber.StatusForbidden
	case KindConflict:
		return fiber.StatusConflict
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func Validation(msg string) *AppError   { return &AppError{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *AppError     { return &AppError{Kind: KindNotFound, Message: msg} }
func Forbidden(msg string) *AppError    { return &AppError{Kind: KindForbidden, Message: msg} }
func Conflict(msg string) *AppError     { return &AppError{Kind: KindConflict, Message: msg} }
func Unauthorized(msg string) *AppError { return &AppError{Kind: KindUnauthorized, Message: msg} }
func Internal(msg string) *AppError     { return &AppError{Kind: KindInternal, Message: msg} }

func InvalidTransition(from, to fmt.Stringer) *AppError {
	return &AppError{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("Cannot transition from %s to %s", from, to),
	}
}

func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	if ae, ok := As(err); ok {
		return ae.Kind == kind
	}
	return false
}

func IsValidation(err error) bool        { return IsKind(err, KindValidation) }
func IsNotFound(err error) bool          { return IsKind(err, KindNotFound) }
func IsForbidden(err error) bool         { return IsKind(err, KindForbidden) }
func IsConflict(err error) bool          { return IsKind(err, KindConflict) }
func IsInvalidTransition(err error) bool { return IsKind(err, KindInvalidTransition) }
func IsUnauthorized(err error) bool      { return IsKind(err, KindUnauthorized) }

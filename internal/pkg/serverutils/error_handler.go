package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Domain errors allowed across the HTTP boundary. Everything else is a 500
// with a generic message; collaborator failures are absorbed further down
// and should never reach here.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("resource not found")
)

// ValidationError carries a user-facing description of what was malformed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrorHandlerMiddleware converts domain errors into JSON responses.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *ValidationError
		switch {
		case errors.Is(err, ErrNotAuthenticated):
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Not authenticated"))
		case errors.Is(err, ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(404, "Not found"))
		case errors.As(err, &validationErr):
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse(422, validationErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, "Internal server error"))
	}
}

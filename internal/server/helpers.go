package server

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"devconnect/internal/middleware"
	"devconnect/internal/models"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// MessageResponse is the body of endpoints that only confirm an action.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// TokenResponse carries a freshly issued credential.
type TokenResponse struct {
	Token string `json:"token"`
}

// respond writes err with the status its kind maps to.
// Internal causes are logged here and never reach the client.
func respond(c *fiber.Ctx, err error) error {
	status := models.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, status, err)
}

// errorHandler answers errors that escape a handler, including recovered panics.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	return respond(c, err)
}

// parseBody decodes the request body into dst.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// parseID extracts the :id route parameter as a positive uint.
// A malformed id is indistinguishable from a missing record, so it answers
// 404 with notFound and returns errResponseWritten.
func parseID(c *fiber.Ctx, notFound string) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 0)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError(notFound))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the caller placed in locals by the auth guard.
func currentUserID(c *fiber.Ctx) (uint, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("No token, authorization denied"))
		return 0, errResponseWritten
	}
	return id, nil
}

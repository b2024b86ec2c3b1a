// Package middleware provides the request pipeline pieces shared by all routes:
// the auth guard, structured logging, rate limiting, tracing and metrics.
package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"devconnect/internal/auth"
	"devconnect/internal/models"
	"devconnect/internal/observability"
)

// TokenHeader is the primary credential header.
const TokenHeader = "x-auth-token"

// TokenVerifier checks a raw credential.
type TokenVerifier interface {
	Verify(token string) auth.Verification
}

// credential returns the caller's token from x-auth-token, falling back to a Bearer header.
func credential(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Get(TokenHeader)); token != "" {
		return token
	}
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// AuthRequired enforces authentication for protected routes.
// A missing credential answers 401; any credential that fails verification answers 403.
func AuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := verifier.Verify(credential(c))

		switch v.Reason {
		case auth.ReasonNone:
		case auth.ReasonMissing:
			observability.RecordAuthEvent("guard", v.Reason.String())
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("No token, authorization denied"))
		default:
			observability.RecordAuthEvent("guard", v.Reason.String())
			Logger.WarnContext(c.UserContext(), "credential rejected",
				slog.String("reason", v.Reason.String()),
				slog.String("path", c.Path()),
			)
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Token is not valid"))
		}

		// Store user ID in context
		c.Locals("userID", v.UserID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), UserIDKey, v.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// UserID returns the authenticated caller set by AuthRequired.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok && id != 0
}

// UserIDFromContext returns the authenticated caller carried by ctx.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok && id != 0
}

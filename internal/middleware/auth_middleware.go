package middleware

import (
	"strings"

	"go-inventory-sales/internal/apperror"
	"go-inventory-sales/pkg/identity"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
)

// RequireAuth verifies the bearer token and sets the caller identity in the
// request locals. Requests without a valid token never reach the handler.
func RequireAuth(verifier identity.Verifier, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthenticated(c, "Missing authorization token")
		}

		token, ok := BearerToken(authHeader)
		if !ok {
			return unauthenticated(c, "Invalid authorization format. Use: Bearer <token>")
		}

		id, err := verifier.Verify(c.UserContext(), token)
		if err != nil {
			log.Debug("token rejected", zap.String("path", c.Path()), zap.Error(err))
			return unauthenticated(c, "Invalid or expired token")
		}

		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalUserEmail, id.Email)
		return c.Next()
	}
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" value
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthenticated(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"kind":  apperror.KindUnauthenticated,
	})
}

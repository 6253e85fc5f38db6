package handler

import (
	"errors"

	"go-inventory-sales/internal/apperror"
	"go-inventory-sales/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getUserID returns the caller id set by RequireAuth
func getUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	return userID
}

// respondError renders err as {"error", "kind", "details"?}
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal("Internal Server Error", err)
	}

	body := fiber.Map{"error": appErr.Message, "kind": appErr.Kind}
	if appErr.Details != nil {
		body["details"] = appErr.Details
	}
	return c.Status(apperror.Status(appErr)).JSON(body)
}

func badRequest(c *fiber.Ctx, message string) error {
	return respondError(c, apperror.Validation(message, nil))
}

// productID parses the :id param. Malformed ids cannot match any product.
func productID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.NotFound("Product not found")
	}
	return id, nil
}

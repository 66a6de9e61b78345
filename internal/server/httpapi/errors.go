package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dkazarov/uploadgate/internal/common"
)

// fail maps a service error to the wire contract. Sentinel errors carry
// their own status; anything else is a 500 with a generic message and the
// detail only in the log.
func (s *Server) fail(c *fiber.Ctx, err error, internalMsg string) error {
	switch {
	case errors.Is(err, common.ErrBadRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, common.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	case errors.Is(err, common.ErrUnauthenticated), errors.Is(err, common.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication failed"})
	case errors.Is(err, common.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, common.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, common.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already exists"})
	case errors.Is(err, common.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Upload already decided"})
	}

	s.logger.Error(c.Context(), internalMsg, "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": internalMsg})
}

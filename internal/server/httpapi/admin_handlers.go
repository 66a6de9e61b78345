package httpapi

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleGetConfig(c *fiber.Ctx) error {
	cfg, err := s.emailCfg.GetRedacted(c.Context())
	if err != nil {
		return s.fail(c, err, "Failed to get configuration")
	}
	return c.JSON(cfg)
}

func (s *Server) handleUpdateConfig(c *fiber.Ctx) error {
	actor := identity(c)

	var patch map[string]any
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid configuration"})
	}

	if err := s.emailCfg.Update(c.Context(), patch, actor.Email); err != nil {
		return s.fail(c, err, "Failed to update configuration")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Configuration updated successfully",
		"updated_by": actor.Email,
	})
}

// handleTestEmail reports transport failures in the body, not the status
// line: the admin is debugging SMTP settings and wants the error text.
func (s *Server) handleTestEmail(c *fiber.Ctx) error {
	actor := identity(c)

	if err := s.notifier.SendTest(c.Context(), actor.Email); err != nil {
		return c.JSON(fiber.Map{
			"success": false,
			"error":   fmt.Sprintf("Test email failed: %s", err.Error()),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Test email sent successfully to %s", actor.Email),
	})
}

package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dkazarov/uploadgate/internal/server/models"
)

func (s *Server) handlePending(c *fiber.Ctx) error {
	uploads, err := s.uploads.ListPending(c.Context())
	if err != nil {
		return s.fail(c, err, "Failed to get pending uploads")
	}
	if uploads == nil {
		uploads = []*models.Upload{}
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"uploads":   uploads,
		"managedBy": identity(c).Email,
		"count":     len(uploads),
	})
}

func (s *Server) handleApprove(c *fiber.Ctx) error {
	actor := identity(c)

	if _, err := s.uploads.Approve(c.Context(), c.Params("id"), actor.Email); err != nil {
		return s.fail(c, err, "Failed to approve upload")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Upload approved successfully",
		"approvedBy": actor.Email,
	})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleReject(c *fiber.Ctx) error {
	actor := identity(c)

	var req rejectRequest
	_ = c.BodyParser(&req)

	if _, err := s.uploads.Reject(c.Context(), c.Params("id"), actor.Email, req.Reason); err != nil {
		return s.fail(c, err, "Failed to reject upload")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Upload rejected",
		"rejectedBy": actor.Email,
	})
}

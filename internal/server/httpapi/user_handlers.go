package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dkazarov/uploadgate/internal/server/models"
)

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	users, err := s.users.List(c.Context())
	if err != nil {
		return s.fail(c, err, "Failed to fetch users")
	}
	if users == nil {
		users = []*models.User{}
	}
	return c.JSON(users)
}

type createUserRequest struct {
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Password string   `json:"password"`
	Role     string   `json:"role"`
	Roles    []string `json:"roles"`
}

func (s *Server) handleCreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	roles := req.Roles
	if len(roles) == 0 && req.Role != "" {
		roles = []string{req.Role}
	}

	user, err := s.users.Create(c.Context(), req.Email, req.Name, req.Password, roles)
	if err != nil {
		return s.fail(c, err, "Failed to create user")
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

type updateRoleRequest struct {
	Role  string   `json:"role"`
	Roles []string `json:"roles"`
}

func (s *Server) handleUpdateUserRole(c *fiber.Ctx) error {
	var req updateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	roles := req.Roles
	if len(roles) == 0 && req.Role != "" {
		roles = []string{req.Role}
	}

	if err := s.users.UpdateRoles(c.Context(), identity(c), c.Params("id"), roles); err != nil {
		return s.fail(c, err, "Failed to update user role")
	}

	return c.JSON(fiber.Map{"success": true, "message": "User role updated successfully"})
}

func (s *Server) handleDeleteUser(c *fiber.Ctx) error {
	if err := s.users.Delete(c.Context(), identity(c), c.Params("id")); err != nil {
		return s.fail(c, err, "Failed to delete user")
	}
	return c.JSON(fiber.Map{"success": true, "message": "User deleted successfully"})
}

package httpapi

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dkazarov/uploadgate/internal/server/auth"
	"github.com/dkazarov/uploadgate/internal/server/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	res, err := s.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return s.fail(c, err, "Login failed")
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    res.Handle,
		HTTPOnly: true,
		MaxAge:   int(s.cfg.SessionTTL / time.Second),
	})

	return c.JSON(fiber.Map{
		"success": true,
		"token":   res.Token,
		"user":    models.Identity{UserID: res.User.ID, Email: res.User.Email, Roles: res.User.Roles},
	})
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	if err := s.auth.Logout(c.Context(), c.Cookies(sessionCookieName)); err != nil {
		return s.fail(c, err, "Logout failed")
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HTTPOnly: true,
		MaxAge:   -1,
	})

	return c.JSON(fiber.Map{"success": true})
}

// handleVerify serves the edge-verifier endpoints: it authenticates the
// request from its own carriers, checks the role, and reflects the identity
// into X-User-* response headers for the proxy to forward.
func (s *Server) handleVerify(role auth.Role, denyMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var bearer string
		if h := c.Get(fiber.HeaderAuthorization); len(h) > 7 && h[:7] == "Bearer " {
			bearer = h[7:]
		}

		ident, err := s.auth.Verify(c.Context(), bearer, c.Cookies(sessionCookieName))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication failed"})
		}
		if !auth.Satisfies(ident.Roles, role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": denyMessage})
		}

		roles, err := json.Marshal(ident.Roles)
		if err != nil {
			return s.fail(c, err, "Authentication failed")
		}

		c.Set("X-User-ID", ident.UserID)
		c.Set("X-User-Email", ident.Email)
		c.Set("X-User-Roles", string(roles))

		return c.JSON(fiber.Map{"success": true, "user": ident.Email})
	}
}

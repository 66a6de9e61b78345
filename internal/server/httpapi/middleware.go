package httpapi

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dkazarov/uploadgate/internal/common"
	"github.com/dkazarov/uploadgate/internal/server/auth"
	"github.com/dkazarov/uploadgate/internal/server/models"
)

const identityKey = "identity"

const sessionCookieName = "sessionId"

// resolveIdentity extracts the caller's identity. Forwarded X-User-* headers
// are honored only when the deployment declares a verifying edge in front of
// this process; otherwise the request must carry a bearer token or a session
// cookie.
func (s *Server) resolveIdentity(c *fiber.Ctx) (models.Identity, error) {
	if s.cfg.TrustForwardedHeaders {
		if id := c.Get("X-User-ID"); id != "" {
			var roles []string
			if raw := c.Get("X-User-Roles"); raw != "" {
				if err := json.Unmarshal([]byte(raw), &roles); err != nil {
					return models.Identity{}, common.ErrUnauthenticated
				}
			}
			return models.Identity{UserID: id, Email: c.Get("X-User-Email"), Roles: roles}, nil
		}
	}

	var bearer string
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		bearer = strings.TrimPrefix(h, "Bearer ")
	}

	return s.auth.Verify(c.Context(), bearer, c.Cookies(sessionCookieName))
}

// requireRole authenticates the request and checks the role requirement.
// Missing identity is 401, insufficient role is 403.
func (s *Server) requireRole(role auth.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, err := s.resolveIdentity(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication failed"})
		}
		if !auth.Satisfies(ident.Roles, role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": roleErrorMessage(role)})
		}
		c.Locals(identityKey, ident)
		return c.Next()
	}
}

func roleErrorMessage(role auth.Role) string {
	switch role {
	case auth.RoleAdmin:
		return "Admin access required"
	case auth.RoleManager:
		return "Manager access required"
	default:
		return "Access denied"
	}
}

// identity returns the identity stored by requireRole.
func identity(c *fiber.Ctx) models.Identity {
	ident, _ := c.Locals(identityKey).(models.Identity)
	return ident
}

// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"cyberquest-backend/services"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware maps the authenticated principal forwarded by the
// gateway (X-User-ID carries the Clerk user id) to the internal user record,
// creating it on first sight. Handlers downstream read "user" / "user_id" /
// "user_roles" from locals.
func UserContextMiddleware(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		externalID := c.Get("X-User-ID")
		if externalID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		user, err := users.EnsureUser(externalID, services.UserProfile{
			Email:     c.Get("X-User-Email"),
			Username:  c.Get("X-User-Name"),
			FirstName: c.Get("X-User-First-Name"),
			LastName:  c.Get("X-User-Last-Name"),
		})
		if err != nil {
			log.Printf("❌ [USER_CTX] failed to resolve user %s: %v", externalID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to resolve user",
			})
		}

		var roles []string
		for _, r := range strings.Split(c.Get("X-User-Roles"), ",") {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, r)
			}
		}

		c.Locals("user", user)
		c.Locals("user_id", user.ID)
		c.Locals("user_roles", roles)
		return c.Next()
	}
}

// RequireRole guards admin routes on the roles forwarded by the gateway.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient role",
		})
	}
}

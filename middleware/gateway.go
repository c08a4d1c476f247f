// middleware/gateway.go
package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Paths reachable without the gateway token: the Clerk webhook authenticates
// itself with a svix signature, and certificate verification is public by
// design.
var publicPathPrefixes = []string{
	"/api/webhooks/",
	"/api/certificates/verify",
}

// GatewayAuthMiddleware validates the Bearer token set by the API gateway on
// every non-public route.
func GatewayAuthMiddleware() fiber.Handler {
	expectedToken := os.Getenv("TRAINING_SERVICE_TOKEN")
	if expectedToken == "" {
		log.Fatal("❌ TRAINING_SERVICE_TOKEN is not set — service cannot authenticate Gateway")
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, prefix := range publicPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Printf("🚫 [GATEWAY_AUTH] Missing Authorization header for %s", path)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "gateway authentication token missing",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token != expectedToken {
			log.Printf("❌ [GATEWAY_AUTH] Invalid token for %s", path)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid gateway authentication token",
			})
		}
		return c.Next()
	}
}

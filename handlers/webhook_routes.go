// handlers/webhook_routes.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"cyberquest-backend/services"

	"github.com/gofiber/fiber/v2"
	svix "github.com/svix/svix-webhooks/go"
)

// clerkUserPayload is the subset of Clerk's user object the service cares
// about.
type clerkUserPayload struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (p *clerkUserPayload) primaryEmail() string {
	if len(p.EmailAddresses) > 0 {
		return p.EmailAddresses[0].EmailAddress
	}
	return ""
}

// SetupWebhookRoutes registers the Clerk webhook. Events are svix-signed;
// anything that fails verification is rejected with 400 before the body is
// interpreted.
func SetupWebhookRoutes(app *fiber.App, userService *services.UserService) {
	secret := os.Getenv("CLERK_WEBHOOK_SECRET")
	if secret == "" {
		log.Fatal("❌ CLERK_WEBHOOK_SECRET is not set — cannot verify Clerk webhooks")
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		log.Fatalf("❌ invalid CLERK_WEBHOOK_SECRET: %v", err)
	}

	app.Post("/api/webhooks/clerk", func(c *fiber.Ctx) error {
		headers := http.Header{}
		headers.Set("svix-id", c.Get("svix-id"))
		headers.Set("svix-timestamp", c.Get("svix-timestamp"))
		headers.Set("svix-signature", c.Get("svix-signature"))
		if err := wh.Verify(c.Body(), headers); err != nil {
			log.Printf("🚫 [WEBHOOK] signature verification failed: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid webhook signature",
			})
		}

		var event struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(c.Body(), &event); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid webhook payload",
			})
		}

		switch event.Type {
		case "user.created":
			var payload clerkUserPayload
			if err := json.Unmarshal(event.Data, &payload); err != nil || payload.ID == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user payload"})
			}
			if _, err := userService.EnsureUser(payload.ID, services.UserProfile{
				Email:     payload.primaryEmail(),
				Username:  payload.Username,
				FirstName: payload.FirstName,
				LastName:  payload.LastName,
				ImageURL:  payload.ImageURL,
			}); err != nil {
				log.Printf("❌ [WEBHOOK] user.created failed for %s: %v", payload.ID, err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
			}

		case "user.updated":
			var payload clerkUserPayload
			if err := json.Unmarshal(event.Data, &payload); err != nil || payload.ID == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user payload"})
			}
			if _, err := userService.UpdateProfile(payload.ID, services.UserProfile{
				Email:     payload.primaryEmail(),
				Username:  payload.Username,
				FirstName: payload.FirstName,
				LastName:  payload.LastName,
				ImageURL:  payload.ImageURL,
			}); err != nil {
				log.Printf("❌ [WEBHOOK] user.updated failed for %s: %v", payload.ID, err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update user"})
			}

		case "user.deleted":
			var payload struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(event.Data, &payload); err != nil || payload.ID == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user payload"})
			}
			if err := userService.DeleteByExternalID(payload.ID); err != nil {
				log.Printf("❌ [WEBHOOK] user.deleted failed for %s: %v", payload.ID, err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete user"})
			}

		default:
			// Unknown event types are acknowledged so Clerk stops retrying them.
			log.Printf("ℹ️ [WEBHOOK] ignoring event type %q", event.Type)
		}

		return c.JSON(fiber.Map{"success": true})
	})
}

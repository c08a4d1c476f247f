// handlers/user_routes.go
package handlers

import (
	"cyberquest-backend/models"
	"cyberquest-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app fiber.Router, userService *services.UserService) {
	// GET /api/users — the caller's profile. The context middleware already
	// created the record on first sight, so this never 404s for an
	// authenticated caller.
	app.Get("/users", func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)
		return c.JSON(user)
	})

	// POST /api/users — create-or-update the caller's profile fields.
	app.Post("/users", func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)
		var body struct {
			Email     string `json:"email"`
			Username  string `json:"username"`
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
			ImageURL  string `json:"imageUrl"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		updated, err := userService.UpdateProfile(user.ExternalUserID, services.UserProfile{
			Email:     body.Email,
			Username:  body.Username,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			ImageURL:  body.ImageURL,
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update profile",
			})
		}
		return c.JSON(updated)
	})

	// GET /api/users/progress — aggregate view: user + level progress +
	// achievements + certificates.
	app.Get("/users/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		overview, err := userService.GetProgressOverview(userID)
		if err != nil {
			if err == services.ErrUserNotFound {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load progress overview",
			})
		}
		return c.JSON(overview)
	})
}

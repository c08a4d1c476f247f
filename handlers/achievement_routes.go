// handlers/achievement_routes.go
package handlers

import (
	"errors"

	"cyberquest-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAchievementRoutes(app fiber.Router, achievementService *services.AchievementService) {
	// GET /api/achievements — the badge catalog.
	app.Get("/achievements", func(c *fiber.Ctx) error {
		achievements, err := achievementService.ListCatalog()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load achievements",
			})
		}
		return c.JSON(achievements)
	})

	// GET /api/users/achievements — the caller's awarded badges.
	app.Get("/users/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		awards, err := achievementService.ListForUser(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load user achievements",
			})
		}
		return c.JSON(awards)
	})

	// POST /api/users/achievements — explicit idempotent award. Repeat calls
	// are a no-op; PointsValue is never folded into TotalPoints.
	app.Post("/users/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var body struct {
			AchievementID string `json:"achievementId"`
		}
		if err := c.BodyParser(&body); err != nil || body.AchievementID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "achievementId is required",
			})
		}
		created, err := achievementService.Award(userID, body.AchievementID)
		if err != nil {
			if errors.Is(err, services.ErrAchievementNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "achievement not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to award achievement",
			})
		}
		return c.JSON(fiber.Map{
			"success":       true,
			"newlyAwarded":  created,
			"achievementId": body.AchievementID,
		})
	})
}

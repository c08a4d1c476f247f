// handlers/leaderboard_routes.go
package handlers

import (
	"errors"
	"strconv"

	"cyberquest-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app fiber.Router, leaderboardService *services.LeaderboardService) {
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "25"))
		entries, err := leaderboardService.Top(c.Context(), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load leaderboard",
			})
		}
		return c.JSON(entries)
	})

	app.Get("/leaderboard/me", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		entry, err := leaderboardService.RankOf(c.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrNotRanked) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not on the leaderboard"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load rank",
			})
		}
		return c.JSON(entry)
	})
}

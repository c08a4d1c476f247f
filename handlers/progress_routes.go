// handlers/progress_routes.go
package handlers

import (
	"encoding/json"
	"errors"

	"cyberquest-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func SetupProgressRoutes(app fiber.Router, progressService *services.ProgressService) {
	// POST /api/activities/:id/progress — the completion transaction.
	app.Post("/activities/:id/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		activityID := c.Params("id")

		var body struct {
			IsCompleted  *bool           `json:"isCompleted"`
			Score        *float64        `json:"score"`
			PointsEarned *int            `json:"pointsEarned"`
			Answers      json.RawMessage `json:"answers"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if body.IsCompleted == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "isCompleted is required",
			})
		}
		if body.Score != nil && (*body.Score < 0 || *body.Score > 100) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "score must be between 0 and 100",
			})
		}
		if body.PointsEarned != nil && *body.PointsEarned < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "pointsEarned must be non-negative",
			})
		}

		result, err := progressService.RecordActivityCompletion(c.Context(), userID, activityID, services.CompletionRequest{
			IsCompleted:  *body.IsCompleted,
			Score:        body.Score,
			PointsEarned: body.PointsEarned,
			Answers:      datatypes.JSON(body.Answers),
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrActivityNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "activity not found"})
			case errors.Is(err, services.ErrUserNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to record progress",
				})
			}
		}
		return c.JSON(fiber.Map{
			"success":        true,
			"isCompleted":    result.IsCompleted,
			"pointsEarned":   result.PointsEarned,
			"attempts":       result.Attempts,
			"levelCompleted": result.LevelCompleted,
			"totalPoints":    result.TotalPoints,
		})
	})

	// GET /api/check-progress — the on-demand reconciliation sweep.
	app.Get("/check-progress", func(c *fiber.Ctx) error {
		fixes, err := progressService.RepairProgress(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "progress repair failed",
			})
		}
		if fixes == nil {
			fixes = []string{}
		}
		return c.JSON(fiber.Map{
			"success": true,
			"fixes":   fixes,
		})
	})
}

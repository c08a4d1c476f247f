// handlers/admin_routes.go
package handlers

import (
	"errors"
	"path/filepath"

	"cyberquest-backend/services"
	"cyberquest-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SetupAdminRoutes registers the catalog-management surface. The caller is
// expected to mount this behind RequireRole("admin").
func SetupAdminRoutes(app fiber.Router, catalogService *services.CatalogService, achievementService *services.AchievementService) {
	app.Post("/levels", func(c *fiber.Ctx) error {
		var input services.LevelInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		level, err := catalogService.CreateLevel(input)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to create level",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(level)
	})

	app.Put("/levels/:id", func(c *fiber.Ctx) error {
		var input services.LevelInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		level, err := catalogService.UpdateLevel(c.Params("id"), input)
		if err != nil {
			if errors.Is(err, services.ErrLevelNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "level not found"})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to update level",
				"cause": err.Error(),
			})
		}
		return c.JSON(level)
	})

	app.Post("/activities", func(c *fiber.Ctx) error {
		var input services.ActivityInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		activity, err := catalogService.CreateActivity(input)
		if err != nil {
			if errors.Is(err, services.ErrLevelNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "level not found"})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to create activity",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(activity)
	})

	app.Put("/activities/:id", func(c *fiber.Ctx) error {
		var input services.ActivityInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		activity, err := catalogService.UpdateActivity(c.Params("id"), input)
		if err != nil {
			if errors.Is(err, services.ErrActivityNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "activity not found"})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to update activity",
				"cause": err.Error(),
			})
		}
		return c.JSON(activity)
	})

	// POST /api/admin/achievements — define a custom badge.
	app.Post("/achievements", func(c *fiber.Ctx) error {
		var input services.AchievementInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		achievement, err := achievementService.Create(input)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to create achievement",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(achievement)
	})

	// POST /api/admin/achievements/:id/icon — multipart icon upload to R2.
	app.Post("/achievements/:id/icon", func(c *fiber.Ctx) error {
		if !utils.R2Enabled() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "object storage is not configured",
			})
		}
		file, err := c.FormFile("icon")
		if err != nil || file.Size == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "icon file is required",
			})
		}
		ext := filepath.Ext(file.Filename)
		if ext == "" {
			ext = ".png"
		}
		key := "achievements/icons/" + uuid.NewString() + ext
		url, err := utils.UploadFileToR2(file, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to upload icon",
			})
		}
		if err := catalogService.SetAchievementIcon(c.Params("id"), url); err != nil {
			if errors.Is(err, services.ErrAchievementNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "achievement not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to store icon URL",
			})
		}
		return c.JSON(fiber.Map{"success": true, "iconUrl": url})
	})

	// POST /api/admin/levels/:id/image — level artwork upload to R2.
	app.Post("/levels/:id/image", func(c *fiber.Ctx) error {
		if !utils.R2Enabled() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "object storage is not configured",
			})
		}
		file, err := c.FormFile("image")
		if err != nil || file.Size == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "image file is required",
			})
		}
		ext := filepath.Ext(file.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		key := "levels/artwork/" + uuid.NewString() + ext
		url, err := utils.UploadFileToR2(file, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to upload image",
			})
		}
		if err := catalogService.SetLevelImage(c.Params("id"), url); err != nil {
			if errors.Is(err, services.ErrLevelNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "level not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to store image URL",
			})
		}
		return c.JSON(fiber.Map{"success": true, "imageUrl": url})
	})
}

// handlers/catalog_routes.go
package handlers

import (
	"cyberquest-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCatalogRoutes(app fiber.Router, catalogService *services.CatalogService) {
	app.Get("/levels", func(c *fiber.Ctx) error {
		levels, err := catalogService.ListLevels()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load levels",
			})
		}
		return c.JSON(levels)
	})

	app.Get("/levels/:id", func(c *fiber.Ctx) error {
		level, err := catalogService.GetLevel(c.Params("id"))
		if err != nil {
			if err == services.ErrLevelNotFound {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "level not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load level",
			})
		}
		return c.JSON(level)
	})

	app.Get("/activities/:id", func(c *fiber.Ctx) error {
		activity, err := catalogService.GetActivity(c.Params("id"))
		if err != nil {
			if err == services.ErrActivityNotFound {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "activity not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load activity",
			})
		}
		return c.JSON(activity)
	})
}

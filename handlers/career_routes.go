// handlers/career_routes.go
package handlers

import (
	"cyberquest-backend/models"
	"cyberquest-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCareerRoutes(app fiber.Router, careerService *services.CareerService) {
	// GET /api/insights?industry= — cached market snapshot, regenerated when
	// stale. AI failures surface as 502 with no retry.
	app.Get("/insights", func(c *fiber.Ctx) error {
		industry := c.Query("industry")
		if industry == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "industry query parameter is required",
			})
		}
		insight, err := careerService.GetIndustryInsight(c.Context(), industry)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "failed to generate industry insight",
			})
		}
		return c.JSON(insight)
	})

	// POST /api/insights — body form of the same lookup.
	app.Post("/insights", func(c *fiber.Ctx) error {
		var body struct {
			Industry string `json:"industry"`
		}
		if err := c.BodyParser(&body); err != nil || body.Industry == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "industry is required",
			})
		}
		insight, err := careerService.GetIndustryInsight(c.Context(), body.Industry)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "failed to generate industry insight",
			})
		}
		return c.JSON(insight)
	})

	app.Post("/resume", func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)
		var input services.ResumeInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if input.JobTitle == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "jobTitle is required",
			})
		}
		doc, err := careerService.GenerateResume(c.Context(), user, input)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "failed to generate resume",
			})
		}
		return c.JSON(doc)
	})

	app.Get("/resume", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		docs, err := careerService.ListDocuments(userID, models.CareerDocumentResume)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load resumes",
			})
		}
		return c.JSON(docs)
	})

	app.Post("/cover-letters", func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)
		var input services.CoverLetterInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if input.Company == "" || input.Role == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "company and role are required",
			})
		}
		doc, err := careerService.GenerateCoverLetter(c.Context(), user, input)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "failed to generate cover letter",
			})
		}
		return c.JSON(doc)
	})

	app.Get("/cover-letters", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		docs, err := careerService.ListDocuments(userID, models.CareerDocumentCoverLetter)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load cover letters",
			})
		}
		return c.JSON(docs)
	})
}

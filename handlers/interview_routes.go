// handlers/interview_routes.go
package handlers

import (
	"errors"

	"cyberquest-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupInterviewRoutes(app fiber.Router, interviewService *services.InterviewService) {
	app.Post("/mock-interview/start", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var body struct {
			Role         string `json:"role"`
			Difficulty   string `json:"difficulty"`
			NumQuestions int    `json:"numQuestions"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if body.Role == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "role is required",
			})
		}
		session, err := interviewService.Start(c.Context(), userID, body.Role, body.Difficulty, body.NumQuestions)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "failed to start interview session",
			})
		}
		return c.JSON(session)
	})

	app.Post("/mock-interview/:id/submit", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var body struct {
			Answers []string `json:"answers"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		session, err := interviewService.Submit(c.Context(), userID, c.Params("id"), body.Answers)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrSessionNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "interview session not found"})
			case errors.Is(err, services.ErrSessionCompleted):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "interview session already completed"})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to submit interview answers",
				})
			}
		}
		return c.JSON(session)
	})

	app.Get("/mock-interview", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		sessions, err := interviewService.History(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load interview history",
			})
		}
		return c.JSON(sessions)
	})

	app.Get("/mock-interview/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		session, err := interviewService.Get(userID, c.Params("id"))
		if err != nil {
			if errors.Is(err, services.ErrSessionNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "interview session not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load interview session",
			})
		}
		return c.JSON(session)
	})
}

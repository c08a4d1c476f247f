// handlers/certificate_routes.go
package handlers

import (
	"errors"

	"cyberquest-backend/models"
	"cyberquest-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCertificateRoutes(app fiber.Router, certificateService *services.CertificateService) {
	// POST /api/certificates/generate — gated, idempotent issuance.
	app.Post("/certificates/generate", func(c *fiber.Ctx) error {
		user := c.Locals("user").(*models.User)
		cert, created, err := certificateService.Issue(user)
		if err != nil {
			if errors.Is(err, services.ErrNotEnoughPoints) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error":          "not enough points for a certificate",
					"requiredPoints": services.CertificatePointThreshold,
					"totalPoints":    user.TotalPoints,
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to issue certificate",
			})
		}
		return c.JSON(fiber.Map{
			"success":     true,
			"created":     created,
			"certificate": cert,
		})
	})

	// GET /api/certificates — ?code= verifies, otherwise lists the caller's
	// certificates.
	app.Get("/certificates", func(c *fiber.Ctx) error {
		if code := c.Query("code"); code != "" {
			return verifyCode(c, certificateService, code)
		}
		userID := c.Locals("user_id").(string)
		certs, err := certificateService.ListForUser(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load certificates",
			})
		}
		return c.JSON(certs)
	})

	// POST /api/certificates — verification with the code in the body.
	app.Post("/certificates", func(c *fiber.Ctx) error {
		var body struct {
			Code string `json:"code"`
		}
		if err := c.BodyParser(&body); err != nil || body.Code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "code is required",
			})
		}
		return verifyCode(c, certificateService, body.Code)
	})
}

// SetupPublicCertificateRoutes registers the verification lookup that serves
// public certificate pages without gateway auth.
func SetupPublicCertificateRoutes(app fiber.Router, certificateService *services.CertificateService) {
	app.Get("/certificates/verify", func(c *fiber.Ctx) error {
		code := c.Query("code")
		if code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "code query parameter is required",
			})
		}
		return verifyCode(c, certificateService, code)
	})
}

func verifyCode(c *fiber.Ctx, certificateService *services.CertificateService, code string) error {
	cert, err := certificateService.VerifyByCode(code)
	if err != nil {
		if errors.Is(err, services.ErrCertificateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "certificate not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to verify certificate",
		})
	}
	return c.JSON(fiber.Map{
		"valid":       true,
		"certificate": cert,
	})
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelMarket/internal/pkg/env"
)

// CronAuthMiddleware guards the externally triggered cleanup endpoints with a
// bearer token. Enforcement only kicks in when running non-dev AND a secret
// is configured, so local sweeps stay callable without setup.
func CronAuthMiddleware(c *fiber.Ctx) error {
	secret := strings.TrimSpace(env.GetEnv("CRON_SECRET", ""))
	if env.IsDev() || secret == "" {
		return c.Next()
	}

	auth := strings.TrimSpace(c.Get("Authorization"))
	token := ""
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		token = strings.TrimSpace(auth[7:])
	}
	if token == "" || token != secret {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "invalid cron token",
		})
	}
	return c.Next()
}

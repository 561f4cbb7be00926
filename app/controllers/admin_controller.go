package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelMarket/app/repository"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/database"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/stats"
)

// HandleAdminStats returns the revenue and signup report for one range
// preset (24h, 7d, 30d, all).
func HandleAdminStats(c *fiber.Ctx) error {
	r := c.Query("range", stats.RangeWeek)
	if !stats.ValidRange(r) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "range must be one of 24h, 7d, 30d, all"})
	}

	report, err := stats.GetReport(database.GetDB(), r, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to build report"})
	}

	return c.JSON(report)
}

// HandleAdminOverview returns platform-wide entity counts.
func HandleAdminOverview(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	users, err := repos.User.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count users"})
	}
	listings, err := repos.Listing.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count listings"})
	}
	orders, err := repos.Order.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count orders"})
	}

	return c.JSON(fiber.Map{
		"users":    users,
		"listings": listings,
		"orders":   orders,
	})
}

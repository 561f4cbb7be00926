package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelMarket/internal/pkg/cleanup"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/database"
)

// HandleCronCleanupAssets sweeps listings whose deletion grace period has
// expired. An optional forceId query parameter sweeps one listing
// immediately regardless of its schedule.
func HandleCronCleanupAssets(c *fiber.Ctx) error {
	forceID := parseUintQuery(c, "forceId")

	svc := cleanup.NewService(database.GetDB())
	result, err := svc.SweepListings(forceID, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}

	return c.JSON(result)
}

// HandleCronCleanupTickets sweeps closed tickets past their retention.
func HandleCronCleanupTickets(c *fiber.Ctx) error {
	svc := cleanup.NewService(database.GetDB())
	result, err := svc.SweepTickets(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}

	return c.JSON(result)
}

// HandleCronCleanupNotifications bulk-deletes notifications older than the
// retention window.
func HandleCronCleanupNotifications(c *fiber.Ctx) error {
	svc := cleanup.NewService(database.GetDB())
	deleted, err := svc.SweepNotifications(time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}

	return c.JSON(fiber.Map{"deleted": deleted})
}

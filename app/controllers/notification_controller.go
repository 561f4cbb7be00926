package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PixelMarket/app/repository"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/usercontext"
)

// HandleListNotifications returns the caller's notifications with decoded
// typed payloads, newest first.
func HandleListNotifications(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := pagination(c)

	repo := repository.GetGlobalFactory().GetNotificationRepository()
	notifications, err := repo.GetByUserID(userCtx.UserID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load notifications"})
	}

	unread, err := repo.CountUnread(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count notifications"})
	}

	items := make([]fiber.Map, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		data, decodeErr := n.DecodeData()
		if decodeErr != nil {
			// A malformed row is skipped rather than failing the whole list.
			continue
		}
		items = append(items, fiber.Map{
			"id":         n.ID,
			"type":       n.Type,
			"data":       data,
			"is_read":    n.IsRead,
			"created_at": n.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"notifications": items,
		"unread_count":  unread,
	})
}

// HandleMarkNotificationRead marks a single notification as read.
func HandleMarkNotificationRead(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	notificationID := parseUintParam(c, "id")
	if notificationID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid notification id"})
	}

	err := repository.GetGlobalFactory().GetNotificationRepository().MarkRead(userCtx.UserID, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Notification not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update notification"})
	}

	return c.JSON(fiber.Map{"status": "read"})
}

// HandleMarkAllNotificationsRead marks every unread notification as read.
func HandleMarkAllNotificationsRead(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	err := repository.GetGlobalFactory().GetNotificationRepository().MarkAllRead(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update notifications"})
	}

	return c.JSON(fiber.Map{"status": "read"})
}

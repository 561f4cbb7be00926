package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PixelMarket/app/models"
	"github.com/ManuelReschke/PixelMarket/app/repository"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/database"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/usercontext"
)

// HandleGetWishlist returns the caller's wishlist with listings preloaded.
func HandleGetWishlist(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	entries, err := repository.GetGlobalFactory().GetWishlistRepository().GetByUserID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load wishlist"})
	}

	return c.JSON(fiber.Map{"wishlist": entries})
}

// HandleToggleWishlist adds or removes a listing on the caller's wishlist.
func HandleToggleWishlist(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	listingID := parseUintParam(c, "id")
	if listingID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid listing id"})
	}

	if _, err := repository.GetGlobalFactory().GetListingRepository().GetByID(listingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Listing not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load listing"})
	}

	wishlisted, err := models.ToggleWishlist(database.GetDB(), userCtx.UserID, listingID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update wishlist"})
	}

	return c.JSON(fiber.Map{
		"listing_id": listingID,
		"wishlisted": wishlisted,
	})
}

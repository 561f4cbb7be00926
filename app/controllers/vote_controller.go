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

type voteRequest struct {
	VoteType string `json:"vote_type" validate:"required,oneof=up down"`
}

// HandleVoteListing toggles the caller's vote on a listing. Repeating the
// same vote removes it, the other type switches it.
func HandleVoteListing(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	listingID := parseUintParam(c, "id")
	if listingID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid listing id"})
	}

	var req voteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if !models.ValidVoteType(req.VoteType) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "vote_type must be up or down"})
	}

	listing, err := repository.GetGlobalFactory().GetListingRepository().GetByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Listing not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load listing"})
	}
	if listing.SellerID == userCtx.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "You cannot vote on your own listing"})
	}

	db := database.GetDB()
	if err := models.ToggleAssetVote(db, userCtx.UserID, listingID, req.VoteType); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to record vote"})
	}

	up, down, err := models.CountAssetVotes(db, listingID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count votes"})
	}

	return c.JSON(fiber.Map{
		"listing_id": listingID,
		"upvotes":    up,
		"downvotes":  down,
	})
}

// HandleVoteProfile toggles the caller's vote on another user's profile.
func HandleVoteProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	profileUserID := parseUintParam(c, "id")
	if profileUserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid user id"})
	}
	if profileUserID == userCtx.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "You cannot vote on your own profile"})
	}

	var req voteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if !models.ValidVoteType(req.VoteType) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "vote_type must be up or down"})
	}

	if _, err := repository.GetGlobalFactory().GetUserRepository().GetByID(profileUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load user"})
	}

	if err := models.ToggleProfileVote(database.GetDB(), userCtx.UserID, profileUserID, req.VoteType); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to record vote"})
	}

	return c.JSON(fiber.Map{"profile_user_id": profileUserID})
}

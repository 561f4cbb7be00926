package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PixelMarket/app/models"
	"github.com/ManuelReschke/PixelMarket/app/repository"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/cleanup"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/database"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/usercontext"
)

type listingRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"required,oneof=icons illustrations textures ui-kits fonts other"`
	PriceCents  int64  `json:"price_cents" validate:"min=0"`
}

// HandleCreateListing creates a new asset listing for the logged-in seller.
func HandleCreateListing(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req listingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	listing := models.NewAssetListing(userCtx.UserID, req.Title, req.Description, req.Category, req.PriceCents)
	repo := repository.GetGlobalFactory().GetListingRepository()
	if err := repo.Create(listing); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create listing"})
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}

// HandleUpdateListing edits a listing. Only the seller may edit, and price
// and metadata changes never touch an already scheduled deletion.
func HandleUpdateListing(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	listing, status, errResp := loadOwnListing(c, userCtx.UserID)
	if listing == nil {
		return c.Status(status).JSON(errResp)
	}

	var req listingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	listing.Title = req.Title
	listing.Slug = models.Slugify(req.Title)
	listing.Description = req.Description
	listing.Category = req.Category
	listing.PriceCents = req.PriceCents

	repo := repository.GetGlobalFactory().GetListingRepository()
	if err := repo.Update(listing); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update listing"})
	}

	return c.JSON(listing)
}

// HandleBrowseListings returns the public catalogue page.
func HandleBrowseListings(c *fiber.Ctx) error {
	offset, limit := pagination(c)
	opts := repository.BrowseOptions{
		Category: c.Query("category"),
		Query:    c.Query("q"),
		Sort:     c.Query("sort", repository.SortNewest),
		Offset:   offset,
		Limit:    limit,
	}

	repo := repository.GetGlobalFactory().GetListingRepository()
	listings, total, err := repo.Browse(opts)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}

	return c.JSON(fiber.Map{
		"listings": listings,
		"total":    total,
	})
}

// HandleGetListing returns one listing and bumps its view counter. The bump
// is a column update so concurrent views never lose counts.
func HandleGetListing(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetListingRepository()
	listing, err := repo.GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Listing not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load listing"})
	}

	_ = repo.IncrementViewCount(listing.ID)

	userCtx := usercontext.GetUserContext(c)
	owned := false
	wishlisted := false
	if userCtx.IsLoggedIn {
		owned, _ = repository.GetGlobalFactory().GetOrderRepository().HasPurchase(userCtx.UserID, listing.ID)
		wishlisted, _ = repository.GetGlobalFactory().GetWishlistRepository().Contains(userCtx.UserID, listing.ID)
	}

	upvotes, downvotes, err := models.CountAssetVotes(database.GetDB(), listing.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load votes"})
	}

	return c.JSON(fiber.Map{
		"listing":    listing,
		"is_boosted": listing.IsBoosted(time.Now()),
		"owned":      owned,
		"wishlisted": wishlisted,
		"upvotes":    upvotes,
		"downvotes":  downvotes,
	})
}

// HandleMyListings returns the seller's own listings including those pending
// deletion.
func HandleMyListings(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := pagination(c)

	repo := repository.GetGlobalFactory().GetListingRepository()
	listings, err := repo.GetBySellerID(userCtx.UserID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load listings"})
	}

	return c.JSON(fiber.Map{"listings": listings})
}

// HandleBoostListing spends one boost credit to promote the listing.
func HandleBoostListing(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	listingID := parseUintParam(c, "id")
	if listingID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid listing id"})
	}

	repo := repository.GetGlobalFactory().GetListingRepository()
	listing, err := repo.Boost(listingID, userCtx.UserID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Listing not found"})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": err.Error()})
	}

	return c.JSON(fiber.Map{
		"listing_id":       listing.ID,
		"boost_expires_at": listing.BoostExpiresAt,
	})
}

// HandleScheduleListingDeletion starts the removal grace period and notifies
// buyers.
func HandleScheduleListingDeletion(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	listing, status, errResp := loadOwnListing(c, userCtx.UserID)
	if listing == nil {
		return c.Status(status).JSON(errResp)
	}
	if listing.DeletionScheduledAt != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Deletion is already scheduled"})
	}

	svc := cleanup.NewService(database.GetDB())
	if err := svc.ScheduleListingDeletion(listing, time.Now()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to schedule deletion"})
	}

	return c.JSON(fiber.Map{
		"listing_id":            listing.ID,
		"deletion_scheduled_at": listing.DeletionScheduledAt,
	})
}

// HandleCancelListingDeletion aborts a pending removal inside the grace
// period.
func HandleCancelListingDeletion(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	listing, status, errResp := loadOwnListing(c, userCtx.UserID)
	if listing == nil {
		return c.Status(status).JSON(errResp)
	}
	if listing.DeletionScheduledAt == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "No deletion is scheduled"})
	}

	svc := cleanup.NewService(database.GetDB())
	if err := svc.CancelListingDeletion(listing); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to cancel deletion"})
	}

	return c.JSON(fiber.Map{"listing_id": listing.ID, "deletion_scheduled_at": nil})
}

// loadOwnListing resolves the :id path param to a listing owned by userID.
// Returns nil plus a status and error body when the lookup fails.
func loadOwnListing(c *fiber.Ctx, userID uint) (*models.AssetListing, int, fiber.Map) {
	listingID := parseUintParam(c, "id")
	if listingID == 0 {
		return nil, fiber.StatusBadRequest, fiber.Map{"error": "bad_request", "message": "Invalid listing id"}
	}

	repo := repository.GetGlobalFactory().GetListingRepository()
	listing, err := repo.GetByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.StatusNotFound, fiber.Map{"error": "not_found", "message": "Listing not found"}
		}
		return nil, fiber.StatusInternalServerError, fiber.Map{"error": "internal_server_error", "message": "Failed to load listing"}
	}
	if listing.SellerID != userID {
		return nil, fiber.StatusForbidden, fiber.Map{"error": "forbidden", "message": "Not your listing"}
	}
	return listing, 0, nil
}

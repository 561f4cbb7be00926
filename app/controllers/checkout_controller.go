package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PixelMarket/app/repository"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/database"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/env"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/payments"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/usercontext"
)

type checkoutRequest struct {
	ListingID uint `json:"listing_id" validate:"required,min=1"`
}

// HandleCheckout starts a purchase. Free listings are claimed immediately;
// paid ones return a hosted checkout URL and the order is only written when
// the completion webhook arrives.
func HandleCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "listing_id is required"})
	}

	listing, err := repository.GetGlobalFactory().GetListingRepository().GetByID(req.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Listing not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load listing"})
	}
	if listing.SellerID == userCtx.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "You cannot buy your own listing"})
	}
	if listing.DeletionScheduledAt != nil {
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "gone", "message": "Listing is scheduled for removal"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	svc := payments.NewServiceFromDB(database.GetDB())

	if listing.IsFree() {
		order, err := svc.ClaimFreeListing(ctx, userCtx.UserID, listing)
		if err != nil {
			if errors.Is(err, payments.ErrAlreadyOwned) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "You already own this asset"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to claim listing"})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"order_id": order.ID,
			"status":   order.Status,
		})
	}

	if owned, err := svc.HasOrder(ctx, userCtx.UserID, listing.ID); err == nil && owned {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "You already own this asset"})
	}

	commission := payments.CommissionFor(listing.PriceCents, payments.CommissionPercent())
	baseURL := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:3000")

	client := payments.NewStripeClientFromEnv()
	session, err := client.CreateCheckoutSession(ctx, payments.CheckoutInput{
		ListingID:       listing.ID,
		BuyerID:         userCtx.UserID,
		SellerID:        listing.SellerID,
		AmountCents:     listing.PriceCents,
		CommissionCents: commission,
		Currency:        listing.Currency,
		ProductName:     listing.Title,
		SuccessURL:      baseURL + "/purchases?status=success",
		CancelURL:       baseURL + "/listing/" + listing.UUID + "?status=cancelled",
	})
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "bad_gateway", "message": "Failed to create checkout session"})
	}

	return c.JSON(fiber.Map{
		"checkout_url": session.URL,
		"session_id":   session.ID,
	})
}

// HandleStripeConnect returns the hosted onboarding link for the seller's
// payout account, creating the account on first use.
func HandleStripeConnect(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load user"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	baseURL := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:3000")
	client := payments.NewStripeClientFromEnv()
	accountID, linkURL, err := client.CreateConnectAccountLink(ctx, user.StripeAccountID,
		baseURL+"/seller/payouts?refresh=1",
		baseURL+"/seller/payouts?connected=1",
	)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "bad_gateway", "message": "Failed to create onboarding link"})
	}

	if accountID != user.StripeAccountID {
		user.StripeAccountID = accountID
		if err := repo.Update(user); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save payout account"})
		}
	}

	return c.JSON(fiber.Map{"onboarding_url": linkURL})
}

// HandleMyPurchases lists the caller's orders, newest first.
func HandleMyPurchases(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := pagination(c)

	orders, err := repository.GetGlobalFactory().GetOrderRepository().GetByBuyerID(userCtx.UserID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load purchases"})
	}

	return c.JSON(fiber.Map{"orders": orders})
}

// HandleMySales lists the caller's marketplace sales, newest first.
func HandleMySales(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := pagination(c)

	orders, err := repository.GetGlobalFactory().GetOrderRepository().GetSalesBySellerID(userCtx.UserID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load sales"})
	}

	return c.JSON(fiber.Map{"orders": orders})
}

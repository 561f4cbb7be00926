package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PixelMarket/internal/pkg/database"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/env"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/payments"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/session"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/usercontext"
)

// HandleSubscribe starts a premium subscription checkout.
func HandleSubscribe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	svc := payments.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if existing, err := svc.GetActiveSubscriptionForUser(ctx, userCtx.UserID); err == nil && existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "You already have an active subscription"})
	}

	priceRef := env.GetEnv("STRIPE_PREMIUM_PRICE_ID", "")
	if priceRef == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "unavailable", "message": "Subscriptions are not configured"})
	}

	baseURL := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:3000")
	client := payments.NewStripeClientFromEnv()
	checkout, err := client.CreateSubscriptionSession(ctx, payments.SubscriptionCheckoutInput{
		UserID:     userCtx.UserID,
		PriceRef:   priceRef,
		SuccessURL: baseURL + "/account?subscribed=1",
		CancelURL:  baseURL + "/account?subscribed=0",
	})
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "bad_gateway", "message": "Failed to create subscription checkout"})
	}

	return c.JSON(fiber.Map{
		"checkout_url": checkout.URL,
		"session_id":   checkout.ID,
	})
}

// HandleSubscribeCancel flags the caller's subscription to stop renewing at
// the period end. Entitlement stays until the provider confirms via webhook.
func HandleSubscribeCancel(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	svc := payments.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sub, err := svc.GetActiveSubscriptionForUser(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No active subscription"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscription"})
	}

	client := payments.NewStripeClientFromEnv()
	if err := client.CancelSubscriptionAtPeriodEnd(ctx, sub.ProviderSubscriptionID); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "bad_gateway", "message": "Failed to cancel subscription"})
	}

	// Mirror the flag locally right away; the webhook confirms it later.
	sub.CancelAtPeriodEnd = true
	if _, err := svc.SyncSubscription(ctx, payments.NormalizedSubscription{
		UserID:                 sub.UserID,
		Provider:               sub.Provider,
		ProviderSubscriptionID: sub.ProviderSubscriptionID,
		Plan:                   sub.Plan,
		Status:                 sub.Status,
		CurrentPeriodStart:     sub.CurrentPeriodStart,
		CurrentPeriodEnd:       sub.CurrentPeriodEnd,
		CancelAtPeriodEnd:      true,
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update subscription"})
	}

	_ = session.SetSessionValue(c, "user_plan", "")

	return c.JSON(fiber.Map{
		"status":               "cancellation_scheduled",
		"cancel_at_period_end": true,
		"current_period_end":   sub.CurrentPeriodEnd,
	})
}

// HandleGetSubscription returns the caller's current subscription state.
func HandleGetSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	svc := payments.NewServiceFromDB(database.GetDB())
	sub, err := svc.GetActiveSubscriptionForUser(context.Background(), userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"plan": "free"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscription"})
	}

	return c.JSON(fiber.Map{
		"plan":                 sub.Plan,
		"status":               sub.Status,
		"cancel_at_period_end": sub.CancelAtPeriodEnd,
		"current_period_end":   sub.CurrentPeriodEnd,
	})
}

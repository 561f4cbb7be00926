package controllers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelMarket/app/models"
	"github.com/ManuelReschke/PixelMarket/app/repository"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/database"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/env"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/mail"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/payments"
)

// HandleStripeWebhook ingests payment provider events. Processing is
// idempotent end to end: the event row is keyed on (provider, event id) and
// every order insert is keyed on the event id, so redelivery can never
// double-apply.
func HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("Stripe-Signature"))
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")

	signatureValid := payments.VerifyStripeWebhookSignature(rawBody, signature, secret, payments.DefaultSignatureTolerance, time.Now())

	event, parseErr := payments.ParseStripeEvent(rawBody)
	if parseErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid event payload"})
	}

	svc := payments.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	created, stored, err := svc.RecordWebhookEvent(ctx, payments.WebhookEventInput{
		Provider:        models.PaymentProviderStripe,
		ProviderEventID: event.ID,
		EventType:       event.Type,
		PayloadJSON:     string(rawBody),
		SignatureValid:  signatureValid,
	})
	if err != nil {
		log.Errorf("[Webhook] Failed to record event %s: %v", event.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to record event"})
	}

	if !signatureValid {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, fmt.Errorf("invalid signature"))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid signature"})
	}

	// Redelivery of an already processed event is acknowledged, not re-run.
	if !created && stored.ProcessedAt != nil && stored.ProcessingError == "" {
		return c.JSON(fiber.Map{"status": "duplicate"})
	}

	processErr := processStripeEvent(ctx, svc, event)
	_ = svc.MarkWebhookProcessed(ctx, stored.ID, processErr)
	if processErr != nil {
		log.Errorf("[Webhook] Processing %s (%s) failed: %v", event.ID, event.Type, processErr)
		// Non-2xx makes the provider redeliver; dedup handles the replay.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Event processing failed"})
	}

	return c.JSON(fiber.Map{"status": "processed"})
}

func processStripeEvent(ctx context.Context, svc *payments.Service, event *payments.StripeEvent) error {
	switch event.Type {
	case payments.EventCheckoutCompleted:
		completed, err := event.CheckoutCompleted()
		if err != nil {
			return err
		}
		if completed.Mode == "subscription" {
			return processSubscriptionCheckout(ctx, svc, event.ID, completed)
		}
		return processMarketplaceSale(ctx, svc, event.ID, completed)

	case payments.EventSubscriptionUpdated, payments.EventSubscriptionDeleted:
		sub, err := event.Subscription()
		if err != nil {
			return err
		}
		return processSubscriptionEvent(ctx, svc, event.Type, sub)

	default:
		log.Infof("[Webhook] Ignoring event type %s", event.Type)
		return nil
	}
}

func processMarketplaceSale(ctx context.Context, svc *payments.Service, eventID string, completed *payments.CheckoutCompletedEvent) error {
	listingID, ok := payments.MetadataUint(completed.Metadata, "listing_id")
	if !ok {
		return fmt.Errorf("listing_id missing from metadata")
	}
	buyerID, ok := payments.MetadataUint(completed.Metadata, "buyer_id")
	if !ok {
		return fmt.Errorf("buyer_id missing from metadata")
	}
	sellerID, ok := payments.MetadataUint(completed.Metadata, "seller_id")
	if !ok {
		return fmt.Errorf("seller_id missing from metadata")
	}
	commission, _ := payments.MetadataInt64(completed.Metadata, "commission_cents")

	order, createdOrder, err := svc.RecordMarketplaceSale(ctx, payments.SaleInput{
		ProviderEventID:   eventID,
		ProviderSessionID: completed.SessionID,
		ListingID:         listingID,
		BuyerID:           buyerID,
		SellerID:          sellerID,
		AmountPaidCents:   completed.AmountTotal,
		CommissionCents:   commission,
	})
	if err != nil {
		return err
	}
	if !createdOrder {
		return nil
	}

	log.Infof("[Webhook] Recorded sale: order %d, listing %d, buyer %d", order.ID, listingID, buyerID)

	// Follow-ups are best-effort; the order is already durable.
	db := database.GetDB()
	repos := repository.GetGlobalRepositories()

	listing, listingErr := repos.Listing.GetByID(listingID)
	buyer, buyerErr := repos.User.GetByID(buyerID)
	if listingErr == nil && buyerErr == nil {
		err := models.CreateNotification(db, sellerID, models.NotificationTypeSale, models.SaleData{
			ListingID:       listing.ID,
			ListingTitle:    listing.Title,
			BuyerName:       buyer.Name,
			AmountPaidCents: order.AmountPaidCents,
		})
		if err != nil {
			log.Errorf("[Webhook] Failed to notify seller %d: %v", sellerID, err)
		}
	}

	if err := models.RemoveFromWishlist(db, buyerID, listingID); err != nil {
		log.Errorf("[Webhook] Failed to clear wishlist entry for buyer %d: %v", buyerID, err)
	}

	if listingErr == nil {
		if seller, err := repos.User.GetByID(sellerID); err == nil {
			go func(email, title string) {
				subject := "You made a sale on PixelMarket"
				body := fmt.Sprintf("<p>Your asset <strong>%s</strong> was just purchased.</p>", title)
				if err := mail.SendMail(email, subject, body); err != nil {
					log.Warnf("[Webhook] Sale mail to %s failed: %v", email, err)
				}
			}(seller.Email, listing.Title)
		}
	}

	return nil
}

func processSubscriptionCheckout(ctx context.Context, svc *payments.Service, eventID string, completed *payments.CheckoutCompletedEvent) error {
	userID, ok := payments.MetadataUint(completed.Metadata, "user_id")
	if !ok {
		return fmt.Errorf("user_id missing from metadata")
	}

	if completed.SubscriptionID != "" {
		if _, err := svc.SyncSubscription(ctx, payments.NormalizedSubscription{
			UserID:                 userID,
			Provider:               models.PaymentProviderStripe,
			ProviderSubscriptionID: completed.SubscriptionID,
			Plan:                   models.SubscriptionPlanPremium,
			Status:                 models.SubscriptionStatusActive,
		}); err != nil {
			return err
		}
	}

	if completed.AmountTotal > 0 {
		if _, _, err := svc.RecordSubscriptionPayment(ctx, userID, completed.AmountTotal, eventID, completed.SessionID); err != nil {
			return err
		}
	}
	return nil
}

func processSubscriptionEvent(ctx context.Context, svc *payments.Service, eventType string, sub *payments.SubscriptionEvent) error {
	userID, ok := payments.MetadataUint(sub.Metadata, "user_id")
	if !ok {
		// Provider-initiated updates may carry no metadata; resolve locally.
		existing, err := svc.GetSubscriptionByProviderID(ctx, models.PaymentProviderStripe, sub.SubscriptionID)
		if err != nil {
			return fmt.Errorf("cannot resolve user for subscription %s: %w", sub.SubscriptionID, err)
		}
		userID = existing.UserID
	}

	status := strings.ToLower(sub.Status)
	if eventType == payments.EventSubscriptionDeleted {
		status = models.SubscriptionStatusCanceled
	}

	_, err := svc.SyncSubscription(ctx, payments.NormalizedSubscription{
		UserID:                 userID,
		Provider:               models.PaymentProviderStripe,
		ProviderSubscriptionID: sub.SubscriptionID,
		Plan:                   models.SubscriptionPlanPremium,
		Status:                 status,
		CurrentPeriodStart:     sub.CurrentPeriodStart,
		CurrentPeriodEnd:       sub.CurrentPeriodEnd,
		CancelAtPeriodEnd:      sub.CancelAtPeriodEnd,
	})
	return err
}

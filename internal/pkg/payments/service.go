package payments

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ManuelReschke/PixelMarket/app/models"
	"gorm.io/gorm"
)

// ErrAlreadyOwned is returned when a buyer already has an order for a listing.
var ErrAlreadyOwned = errors.New("listing already owned")

// Service persists payment state: webhook events, orders and subscriptions.
type Service struct {
	repo Repository
}

// NewService creates a payments service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a payments service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// RecordWebhookEvent persists webhook payloads idempotently. The returned
// bool is false when the event was seen before.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.PaymentWebhookEvent, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.PaymentWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}

// RecordMarketplaceSale inserts the order for a completed checkout. The
// insert is keyed on the provider event id, so a redelivered webhook can
// never produce a second order. Returns the order and whether it was new.
func (s *Service) RecordMarketplaceSale(ctx context.Context, in SaleInput) (*models.Order, bool, error) {
	_ = ctx
	if in.BuyerID == 0 || in.SellerID == 0 || in.ListingID == 0 {
		return nil, false, errors.New("buyer_id, seller_id and listing_id are required")
	}
	if strings.TrimSpace(in.ProviderEventID) == "" {
		return nil, false, errors.New("provider_event_id is required")
	}

	listingID := in.ListingID
	order := &models.Order{
		BuyerID:           in.BuyerID,
		SellerID:          in.SellerID,
		ListingID:         &listingID,
		Kind:              models.OrderKindMarketplace,
		AmountPaidCents:   in.AmountPaidCents,
		CommissionCents:   in.CommissionCents,
		Status:            models.OrderStatusComplete,
		ProviderSessionID: in.ProviderSessionID,
		ProviderEventID:   in.ProviderEventID,
	}
	created, err := s.repo.CreateOrderIfNotExists(order)
	if err != nil {
		return nil, false, err
	}
	return order, created, nil
}

// RecordSubscriptionPayment inserts a subscription-kind order so plan revenue
// shows up in the same ledger as marketplace sales. Keyed on the provider
// event id like every other order insert.
func (s *Service) RecordSubscriptionPayment(ctx context.Context, userID uint, amountCents int64, providerEventID, providerSessionID string) (*models.Order, bool, error) {
	_ = ctx
	if userID == 0 {
		return nil, false, errors.New("user_id is required")
	}
	if strings.TrimSpace(providerEventID) == "" {
		return nil, false, errors.New("provider_event_id is required")
	}

	order := &models.Order{
		BuyerID:           userID,
		SellerID:          0, // platform revenue, no counterparty seller
		Kind:              models.OrderKindSubscription,
		AmountPaidCents:   amountCents,
		Status:            models.OrderStatusComplete,
		ProviderSessionID: providerSessionID,
		ProviderEventID:   providerEventID,
	}
	created, err := s.repo.CreateOrderIfNotExists(order)
	if err != nil {
		return nil, false, err
	}
	return order, created, nil
}

// ClaimFreeListing inserts a zero-amount completed order for a free listing.
// A second claim by the same buyer returns ErrAlreadyOwned without writing.
func (s *Service) ClaimFreeListing(ctx context.Context, buyerID uint, listing *models.AssetListing) (*models.Order, error) {
	_ = ctx
	if listing == nil || !listing.IsFree() {
		return nil, errors.New("listing is not free")
	}

	owned, err := s.repo.HasOrder(buyerID, listing.ID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, ErrAlreadyOwned
	}

	listingID := listing.ID
	order := &models.Order{
		BuyerID:         buyerID,
		SellerID:        listing.SellerID,
		ListingID:       &listingID,
		Kind:            models.OrderKindMarketplace,
		AmountPaidCents: 0,
		CommissionCents: 0,
		Status:          models.OrderStatusComplete,
		ProviderEventID: freeClaimEventID(buyerID, listing.ID),
	}
	created, err := s.repo.CreateOrderIfNotExists(order)
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost a race against a concurrent claim for the same pair.
		return nil, ErrAlreadyOwned
	}
	return order, nil
}

// HasOrder reports whether the buyer already owns the listing.
func (s *Service) HasOrder(ctx context.Context, buyerID, listingID uint) (bool, error) {
	_ = ctx
	return s.repo.HasOrder(buyerID, listingID)
}

// SyncSubscription upserts provider subscription state into the local mirror.
func (s *Service) SyncSubscription(ctx context.Context, in NormalizedSubscription) (*models.Subscription, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if in.UserID == 0 || provider == "" || strings.TrimSpace(in.ProviderSubscriptionID) == "" {
		return nil, errors.New("user_id, provider and provider_subscription_id are required")
	}

	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = models.SubscriptionStatusActive
	}
	plan := strings.TrimSpace(in.Plan)
	if plan == "" {
		plan = models.SubscriptionPlanPremium
	}

	sub := &models.Subscription{
		UserID:                 in.UserID,
		Provider:               provider,
		ProviderSubscriptionID: strings.TrimSpace(in.ProviderSubscriptionID),
		Plan:                   plan,
		Status:                 status,
		CurrentPeriodStart:     in.CurrentPeriodStart,
		CurrentPeriodEnd:       in.CurrentPeriodEnd,
		CancelAtPeriodEnd:      in.CancelAtPeriodEnd,
		RawPayloadJSON:         in.RawPayloadJSON,
	}
	if err := s.repo.UpsertSubscription(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetSubscriptionByProviderID resolves a provider subscription id locally.
func (s *Service) GetSubscriptionByProviderID(ctx context.Context, provider, providerSubscriptionID string) (*models.Subscription, error) {
	_ = ctx
	return s.repo.GetSubscriptionByProviderID(provider, providerSubscriptionID)
}

// GetActiveSubscriptionForUser returns the user's newest entitling subscription.
func (s *Service) GetActiveSubscriptionForUser(ctx context.Context, userID uint) (*models.Subscription, error) {
	_ = ctx
	return s.repo.GetActiveSubscriptionForUser(userID)
}

// freeClaimEventID derives a synthetic, stable event id for free claims so
// the same unique constraint guards them as paid orders.
func freeClaimEventID(buyerID, listingID uint) string {
	key := fmt.Sprintf("free:%d:%d", buyerID, listingID)
	sum := sha256.Sum256([]byte(key))
	return "free:" + hex.EncodeToString(sum[:8])
}

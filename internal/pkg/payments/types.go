package payments

import "time"

// CheckoutInput describes a hosted checkout session for a marketplace sale.
// The identifiers travel as opaque metadata and come back on the webhook.
type CheckoutInput struct {
	ListingID       uint
	BuyerID         uint
	SellerID        uint
	AmountCents     int64
	CommissionCents int64
	Currency        string
	ProductName     string
	SuccessURL      string
	CancelURL       string
}

// SubscriptionCheckoutInput describes a hosted checkout for the premium plan.
type SubscriptionCheckoutInput struct {
	UserID     uint
	PriceRef   string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the provider's hosted session the buyer is sent to.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SaleInput is the normalized shape for persisting a completed sale.
type SaleInput struct {
	ProviderEventID   string
	ProviderSessionID string
	ListingID         uint
	BuyerID           uint
	SellerID          uint
	AmountPaidCents   int64
	CommissionCents   int64
}

// NormalizedSubscription is the provider-agnostic shape used when syncing
// external subscription state into local tables.
type NormalizedSubscription struct {
	UserID                 uint
	Provider               string
	ProviderSubscriptionID string
	Plan                   string
	Status                 string
	CurrentPeriodStart     *time.Time
	CurrentPeriodEnd       *time.Time
	CancelAtPeriodEnd      bool
	RawPayloadJSON         string
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}

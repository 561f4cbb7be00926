package models

import "time"

const (
	OrderKindMarketplace  = "marketplace"
	OrderKindSubscription = "subscription"

	OrderStatusComplete = "complete"
)

// Order is written exclusively by the payment webhook handler or the
// free-claim path, never directly by client-initiated writes. The unique
// provider_event_id makes webhook redelivery unable to double-insert.
type Order struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	BuyerID           uint      `gorm:"not null;index" json:"buyer_id"`
	SellerID          uint      `gorm:"not null;index" json:"seller_id"`
	ListingID         *uint     `gorm:"index" json:"listing_id,omitempty"`
	Kind              string    `gorm:"type:varchar(20);not null;default:'marketplace';index" json:"kind"`
	AmountPaidCents   int64     `gorm:"not null;default:0" json:"amount_paid_cents"`
	CommissionCents   int64     `gorm:"not null;default:0" json:"commission_cents"`
	Status            string    `gorm:"type:varchar(20);not null;default:'complete'" json:"status"`
	ProviderSessionID string    `gorm:"type:varchar(191);index" json:"-"`
	ProviderEventID   string    `gorm:"type:varchar(191);default:null;uniqueIndex:ux_orders_provider_event" json:"-"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// IsSubscription reports whether the order records a subscription payment.
func (o *Order) IsSubscription() bool {
	return o.Kind == OrderKindSubscription
}
